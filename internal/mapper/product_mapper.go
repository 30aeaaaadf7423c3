package mapper

import (
	"phone-store-be/internal/model"
	"phone-store-be/pkg/store"
)

type ProductMapper struct {
	normalize func(string) string
}

// NewProductMapper needs the query normalizer so stored columns match normalized patterns
func NewProductMapper(normalize func(string) string) *ProductMapper {
	return &ProductMapper{normalize: normalize}
}

func (m *ProductMapper) ToItem(p *model.Product) store.CatalogItem {
	item := store.CatalogItem{
		ID:       p.Sku,
		Name:     p.Name,
		Category: store.ProductType(p.Category),
		Price:    p.Price,
		Discount: p.Discount,
		Stock:    p.Stock,
		Specs: store.Specs{
			RAM:     p.Ram,
			Storage: p.Storage,
			Battery: p.Battery,
			Chipset: p.Chipset,
			Camera:  p.Camera,
			Screen:  p.Screen,
		},
		Rating: p.Rating,
		Sold:   p.Sold,
		Colors: append([]string(nil), p.Colors...),
	}
	if p.Brand != nil {
		item.BrandID = p.Brand.Id.String()
		item.BrandName = p.Brand.Name
	}
	for _, v := range p.ColorVariants {
		item.ColorVariants = append(item.ColorVariants, store.ColorVariant{
			Color:     v.Color,
			ColorCode: v.ColorCode,
			Stock:     v.Stock,
			Images:    v.Images,
			SKU:       v.Sku,
		})
	}
	return item
}

func (m *ProductMapper) ToItems(products []*model.Product) []store.CatalogItem {
	items := make([]store.CatalogItem, 0, len(products))
	for _, p := range products {
		items = append(items, m.ToItem(p))
	}
	return items
}

// ToModel fills the row for item; the brand association is resolved by the caller
func (m *ProductMapper) ToModel(item store.CatalogItem) *model.Product {
	p := &model.Product{
		Sku:               item.ID,
		Name:              item.Name,
		NormalizedName:    m.normalize(item.Name),
		Category:          string(item.Category),
		Price:             item.Price,
		Discount:          item.Discount,
		FinalPrice:        item.FinalPrice(),
		Stock:             item.Stock,
		TotalStock:        item.TotalStock(),
		Ram:               item.Specs.RAM,
		Storage:           item.Specs.Storage,
		Battery:           item.Specs.Battery,
		Chipset:           item.Specs.Chipset,
		NormalizedChipset: m.normalize(item.Specs.Chipset),
		Camera:            item.Specs.Camera,
		NormalizedCamera:  m.normalize(item.Specs.Camera),
		Screen:            item.Specs.Screen,
		Rating:            item.Rating,
		Sold:              item.Sold,
		Colors:            append([]string(nil), item.Colors...),
	}
	for _, v := range item.ColorVariants {
		p.ColorVariants = append(p.ColorVariants, model.ColorVariant{
			Color:     v.Color,
			ColorCode: v.ColorCode,
			Stock:     v.Stock,
			Images:    v.Images,
			Sku:       v.SKU,
		})
	}
	return p
}

// ToBrand builds the brand row of an item, nil when the item has no brand
func (m *ProductMapper) ToBrand(item store.CatalogItem) *model.Brand {
	if item.BrandName == "" {
		return nil
	}
	return &model.Brand{Name: item.BrandName, Slug: m.normalize(item.BrandName)}
}
