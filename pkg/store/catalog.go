package store

// ProductType is the coarse catalog category a product belongs to
type ProductType string

const (
	ProductTypePhone     ProductType = "phone"
	ProductTypeTablet    ProductType = "tablet"
	ProductTypeAccessory ProductType = "accessory"
)

// ColorVariant is the rich per-color record of a catalog item
type ColorVariant struct {
	Color     string   `json:"color"`
	ColorCode string   `json:"color_code,omitempty"`
	Stock     int      `json:"stock"`
	Images    []string `json:"images,omitempty"`
	SKU       string   `json:"sku,omitempty"`
}

// Specs holds the technical fields the feature filters work on.
// RAM and Storage are in GB, Battery in mAh.
type Specs struct {
	RAM     int    `json:"ram"`
	Storage int    `json:"storage"`
	Battery int    `json:"battery"`
	Chipset string `json:"chipset,omitempty"`
	Camera  string `json:"camera,omitempty"`
	Screen  string `json:"screen,omitempty"`
}

// CatalogItem is a read-only view of a product owned by the catalog store
type CatalogItem struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	BrandID   string      `json:"brand_id,omitempty"`
	BrandName string      `json:"brand_name,omitempty"`
	Category  ProductType `json:"category"`
	Price     float64     `json:"price"`
	Discount  int         `json:"discount"`
	Stock     int         `json:"stock"`
	Specs     Specs       `json:"specs"`
	Rating    float64     `json:"rating"`
	Sold      int         `json:"sold"`

	// Legacy flat color list. Ignored for color answers whenever ColorVariants is set.
	Colors        []string       `json:"colors,omitempty"`
	ColorVariants []ColorVariant `json:"color_variants,omitempty"`
}

// ColorOption is one answerable color of an item
type ColorOption struct {
	Name       string `json:"name"`
	Code       string `json:"code,omitempty"`
	Stock      int    `json:"stock"`
	StockKnown bool   `json:"stock_known"` // false when the color came from the legacy list
	InStock    bool   `json:"in_stock"`
}

// ColorOptions returns the colors of the item.
// Rich variant records take precedence over the legacy list; legacy colors only
// inherit the item-level stock.
func (c CatalogItem) ColorOptions() []ColorOption {
	if len(c.ColorVariants) > 0 {
		options := make([]ColorOption, 0, len(c.ColorVariants))
		for _, v := range c.ColorVariants {
			options = append(options, ColorOption{
				Name:       v.Color,
				Code:       v.ColorCode,
				Stock:      v.Stock,
				StockKnown: true,
				InStock:    v.Stock > 0,
			})
		}
		return options
	}

	options := make([]ColorOption, 0, len(c.Colors))
	for _, name := range c.Colors {
		options = append(options, ColorOption{
			Name:    name,
			Stock:   c.Stock,
			InStock: c.Stock > 0,
		})
	}
	return options
}

// HasRichColors reports whether per-color records are available
func (c CatalogItem) HasRichColors() bool {
	return len(c.ColorVariants) > 0
}

// TotalStock is the sum of per-color stock when known, the item stock otherwise
func (c CatalogItem) TotalStock() int {
	if len(c.ColorVariants) == 0 {
		return c.Stock
	}
	total := 0
	for _, v := range c.ColorVariants {
		total += v.Stock
	}
	return total
}

// InStock reports whether at least one unit can be sold
func (c CatalogItem) InStock() bool {
	return c.TotalStock() > 0
}

// FinalPrice applies the discount percent to the list price
func (c CatalogItem) FinalPrice() float64 {
	if c.Discount <= 0 || c.Discount >= 100 {
		return c.Price
	}
	return c.Price * float64(100-c.Discount) / 100
}

// Summary builds the lightweight reference stored in conversation context
func (c CatalogItem) Summary() ProductSummary {
	return ProductSummary{
		ID:    c.ID,
		Name:  c.Name,
		Brand: c.BrandName,
		Price: c.FinalPrice(),
	}
}

// ProductSummary is the weak reference to a catalog item kept in session state.
// Only the ID is authoritative; the rest is display data captured at resolve time.
type ProductSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Brand string  `json:"brand,omitempty"`
	Price float64 `json:"price"`
}
