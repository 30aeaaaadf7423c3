package implementation

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"phone-store-be/internal/mapper"
	"phone-store-be/internal/model"
	"phone-store-be/internal/repository/contract"
	"phone-store-be/internal/repository/specification"
	"phone-store-be/pkg/catalog"
	"phone-store-be/pkg/store"
)

type CatalogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProductMapper
}

func NewCatalogRepository(db *gorm.DB, normalize func(string) string) contract.CatalogRepository {
	return &CatalogRepositoryImpl{
		db:     db,
		mapper: mapper.NewProductMapper(normalize),
	}
}

func (r *CatalogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CatalogRepositoryImpl) Find(ctx context.Context, f catalog.Filter) ([]store.CatalogItem, error) {
	var rows []*model.Product
	query := r.applySpecifications(
		r.db.WithContext(ctx).Model(&model.Product{}).Preload("Brand"),
		specification.ProductFilter{Filter: f},
		specification.ProductOrder{Sort: f.Sort, Limit: f.Limit},
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, store.Unavailable("catalog", "find", err)
	}
	return r.mapper.ToItems(rows), nil
}

func (r *CatalogRepositoryImpl) FindByID(ctx context.Context, id string) (*store.CatalogItem, error) {
	var row model.Product
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("Brand"), specification.BySku{Sku: id})
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, store.Unavailable("catalog", "find_by_id", err)
	}
	item := r.mapper.ToItem(&row)
	return &item, nil
}

func (r *CatalogRepositoryImpl) All(ctx context.Context) ([]store.CatalogItem, error) {
	return r.Find(ctx, catalog.Filter{})
}

func (r *CatalogRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error; err != nil {
		return 0, store.Unavailable("catalog", "count", err)
	}
	return n, nil
}

// Upsert writes items keyed by their catalog id inside one transaction
func (r *CatalogRepositoryImpl) Upsert(ctx context.Context, items []store.CatalogItem) (int, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		brands := make(map[string]*model.Brand)
		for _, item := range items {
			row := r.mapper.ToModel(item)

			// 1. Brand by slug
			if b := r.mapper.ToBrand(item); b != nil {
				known, ok := brands[b.Slug]
				if !ok {
					if err := tx.Where(model.Brand{Slug: b.Slug}).Attrs(model.Brand{Name: b.Name}).FirstOrCreate(b).Error; err != nil {
						return fmt.Errorf("upsert brand %s: %w", b.Slug, err)
					}
					brands[b.Slug] = b
					known = b
				}
				row.BrandId = &known.Id
			}

			// 2. Product by sku
			err := tx.Omit("Brand").Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "sku"}},
				DoUpdates: clause.AssignmentColumns(upsertColumns),
			}).Create(row).Error
			if err != nil {
				return fmt.Errorf("upsert product %s: %w", item.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

var upsertColumns = []string{
	"name", "normalized_name", "brand_id", "category", "price", "discount", "final_price",
	"stock", "total_stock", "ram", "storage", "battery", "chipset", "normalized_chipset",
	"camera", "normalized_camera", "screen", "rating", "sold", "colors", "color_variants",
	"updated_at",
}
