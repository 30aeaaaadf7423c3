package specification

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"phone-store-be/pkg/catalog"
)

// ProductFilter translates a catalog filter into SQL on the products table.
// Name, chipset and camera patterns run through the Postgres "~" operator against the
// normalized columns, so they behave like the in-process matcher.
type ProductFilter struct {
	Filter catalog.Filter
}

func (s ProductFilter) Apply(db *gorm.DB) *gorm.DB {
	where, args := conditions(s.Filter)
	if where != "" {
		db = db.Where(where, args...)
	}
	return db
}

// conditions renders the filter as one parenthesized SQL expression
func conditions(f catalog.Filter) (string, []interface{}) {
	var parts []string
	var args []interface{}
	add := func(expr string, a ...interface{}) {
		parts = append(parts, expr)
		args = append(args, a...)
	}

	for _, p := range f.NamePatterns {
		add("products.normalized_name ~ ?", p)
	}
	if len(f.AnyNamePatterns) > 0 {
		ors := make([]string, len(f.AnyNamePatterns))
		for i, p := range f.AnyNamePatterns {
			ors[i] = "products.normalized_name ~ ?"
			args = append(args, p)
		}
		parts = append(parts, "("+strings.Join(ors, " OR ")+")")
	}
	if f.Brand != "" {
		add("products.brand_id IN (SELECT id FROM brands WHERE slug = ?)", f.Brand)
	}
	if f.Category != "" {
		add("products.category = ?", string(f.Category))
	}
	if f.PriceMin > 0 {
		add("products.final_price >= ?", f.PriceMin)
	}
	if f.PriceMax > 0 {
		add("products.final_price <= ?", f.PriceMax)
	}
	if f.MinRAM > 0 {
		add("products.ram >= ?", f.MinRAM)
	}
	if f.MinBattery > 0 {
		add("products.battery >= ?", f.MinBattery)
	}
	if f.StorageGB > 0 {
		add("products.storage = ?", f.StorageGB)
	}
	if f.ChipsetPattern != "" {
		add("products.normalized_chipset ~ ?", f.ChipsetPattern)
	}
	if f.CameraPattern != "" {
		add("products.normalized_camera ~ ?", f.CameraPattern)
	}
	if f.InStockOnly {
		parts = append(parts, "products.total_stock > 0")
	}
	if len(f.AnyOf) > 0 {
		ors := make([]string, 0, len(f.AnyOf))
		for _, alt := range f.AnyOf {
			expr, altArgs := conditions(alt)
			if expr == "" {
				// an empty alternative admits everything
				ors = nil
				break
			}
			ors = append(ors, expr)
			args = append(args, altArgs...)
		}
		if len(ors) > 0 {
			parts = append(parts, "("+strings.Join(ors, " OR ")+")")
		}
	}

	if len(parts) == 0 {
		return "", nil
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " AND ")), args
}

// ProductOrder applies the filter's sort key and limit
type ProductOrder struct {
	Sort  catalog.SortKey
	Limit int
}

func (s ProductOrder) Apply(db *gorm.DB) *gorm.DB {
	switch s.Sort {
	case catalog.SortPopular:
		db = db.Order("products.sold DESC").Order("products.rating DESC")
	case catalog.SortPriceAsc:
		db = db.Order("products.final_price ASC")
	case catalog.SortPriceDesc:
		db = db.Order("products.final_price DESC")
	}
	// catalog order breaks ties
	db = db.Order("products.created_at ASC").Order("products.sku ASC")
	if s.Limit > 0 {
		db = db.Limit(s.Limit)
	}
	return db
}

// BySku matches one catalog id
type BySku struct {
	Sku string
}

func (s BySku) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("products.sku = ?", s.Sku)
}
