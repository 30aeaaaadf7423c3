package specification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"phone-store-be/internal/model"
	"phone-store-be/pkg/catalog"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestProductFilterSQL(t *testing.T) {
	db := dryRunDB(t)

	tests := []struct {
		name     string
		filter   catalog.Filter
		contains []string
		vars     int
	}{
		{
			name:     "empty filter has no where clause",
			filter:   catalog.Filter{},
			contains: []string{`SELECT * FROM "products"`},
		},
		{
			name:     "name and brand",
			filter:   catalog.Filter{NamePatterns: []string{catalog.NamePattern("iphone 15")}, Brand: "apple"},
			contains: []string{"products.normalized_name ~ $1", "slug = $2"},
			vars:     2,
		},
		{
			name:     "budget and stock",
			filter:   catalog.Filter{PriceMax: 10_000_000, InStockOnly: true},
			contains: []string{"products.final_price <= $1", "products.total_stock > 0"},
			vars:     1,
		},
		{
			name: "alternatives are or-ed",
			filter: catalog.Filter{AnyOf: []catalog.Filter{
				{MinRAM: 8},
				{ChipsetPattern: "snapdragon 8"},
			}},
			contains: []string{"products.ram >= $1 OR", "products.normalized_chipset ~ $2"},
			vars:     2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows []model.Product
			stmt := ProductFilter{Filter: tt.filter}.Apply(db.Model(&model.Product{})).Find(&rows).Statement
			sql := stmt.SQL.String()
			for _, c := range tt.contains {
				assert.Contains(t, sql, c)
			}
			assert.Len(t, stmt.Vars, tt.vars)
		})
	}
}

func TestProductOrderSQL(t *testing.T) {
	db := dryRunDB(t)
	var rows []model.Product
	stmt := ProductOrder{Sort: catalog.SortPopular, Limit: 5}.Apply(db.Model(&model.Product{})).Find(&rows).Statement
	sql := stmt.SQL.String()
	assert.Contains(t, sql, "products.sold DESC")
	assert.Contains(t, sql, "products.rating DESC")
	assert.Contains(t, sql, "LIMIT")
}
