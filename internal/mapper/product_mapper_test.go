package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"phone-store-be/pkg/catalog/catalogtest"
	"phone-store-be/pkg/store"
	"phone-store-be/pkg/textnorm"
)

func TestProductMapperRoundTrip(t *testing.T) {
	m := NewProductMapper(textnorm.Default().Normalize)

	for _, item := range catalogtest.Items() {
		row := m.ToModel(item)
		assert.Equal(t, item.FinalPrice(), row.FinalPrice)
		assert.Equal(t, item.TotalStock(), row.TotalStock)
		assert.Equal(t, textnorm.Default().Normalize(item.Name), row.NormalizedName)

		if b := m.ToBrand(item); b != nil {
			row.Brand = b
		}
		back := m.ToItem(row)
		assert.Equal(t, item.ID, back.ID)
		assert.Equal(t, item.BrandName, back.BrandName)
		assert.Equal(t, item.ColorOptions(), back.ColorOptions())
		assert.Equal(t, item.Specs, back.Specs)
	}
}

func TestToBrandWithoutName(t *testing.T) {
	m := NewProductMapper(textnorm.Default().Normalize)
	assert.Nil(t, m.ToBrand(store.CatalogItem{Name: "No brand"}))
}
