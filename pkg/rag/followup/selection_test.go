package followup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phone-store-be/pkg/store"
	"phone-store-be/pkg/textnorm"
)

func TestParseNumber(t *testing.T) {
	n := textnorm.Default()
	tests := []struct {
		message string
		ok      bool
		value   float64
		unit    string
		sep     bool
	}{
		{"2", true, 2, "", false},
		{"số 3", true, 3, "", false},
		{"chọn cái 1", false, 0, "", false},
		{"15.990.000", true, 15_990_000, "", true},
		{"15,990,000đ", true, 15_990_000, "d", true},
		{"22.99 triệu", true, 22.99, "trieu", false},
		{"23tr", true, 23, "tr", false},
		{"iphone 15", false, 0, "", false},
		{"cái thứ hai", false, 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, ok := ParseNumber(n.Normalize(tt.message))
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.value, got.Value, 1e-9)
			assert.Equal(t, tt.unit, got.Unit)
			assert.Equal(t, tt.sep, got.Separated)
		})
	}
}

func TestSelect(t *testing.T) {
	options := []store.ProductSummary{
		{ID: "a", Name: "Galaxy A55", Price: 9_990_000},
		{ID: "b", Name: "Galaxy S24 Ultra", Price: 26_991_000},
		{ID: "c", Name: "Galaxy Z Fold5", Price: 40_990_000},
		{ID: "d", Name: "Galaxy A55 cũ", Price: 9_990_000},
	}
	n := textnorm.Default()

	tests := []struct {
		name    string
		message string
		want    string
		ok      bool
	}{
		{"index wins", "2", "b", true},
		{"last index", "4", "d", true},
		{"index out of range", "7", "", false},
		{"zero is not an index", "0", "", false},
		{"exact full price", "40.990.000", "c", true},
		{"price in millions", "26,991 triệu", "b", true},
		{"unseparated price", "26991000", "b", true},
		{"price shared by two options", "9.990.000", "", false},
		{"price matching nothing", "12 triệu", "", false},
		{"huge number", "99999999999999999999", "", false},
		{"beyond any list", "100", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			num, ok := ParseNumber(n.Normalize(tt.message))
			require.True(t, ok)
			idx, ok := Select(num, options)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, options[idx].ID)
			}
		})
	}
}

func TestIndexBounds(t *testing.T) {
	tests := []struct {
		value float64
		ok    bool
	}{
		{1, true},
		{99, true},
		{100, false},
		{1e20, false},
		{-3, false},
	}
	for _, tt := range tests {
		idx, ok := Number{Value: tt.value}.Index()
		assert.Equal(t, tt.ok, ok, "value %v", tt.value)
		if ok {
			assert.Equal(t, int(tt.value), idx)
		}
	}
}
