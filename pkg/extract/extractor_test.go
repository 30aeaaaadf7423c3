package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phone-store-be/pkg/store"
	"phone-store-be/pkg/textnorm"
)

func TestExtract(t *testing.T) {
	x := New(textnorm.Default(), nil)

	tests := []struct {
		name string
		in   string
		want Entity
	}{
		{
			name: "iphone with slang variant",
			in:   "ip 15 prm 256GB còn không",
			want: Entity{Brand: "apple", Model: "iphone 15", Variant: "pro max", StorageGB: 256, ProductType: store.ProductTypePhone},
		},
		{
			name: "iphone pm alias",
			in:   "iphone 14 pm",
			want: Entity{Brand: "apple", Model: "iphone 14", Variant: "pro max", ProductType: store.ProductTypePhone},
		},
		{
			name: "bare iphone model",
			in:   "iPhone 15",
			want: Entity{Brand: "apple", Model: "iphone 15", ProductType: store.ProductTypePhone},
		},
		{
			name: "foldable before generic samsung",
			in:   "Samsung Galaxy Z Fold 5 giá bao nhiêu",
			want: Entity{Brand: "samsung", Model: "z fold 5", ProductType: store.ProductTypePhone},
		},
		{
			name: "samsung series with variant",
			in:   "galaxy s24 ultra 1tb",
			want: Entity{Brand: "samsung", Model: "s24", Variant: "ultra", StorageGB: 1024, ProductType: store.ProductTypePhone},
		},
		{
			name: "plus sign variant",
			in:   "Redmi Note 13 Pro+",
			want: Entity{Brand: "xiaomi", Model: "redmi note 13", Variant: "pro plus", ProductType: store.ProductTypePhone},
		},
		{
			name: "oppo a series is not samsung",
			in:   "oppo a79",
			want: Entity{Brand: "oppo", Model: "a79", ProductType: store.ProductTypePhone},
		},
		{
			name: "ipad short-circuits to tablet",
			in:   "ipad air cho iphone",
			want: Entity{Brand: "apple", Model: "ipad air", ProductType: store.ProductTypeTablet},
		},
		{
			name: "accessory with brand keyword",
			in:   "ốp lưng samsung",
			want: Entity{Brand: "samsung", ProductType: store.ProductTypeAccessory},
		},
		{
			name: "brand keyword only",
			in:   "điện thoại xiaomi dưới 5 triệu",
			want: Entity{Brand: "xiaomi", ProductType: store.ProductTypePhone},
		},
		{
			name: "bare brand stays untyped",
			in:   "samsung",
			want: Entity{Brand: "samsung"},
		},
		{
			name: "charger with brand",
			in:   "Sạc nhanh Samsung 25W",
			want: Entity{Brand: "samsung", ProductType: store.ProductTypeAccessory},
		},
		{
			name: "model token heuristic",
			in:   "con a55 còn hàng không",
			want: Entity{Model: "a55"},
		},
		{
			name: "generic words are not model tokens",
			in:   "máy 5g 10tr trả góp 12 tháng",
			want: Entity{},
		},
		{
			name: "ram is not storage",
			in:   "máy 8gb ram 256gb",
			want: Entity{StorageGB: 256},
		},
		{
			name: "gaming slang yields no entity",
			in:   "máy chơi game",
			want: Entity{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, x.Extract(tt.in))
		})
	}
}

func TestEntityIsEmpty(t *testing.T) {
	assert.True(t, Entity{}.IsEmpty())
	assert.False(t, Entity{StorageGB: 128}.IsEmpty())
	assert.False(t, Entity{Model: "a55"}.IsEmpty())
	assert.Equal(t, "iphone 15 pro max", Entity{Model: "iphone 15", Variant: "pro max"}.ModelPhrase())
}

func TestCanonicalVariant(t *testing.T) {
	x := New(nil, nil)
	for in, want := range map[string]string{
		"prm":      "pro max",
		"PMAX":     "pro max",
		"pro  max": "pro max",
		"promax":   "pro max",
		"+":        "plus",
		"ultra":    "ultra",
		"":         "",
		"neo":      "neo",
	} {
		assert.Equal(t, want, x.CanonicalVariant(in), "variant %q", in)
	}
}

func TestLexiconExtendsExtractor(t *testing.T) {
	lex, err := textnorm.ParseLexicon([]byte(`
variant_aliases:
  "pmx": "pro max"
brand_keywords:
  "tecno": "tecno"
`))
	require.NoError(t, err)

	x := New(textnorm.New(lex), lex)
	assert.Equal(t, "pro max", x.CanonicalVariant("pmx"))

	brand, ok := x.DetectBrand("dien thoai tecno")
	require.True(t, ok)
	assert.Equal(t, "tecno", brand)
}

func TestParsePreferences(t *testing.T) {
	n := textnorm.Default()

	tests := []struct {
		name string
		in   string
		want Preferences
	}{
		{"budget ceiling", "samsung dưới 10 triệu", Preferences{BudgetMillion: 10}},
		{"compact unit", "tầm 8.5tr", Preferences{BudgetMillion: 8.5}},
		{"slang unit", "khoảng 7 củ", Preferences{BudgetMillion: 7}},
		{"thousands", "9000k đổ lại", Preferences{BudgetMillion: 9}},
		{"raw vnd", "15.990.000đ", Preferences{BudgetMillion: 15.99}},
		{"price floor", "trên 20 triệu", Preferences{MinPriceMillion: 20}},
		{"gaming slang", "máy chơi game", Preferences{Features: []string{FeatureGaming}}},
		{"several features sorted", "pin trâu chụp ảnh đẹp giá rẻ 5G", Preferences{
			Features: []string{Feature5G, FeatureBattery, FeatureCamera, FeatureCheap},
		}},
		{"nothing", "xin chào shop", Preferences{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePreferences(n.Normalize(tt.in))
			assert.InDelta(t, tt.want.BudgetMillion, got.BudgetMillion, 1e-9)
			assert.InDelta(t, tt.want.MinPriceMillion, got.MinPriceMillion, 1e-9)
			assert.Equal(t, tt.want.Features, got.Features)
		})
	}
}
