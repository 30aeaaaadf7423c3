// Package catalogtest provides a small phone catalog and failing stores for tests.
package catalogtest

import (
	"context"
	"errors"

	"phone-store-be/pkg/catalog"
	"phone-store-be/pkg/store"
	"phone-store-be/pkg/textnorm"
)

// IDs of the fixture items
const (
	IPhone15        = "p-ip15"
	IPhone15ProMax  = "p-ip15pm"
	IPhone15Pink    = "p-ip15-pink"
	GalaxyS24Ultra  = "p-s24u"
	GalaxyA55       = "p-a55"
	GalaxyZFold5    = "p-zfold5"
	RedmiNote13PPlu = "p-rn13pp"
	Redmi13C        = "p-r13c"
	OppoA79         = "p-a79"
	IPadAir         = "t-ipadair"
	AirPodsPro2     = "a-airpodspro2"
	IPhone15Case    = "a-ip15case"
)

// Items returns a fresh copy of the fixture catalog
func Items() []store.CatalogItem {
	return []store.CatalogItem{
		{
			ID: IPhone15, Name: "iPhone 15", BrandID: "b-apple", BrandName: "Apple",
			Category: store.ProductTypePhone, Price: 22_990_000, Stock: 5,
			Specs:  store.Specs{RAM: 6, Storage: 128, Battery: 3349, Chipset: "A16 Bionic", Camera: "48MP"},
			Rating: 4.8, Sold: 1200,
			Colors: []string{"Đen", "Trắng", "Xanh"},
			ColorVariants: []store.ColorVariant{
				{Color: "Đen", ColorCode: "#1f2020", Stock: 5, SKU: "IP15-BLK"},
				{Color: "Trắng", ColorCode: "#f9f6ef", Stock: 0, SKU: "IP15-WHT"},
			},
		},
		{
			ID: IPhone15ProMax, Name: "iPhone 15 Pro Max", BrandID: "b-apple", BrandName: "Apple",
			Category: store.ProductTypePhone, Price: 34_990_000, Stock: 7,
			Specs:  store.Specs{RAM: 8, Storage: 256, Battery: 4441, Chipset: "A17 Pro", Camera: "48MP"},
			Rating: 4.9, Sold: 2500,
			Colors: []string{"Titan Tự Nhiên", "Titan Đen"},
		},
		{
			ID: IPhone15Pink, Name: "iPhone 15 Hồng", BrandID: "b-apple", BrandName: "Apple",
			Category: store.ProductTypePhone, Price: 22_490_000, Stock: 2,
			Specs:  store.Specs{RAM: 6, Storage: 128, Battery: 3349, Chipset: "A16 Bionic", Camera: "48MP"},
			Rating: 4.6, Sold: 100,
			Colors: []string{"Hồng"},
		},
		{
			ID: GalaxyS24Ultra, Name: "Samsung Galaxy S24 Ultra", BrandID: "b-samsung", BrandName: "Samsung",
			Category: store.ProductTypePhone, Price: 29_990_000, Discount: 10, Stock: 4,
			Specs:  store.Specs{RAM: 12, Storage: 256, Battery: 5000, Chipset: "Snapdragon 8 Gen 3", Camera: "200MP"},
			Rating: 4.8, Sold: 900,
			ColorVariants: []store.ColorVariant{
				{Color: "Titan Xám", ColorCode: "#8c8c8c", Stock: 4, SKU: "S24U-GRY"},
			},
		},
		{
			ID: GalaxyA55, Name: "Samsung Galaxy A55 5G", BrandID: "b-samsung", BrandName: "Samsung",
			Category: store.ProductTypePhone, Price: 9_990_000, Stock: 20,
			Specs:  store.Specs{RAM: 8, Storage: 128, Battery: 5000, Chipset: "Exynos 1480", Camera: "50MP"},
			Rating: 4.6, Sold: 1500,
			Colors: []string{"Xanh Navy", "Tím"},
		},
		{
			ID: GalaxyZFold5, Name: "Samsung Galaxy Z Fold5", BrandID: "b-samsung", BrandName: "Samsung",
			Category: store.ProductTypePhone, Price: 40_990_000, Stock: 2,
			Specs:  store.Specs{RAM: 12, Storage: 256, Battery: 4400, Chipset: "Snapdragon 8 Gen 2", Camera: "50MP"},
			Rating: 4.7, Sold: 200,
		},
		{
			ID: RedmiNote13PPlu, Name: "Xiaomi Redmi Note 13 Pro Plus", BrandID: "b-xiaomi", BrandName: "Xiaomi",
			Category: store.ProductTypePhone, Price: 10_490_000, Stock: 15,
			Specs:  store.Specs{RAM: 8, Storage: 256, Battery: 5000, Chipset: "Dimensity 7200 Ultra", Camera: "200MP"},
			Rating: 4.6, Sold: 800,
		},
		{
			ID: Redmi13C, Name: "Xiaomi Redmi 13C", BrandID: "b-xiaomi", BrandName: "Xiaomi",
			Category: store.ProductTypePhone, Price: 3_290_000, Stock: 30,
			Specs:  store.Specs{RAM: 4, Storage: 128, Battery: 5000, Chipset: "Helio G85", Camera: "50MP"},
			Rating: 4.5, Sold: 3000,
		},
		{
			ID: OppoA79, Name: "OPPO A79 5G", BrandID: "b-oppo", BrandName: "OPPO",
			Category: store.ProductTypePhone, Price: 6_490_000, Stock: 0,
			Specs:  store.Specs{RAM: 6, Storage: 128, Battery: 5000, Chipset: "Dimensity 6020", Camera: "50MP"},
			Rating: 4.4, Sold: 400,
		},
		{
			ID: IPadAir, Name: "iPad Air M2", BrandID: "b-apple", BrandName: "Apple",
			Category: store.ProductTypeTablet, Price: 16_990_000, Stock: 5,
			Specs:  store.Specs{RAM: 8, Storage: 128, Chipset: "Apple M2"},
			Rating: 4.8, Sold: 300,
		},
		{
			ID: AirPodsPro2, Name: "AirPods Pro 2", BrandID: "b-apple", BrandName: "Apple",
			Category: store.ProductTypeAccessory, Price: 5_990_000, Stock: 50,
			Rating: 4.9, Sold: 1000,
		},
		{
			ID: IPhone15Case, Name: "Ốp lưng iPhone 15", BrandID: "b-apple", BrandName: "Apple",
			Category: store.ProductTypeAccessory, Price: 290_000, Stock: 100,
			Rating: 4.2, Sold: 2000,
		},
	}
}

// Store returns an in-process catalog over the fixture
func Store() *catalog.StaticStore {
	return catalog.NewStaticStore(Items(), textnorm.Default().Normalize)
}

// ErrDown is what FailingStore returns
var ErrDown = errors.New("catalog connection refused")

// FailingStore fails every call
type FailingStore struct{}

func (FailingStore) Find(context.Context, catalog.Filter) ([]store.CatalogItem, error) {
	return nil, ErrDown
}

func (FailingStore) FindByID(context.Context, string) (*store.CatalogItem, error) {
	return nil, ErrDown
}
