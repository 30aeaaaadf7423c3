package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Brand struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Slug      string    `gorm:"type:varchar(100);not null;uniqueIndex"` // normalized name
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Brand) TableName() string {
	return "brands"
}

// Product is one sellable catalog row. The normalized_* columns hold the
// diacritic-free lowercase text that regex filters run against.
type Product struct {
	Id                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Sku               string     `gorm:"type:varchar(100);not null;uniqueIndex"` // catalog id
	Name              string     `gorm:"type:varchar(255);not null"`
	NormalizedName    string     `gorm:"type:varchar(255);not null;index"`
	BrandId           *uuid.UUID `gorm:"type:uuid;index"`
	Brand             *Brand     `gorm:"foreignKey:BrandId"`
	Category          string     `gorm:"type:varchar(30);not null;index"`
	Price             float64    `gorm:"type:numeric(14,0);not null"`
	Discount          int        `gorm:"not null;default:0"`
	FinalPrice        float64    `gorm:"type:numeric(14,0);not null;index"`
	Stock             int        `gorm:"not null;default:0"`
	TotalStock        int        `gorm:"not null;default:0;index"`
	Ram               int        `gorm:"not null;default:0"`
	Storage           int        `gorm:"not null;default:0"`
	Battery           int        `gorm:"not null;default:0"`
	Chipset           string     `gorm:"type:varchar(100)"`
	NormalizedChipset string     `gorm:"type:varchar(100)"`
	Camera            string     `gorm:"type:varchar(255)"`
	NormalizedCamera  string     `gorm:"type:varchar(255)"`
	Screen            string     `gorm:"type:varchar(255)"`
	Rating            float64    `gorm:"type:numeric(3,2);not null;default:0"`
	Sold              int        `gorm:"not null;default:0;index"`
	Colors            datatypes.JSONSlice[string]
	ColorVariants     datatypes.JSONSlice[ColorVariant]
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

// ColorVariant is stored inside the color_variants JSON column
type ColorVariant struct {
	Color     string   `json:"color"`
	ColorCode string   `json:"color_code,omitempty"`
	Stock     int      `json:"stock"`
	Images    []string `json:"images,omitempty"`
	Sku       string   `json:"sku,omitempty"`
}
