package extract

import (
	"strconv"
	"strings"

	"phone-store-be/pkg/store"
)

// Entity is the structured product intent found in a message.
// Every field is optional; Model and Variant are in normalized (lowercase, unaccented) form.
type Entity struct {
	Brand       string            `json:"brand,omitempty"`
	Model       string            `json:"model,omitempty"`
	Variant     string            `json:"variant,omitempty"`
	StorageGB   int               `json:"storage_gb,omitempty"`
	ProductType store.ProductType `json:"product_type,omitempty"`
}

// IsEmpty reports that no structured intent was found
func (e Entity) IsEmpty() bool {
	return e.Brand == "" && e.Model == "" && e.Variant == "" && e.StorageGB == 0 && e.ProductType == ""
}

// MentionsProduct reports whether the message names a brand or a model
func (e Entity) MentionsProduct() bool {
	return e.Brand != "" || e.Model != ""
}

// ModelPhrase is the model followed by its variant, e.g. "iphone 15 pro max"
func (e Entity) ModelPhrase() string {
	return strings.TrimSpace(e.Model + " " + e.Variant)
}

// String renders the entity for logs
func (e Entity) String() string {
	if e.IsEmpty() {
		return "<empty>"
	}
	parts := make([]string, 0, 5)
	if e.Brand != "" {
		parts = append(parts, "brand="+e.Brand)
	}
	if e.Model != "" {
		parts = append(parts, "model="+e.Model)
	}
	if e.Variant != "" {
		parts = append(parts, "variant="+e.Variant)
	}
	if e.StorageGB > 0 {
		parts = append(parts, "storage="+strconv.Itoa(e.StorageGB)+"gb")
	}
	if e.ProductType != "" {
		parts = append(parts, "type="+string(e.ProductType))
	}
	return strings.Join(parts, " ")
}
