// Package catalog defines the read-only catalog contract the engine searches against.
package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"phone-store-be/pkg/store"
)

// Store is the catalog collaborator. Implementations must be safe for concurrent reads.
// FindByID returns (nil, nil) when the item does not exist.
type Store interface {
	Find(ctx context.Context, filter Filter) ([]store.CatalogItem, error)
	FindByID(ctx context.Context, id string) (*store.CatalogItem, error)
}

// SortKey orders a filter result
type SortKey string

const (
	SortNone      SortKey = ""
	SortPopular   SortKey = "popular" // sold desc, rating desc
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
)

// Filter is a conjunction of conditions. Name patterns are regular expressions in the
// POSIX-compatible subset understood by both Go and Postgres, matched against the
// normalized product name.
type Filter struct {
	NamePatterns    []string // all must match
	AnyNamePatterns []string // at least one must match
	Brand           string   // normalized brand name
	Category        store.ProductType
	PriceMin        float64 // final price, VND
	PriceMax        float64
	MinRAM          int
	MinBattery      int
	StorageGB       int
	ChipsetPattern  string
	CameraPattern   string
	InStockOnly     bool

	// AnyOf holds alternative condition sets; an item must satisfy at least one
	AnyOf []Filter

	Sort  SortKey
	Limit int
}

// IsZero reports whether the filter has no condition at all
func (f Filter) IsZero() bool {
	return len(f.NamePatterns) == 0 && len(f.AnyNamePatterns) == 0 && f.Brand == "" &&
		f.Category == "" && f.PriceMin == 0 && f.PriceMax == 0 && f.MinRAM == 0 &&
		f.MinBattery == 0 && f.StorageGB == 0 && f.ChipsetPattern == "" &&
		f.CameraPattern == "" && !f.InStockOnly && len(f.AnyOf) == 0
}

// String renders the filter for logs
func (f Filter) String() string {
	var parts []string
	if len(f.NamePatterns) > 0 {
		parts = append(parts, fmt.Sprintf("name=%v", f.NamePatterns))
	}
	if len(f.AnyNamePatterns) > 0 {
		parts = append(parts, fmt.Sprintf("anyName=%v", f.AnyNamePatterns))
	}
	if f.Brand != "" {
		parts = append(parts, "brand="+f.Brand)
	}
	if f.Category != "" {
		parts = append(parts, "category="+string(f.Category))
	}
	if f.PriceMin > 0 || f.PriceMax > 0 {
		parts = append(parts, fmt.Sprintf("price=[%.0f,%.0f]", f.PriceMin, f.PriceMax))
	}
	if f.MinRAM > 0 {
		parts = append(parts, fmt.Sprintf("ram>=%d", f.MinRAM))
	}
	if f.MinBattery > 0 {
		parts = append(parts, fmt.Sprintf("battery>=%d", f.MinBattery))
	}
	if f.StorageGB > 0 {
		parts = append(parts, fmt.Sprintf("storage=%d", f.StorageGB))
	}
	if f.ChipsetPattern != "" {
		parts = append(parts, "chipset~"+f.ChipsetPattern)
	}
	if f.CameraPattern != "" {
		parts = append(parts, "camera~"+f.CameraPattern)
	}
	if f.InStockOnly {
		parts = append(parts, "inStock")
	}
	for i, alt := range f.AnyOf {
		parts = append(parts, fmt.Sprintf("or%d{%s}", i, alt.String()))
	}
	if f.Sort != SortNone {
		parts = append(parts, "sort="+string(f.Sort))
	}
	if f.Limit > 0 {
		parts = append(parts, fmt.Sprintf("limit=%d", f.Limit))
	}
	return strings.Join(parts, " ")
}

// NamePattern turns a normalized phrase into a whitespace-tolerant word pattern:
// "iphone 15" matches "iphone 15", "iphone15" and "iphone 15 pro" but not "iphone 150".
func NamePattern(phrase string) string {
	var parts []string
	for _, tok := range strings.Fields(phrase) {
		parts = append(parts, splitAlnum(tok)...)
	}
	if len(parts) == 0 {
		return ""
	}
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}

	last := parts[len(parts)-1]
	tail := `([^a-z]|$)`
	if unicode.IsDigit(rune(last[len(last)-1])) {
		tail = `([^0-9]|$)`
	}
	return `(^|[^a-z0-9])` + strings.Join(parts, `\s*`) + tail
}

// splitAlnum splits a token at letter/digit boundaries: "s24" -> "s", "24"
func splitAlnum(tok string) []string {
	var out []string
	start := 0
	rs := []rune(tok)
	for i := 1; i < len(rs); i++ {
		if unicode.IsDigit(rs[i]) != unicode.IsDigit(rs[i-1]) {
			out = append(out, string(rs[start:i]))
			start = i
		}
	}
	return append(out, string(rs[start:]))
}
