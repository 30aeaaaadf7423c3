package followup

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"phone-store-be/pkg/store"
)

// Number is a purely numeric or price-shaped message
type Number struct {
	Raw       string
	Value     float64 // as written, separators removed
	Unit      string  // "", "tr", "trieu", "cu", "k", "d", "vnd", "dong"
	Separated bool    // written with thousands separators ("15.990.000")
}

// numberRe accepts an optional selector word, one number and an optional money unit
var numberRe = regexp.MustCompile(`^(?:so|cai|chon|lay|con|may|option)?\s*(\d{1,3}(?:[.,]\d{3})+|\d+(?:[.,]\d+)?)\s*(tr|trieu|cu|k|d|vnd|dong)?$`)

var separatedRe = regexp.MustCompile(`^\d{1,3}(?:[.,]\d{3})+$`)

// ParseNumber recognizes a numeric or price-shaped message in normalized text
func ParseNumber(normalized string) (Number, bool) {
	m := numberRe.FindStringSubmatch(strings.TrimSpace(normalized))
	if m == nil {
		return Number{}, false
	}
	raw := m[1]
	n := Number{Raw: raw, Unit: m[2]}

	switch {
	case separatedRe.MatchString(raw) && !isMillionUnit(n.Unit):
		n.Separated = true
		v, err := strconv.ParseFloat(strings.NewReplacer(".", "", ",", "").Replace(raw), 64)
		if err != nil {
			return Number{}, false
		}
		n.Value = v
	default:
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			return Number{}, false
		}
		n.Value = v
	}
	return n, true
}

func isMillionUnit(unit string) bool {
	return unit == "tr" || unit == "trieu" || unit == "cu"
}

// maxIndex is the largest number read as a list position
const maxIndex = 99

// Index returns the 1-based position the number names, if it can be one
func (n Number) Index() (int, bool) {
	if n.Unit != "" || n.Separated || n.Value != math.Trunc(n.Value) || n.Value < 1 || n.Value > maxIndex {
		return 0, false
	}
	return int(n.Value), true
}

// PriceCandidates are the VND amounts the number may stand for
func (n Number) PriceCandidates() []float64 {
	switch {
	case isMillionUnit(n.Unit):
		return []float64{n.Value * 1e6}
	case n.Unit == "k":
		return []float64{n.Value * 1e3}
	case n.Unit != "" || n.Separated:
		return []float64{n.Value}
	case n.Value < 1000:
		// "22.99" or "23" read as millions
		return []float64{n.Value, n.Value * 1e6}
	default:
		return []float64{n.Value}
	}
}

// Select resolves a number against pending options: a valid 1-based index wins, then an
// exact price. ok is false when neither names exactly one option.
func Select(n Number, options []store.ProductSummary) (int, bool) {
	// 1. Position
	if idx, ok := n.Index(); ok && idx <= len(options) && idx >= 1 {
		return idx - 1, true
	}

	// 2. Exact price, only when it identifies a single option
	for _, price := range n.PriceCandidates() {
		found := -1
		for i, o := range options {
			if math.Abs(o.Price-price) < 1 {
				if found >= 0 {
					return 0, false
				}
				found = i
			}
		}
		if found >= 0 {
			return found, true
		}
	}
	return 0, false
}
