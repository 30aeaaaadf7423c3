package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"phone-store-be/pkg/textnorm"
)

// Qualitative features a shopper can ask for
const (
	FeatureGaming  = "gaming"
	FeatureCamera  = "camera"
	FeatureBattery = "battery"
	FeatureCheap   = "cheap"
	FeaturePremium = "premium"
	FeatureCompact = "compact"
	Feature5G      = "5g"
)

// Preferences are the non-product slots of a message
type Preferences struct {
	BudgetMillion   float64  // price ceiling
	MinPriceMillion float64  // price floor ("tren 20 trieu")
	Features        []string // sorted
}

// IsEmpty reports whether the message carried no preference
func (p Preferences) IsEmpty() bool {
	return p.BudgetMillion == 0 && p.MinPriceMillion == 0 && len(p.Features) == 0
}

var featureVocabulary = []struct {
	feature string
	phrases []string
}{
	{FeatureGaming, []string{"gaming", "game", "hieu nang cao", "cau hinh manh", "cau hinh cao", "chien game"}},
	{FeatureCamera, []string{"camera", "chup anh", "chup hinh", "quay phim", "selfie", "chup dep"}},
	{FeatureBattery, []string{"battery", "pin trau", "pin khoe", "pin lau", "pin tot", "pin cao", "pin bu"}},
	{FeatureCheap, []string{"gia re", "re", "sinh vien", "tiet kiem", "binh dan", "budget", "gia mem"}},
	{FeaturePremium, []string{"cao cap", "flagship", "sang trong", "hang dau"}},
	{FeatureCompact, []string{"nho gon", "compact", "gon nhe", "man hinh nho"}},
	{Feature5G, []string{"5g"}},
}

var (
	// "10 trieu", "8.5tr", "7 cu"
	millionRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(trieu|tr|cu)\b`)
	// "9000k", "9500 nghin"
	thousandRe = regexp.MustCompile(`(\d+)\s*(k|nghin|ngan)\b`)
	// "15.990.000", "15990000d"
	vndRe = regexp.MustCompile(`\b(\d{1,3}(?:[.,]\d{3}){2,}|\d{7,})\s*(d|vnd|dong)?\b`)

	floorWords = []string{"tren", "tu", "hon", "it nhat", "toi thieu"}
)

// ParsePreferences reads budget and qualitative features from normalized text
func ParsePreferences(text string) Preferences {
	var prefs Preferences
	if text == "" {
		return prefs
	}

	if amount, start, ok := parseMillions(text); ok {
		if isFloor(text[:start]) {
			prefs.MinPriceMillion = amount
		} else {
			prefs.BudgetMillion = amount
		}
	}

	for _, entry := range featureVocabulary {
		if textnorm.ContainsAnyWord(text, entry.phrases...) {
			prefs.Features = append(prefs.Features, entry.feature)
		}
	}
	sort.Strings(prefs.Features)
	return prefs
}

// ParseAmountMillion reads a single money amount in millions from normalized text
func ParseAmountMillion(text string) (float64, bool) {
	amount, _, ok := parseMillions(text)
	return amount, ok
}

func parseMillions(text string) (float64, int, bool) {
	if loc := millionRe.FindStringSubmatchIndex(text); loc != nil {
		if v, ok := parseDecimal(text[loc[2]:loc[3]]); ok {
			return v, loc[0], true
		}
	}
	if loc := vndRe.FindStringSubmatchIndex(text); loc != nil {
		digits := strings.NewReplacer(".", "", ",", "").Replace(text[loc[2]:loc[3]])
		if v, err := strconv.ParseFloat(digits, 64); err == nil {
			return v / 1e6, loc[0], true
		}
	}
	if loc := thousandRe.FindStringSubmatchIndex(text); loc != nil {
		if v, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64); err == nil && v >= 100 {
			return v / 1000, loc[0], true
		}
	}
	return 0, 0, false
}

func parseDecimal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func isFloor(prefix string) bool {
	words := textnorm.Tokens(prefix)
	if len(words) == 0 {
		return false
	}
	tail := words[len(words)-1]
	if len(words) > 1 {
		tail2 := words[len(words)-2] + " " + tail
		for _, w := range floorWords {
			if w == tail2 {
				return true
			}
		}
	}
	for _, w := range floorWords {
		if w == tail {
			return true
		}
	}
	return false
}
