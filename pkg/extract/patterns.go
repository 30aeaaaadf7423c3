package extract

import (
	"regexp"
	"strings"

	"phone-store-be/pkg/store"
)

// variantGroup captures a variant suffix; longer alternatives come first
const variantGroup = `(pro\s*max|promax|pmax|prm|pro\s*plus|pro\s*xl|pro|plus|ultra|mini|max|lite|fe|pm|xl|gt|e|s|t)?`

// modelPattern captures one naming scheme of a brand.
// build turns the submatches into the model string; the variant group, if any, is at index variant.
type modelPattern struct {
	re      *regexp.Regexp
	variant int
	build   func(m []string) string
}

type brandFamily struct {
	brand    string
	patterns []modelPattern
}

func join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// defaultFamilies lists the brands in match priority. Within a brand the first pattern wins,
// so the foldable scheme precedes the generic Samsung one.
func defaultFamilies() []brandFamily {
	return []brandFamily{
		{brand: "apple", patterns: []modelPattern{
			{
				re:      regexp.MustCompile(`\biphone\s*(\d{1,2}|se|xr|xs|x)\s*` + variantGroup + `\b`),
				variant: 2,
				build:   func(m []string) string { return join("iphone", m[1]) },
			},
		}},
		{brand: "samsung", patterns: []modelPattern{
			{
				re:    regexp.MustCompile(`\b(?:samsung\s*)?(?:galaxy\s*)?z\s*(fold|flip)\s*(\d{1,2})\b`),
				build: func(m []string) string { return join("z", m[1], m[2]) },
			},
			{
				re:      regexp.MustCompile(`\bgalaxy\s*note\s*(\d{1,2})\s*` + variantGroup + `\b`),
				variant: 2,
				build:   func(m []string) string { return join("galaxy note", m[1]) },
			},
			{
				re:      regexp.MustCompile(`\b(?:samsung\s*|galaxy\s*)+([sam])\s*(\d{2,3})\s*` + variantGroup + `\b`),
				variant: 3,
				build:   func(m []string) string { return m[1] + m[2] },
			},
			{
				// bare S-series ("s24 ultra"); bare A-series is left to the token heuristic since
				// "a79" also names OPPO phones
				re:      regexp.MustCompile(`\b(s)(\d{2})\s*` + variantGroup + `\b`),
				variant: 3,
				build:   func(m []string) string { return m[1] + m[2] },
			},
		}},
		{brand: "xiaomi", patterns: []modelPattern{
			{
				re:      regexp.MustCompile(`\bredmi\s*note\s*(\d{1,2})\s*` + variantGroup + `\b`),
				variant: 2,
				build:   func(m []string) string { return join("redmi note", m[1]) },
			},
			{
				re:    regexp.MustCompile(`\bredmi\s*(\d{1,2}[a-z]?)\b`),
				build: func(m []string) string { return join("redmi", m[1]) },
			},
			{
				re:      regexp.MustCompile(`\bpoco\s*([xfmc]\s*\d{1,2})\s*` + variantGroup + `\b`),
				variant: 2,
				build:   func(m []string) string { return join("poco", squash(m[1])) },
			},
			{
				re:      regexp.MustCompile(`\bxiaomi\s*(\d{1,2})\s*` + variantGroup + `\b`),
				variant: 2,
				build:   func(m []string) string { return join("xiaomi", m[1]) },
			},
		}},
		{brand: "oppo", patterns: []modelPattern{
			{
				re:      regexp.MustCompile(`\breno\s*(\d{1,2})\s*` + variantGroup + `\b`),
				variant: 2,
				build:   func(m []string) string { return join("reno", m[1]) },
			},
			{
				re:      regexp.MustCompile(`\bfind\s*(x\s*\d{1,2}|n\s*\d)\s*` + variantGroup + `\b`),
				variant: 2,
				build:   func(m []string) string { return join("find", squash(m[1])) },
			},
			{
				re:    regexp.MustCompile(`\boppo\s*(a\s*\d{1,3})\b`),
				build: func(m []string) string { return squash(m[1]) },
			},
		}},
		{brand: "vivo", patterns: []modelPattern{
			{
				re:      regexp.MustCompile(`\bvivo\s*([vyxt]\s*\d{1,3})\s*` + variantGroup + `\b`),
				variant: 2,
				build:   func(m []string) string { return squash(m[1]) },
			},
		}},
		{brand: "realme", patterns: []modelPattern{
			{
				re:      regexp.MustCompile(`\brealme\s*(c|gt|note)?\s*(\d{1,2})\s*` + variantGroup + `\b`),
				variant: 3,
				build:   func(m []string) string { return join("realme", m[1]+m[2]) },
			},
		}},
		{brand: "google", patterns: []modelPattern{
			{
				re:      regexp.MustCompile(`\bpixel\s*(\d{1,2}a?)\s*` + variantGroup + `\b`),
				variant: 2,
				build:   func(m []string) string { return join("pixel", m[1]) },
			},
		}},
		{brand: "nokia", patterns: []modelPattern{
			{
				re:    regexp.MustCompile(`\bnokia\s*([cgx]?\s*\d{1,3})\b`),
				build: func(m []string) string { return squash(m[1]) },
			},
		}},
		{brand: "honor", patterns: []modelPattern{
			{
				re:      regexp.MustCompile(`\bhonor\s*(magic\s*\d|x\s*\d{1,2}[a-z]?|\d{2,3})\s*` + variantGroup + `\b`),
				variant: 2,
				build:   func(m []string) string { return join("honor", m[1]) },
			},
		}},
	}
}

// shortcut detects tablets and accessories before any phone pattern runs
type shortcut struct {
	re          *regexp.Regexp
	brand       string // empty: fall back to the keyword scan
	productType store.ProductType
	build       func(m []string) string
}

func defaultShortcuts() []shortcut {
	return []shortcut{
		{
			re:          regexp.MustCompile(`\bipad(?:\s*(pro|air|mini|gen\s*\d+))?\b`),
			brand:       "apple",
			productType: store.ProductTypeTablet,
			build:       func(m []string) string { return join("ipad", m[1]) },
		},
		{
			re:          regexp.MustCompile(`\bgalaxy\s*tab(?:\s*([as]\s*\d{1,2}))?\b`),
			brand:       "samsung",
			productType: store.ProductTypeTablet,
			build:       func(m []string) string { return join("galaxy tab", squash(m[1])) },
		},
		{
			re:          regexp.MustCompile(`\b(?:xiaomi|redmi)\s*pad(?:\s*(\d{1,2}|se))?\b`),
			brand:       "xiaomi",
			productType: store.ProductTypeTablet,
			build:       func(m []string) string { return join("pad", m[1]) },
		},
		{
			re:          regexp.MustCompile(`\b(?:may tinh bang|tablet)\b`),
			productType: store.ProductTypeTablet,
		},
		{
			re:          regexp.MustCompile(`\bairpods?(?:\s*(pro|max))?\b`),
			brand:       "apple",
			productType: store.ProductTypeAccessory,
			build:       func(m []string) string { return join("airpods", m[1]) },
		},
		{
			re:          regexp.MustCompile(`\bgalaxy\s*buds(?:\s*(\d|fe|pro))?\b`),
			brand:       "samsung",
			productType: store.ProductTypeAccessory,
			build:       func(m []string) string { return join("galaxy buds", m[1]) },
		},
		{
			re:          regexp.MustCompile(`\b(?:tai nghe|headphones?|earbuds|op lung|cuong luc|mieng dan|sac du phong|sac nhanh|sac khong day|cu sac|cap sac|day sac|bo sac|adapter|phu kien|dong ho thong minh|smartwatch)\b`),
			productType: store.ProductTypeAccessory,
		},
	}
}

// keyword maps a word seen in text to a brand
type keyword struct {
	word  string
	brand string
}

func defaultBrandKeywords() []keyword {
	return []keyword{
		{"iphone", "apple"},
		{"apple", "apple"},
		{"samsung", "samsung"},
		{"galaxy", "samsung"},
		{"xiaomi", "xiaomi"},
		{"redmi", "xiaomi"},
		{"poco", "xiaomi"},
		{"oppo", "oppo"},
		{"reno", "oppo"},
		{"vivo", "vivo"},
		{"realme", "realme"},
		{"pixel", "google"},
		{"google", "google"},
		{"nokia", "nokia"},
		{"honor", "honor"},
	}
}

func defaultVariantAliases() map[string]string {
	return map[string]string{
		"prm":      "pro max",
		"pm":       "pro max",
		"pmax":     "pro max",
		"promax":   "pro max",
		"pro max":  "pro max",
		"+":        "plus",
		"plus":     "plus",
		"pro+":     "pro plus",
		"pro plus": "pro plus",
		"proplus":  "pro plus",
		"pro xl":   "pro xl",
		"pro":      "pro",
		"max":      "max",
		"mini":     "mini",
		"ultra":    "ultra",
		"lite":     "lite",
		"fe":       "fe",
		"xl":       "xl",
		"gt":       "gt",
		"e":        "e",
		"s":        "s",
		"t":        "t",
	}
}

var (
	// phoneWordRe types a brand-only query; a bare brand stays untyped
	phoneWordRe = regexp.MustCompile(`\b(?:dien thoai|smartphone|phone|iphone)\b`)

	storageRe = regexp.MustCompile(`(\d{1,4})\s*(gb|tb)\b`)

	// modelTokenRe accepts short letter/digit mixes like "a55", "x6", "13c"
	modelTokenRe = regexp.MustCompile(`^[a-z]{0,6}\d{1,4}[a-z]{0,3}$`)

	// unitTokenRe rejects numbers carrying a unit: storage, money, months, battery, network
	unitTokenRe = regexp.MustCompile(`^\d+(?:[.,]\d+)?(gb|tb|g|mb|tr|trieu|cu|k|d|vnd|m|mah|mp|hz|w|inch|thang|th|lan|nam|h|p)$`)

	hasLetterRe = regexp.MustCompile(`[a-z]`)
	hasDigitRe  = regexp.MustCompile(`\d`)
)

// modelTokenDenylist holds alphanumeric tokens that are never model numbers
var modelTokenDenylist = map[string]struct{}{
	"5g": {}, "4g": {}, "3g": {}, "lte": {}, "wifi": {}, "nfc": {},
	"usb": {}, "c": {}, "type": {}, "sim": {}, "esim": {},
	"ram": {}, "rom": {}, "mau": {}, "gia": {}, "thang": {},
	"0d": {}, "0": {}, "24h": {}, "7ngay": {}, "1doi1": {},
}
