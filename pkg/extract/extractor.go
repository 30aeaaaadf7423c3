// Package extract derives structured product intent from normalized chat text.
package extract

import (
	"sort"
	"strconv"
	"strings"

	"phone-store-be/pkg/store"
	"phone-store-be/pkg/textnorm"
)

// Extractor is immutable after construction and safe for concurrent use
type Extractor struct {
	normalizer *textnorm.Normalizer
	shortcuts  []shortcut
	families   []brandFamily
	keywords   []keyword
	aliases    map[string]string
}

// New builds an extractor. The lexicon may add variant aliases and brand keywords.
func New(normalizer *textnorm.Normalizer, lex *textnorm.Lexicon) *Extractor {
	if normalizer == nil {
		normalizer = textnorm.New(lex)
	}
	x := &Extractor{
		normalizer: normalizer,
		shortcuts:  defaultShortcuts(),
		families:   defaultFamilies(),
		keywords:   defaultBrandKeywords(),
		aliases:    defaultVariantAliases(),
	}
	if lex != nil {
		for k, v := range lex.VariantAliases {
			x.aliases[strings.ToLower(k)] = strings.ToLower(v)
		}
		extra := make([]string, 0, len(lex.BrandKeywords))
		for k := range lex.BrandKeywords {
			extra = append(extra, k)
		}
		sort.Strings(extra)
		for _, k := range extra {
			x.keywords = append(x.keywords, keyword{
				word:  normalizer.Normalize(k),
				brand: normalizer.Normalize(lex.BrandKeywords[k]),
			})
		}
	}
	return x
}

// Normalizer exposes the normalizer the extractor was built with
func (x *Extractor) Normalizer() *textnorm.Normalizer {
	return x.normalizer
}

// Extract normalizes raw text and extracts from it
func (x *Extractor) Extract(raw string) Entity {
	return x.ExtractNormalized(x.normalizer.Normalize(raw))
}

// ExtractNormalized runs the ordered extraction steps on already normalized text.
// Each step either produces an entity or passes; the first producer wins.
func (x *Extractor) ExtractNormalized(text string) Entity {
	if text == "" {
		return Entity{}
	}

	entity, ok := x.matchShortcut(text)
	if !ok {
		entity, ok = x.matchFamilies(text)
	}
	if !ok {
		if brand, found := x.scanBrand(text); found {
			entity = Entity{Brand: brand}
			if phoneWordRe.MatchString(text) {
				entity.ProductType = store.ProductTypePhone
			}
		}
		if model, found := x.modelToken(text); found {
			entity.Model = model
		}
	}

	if gb, found := parseStorage(text); found {
		entity.StorageGB = gb
	}
	return entity
}

// DetectBrand returns the brand named anywhere in the text
func (x *Extractor) DetectBrand(text string) (string, bool) {
	if e, ok := x.matchShortcut(text); ok && e.Brand != "" {
		return e.Brand, true
	}
	if e, ok := x.matchFamilies(text); ok {
		return e.Brand, true
	}
	return x.scanBrand(text)
}

func (x *Extractor) matchShortcut(text string) (Entity, bool) {
	for _, s := range x.shortcuts {
		m := s.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		e := Entity{Brand: s.brand, ProductType: s.productType}
		if s.build != nil {
			e.Model = s.build(m)
		}
		if e.Brand == "" {
			e.Brand, _ = x.scanBrand(text)
		}
		return e, true
	}
	return Entity{}, false
}

func (x *Extractor) matchFamilies(text string) (Entity, bool) {
	for _, family := range x.families {
		for _, p := range family.patterns {
			m := p.re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			e := Entity{
				Brand:       family.brand,
				Model:       strings.Join(strings.Fields(p.build(m)), " "),
				ProductType: store.ProductTypePhone,
			}
			if p.variant > 0 && p.variant < len(m) {
				e.Variant = x.CanonicalVariant(m[p.variant])
			}
			return e, true
		}
	}
	return Entity{}, false
}

// CanonicalVariant maps a variant spelling onto its canonical form
func (x *Extractor) CanonicalVariant(raw string) string {
	v := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	if v == "" {
		return ""
	}
	if canonical, ok := x.aliases[v]; ok {
		return canonical
	}
	if canonical, ok := x.aliases[strings.ReplaceAll(v, " ", "")]; ok {
		return canonical
	}
	return v
}

func (x *Extractor) scanBrand(text string) (string, bool) {
	for _, k := range x.keywords {
		if textnorm.ContainsWord(text, k.word) {
			return k.brand, true
		}
	}
	return "", false
}

// modelToken is the last resort: the first token that looks like a model number
func (x *Extractor) modelToken(text string) (string, bool) {
	for _, tok := range textnorm.Tokens(text) {
		if !modelTokenRe.MatchString(tok) || !hasLetterRe.MatchString(tok) || !hasDigitRe.MatchString(tok) {
			continue
		}
		if unitTokenRe.MatchString(tok) {
			continue
		}
		if _, denied := modelTokenDenylist[tok]; denied {
			continue
		}
		return tok, true
	}
	return "", false
}

// parseStorage finds "NNNgb" or "Ntb", skipping mentions that describe RAM.
// "8gb ram 256gb" binds "ram" to the amount before it, so 256gb is still storage.
func parseStorage(text string) (int, bool) {
	ramConsumed := -1
	for _, loc := range storageRe.FindAllStringSubmatchIndex(text, -1) {
		before := strings.TrimRight(text[:loc[0]], " ")
		after := strings.TrimLeft(text[loc[1]:], " ")
		if textnorm.ContainsWord(firstWord(after), "ram") {
			ramConsumed = len(text) - len(after)
			continue
		}
		if strings.HasSuffix(" "+before, " ram") && len(before)-3 != ramConsumed {
			continue
		}
		n, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil || n <= 0 {
			continue
		}
		if text[loc[4]:loc[5]] == "tb" {
			n *= 1024
		}
		return n, true
	}
	return 0, false
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}
