package search

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"phone-store-be/pkg/extract"
	"phone-store-be/pkg/store"
	"phone-store-be/pkg/textnorm"
)

// Weights of the additive candidate score
type Weights struct {
	Exact           float64
	Compact         float64
	TypeBoth        float64
	TypeMissing     float64 // subtracted
	CategoryMatch   float64
	Containment     float64 // scaled by len(query)/len(name)
	TokenOverlap    float64 // scaled by overlap ratio
	ColorBoundAsk   float64 // subtracted: asks colors, name pre-bound to one color
	ColorIncidental float64 // subtracted: no color intent, name bound to a color
	ColorMatch      float64
	VariantDiscount float64 // subtracted: bare model color question, variant name
	ModelField      float64
	VariantField    float64
	StorageField    float64
	BrandField      float64
	RatingCap       float64
	SoldLogCap      float64
	InStock         float64
}

// DefaultWeights keeps the exact-match signal dominant over every tie-breaker
func DefaultWeights() Weights {
	return Weights{
		Exact:           100,
		Compact:         90,
		TypeBoth:        15,
		TypeMissing:     40,
		CategoryMatch:   12,
		Containment:     40,
		TokenOverlap:    25,
		ColorBoundAsk:   30,
		ColorIncidental: 10,
		ColorMatch:      20,
		VariantDiscount: 25,
		ModelField:      15,
		VariantField:    15,
		StorageField:    10,
		BrandField:      8,
		RatingCap:       5,
		SoldLogCap:      4,
		InStock:         3,
	}
}

// typeKeywords separate product families that share brands
var typeKeywords = []string{"ipad", "iphone", "galaxy tab", "galaxy", "airpods", "tai nghe", "headphone", "watch", "pad"}

// variantWords mark a name as a sub-model of its base
var variantWords = []string{"pro", "max", "plus", "ultra"}

// Query is what a candidate is scored against
type Query struct {
	Normalized string
	Entity     extract.Entity
}

// Scorer ranks candidates; it is stateless apart from its configuration
type Scorer struct {
	normalize func(string) string
	weights   Weights
}

// NewScorer builds a scorer with the normalizer used for queries
func NewScorer(normalize func(string) string, weights Weights) *Scorer {
	return &Scorer{normalize: normalize, weights: weights}
}

// Rank scores every item and sorts descending. Ties keep the input order.
func (s *Scorer) Rank(q Query, items []store.CatalogItem) []Scored {
	out := make([]Scored, 0, len(items))
	for _, item := range items {
		out = append(out, Scored{Item: item, Score: s.Score(q, item)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Score computes the additive score of one candidate
func (s *Scorer) Score(q Query, item store.CatalogItem) float64 {
	w := s.weights
	name := s.normalize(item.Name)
	if name == "" {
		return 0
	}
	queries := queryForms(q)
	score := 0.0

	// 1. Exact and compact equality against the whole message
	compactName := textnorm.Compact(name)
	switch {
	case q.Normalized == name:
		score += w.Exact
	case textnorm.Compact(q.Normalized) == compactName:
		score += w.Compact
	}

	// 2. Product type keywords
	for _, kw := range typeKeywords {
		inQuery := textnorm.ContainsWord(q.Normalized, kw)
		if !inQuery {
			continue
		}
		if textnorm.ContainsWord(name, kw) {
			score += w.TypeBoth
		} else {
			score -= w.TypeMissing
		}
	}

	// 3. Requested product type, phones when none was named
	want := q.Entity.ProductType
	if want == "" {
		want = store.ProductTypePhone
	}
	if item.Category == want {
		score += w.CategoryMatch
	}

	// 4. Containment scaled by length proximity, else token overlap
	best := 0.0
	for _, form := range queries {
		if form != "" && strings.Contains(name, form) {
			if ratio := float64(len(form)) / float64(len(name)); ratio > best {
				best = ratio
			}
		}
	}
	if best > 0 {
		score += w.Containment * best
	} else {
		score += w.TokenOverlap * tokenOverlap(queries[len(queries)-1], name)
	}

	// 5. Color intent, first applicable case only
	asksColors := extract.AsksColors(q.Normalized)
	named := extract.NamedColors(q.Normalized)
	nameColors := extract.ColorsInName(name)
	switch {
	case asksColors && len(named) == 0 && len(nameColors) > 0:
		score -= w.ColorBoundAsk
	case !extract.MentionsColor(q.Normalized) && len(nameColors) > 0:
		score -= w.ColorIncidental
	case len(named) > 0 && sharesAny(named, nameColors):
		score += w.ColorMatch
	}

	// 6. Bare model color question against a variant name
	if extract.MentionsColor(q.Normalized) && q.Entity.Model != "" && q.Entity.Variant == "" && hasVariantWord(name, q.Normalized) {
		score -= w.VariantDiscount
	}

	// 7. Field bonuses
	if q.Entity.Model != "" && strings.Contains(compactName, textnorm.Compact(q.Entity.Model)) {
		score += w.ModelField
	}
	if q.Entity.Variant != "" && textnorm.ContainsWord(name, q.Entity.Variant) {
		score += w.VariantField
	}
	if q.Entity.StorageGB > 0 && (item.Specs.Storage == q.Entity.StorageGB || strings.Contains(compactName, storageLabel(q.Entity.StorageGB))) {
		score += w.StorageField
	}
	if q.Entity.Brand != "" && (s.normalize(item.BrandName) == q.Entity.Brand || textnorm.ContainsWord(name, q.Entity.Brand)) {
		score += w.BrandField
	}

	// 8. Popularity tie-breakers
	score += math.Min(math.Max(item.Rating, 0), w.RatingCap)
	score += math.Min(math.Log10(float64(max(item.Sold, 0))+1), w.SoldLogCap)
	if item.InStock() {
		score += w.InStock
	}
	return score
}

// queryForms are the full normalized query and, when a model was extracted, the model
// phrase. They only feed containment; the last form is the most focused one.
func queryForms(q Query) []string {
	forms := []string{q.Normalized}
	if phrase := q.Entity.ModelPhrase(); phrase != "" && phrase != q.Normalized {
		forms = append(forms, phrase)
	}
	return forms
}

// tokenOverlap is the share of query tokens found inside some name token
func tokenOverlap(query, name string) float64 {
	qTokens := textnorm.Tokens(query)
	if len(qTokens) == 0 {
		return 0
	}
	nTokens := textnorm.Tokens(name)
	hit := 0
	for _, qt := range qTokens {
		for _, nt := range nTokens {
			if strings.Contains(nt, qt) {
				hit++
				break
			}
		}
	}
	return float64(hit) / float64(len(qTokens))
}

func sharesAny(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func hasVariantWord(name, query string) bool {
	for _, v := range variantWords {
		if textnorm.ContainsWord(name, v) && !textnorm.ContainsWord(query, v) {
			return true
		}
	}
	return false
}

func storageLabel(gb int) string {
	if gb >= 1024 && gb%1024 == 0 {
		return strconv.Itoa(gb/1024) + "tb"
	}
	return strconv.Itoa(gb) + "gb"
}
