package search

import (
	"phone-store-be/pkg/extract"
	"phone-store-be/pkg/store"
)

// Strategy names the cascade step that produced a result
type Strategy string

const (
	StrategyExactModel Strategy = "exact_model"
	StrategyBrand      Strategy = "brand"
	StrategyFeature    Strategy = "feature"
	StrategyFuzzy      Strategy = "fuzzy"
	StrategyFallback   Strategy = "fallback"
)

// Scored is one ranked candidate
type Scored struct {
	Item  store.CatalogItem `json:"item"`
	Score float64           `json:"score"`
}

// Result is the ranked output of the cascade. Strategy is always set so callers can tell
// "no match" (fallback, Success=false) from "weak match".
type Result struct {
	Items         []Scored       `json:"items"`
	Strategy      Strategy       `json:"strategy"`
	OriginalQuery string         `json:"original_query"`
	Normalized    string         `json:"normalized"`
	Entity        extract.Entity `json:"entity"`
	Success       bool           `json:"success"`
}

// Found reports a successful, non-empty result
func (r Result) Found() bool {
	return r.Success && len(r.Items) > 0
}

// Top returns the best candidate
func (r Result) Top() (store.CatalogItem, bool) {
	if len(r.Items) == 0 {
		return store.CatalogItem{}, false
	}
	return r.Items[0].Item, true
}

// Products returns the candidates in rank order
func (r Result) Products() []store.CatalogItem {
	out := make([]store.CatalogItem, 0, len(r.Items))
	for _, s := range r.Items {
		out = append(out, s.Item)
	}
	return out
}

// Summaries returns at most limit lightweight references, in rank order
func (r Result) Summaries(limit int) []store.ProductSummary {
	n := len(r.Items)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]store.ProductSummary, 0, n)
	for _, s := range r.Items[:n] {
		out = append(out, s.Item.Summary())
	}
	return out
}
