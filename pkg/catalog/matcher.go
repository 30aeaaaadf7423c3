package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"phone-store-be/pkg/store"
)

// Matcher evaluates a Filter in process. Stores without a query language (the in-memory
// catalog, the CLI's JSON catalog) use it so they agree with the SQL specification.
type Matcher struct {
	normalize func(string) string

	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

// NewMatcher builds a matcher; normalize must be the same normalizer queries go through
func NewMatcher(normalize func(string) string) *Matcher {
	return &Matcher{
		normalize: normalize,
		patterns:  make(map[string]*regexp.Regexp),
	}
}

// Apply filters, sorts and limits items. The input slice is not modified.
func (m *Matcher) Apply(items []store.CatalogItem, f Filter) ([]store.CatalogItem, error) {
	out := make([]store.CatalogItem, 0, len(items))
	for _, item := range items {
		ok, err := m.Matches(item, f)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}

	Sort(out, f.Sort)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Matches reports whether one item satisfies the filter
func (m *Matcher) Matches(item store.CatalogItem, f Filter) (bool, error) {
	name := m.normalize(item.Name)

	for _, p := range f.NamePatterns {
		ok, err := m.match(p, name)
		if err != nil || !ok {
			return false, err
		}
	}
	if len(f.AnyNamePatterns) > 0 {
		matched := false
		for _, p := range f.AnyNamePatterns {
			ok, err := m.match(p, name)
			if err != nil {
				return false, err
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	}

	if f.Brand != "" && m.normalize(item.BrandName) != f.Brand {
		return false, nil
	}
	if f.Category != "" && item.Category != f.Category {
		return false, nil
	}

	price := item.FinalPrice()
	if f.PriceMin > 0 && price < f.PriceMin {
		return false, nil
	}
	if f.PriceMax > 0 && price > f.PriceMax {
		return false, nil
	}
	if f.MinRAM > 0 && item.Specs.RAM < f.MinRAM {
		return false, nil
	}
	if f.MinBattery > 0 && item.Specs.Battery < f.MinBattery {
		return false, nil
	}
	if f.StorageGB > 0 && item.Specs.Storage != f.StorageGB {
		return false, nil
	}
	if f.ChipsetPattern != "" {
		ok, err := m.match(f.ChipsetPattern, m.normalize(item.Specs.Chipset))
		if err != nil || !ok {
			return false, err
		}
	}
	if f.CameraPattern != "" {
		ok, err := m.match(f.CameraPattern, m.normalize(item.Specs.Camera))
		if err != nil || !ok {
			return false, err
		}
	}
	if f.InStockOnly && !item.InStock() {
		return false, nil
	}

	if len(f.AnyOf) > 0 {
		for _, alt := range f.AnyOf {
			ok, err := m.Matches(item, alt)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
	return true, nil
}

func (m *Matcher) match(pattern, text string) (bool, error) {
	m.mu.RLock()
	re, ok := m.patterns[pattern]
	m.mu.RUnlock()
	if !ok {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return false, fmt.Errorf("compile pattern %q: %w", pattern, err)
		}
		m.mu.Lock()
		m.patterns[pattern] = compiled
		m.mu.Unlock()
		re = compiled
	}
	return re.MatchString(text), nil
}

// Sort orders items in place; ties keep their catalog order
func Sort(items []store.CatalogItem, key SortKey) {
	switch key {
	case SortPopular:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Sold != items[j].Sold {
				return items[i].Sold > items[j].Sold
			}
			return items[i].Rating > items[j].Rating
		})
	case SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].FinalPrice() < items[j].FinalPrice() })
	case SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].FinalPrice() > items[j].FinalPrice() })
	}
}
