// Package textnorm turns raw chat text into the canonical form every matcher works on:
// lowercase, synonyms expanded, diacritics removed, punctuation folded into single spaces.
package textnorm

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer is immutable after construction and safe for concurrent use
type Normalizer struct {
	synonyms []synonym // longest key first
	stripped []synonym // unaccented keys, applied after diacritics are gone
}

type synonym struct {
	key   string // padded " key "
	value string // padded " value "

	// set when value contains key, so an expanded occurrence is not expanded again
	expands   bool
	pre, post string
}

func newSynonym(key, value string) synonym {
	s := synonym{key: " " + key + " ", value: " " + value + " "}
	if i := strings.Index(s.value, s.key); i >= 0 {
		s.expands = true
		s.pre = s.value[:i]
		s.post = s.value[i+len(s.key):]
	}
	return s
}

// expanded reports whether the occurrence at i already sits inside this synonym's value
func (s synonym) expanded(padded string, i int) bool {
	return s.expands && strings.HasSuffix(padded[:i], s.pre) && strings.HasPrefix(padded[i+len(s.key):], s.post)
}

func sortSynonyms(list []synonym) {
	sort.Slice(list, func(i, j int) bool {
		if len(list[i].key) != len(list[j].key) {
			return len(list[i].key) > len(list[j].key)
		}
		return list[i].key < list[j].key
	})
}

// New builds a normalizer from the default synonym table plus the lexicon overrides
func New(lex *Lexicon) *Normalizer {
	table := make(map[string]string, len(defaultSynonyms))
	for k, v := range defaultSynonyms {
		table[k] = v
	}
	if lex != nil {
		for k, v := range lex.Synonyms {
			table[k] = v
		}
	}

	n := &Normalizer{}
	seen := make(map[string]bool)
	for k, v := range table {
		key := foldPunctuation(strings.ToLower(k))
		if key == "" {
			continue
		}
		value := foldPunctuation(strings.ToLower(v))
		n.synonyms = append(n.synonyms, newSynonym(key, value))

		// A lone accented word loses its meaning without marks ("dế" would become "de"),
		// so only phrases and already unaccented keys take part in the second pass.
		plain := StripDiacritics(key)
		if plain != key && !strings.Contains(key, " ") {
			continue
		}
		if seen[plain] {
			continue
		}
		seen[plain] = true
		n.stripped = append(n.stripped, newSynonym(plain, StripDiacritics(value)))
	}
	sortSynonyms(n.synonyms)
	sortSynonyms(n.stripped)
	return n
}

// Default returns a normalizer with the built-in table only
func Default() *Normalizer {
	return New(nil)
}

// maxStrippedPasses bounds the unaccented synonym passes; real tables settle in one or two
const maxStrippedPasses = 4

// Normalize is total and idempotent.
// Accented synonyms are applied before diacritics are stripped. Text mixing accented and
// unaccented spellings ("chup hình") only matches once the marks are gone, so unaccented
// keys are applied afterwards until nothing changes.
func (n *Normalizer) Normalize(raw string) string {
	// 1. Lowercase and fold punctuation
	text := foldPunctuation(strings.ToLower(raw))
	if text == "" {
		return ""
	}

	// 2. Expand synonyms on whole-word boundaries
	padded := expand(" "+text+" ", n.synonyms)

	// 3. Strip diacritics, then expand what only matches without them
	padded = " " + collapse(StripDiacritics(padded)) + " "
	for i := 0; i < maxStrippedPasses; i++ {
		next := expand(padded, n.stripped)
		if next == padded {
			break
		}
		padded = next
	}

	// 4. Collapse whitespace
	return collapse(padded)
}

func expand(padded string, list []synonym) string {
	for _, s := range list {
		if strings.Contains(padded, s.key) {
			padded = replaceWords(padded, s)
		}
	}
	return padded
}

// replaceWords replaces every whole-word occurrence in one left-to-right pass.
// Adjacent occurrences share their separating space, so the trailing space of
// each match is handed back to the remaining input.
func replaceWords(padded string, s synonym) string {
	var b strings.Builder
	from := 0
	for {
		i := strings.Index(padded[from:], s.key)
		if i < 0 {
			b.WriteString(padded[from:])
			return b.String()
		}
		i += from
		if s.expanded(padded, i) {
			b.WriteString(padded[from : i+len(s.key)-1])
		} else {
			b.WriteString(padded[from:i])
			b.WriteString(s.value[:len(s.value)-1])
		}
		from = i + len(s.key) - 1
	}
}

// StripDiacritics removes Vietnamese tone and vowel marks.
// đ has no canonical decomposition so it is mapped explicitly.
func StripDiacritics(s string) string {
	s = strings.NewReplacer("đ", "d", "Đ", "D").Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// foldPunctuation turns punctuation and symbols into spaces.
// "+" becomes the word "plus" and separators between two digits are kept ("15.990.000").
func foldPunctuation(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range rs {
		switch {
		case r == '+':
			b.WriteString(" plus ")
		case (r == '.' || r == ',') && i > 0 && i < len(rs)-1 && unicode.IsDigit(rs[i-1]) && unicode.IsDigit(rs[i+1]):
			b.WriteRune(r)
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r) || unicode.IsControl(r):
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return collapse(b.String())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Compact removes every separator, so "iphone15" and "iPhone 15" compare equal
func Compact(normalized string) string {
	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokens splits normalized text into words
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}

// ContainsWord reports whether word occurs as a whole word in normalized text
func ContainsWord(normalized, word string) bool {
	if word == "" {
		return false
	}
	return strings.Contains(" "+normalized+" ", " "+word+" ")
}

// ContainsAnyWord reports whether any of the words/phrases occurs on word boundaries
func ContainsAnyWord(normalized string, words ...string) bool {
	for _, w := range words {
		if ContainsWord(normalized, w) {
			return true
		}
	}
	return false
}
