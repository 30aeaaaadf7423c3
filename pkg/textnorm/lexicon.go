package textnorm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Lexicon is the operator-editable vocabulary shared by the normalizer and the extractor
type Lexicon struct {
	Synonyms       map[string]string `yaml:"synonyms"`
	VariantAliases map[string]string `yaml:"variant_aliases"`
	BrandKeywords  map[string]string `yaml:"brand_keywords"`
}

// LoadLexicon reads a YAML lexicon file. An empty path yields nil so callers fall back to defaults.
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	return ParseLexicon(raw)
}

// ParseLexicon decodes lexicon YAML
func ParseLexicon(raw []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(raw, &lex); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	return &lex, nil
}

// defaultSynonyms maps shopper slang to catalog vocabulary. Keys match whole words
// before diacritics are stripped, so accented and unaccented spellings are both listed.
var defaultSynonyms = map[string]string{
	"máy chơi game":        "gaming phone smartphone điện thoại hiệu năng cao",
	"điện thoại chơi game": "điện thoại gaming hiệu năng cao",
	"chơi game":            "gaming",
	"choi game":            "gaming",
	"đt":                   "điện thoại",
	"dt":                   "điện thoại",
	"dế":                   "điện thoại",
	"ip":                   "iphone",
	"ss":                   "samsung",
	"táo khuyết":           "apple iphone",
	"táo":                  "apple iphone",
	"chụp hình":            "camera chụp ảnh",
	"chup hinh":            "camera chụp ảnh",
	"pin trâu":             "pin khỏe battery",
	"pin trau":             "pin khỏe battery",
	"cao cấp":              "cao cấp flagship",
	"tai phone":            "tai nghe",
	"prm":                  "pro max",
	"promax":               "pro max",
	"pmax":                 "pro max",
	"củ":                   "triệu",
}
