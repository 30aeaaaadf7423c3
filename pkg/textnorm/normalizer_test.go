package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	n := Default()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase and diacritics", "Điện Thoại Xiaomi Đỏ", "dien thoai xiaomi do"},
		{"punctuation folded", "iPhone 15, còn hàng không???", "iphone 15 con hang khong"},
		{"plus sign becomes word", "Galaxy S23+", "galaxy s23 plus"},
		{"price separators kept", "giá 15.990.000 nhé", "gia 15.990.000 nhe"},
		{"trailing dot dropped", "iphone 15.", "iphone 15"},
		{"synonym before stripping", "máy chơi game", "gaming phone smartphone dien thoai hieu nang cao"},
		{"slang abbreviation", "ip 15 prm", "iphone 15 pro max"},
		{"synonym only on word boundary", "ipad air", "ipad air"},
		{"adjacent synonym hits", "ss ss", "samsung samsung"},
		{"self containing synonym", "máy cao cấp", "may cao cap flagship"},
		{"self containing synonym unaccented", "may cao cap", "may cao cap flagship"},
		{"mixed accents", "chup hình", "camera chup anh"},
		{"mixed accents phrase", "máy chợi game", "gaming phone smartphone dien thoai hieu nang cao"},
		{"misplaced mark", "chơi gáme", "gaming"},
		{"lone accented word keeps its meaning", "để dành", "de danh"},
		{"used is not million", "máy cũ", "may cu"},
		{"empty", "", ""},
		{"only punctuation", " ?!... ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := Default()
	inputs := []string{
		"Máy chơi game dưới 10 triệu",
		"ip 15 prm màu Titan Tự Nhiên",
		"Samsung Galaxy Z Fold 5 512GB",
		"đt ss pin trâu, chụp hình đẹp!",
		"giá 15.990.000đ",
		"táo khuyết 256gb",
		"chup hình",
		"máy chợi game",
		"chơi gáme",
		"Pin trâu chup hinh dt choi game",
		"cao cấp cao cap",
		"tao khuyet",
		"iPhone 15 màu hồng, cao cấp flagship",
	}
	for k, v := range defaultSynonyms {
		inputs = append(inputs, k, v)
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input %q", in)
	}
}

func TestLexiconOverridesDefaults(t *testing.T) {
	lex, err := ParseLexicon([]byte(`
synonyms:
  "dế yêu": "điện thoại"
  "ss": "samsung galaxy"
variant_aliases:
  "prx": "pro max"
`))
	require.NoError(t, err)
	assert.Equal(t, "pro max", lex.VariantAliases["prx"])

	n := New(lex)
	assert.Equal(t, "dien thoai samsung galaxy", n.Normalize("dế yêu SS"))
}

func TestLoadLexiconEmptyPath(t *testing.T) {
	lex, err := LoadLexicon("")
	require.NoError(t, err)
	assert.Nil(t, lex)
}

func TestCompactAndWords(t *testing.T) {
	assert.Equal(t, "iphone15promax", Compact("iphone 15 pro max"))
	assert.True(t, ContainsWord("iphone 15 pro", "pro"))
	assert.False(t, ContainsWord("iphone 15 promax", "pro"))
	assert.True(t, ContainsAnyWord("con mau nao", "mau gi", "mau nao"))
	assert.False(t, ContainsWord("abc", ""))
}
