package extract

import (
	"strings"

	"phone-store-be/pkg/textnorm"
)

// colorPhrases are normalized color names, longest first so compound names win
var colorPhrases = []string{
	"titan tu nhien", "titan sa mac", "titan den", "titan trang", "titan xanh",
	"xanh duong", "xanh la", "xanh navy", "xanh mint", "xanh ngoc", "hong phan",
	"tim nhat", "vang dong", "den nham", "trang ngoc trai",
	"den", "trang", "xanh", "vang", "hong", "tim", "xam", "titan", "nau",
	"graphite", "midnight", "starlight", "black", "white", "blue", "green", "pink", "purple",
	"do", "cam", "kem", "bac", "be",
}

// ambiguousColors double as common words once accents are gone ("do" is also "that",
// "tim" is also "search"), so in a message they only count after "mau"
var ambiguousColors = map[string]struct{}{
	"do": {}, "cam": {}, "kem": {}, "bac": {}, "be": {},
	"tim": {}, "vang": {}, "hong": {}, "den": {},
}

var askColorPhrases = []string{
	"mau nao", "may mau", "mau gi", "con mau", "nhung mau", "cac mau", "mau sac",
	"bao nhieu mau", "co mau", "mau khac", "mau con",
}

var stockPhrases = []string{
	"con hang", "het hang", "con khong", "con ko", "con k", "con may", "so luong",
	"ton kho", "co san", "con bao nhieu", "con ban", "stock", "sold out",
}

var variantPhrases = []string{
	"dung luong", "bo nho", "phien ban", "ban nao", "bao nhieu gb", "cau hinh", "ram",
}

var installmentPhrases = []string{
	"tra gop", "gop", "the tin dung", "tra truoc", "lai suat", "0 lai", "ky han",
	"thang", "moi thang", "hang thang", "cccd", "home credit", "fe credit",
}

// stopWords are dropped when picking meaningful query tokens
var stopWords = map[string]struct{}{
	"toi": {}, "minh": {}, "em": {}, "anh": {}, "chi": {}, "ban": {}, "shop": {}, "ad": {},
	"muon": {}, "mua": {}, "can": {}, "tim": {}, "cho": {}, "hoi": {}, "xem": {}, "coi": {},
	"co": {}, "khong": {}, "ko": {}, "k": {}, "la": {}, "gi": {}, "nao": {}, "the": {},
	"nhe": {}, "a": {}, "ah": {}, "oi": {}, "voi": {}, "va": {}, "cua": {}, "nay": {},
	"thi": {}, "duoc": {}, "dc": {}, "gia": {}, "bao": {}, "nhieu": {}, "dien": {},
	"thoai": {}, "may": {}, "loai": {}, "con": {}, "hang": {}, "mau": {}, "cai": {},
	"chiec": {}, "di": {}, "ve": {}, "hay": {}, "nhung": {}, "cac": {}, "mot": {},
	"nua": {}, "tam": {}, "khoang": {}, "duoi": {}, "tren": {}, "trieu": {}, "tr": {},
	"dang": {}, "ben": {}, "please": {}, "phone": {}, "smartphone": {}, "giup": {},
	"tu": {}, "van": {}, "nen": {}, "chon": {}, "lay": {}, "xin": {}, "chao": {},
	"hello": {}, "hi": {}, "ok": {}, "vay": {}, "roi": {}, "dau": {}, "o": {},
}

// IsStopWord reports whether a normalized token carries no product meaning
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// MeaningfulTokens returns up to limit non-stopword tokens. Tokens containing digits
// come first since they usually pin a model.
func MeaningfulTokens(text string, limit int) []string {
	var withDigits, plain []string
	for _, tok := range textnorm.Tokens(text) {
		if IsStopWord(tok) || len(tok) < 2 {
			continue
		}
		if unitTokenRe.MatchString(tok) {
			continue
		}
		if strings.ContainsAny(tok, "0123456789") {
			withDigits = append(withDigits, tok)
		} else {
			plain = append(plain, tok)
		}
	}
	out := dedupe(append(withDigits, plain...))
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// AsksColors reports a question about which colors exist
func AsksColors(text string) bool {
	return textnorm.ContainsAnyWord(text, askColorPhrases...)
}

// NamedColors returns the colors a message names explicitly
func NamedColors(text string) []string {
	var out []string
	for _, c := range colorPhrases {
		if _, ambiguous := ambiguousColors[c]; ambiguous {
			if textnorm.ContainsWord(text, "mau "+c) {
				out = append(out, c)
			}
			continue
		}
		if textnorm.ContainsWord(text, c) {
			out = append(out, c)
		}
	}
	return out
}

// MentionsColor reports any color vocabulary in a message
func MentionsColor(text string) bool {
	return AsksColors(text) || textnorm.ContainsWord(text, "mau") || len(NamedColors(text)) > 0
}

// ColorsInName returns the colors a product name encodes. Names are not chat text,
// so ambiguous color words count as colors here.
func ColorsInName(name string) []string {
	var out []string
	for _, c := range colorPhrases {
		if textnorm.ContainsWord(name, c) {
			out = append(out, c)
		}
	}
	return out
}

// MentionsStock reports a stock or availability question
func MentionsStock(text string) bool {
	return textnorm.ContainsAnyWord(text, stockPhrases...)
}

// MentionsVariant reports a question about storage or configuration variants
func MentionsVariant(text string) bool {
	if textnorm.ContainsAnyWord(text, variantPhrases...) {
		return true
	}
	_, ok := parseStorage(text)
	return ok
}

// MentionsInstallment reports installment vocabulary
func MentionsInstallment(text string) bool {
	return textnorm.ContainsAnyWord(text, installmentPhrases...)
}
