// Package intent maps a shopper message to a coarse intent with an ordered rule table.
package intent

import (
	"log"
	"regexp"

	"phone-store-be/pkg/extract"
)

// Intent is the coarse purpose of a message
type Intent string

const (
	OrderTracking   Intent = "order_tracking"
	Compare         Intent = "compare"
	CheckStock      Intent = "check_stock"
	Installment     Intent = "installment"
	Recommendations Intent = "recommendations"
	ProductInquiry  Intent = "product_inquiry"
	Greeting        Intent = "greeting"
	General         Intent = "general"
)

// Result is the classified intent and the rule that produced it
type Result struct {
	Intent Intent `json:"intent"`
	Rule   string `json:"rule"`
}

type rule struct {
	intent  Intent
	name    string
	pattern *regexp.Regexp
}

func word(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|\s)(?:` + expr + `)(?:\s|$)`)
}

// defaultRules are evaluated top to bottom; the first match wins
func defaultRules() []rule {
	return []rule{
		{OrderTracking, "order_words", word(`don hang|ma don|van don|tra cuu don|kiem tra don|order|tracking`)},
		{OrderTracking, "delivery_status", word(`giao toi dau|giao den dau|ship toi dau|khi nao (?:giao|nhan)|bao gio (?:giao|nhan)`)},

		{Compare, "compare_words", word(`so sanh|compare|vs|khac nhau|khac gi`)},
		{Compare, "which_better", regexp.MustCompile(`(?:nen mua|nen chon|chon)\s.+\s(?:hay|hoac)\s`)},
		{Compare, "better_than", word(`tot hon|ngon hon|hon (?:khong|ko)`)},

		{CheckStock, "stock_words", word(`con hang|het hang|con (?:khong|ko|k)|co san|ton kho|con bao nhieu|con may|sold out|stock`)},

		{Installment, "installment_words", word(`tra gop|gop|lai suat|tra truoc|ky han|home credit|fe credit|the tin dung`)},

		{Recommendations, "advice_words", word(`tu van|goi y|de xuat|recommend|nen mua (?:gi|may nao|dien thoai nao)|may nao (?:tot|ngon|dang mua)`)},
		{Recommendations, "budget", regexp.MustCompile(`(?:^|\s)(?:duoi|tam|khoang|tren|tu)\s*\d+(?:[.,]\d+)?\s*(?:trieu|tr|cu|k)?(?:\s|$)`)},
		{Recommendations, "feature_words", word(`gaming|camera chup anh|pin khoe|gia re|sinh vien|flagship`)},

		{ProductInquiry, "price_spec_words", word(`gia|bao nhieu tien|thong so|cau hinh|man hinh|chip|camera|pin|ram|bo nho|dung luong|mau`)},

		{Greeting, "greeting_words", regexp.MustCompile(`^(?:xin chao|chao|hello|hi|alo|hey|shop oi|ad oi)(?:\s(?:shop|ban|ad|admin|em|anh|chi|a|nhe|oi))*$`)},
	}
}

// Classifier is a deterministic first-match intent classifier
type Classifier struct {
	rules  []rule
	logger *log.Logger
}

// NewClassifier creates a classifier with the built-in rules
func NewClassifier(logger *log.Logger) *Classifier {
	return &Classifier{rules: defaultRules(), logger: logger}
}

// Classify returns the intent of a normalized message. A product mention without any
// other signal is a product inquiry.
func (c *Classifier) Classify(normalized string, entity extract.Entity) Result {
	for _, r := range c.rules {
		if r.pattern.MatchString(normalized) {
			return c.result(normalized, Result{Intent: r.intent, Rule: r.name})
		}
	}
	if entity.MentionsProduct() || entity.ProductType != "" {
		return c.result(normalized, Result{Intent: ProductInquiry, Rule: "product_mention"})
	}
	return c.result(normalized, Result{Intent: General, Rule: "default"})
}

func (c *Classifier) result(normalized string, r Result) Result {
	c.logger.Printf("[INTENT] %q -> %s (%s)", normalized, r.Intent, r.Rule)
	return r
}
