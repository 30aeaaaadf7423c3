package followup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phone-store-be/pkg/extract"
	"phone-store-be/pkg/store"
	"phone-store-be/pkg/textnorm"
)

func TestDecide(t *testing.T) {
	ex := extract.New(textnorm.Default(), nil)

	empty := store.NewConversationContext("s", time.Now())

	focused := store.NewConversationContext("s", time.Now())
	focused.CurrentProduct = &store.ProductSummary{ID: "p-ip15", Name: "iPhone 15", Price: 22_990_000}

	browsing := focused.Clone()
	browsing.PendingOptions = []store.ProductSummary{
		{ID: "p-ip15", Name: "iPhone 15", Price: 22_990_000},
		{ID: "p-ip15pm", Name: "iPhone 15 Pro Max", Price: 34_990_000},
	}

	installment := focused.Clone()
	installment.LastIntent = IntentInstallment

	tests := []struct {
		name     string
		message  string
		context  *store.ConversationContext
		decision Decision
		bound    bool
	}{
		{"blank message", "   ", focused, DecisionGeneral, false},
		{"product and color ignores context", "iPhone 15 Pro Max có màu gì", focused, DecisionColorQuery, false},
		{"product and color without context", "galaxy s24 ultra màu xám", empty, DecisionColorQuery, false},
		{"index with pending options", "2", browsing, DecisionNumericSelection, true},
		{"price with pending options", "22.990.000", browsing, DecisionNumericSelection, true},
		{"number without pending options", "2", focused, DecisionNewSearch, false},
		{"color about stored product", "màu trắng còn không", focused, DecisionColorQuery, true},
		{"color list about stored product", "có những màu nào", focused, DecisionColorQuery, true},
		{"stock about stored product", "còn hàng không shop", focused, DecisionStockQuery, true},
		{"variant about stored product", "bản 256gb giá sao", focused, DecisionStockQuery, true},
		{"stock without stored product", "còn hàng không", empty, DecisionNewSearch, false},
		{"installment vocabulary", "trả góp được không", focused, DecisionInstallment, true},
		{"number continues installment", "12", installment, DecisionInstallment, true},
		{"new product mention", "còn galaxy a55 không", focused, DecisionNewSearch, false},
		{"refinement searches", "dưới 10 triệu", focused, DecisionNewSearch, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized := ex.Normalizer().Normalize(tt.message)
			got := Decide(normalized, ex.ExtractNormalized(normalized), tt.context)
			assert.Equal(t, tt.decision, got.Decision)
			if tt.decision != DecisionGeneral && tt.decision != DecisionNewSearch {
				assert.Equal(t, tt.bound, got.Bound)
			}
		})
	}
}

func TestDecideNilContext(t *testing.T) {
	ex := extract.New(textnorm.Default(), nil)
	normalized := ex.Normalizer().Normalize("còn hàng không")
	got := Decide(normalized, ex.ExtractNormalized(normalized), nil)
	require.Equal(t, DecisionNewSearch, got.Decision)
}

func TestParseInstallmentTerms(t *testing.T) {
	n := textnorm.Default()
	tests := []struct {
		message string
		want    InstallmentTerms
	}{
		{"trả góp 12 tháng", InstallmentTerms{Months: 12}},
		{"6", InstallmentTerms{Months: 6}},
		{"7", InstallmentTerms{}},
		{"góp 6 tháng trả trước 30%", InstallmentTerms{Months: 6, PrepayPercent: 30}},
		{"trả trước 5 triệu", InstallmentTerms{PrepayAmount: 5_000_000}},
		{"góp qua thẻ tín dụng 0% lãi", InstallmentTerms{CreditCard: true, ZeroInterest: true}},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInstallmentTerms(n.Normalize(tt.message)))
		})
	}
}
