package response

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"phone-store-be/pkg/catalog/catalogtest"
	"phone-store-be/pkg/llm"
	"phone-store-be/pkg/rag/followup"
	"phone-store-be/pkg/rag/intent"
	"phone-store-be/pkg/rag/prompt"
	"phone-store-be/pkg/search"
	"phone-store-be/pkg/store"
	"phone-store-be/pkg/textnorm"
)

func item(id string) store.CatalogItem {
	for _, it := range catalogtest.Items() {
		if it.ID == id {
			return it
		}
	}
	panic("unknown fixture " + id)
}

func TestCompose(t *testing.T) {
	c := NewComposer(textnorm.Default().Normalize, 5)
	ip15 := item(catalogtest.IPhone15)
	oppo := item(catalogtest.OppoA79)
	s24 := item(catalogtest.GalaxyS24Ultra)

	tests := []struct {
		name     string
		intent   intent.Intent
		res      *followup.Resolution
		contains []string
	}{
		{
			name:   "requested color out of stock",
			intent: intent.CheckStock,
			res: &followup.Resolution{
				Decision: followup.DecisionColorQuery, Bound: true,
				Product: &ip15, RequestedColors: []string{"trang"},
			},
			contains: []string{"iPhone 15 màu Trắng hiện đã hết hàng.", "- Đen: còn hàng (5 máy)", "- Trắng: hết hàng"},
		},
		{
			name:     "stock report",
			intent:   intent.CheckStock,
			res:      &followup.Resolution{Decision: followup.DecisionStockQuery, Bound: true, Product: &oppo},
			contains: []string{"OPPO A79 5G hiện đã hết hàng."},
		},
		{
			name:   "ambiguous selection re-prompt",
			intent: intent.General,
			res: &followup.Resolution{
				Decision: followup.DecisionNumericSelection,
				Outcomes: []followup.Outcome{followup.OutcomeAmbiguousSelection},
				Options:  []store.ProductSummary{ip15.Summary(), s24.Summary()},
			},
			contains: []string{"gõ số thứ tự", "1. iPhone 15 - 22.990.000₫", "2. Samsung Galaxy S24 Ultra - 26.991.000₫"},
		},
		{
			name:   "no match summary",
			intent: intent.Recommendations,
			res: &followup.Resolution{
				Decision:   followup.DecisionNewSearch,
				Outcomes:   []followup.Outcome{followup.OutcomeNoCandidatesFound},
				Understood: store.Slots{Brand: "nokia", BudgetMillion: 5, Features: []string{"battery"}},
				Search:     &search.Result{Strategy: search.StrategyFallback, Items: []search.Scored{{Item: ip15}}},
			},
			contains: []string{"chưa có sản phẩm phù hợp", "hãng Nokia, giá dưới 5 triệu, pin trâu", "1. iPhone 15 - 22.990.000₫"},
		},
		{
			name:   "stale reference",
			intent: intent.CheckStock,
			res: &followup.Resolution{
				Decision: followup.DecisionNewSearch,
				Outcomes: []followup.Outcome{followup.OutcomeStaleContextReference},
				Product:  &ip15,
			},
			contains: []string{"không còn kinh doanh", "iPhone 15 - 22.990.000₫."},
		},
		{
			name:   "installment terms",
			intent: intent.Installment,
			res: &followup.Resolution{
				Decision: followup.DecisionInstallment, Bound: true, Product: &ip15,
				Installment: &followup.InstallmentTerms{Months: 12, PrepayPercent: 30},
			},
			contains: []string{"Kỳ hạn: 12 tháng.", "Trả trước 30%: 6.897.000₫."},
		},
		{
			name:   "option list",
			intent: intent.ProductInquiry,
			res: &followup.Resolution{
				Decision: followup.DecisionNewSearch, Product: &ip15,
				Options: []store.ProductSummary{ip15.Summary(), s24.Summary()},
			},
			contains: []string{"Shop có 2 sản phẩm phù hợp:", "2. Samsung Galaxy S24 Ultra"},
		},
		{
			name:     "greeting",
			intent:   intent.Greeting,
			res:      &followup.Resolution{Decision: followup.DecisionNewSearch},
			contains: []string{"Chào bạn!"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := c.Compose(tt.intent, tt.res)
			for _, s := range tt.contains {
				assert.Contains(t, reply.Text, s)
			}
		})
	}
}

type stubProvider struct {
	reply string
	err   error
	delay time.Duration
}

func (s stubProvider) Chat(ctx context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	select {
	case <-time.After(s.delay):
		return s.reply, s.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s stubProvider) Generate(ctx context.Context, p string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, nil, opts...)
}

func TestGeneratorFallsBackToDraft(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	input := prompt.Input{Message: "iphone 15", Draft: "iPhone 15 - 22.990.000₫."}

	tests := []struct {
		name      string
		provider  llm.LLMProvider
		want      string
		generated bool
	}{
		{"disabled", nil, input.Draft, false},
		{"failure", stubProvider{err: errors.New("connection refused")}, input.Draft, false},
		{"timeout", stubProvider{reply: "late", delay: time.Second}, input.Draft, false},
		{"success", stubProvider{reply: "Dạ iPhone 15 giá 22.990.000₫ ạ"}, "Dạ iPhone 15 giá 22.990.000₫ ạ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(tt.provider, 50*time.Millisecond, logger)
			got, generated := g.Generate(context.Background(), input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.generated, generated)
		})
	}
}
