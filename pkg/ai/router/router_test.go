package router

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phone-store-be/internal/repository/memory"
	"phone-store-be/pkg/catalog"
	"phone-store-be/pkg/catalog/catalogtest"
	"phone-store-be/pkg/events"
	"phone-store-be/pkg/extract"
	"phone-store-be/pkg/llm"
	"phone-store-be/pkg/rag/followup"
	"phone-store-be/pkg/rag/history"
	"phone-store-be/pkg/rag/intent"
	"phone-store-be/pkg/rag/response"
	"phone-store-be/pkg/rag/session"
	"phone-store-be/pkg/rag/state"
	"phone-store-be/pkg/search"
	"phone-store-be/pkg/store"
	"phone-store-be/pkg/textnorm"
)

type failingProvider struct{}

func (failingProvider) Chat(context.Context, []llm.Message, ...llm.Option) (string, error) {
	return "", errors.New("model unavailable")
}

func (failingProvider) Generate(context.Context, string, ...llm.Option) (string, error) {
	return "", errors.New("model unavailable")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newTestRouter(t *testing.T, catalogStore catalog.Store, provider llm.LLMProvider, publisher EventPublisher) *Router {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	n := textnorm.Default()
	cascade := search.NewCascade(
		catalogStore,
		extract.New(n, nil),
		search.NewScorer(n.Normalize, search.DefaultWeights()),
		search.NewPopularCache(time.Minute),
		search.DefaultConfig(),
		logger,
	)
	sessions := session.NewManager(memory.NewContextRepository(time.Hour), logger)
	resolver := followup.NewResolver(cascade, catalogStore, sessions, state.NewManager(logger), followup.DefaultConfig(), logger)
	return NewRouter(
		cascade,
		resolver,
		intent.NewClassifier(logger),
		sessions,
		response.NewComposer(n.Normalize, 5),
		response.NewGenerator(provider, 100*time.Millisecond, logger),
		history.NewStore(time.Hour, 20),
		publisher,
		logger,
	)
}

func TestSlotsAccumulateAcrossTurns(t *testing.T) {
	r := newTestRouter(t, catalogtest.Store(), nil, nil)
	ctx := context.Background()

	turns := []string{"samsung", "dưới 10 triệu", "pin trâu", "chụp hình đẹp", "còn hàng không"}
	var previous store.Slots
	for _, msg := range turns {
		res, err := r.Resolve(ctx, "s1", msg)
		require.NoError(t, err, msg)
		slots := res.Context.Slots

		for _, f := range previous.Features {
			assert.True(t, slots.HasFeature(f), "turn %q lost feature %s", msg, f)
		}
		if previous.Brand != "" {
			assert.NotEmpty(t, slots.Brand, "turn %q lost brand", msg)
		}
		if previous.BudgetMillion > 0 {
			assert.NotZero(t, slots.BudgetMillion, "turn %q lost budget", msg)
		}
		previous = slots
	}
	assert.Equal(t, "samsung", previous.Brand)
	assert.True(t, previous.HasFeature(extract.FeatureBattery))
	assert.True(t, previous.HasFeature(extract.FeatureCamera))
}

func TestGenerationFailureKeepsContext(t *testing.T) {
	r := newTestRouter(t, catalogtest.Store(), failingProvider{}, nil)
	ctx := context.Background()

	res, err := r.Resolve(ctx, "s1", "iphone 15")
	require.NoError(t, err)
	assert.False(t, res.Generated)
	assert.Contains(t, res.Reply, "iPhone 15")

	c, found, err := r.Context(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, c.CurrentProduct)
	assert.Equal(t, catalogtest.IPhone15, c.CurrentProduct.ID)
}

func TestExactNameIsFirstMatch(t *testing.T) {
	r := newTestRouter(t, catalogtest.Store(), nil, nil)

	res, err := r.Resolve(context.Background(), "s1", "iPhone 15")
	require.NoError(t, err)
	require.NotEmpty(t, res.MatchedProducts)
	assert.Equal(t, catalogtest.IPhone15, res.MatchedProducts[0].ID)
	assert.Equal(t, search.StrategyExactModel, res.Strategy)
}

func TestInstallmentContinuation(t *testing.T) {
	r := newTestRouter(t, catalogtest.Store(), nil, nil)
	ctx := context.Background()

	_, err := r.Resolve(ctx, "s1", "iphone 15")
	require.NoError(t, err)

	res, err := r.Resolve(ctx, "s1", "mua trả góp được không")
	require.NoError(t, err)
	assert.Equal(t, followup.DecisionInstallment, res.Decision)
	assert.Equal(t, followup.IntentInstallment, res.Context.LastIntent)
	assert.Empty(t, res.Context.PendingOptions)

	res, err = r.Resolve(ctx, "s1", "12")
	require.NoError(t, err)
	assert.Equal(t, followup.DecisionInstallment, res.Decision)
	assert.Contains(t, res.Reply, "Kỳ hạn: 12 tháng.")
}

func TestColorFollowUp(t *testing.T) {
	r := newTestRouter(t, catalogtest.Store(), nil, nil)
	ctx := context.Background()

	_, err := r.Resolve(ctx, "s1", "iphone 15")
	require.NoError(t, err)
	res, err := r.Resolve(ctx, "s1", "màu trắng còn không")
	require.NoError(t, err)

	assert.Equal(t, followup.DecisionColorQuery, res.Decision)
	assert.Contains(t, res.Reply, "màu Trắng hiện đã hết hàng")
}

func TestCompareThenSelect(t *testing.T) {
	r := newTestRouter(t, catalogtest.Store(), nil, nil)
	ctx := context.Background()

	res, err := r.Resolve(ctx, "s1", "so sánh iphone 15 pro max với galaxy s24 ultra")
	require.NoError(t, err)
	assert.Equal(t, intent.Compare, res.Intent)
	require.Len(t, res.MatchedProducts, 2)

	res, err = r.Resolve(ctx, "s1", "1")
	require.NoError(t, err)
	assert.Equal(t, followup.DecisionNumericSelection, res.Decision)
	assert.Equal(t, catalogtest.IPhone15ProMax, res.Context.CurrentProduct.ID)
}

func TestDirectives(t *testing.T) {
	r := newTestRouter(t, catalogtest.Store(), nil, nil)
	ctx := context.Background()

	_, err := r.Resolve(ctx, "s1", "iphone 15")
	require.NoError(t, err)

	res, err := r.Resolve(ctx, "s1", "/search galaxy a55")
	require.NoError(t, err)
	assert.Equal(t, ModeSearch, res.Mode)
	require.NotEmpty(t, res.MatchedProducts)
	assert.Equal(t, catalogtest.GalaxyA55, res.MatchedProducts[0].ID)
	// search directive leaves the conversation alone
	assert.Equal(t, catalogtest.IPhone15, res.Context.CurrentProduct.ID)

	res, err = r.Resolve(ctx, "s1", "/reset")
	require.NoError(t, err)
	assert.Equal(t, ModeReset, res.Mode)
	assert.Nil(t, res.Context.CurrentProduct)
}

func TestCatalogFailureIsNotNoMatch(t *testing.T) {
	r := newTestRouter(t, catalogtest.FailingStore{}, nil, nil)

	_, err := r.Resolve(context.Background(), "s1", "iphone 15")
	require.Error(t, err)
	assert.True(t, store.IsUnavailable(err))

	_, err = r.SearchProducts(context.Background(), "iphone 15")
	assert.True(t, store.IsUnavailable(err))
}

func TestTurnEventsArePublished(t *testing.T) {
	pub := &recordingPublisher{}
	r := newTestRouter(t, catalogtest.Store(), nil, pub)

	_, err := r.Resolve(context.Background(), "s1", "iphone 15")
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestEndSession(t *testing.T) {
	r := newTestRouter(t, catalogtest.Store(), nil, nil)
	ctx := context.Background()

	_, err := r.Resolve(ctx, "s1", "iphone 15")
	require.NoError(t, err)
	require.NoError(t, r.EndSession(ctx, "s1"))

	_, found, err := r.Context(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSmallTalkLeavesContext(t *testing.T) {
	r := newTestRouter(t, catalogtest.Store(), nil, nil)
	ctx := context.Background()

	first, err := r.Resolve(ctx, "s1", "samsung dưới 30 triệu chơi game")
	require.NoError(t, err)
	require.NotNil(t, first.Context.CurrentProduct)
	before := first.Context

	tests := []struct {
		message string
		intent  intent.Intent
		reply   string
	}{
		{"xin chào shop", intent.Greeting, "Chào bạn"},
		{"đơn hàng của tôi đâu", intent.OrderTracking, "mã đơn hàng"},
		{"ok", intent.General, "Bạn cần tư vấn gì"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			res, err := r.Resolve(ctx, "s1", tt.message)
			require.NoError(t, err)
			assert.Equal(t, tt.intent, res.Intent)
			assert.Equal(t, followup.DecisionGeneral, res.Decision)
			assert.Empty(t, res.MatchedProducts)
			assert.Contains(t, res.Reply, tt.reply)

			c, found, err := r.Context(ctx, "s1")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, before.CurrentProduct, c.CurrentProduct)
			assert.Equal(t, before.PendingOptions, c.PendingOptions)
			assert.Equal(t, before.Slots, c.Slots)
			assert.Equal(t, before.LastIntent, c.LastIntent)
		})
	}
}

func TestNumericSelectionIsNotSmallTalk(t *testing.T) {
	r := newTestRouter(t, catalogtest.Store(), nil, nil)
	ctx := context.Background()

	first, err := r.Resolve(ctx, "s1", "samsung")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(first.Context.PendingOptions), 2)
	second := first.Context.PendingOptions[1]

	res, err := r.Resolve(ctx, "s1", "2")
	require.NoError(t, err)
	assert.Equal(t, followup.DecisionNumericSelection, res.Decision)
	assert.Equal(t, second.ID, res.Context.CurrentProduct.ID)
}

func TestOversizedNumberReprompts(t *testing.T) {
	r := newTestRouter(t, catalogtest.Store(), nil, nil)
	ctx := context.Background()

	first, err := r.Resolve(ctx, "s1", "samsung")
	require.NoError(t, err)
	require.NotEmpty(t, first.Context.PendingOptions)

	res, err := r.Resolve(ctx, "s1", "99999999999999999999")
	require.NoError(t, err)
	assert.Equal(t, followup.DecisionNumericSelection, res.Decision)
	assert.Contains(t, res.Outcomes, followup.OutcomeAmbiguousSelection)
	assert.Equal(t, first.Context.PendingOptions, res.Context.PendingOptions)
}
