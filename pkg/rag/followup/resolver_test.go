package followup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phone-store-be/internal/repository/memory"
	"phone-store-be/pkg/catalog"
	"phone-store-be/pkg/catalog/catalogtest"
	"phone-store-be/pkg/extract"
	"phone-store-be/pkg/rag/session"
	"phone-store-be/pkg/rag/state"
	"phone-store-be/pkg/search"
	"phone-store-be/pkg/store"
	"phone-store-be/pkg/textnorm"
)

type fixture struct {
	resolver *Resolver
	sessions *session.Manager
}

func newFixture(t *testing.T, catalogStore catalog.Store) fixture {
	t.Helper()
	return newFixtureWithRepository(t, catalogStore, memory.NewContextRepository(time.Hour))
}

func newFixtureWithRepository(t *testing.T, catalogStore catalog.Store, repo session.Repository) fixture {
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
	sessions := session.NewManager(repo, logger)
	return fixture{
		resolver: NewResolver(cascade, catalogStore, sessions, state.NewManager(logger), DefaultConfig(), logger),
		sessions: sessions,
	}
}

// turn resolves a message against the stored context, the way the router does
func (f fixture) turn(t *testing.T, sessionID, message string) *Resolution {
	t.Helper()
	ctx := context.Background()
	c, err := f.sessions.Get(ctx, sessionID)
	require.NoError(t, err)
	res, err := f.resolver.Resolve(ctx, sessionID, message, c, "")
	require.NoError(t, err)
	return res
}

func TestResolveIndexSelection(t *testing.T) {
	f := newFixture(t, catalogtest.Store())

	first := f.turn(t, "s1", "tìm điện thoại samsung")
	require.Equal(t, DecisionNewSearch, first.Decision)
	pending := first.Context.PendingOptions
	require.GreaterOrEqual(t, len(pending), 2)

	res := f.turn(t, "s1", "2")
	assert.Equal(t, DecisionNumericSelection, res.Decision)
	require.NotNil(t, res.Product)
	assert.Equal(t, pending[1].ID, res.Product.ID)
	assert.Equal(t, pending[1].ID, res.Context.CurrentProduct.ID)
	assert.Empty(t, res.Context.PendingOptions)
}

func TestResolvePriceSelection(t *testing.T) {
	f := newFixture(t, catalogtest.Store())

	first := f.turn(t, "s1", "samsung")
	pending := first.Context.PendingOptions
	require.GreaterOrEqual(t, len(pending), 3)

	target := pending[2]
	res := f.turn(t, "s1", fmt.Sprintf("%.0f", target.Price))
	assert.Equal(t, DecisionNumericSelection, res.Decision)
	require.NotNil(t, res.Product)
	assert.Equal(t, target.ID, res.Product.ID)
}

func TestResolveAmbiguousSelectionKeepsOptions(t *testing.T) {
	f := newFixture(t, catalogtest.Store())

	first := f.turn(t, "s1", "samsung")
	pending := first.Context.PendingOptions
	require.NotEmpty(t, pending)

	res := f.turn(t, "s1", "9")
	assert.True(t, res.HasOutcome(OutcomeAmbiguousSelection))
	assert.Equal(t, pending, res.Options)
	assert.Equal(t, pending, res.Context.PendingOptions)
	assert.Equal(t, first.Context.CurrentProduct, res.Context.CurrentProduct)
}

func TestResolveBoundColorQuery(t *testing.T) {
	f := newFixture(t, catalogtest.Store())

	first := f.turn(t, "s1", "iphone 15")
	require.Equal(t, catalogtest.IPhone15, first.Context.CurrentProduct.ID)

	res := f.turn(t, "s1", "màu trắng còn không")
	assert.Equal(t, DecisionColorQuery, res.Decision)
	assert.True(t, res.Bound)
	require.NotNil(t, res.Product)
	assert.Equal(t, catalogtest.IPhone15, res.Product.ID)
	assert.Contains(t, res.RequestedColors, "trang")

	byName := make(map[string]store.ColorOption)
	for _, o := range res.Colors {
		byName[o.Name] = o
	}
	require.Contains(t, byName, "Trắng")
	assert.False(t, byName["Trắng"].InStock)
	assert.True(t, byName["Đen"].InStock)
}

func TestResolveFreshColorQueryRefocuses(t *testing.T) {
	f := newFixture(t, catalogtest.Store())

	f.turn(t, "s1", "iphone 15")
	res := f.turn(t, "s1", "galaxy s24 ultra có màu gì")
	assert.Equal(t, DecisionColorQuery, res.Decision)
	assert.False(t, res.Bound)
	require.NotNil(t, res.Product)
	assert.Equal(t, catalogtest.GalaxyS24Ultra, res.Product.ID)
	assert.Equal(t, catalogtest.GalaxyS24Ultra, res.Context.CurrentProduct.ID)
	assert.Equal(t, "samsung", res.Context.Slots.Brand)
}

func TestResolveStaleReference(t *testing.T) {
	f := newFixture(t, catalogtest.Store())
	ctx := context.Background()

	_, err := f.sessions.SetCurrentProduct(ctx, "s1", &store.ProductSummary{ID: "p-discontinued", Name: "iPhone 15"})
	require.NoError(t, err)

	res := f.turn(t, "s1", "còn hàng không")
	require.NotEmpty(t, res.Outcomes)
	assert.Equal(t, OutcomeStaleContextReference, res.Outcomes[0])
	assert.Equal(t, DecisionNewSearch, res.Decision)
	require.NotNil(t, res.Product)
	assert.Equal(t, catalogtest.IPhone15, res.Product.ID)
	assert.Equal(t, catalogtest.IPhone15, res.Context.CurrentProduct.ID)
}

func TestResolveNoCandidatesClearsAnchor(t *testing.T) {
	f := newFixture(t, catalogtest.Store())

	f.turn(t, "s1", "iphone 15")
	res := f.turn(t, "s1", "nokia 3310")

	assert.True(t, res.HasOutcome(OutcomeNoCandidatesFound))
	assert.Nil(t, res.Context.CurrentProduct)
	assert.Empty(t, res.Context.PendingOptions)
	assert.True(t, res.Context.Slots.IsEmpty())
	assert.Equal(t, "nokia", res.Understood.Brand)
	require.NotNil(t, res.Search)
	assert.False(t, res.Search.Success)
	assert.Empty(t, res.MatchedProducts())
}

func TestResolveRefinementInheritsBrand(t *testing.T) {
	f := newFixture(t, catalogtest.Store())

	f.turn(t, "s1", "samsung")
	res := f.turn(t, "s1", "dưới 10 triệu")

	assert.Equal(t, DecisionNewSearch, res.Decision)
	assert.Equal(t, "samsung", res.Entity.Brand)
	require.NotNil(t, res.Product)
	assert.Equal(t, catalogtest.GalaxyA55, res.Product.ID)
	assert.Equal(t, "samsung", res.Context.Slots.Brand)
	assert.InDelta(t, 10, res.Context.Slots.BudgetMillion, 1e-9)
	for _, p := range res.MatchedProducts() {
		assert.Equal(t, "Samsung", p.BrandName)
		assert.LessOrEqual(t, p.FinalPrice(), 10_000_000.0)
	}
}

func TestResolveRefinementWithoutPreferencesKeepsBrand(t *testing.T) {
	f := newFixture(t, catalogtest.Store())

	f.turn(t, "s1", "samsung dưới 30 triệu")
	res := f.turn(t, "s1", "cho mình xem thêm đi")

	assert.Equal(t, DecisionNewSearch, res.Decision)
	assert.Equal(t, "samsung", res.Entity.Brand)
	require.NotEmpty(t, res.MatchedProducts())
	for _, p := range res.MatchedProducts() {
		assert.Equal(t, "Samsung", p.BrandName)
	}
	assert.Equal(t, "samsung", res.Context.Slots.Brand)
	assert.InDelta(t, 30, res.Context.Slots.BudgetMillion, 1e-9)
}

func TestResolveInstallment(t *testing.T) {
	f := newFixture(t, catalogtest.Store())

	f.turn(t, "s1", "iphone 15 pro max")
	res := f.turn(t, "s1", "trả góp 12 tháng được không")
	assert.Equal(t, DecisionInstallment, res.Decision)
	require.NotNil(t, res.Product)
	assert.Equal(t, catalogtest.IPhone15ProMax, res.Product.ID)
	require.NotNil(t, res.Installment)
	assert.Equal(t, 12, res.Installment.Months)
}

func TestCompare(t *testing.T) {
	f := newFixture(t, catalogtest.Store())
	ctx := context.Background()

	c, err := f.sessions.Get(ctx, "s1")
	require.NoError(t, err)
	res, err := f.resolver.Compare(ctx, "s1", "so sánh iphone 15 pro max và galaxy s24 ultra", c, "compare")
	require.NoError(t, err)

	require.Len(t, res.Compared, 2)
	assert.Equal(t, catalogtest.IPhone15ProMax, res.Compared[0].ID)
	assert.Equal(t, catalogtest.GalaxyS24Ultra, res.Compared[1].ID)
	require.Len(t, res.Context.PendingOptions, 2)

	// the shopper can pick a side by number afterwards
	picked := f.turn(t, "s1", "2")
	require.NotNil(t, picked.Product)
	assert.Equal(t, catalogtest.GalaxyS24Ultra, picked.Product.ID)
}

func TestSplitComparison(t *testing.T) {
	n := textnorm.Default()
	tests := []struct {
		message string
		want    []string
	}{
		{"So sánh iPhone 15 và Galaxy S24", []string{"iphone 15", "galaxy s24"}},
		{"iphone 15 vs s24 ultra", []string{"iphone 15", "s24 ultra"}},
		{"nên mua redmi note 13 hay oppo a79", []string{"redmi note 13", "oppo a79"}},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitComparison(n.Normalize(tt.message)))
		})
	}
}

func TestResolveCatalogFailure(t *testing.T) {
	f := newFixture(t, catalogtest.FailingStore{})

	c, err := f.sessions.Get(context.Background(), "s1")
	require.NoError(t, err)
	_, err = f.resolver.Resolve(context.Background(), "s1", "iphone 15", c, "")
	require.Error(t, err)
	assert.True(t, store.IsUnavailable(err))
	assert.ErrorIs(t, err, catalogtest.ErrDown)
}

type flakyRepository struct {
	session.Repository
	failSaves bool
}

var errSaveFailed = errors.New("redis: connection pool timeout")

func (r *flakyRepository) Save(ctx context.Context, c *store.ConversationContext) error {
	if r.failSaves {
		return errSaveFailed
	}
	return r.Repository.Save(ctx, c)
}

func TestResolveFailedWriteKeepsContext(t *testing.T) {
	repo := &flakyRepository{Repository: memory.NewContextRepository(time.Hour)}
	f := newFixtureWithRepository(t, catalogtest.Store(), repo)
	ctx := context.Background()

	first := f.turn(t, "s1", "samsung dưới 30 triệu")
	before := first.Context

	repo.failSaves = true
	c, err := f.sessions.Get(ctx, "s1")
	require.NoError(t, err)
	_, err = f.resolver.Resolve(ctx, "s1", "iphone 15 pro max", c, "product_inquiry")
	require.Error(t, err)
	assert.True(t, store.IsUnavailable(err))
	assert.ErrorIs(t, err, errSaveFailed)

	repo.failSaves = false
	after, err := f.sessions.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, before.CurrentProduct, after.CurrentProduct)
	assert.Equal(t, before.PendingOptions, after.PendingOptions)
	assert.Equal(t, before.Slots, after.Slots)
	assert.Equal(t, before.LastIntent, after.LastIntent)
}

func TestResolveRecordsTurnIntent(t *testing.T) {
	f := newFixture(t, catalogtest.Store())
	ctx := context.Background()

	c, err := f.sessions.Get(ctx, "s1")
	require.NoError(t, err)
	res, err := f.resolver.Resolve(ctx, "s1", "iphone 15", c, "product_inquiry")
	require.NoError(t, err)
	assert.Equal(t, "product_inquiry", res.Context.LastIntent)

	res, err = f.resolver.Resolve(ctx, "s1", "trả góp được không", res.Context, "installment")
	require.NoError(t, err)
	assert.Equal(t, DecisionInstallment, res.Decision)
	assert.Equal(t, IntentInstallment, res.Context.LastIntent)
}
