package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phone-store-be/internal/dto"
	"phone-store-be/internal/pkg/logger"
	"phone-store-be/internal/repository/memory"
	"phone-store-be/pkg/assistant"
	"phone-store-be/pkg/cache"
	"phone-store-be/pkg/catalog"
	"phone-store-be/pkg/catalog/catalogtest"
	"phone-store-be/pkg/events"
)

func newEngine(t *testing.T, s catalog.Store) *assistant.Engine {
	t.Helper()
	return assistant.New(assistant.Options{
		Catalog:  s,
		Contexts: memory.NewContextRepository(time.Hour),
	})
}

func TestAssistantServiceSendChat(t *testing.T) {
	svc := NewAssistantService(newEngine(t, catalogtest.Store()).Router, logger.NewNopLogger())
	ctx := context.Background()

	first, err := svc.SendChat(ctx, &dto.SendChatRequest{Message: "tìm điện thoại samsung"})
	require.NoError(t, err)
	require.NotEmpty(t, first.SessionId)
	require.NotEmpty(t, first.Options)
	assert.Equal(t, 1, first.Options[0].Index)
	assert.Contains(t, first.Options[0].PriceText, "₫")

	second, err := svc.SendChat(ctx, &dto.SendChatRequest{SessionId: first.SessionId, Message: "2"})
	require.NoError(t, err)
	assert.Equal(t, "NUMERIC_SELECTION", second.Decision)
	require.NotNil(t, second.Session.CurrentProduct)
	assert.Equal(t, first.Options[1].Id, second.Session.CurrentProduct.Id)

	session, err := svc.GetSession(ctx, first.SessionId)
	require.NoError(t, err)
	assert.Equal(t, first.Options[1].Id, session.CurrentProduct.Id)

	require.NoError(t, svc.EndSession(ctx, first.SessionId))
	_, err = svc.GetSession(ctx, first.SessionId)
	var ferr *fiber.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, fiber.StatusNotFound, ferr.Code)
}

func TestAssistantServiceCatalogFailure(t *testing.T) {
	svc := NewAssistantService(newEngine(t, catalogtest.FailingStore{}).Router, logger.NewNopLogger())
	_, err := svc.SendChat(context.Background(), &dto.SendChatRequest{SessionId: "s1", Message: "iphone 15"})
	assert.ErrorIs(t, err, catalogtest.ErrDown)
}

func TestCatalogServiceSearchWithoutCache(t *testing.T) {
	engine := newEngine(t, catalogtest.Store())
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	svc := NewCatalogService(engine.Cascade, cache.NewResultCache(nil, "", time.Minute), nil, pubSub, logger.NewNopLogger())
	res, err := svc.Search(context.Background(), &dto.SearchProductsRequest{Query: "iphone 15 pro max"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Cached)
	assert.Equal(t, "exact_model", res.Strategy)
	require.NotEmpty(t, res.Products)
	assert.Equal(t, catalogtest.IPhone15ProMax, res.Products[0].Id)
}

func TestRefreshInvalidatesCaches(t *testing.T) {
	engine := newEngine(t, catalogtest.Store())
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	// seed file with only one product
	items := catalogtest.Items()[:1]
	raw, err := json.Marshal(items)
	require.NoError(t, err)
	seed := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(seed, raw, 0o644))

	static := catalogtest.Store()
	results := cache.NewResultCache(nil, "", time.Minute)
	consumer := NewConsumerService(pubSub, CatalogUpdatedTopic, results, engine.Popular, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(context.Background()))

	messages, err := pubSub.Subscribe(context.Background(), CatalogUpdatedTopic)
	require.NoError(t, err)

	svc := NewCatalogService(engine.Cascade, results, NewStaticSource(static, seed), pubSub, logger.NewNopLogger())
	res, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Products)
	assert.Equal(t, 1, static.Len())

	select {
	case msg := <-messages:
		var payload dto.CatalogUpdatedMessage
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, 1, payload.Products)
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("catalog.updated not published")
	}
}

func TestTurnAuditServiceCounts(t *testing.T) {
	svc := NewTurnAuditService(logger.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, svc.Handle(ctx, events.TurnResolved{
		SessionID: "s1", Intent: "product_inquiry", Decision: "NEW_SEARCH",
		ProductIDs: []string{"p-ip15"}, Generated: true, OccurredAt: time.Now(),
	}))
	// events decoded from NATS carry JSON-shaped payloads
	require.NoError(t, svc.Handle(ctx, events.BaseEvent{
		Type: events.TypeTurnResolved,
		Data: map[string]interface{}{
			"intent":      "check_stock",
			"decision":    "STOCK_QUERY",
			"outcomes":    []interface{}{"StaleContextReference"},
			"product_ids": []interface{}{"p-ip15"},
		},
	}))
	require.NoError(t, svc.Handle(ctx, events.BaseEvent{Type: events.TypeCatalogUpdated}))

	stats := svc.Stats()
	assert.Equal(t, 2, stats.Turns)
	assert.Equal(t, 1, stats.Generated)
	assert.Equal(t, 1, stats.ByIntent["check_stock"])
	assert.Equal(t, 1, stats.ByOutcome["StaleContextReference"])
	assert.Equal(t, 2, stats.Products["p-ip15"])
}
