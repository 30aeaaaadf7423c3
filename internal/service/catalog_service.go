package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"phone-store-be/internal/dto"
	"phone-store-be/internal/mapper"
	"phone-store-be/internal/pkg/logger"
	"phone-store-be/pkg/cache"
	"phone-store-be/pkg/search"
)

// CatalogUpdatedTopic carries refresh notifications on the in-process bus
const CatalogUpdatedTopic = "catalog.updated"

// CatalogSource reloads the catalog from its seed and reports how many items it holds
type CatalogSource interface {
	Name() string
	Reload(ctx context.Context) (int, error)
}

// ICatalogService defines the catalog service interface
type ICatalogService interface {
	Search(ctx context.Context, request *dto.SearchProductsRequest) (*dto.SearchProductsResponse, error)
	Refresh(ctx context.Context) (*dto.RefreshCatalogResponse, error)
}

type catalogService struct {
	cascade   *search.Cascade
	results   *cache.ResultCache
	source    CatalogSource
	publisher message.Publisher
	mapper    *mapper.AssistantMapper
	logger    logger.ILogger
}

func NewCatalogService(
	cascade *search.Cascade,
	results *cache.ResultCache,
	source CatalogSource,
	publisher message.Publisher,
	log logger.ILogger,
) ICatalogService {
	return &catalogService{
		cascade:   cascade,
		results:   results,
		source:    source,
		publisher: publisher,
		mapper:    mapper.NewAssistantMapper(),
		logger:    log,
	}
}

// Search runs the cascade without touching any session. Results are cached by
// normalized query; a cache outage only costs the lookup.
func (s *catalogService) Search(ctx context.Context, request *dto.SearchProductsRequest) (*dto.SearchProductsResponse, error) {
	req := s.cascade.Prepare(request.Query)

	// 1. Cache
	cached, err := s.results.Get(ctx, req.Normalized)
	if err == nil {
		return s.toResponse(request.Query, cached, true), nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("CATALOG", "result cache read failed", map[string]interface{}{"error": err.Error()})
	}

	// 2. Cascade
	result, err := s.cascade.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Store
	if err := s.results.Set(ctx, req.Normalized, result); err != nil {
		s.logger.Warn("CATALOG", "result cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return s.toResponse(request.Query, result, false), nil
}

func (s *catalogService) toResponse(query string, result search.Result, cached bool) *dto.SearchProductsResponse {
	return &dto.SearchProductsResponse{
		Query:    query,
		Strategy: string(result.Strategy),
		Success:  result.Success,
		Cached:   cached,
		Products: s.mapper.ToProductResponses(result.Products()),
	}
}

// Refresh reloads the catalog and announces it so caches drop stale results
func (s *catalogService) Refresh(ctx context.Context) (*dto.RefreshCatalogResponse, error) {
	count, err := s.source.Reload(ctx)
	if err != nil {
		s.logger.Error("CATALOG", "refresh failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	payload, err := json.Marshal(dto.CatalogUpdatedMessage{
		Source:    s.source.Name(),
		Products:  count,
		UpdatedAt: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(CatalogUpdatedTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		return nil, err
	}

	s.logger.Info("CATALOG", "catalog refreshed", map[string]interface{}{
		"source":   s.source.Name(),
		"products": count,
	})
	return &dto.RefreshCatalogResponse{Source: s.source.Name(), Products: count}, nil
}
