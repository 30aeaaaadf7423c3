package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"

	"phone-store-be/internal/dto"
	"phone-store-be/internal/pkg/logger"
	"phone-store-be/pkg/cache"
	"phone-store-be/pkg/search"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drops cached search results whenever the catalog changes
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	results    *cache.ResultCache
	popular    *search.PopularCache
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	results *cache.ResultCache,
	popular *search.PopularCache,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		results:    results,
		popular:    popular,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.CatalogUpdatedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "invalid catalog message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // never retry a payload that cannot decode
		return
	}

	if cs.popular != nil {
		cs.popular.Invalidate()
	}
	if err := cs.results.Invalidate(ctx); err != nil {
		cs.logger.Error("CONSUMER", "result cache invalidation failed", map[string]interface{}{
			"error":  err.Error(),
			"source": payload.Source,
		})
		msg.Nack()
		return
	}

	cs.logger.Info("CONSUMER", "catalog caches invalidated", map[string]interface{}{
		"source":   payload.Source,
		"products": payload.Products,
	})
	msg.Ack()
}
