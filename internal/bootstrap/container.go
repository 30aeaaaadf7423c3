package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"phone-store-be/internal/config"
	"phone-store-be/internal/controller"
	"phone-store-be/internal/handler"
	"phone-store-be/internal/model"
	"phone-store-be/internal/pkg/logger"
	"phone-store-be/internal/repository/implementation"
	"phone-store-be/internal/repository/memory"
	"phone-store-be/internal/repository/redisstore"
	"phone-store-be/internal/service"
	"phone-store-be/internal/websocket"
	"phone-store-be/pkg/ai/router"
	"phone-store-be/pkg/assistant"
	"phone-store-be/pkg/cache"
	"phone-store-be/pkg/catalog"
	"phone-store-be/pkg/database"
	"phone-store-be/pkg/events"
	"phone-store-be/pkg/llm/factory"
	pktNats "phone-store-be/pkg/nats"
	"phone-store-be/pkg/rag/session"
	"phone-store-be/pkg/search"
	"phone-store-be/pkg/textnorm"
)

const auditDurable = "assistant-turn-audit"

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	CatalogController   controller.ICatalogController

	// WebSockets
	AssistantSocketHandler *handler.AssistantSocketHandler
	WebSocketHub           *websocket.Hub

	// Background Services (started by Start)
	ConsumerService  service.IConsumerService
	TurnAuditService service.ITurnAuditService

	Logger        logger.ILogger
	CatalogSource string

	natsPub *pktNats.Publisher
	natsSub *pktNats.Subscriber
	rdb     *redis.Client
	pubSub  *gochannel.GoChannel
}

func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Logging
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	engineLog := sysLogger.Std("ENGINE")

	lexicon, err := textnorm.LoadLexicon(cfg.Assistant.LexiconPath)
	if err != nil {
		return nil, err
	}
	normalize := textnorm.New(lexicon).Normalize

	// 2. Catalog: Postgres when configured, the JSON seed otherwise
	var (
		catalogStore  catalog.Store
		catalogSource service.CatalogSource
	)
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.DefaultPoolConfig(), cfg.Database.Verbose)
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(&model.Brand{}, &model.Product{}); err != nil {
			return nil, fmt.Errorf("migrate catalog: %w", err)
		}
		repo := implementation.NewCatalogRepository(db, normalize)
		catalogStore = repo
		catalogSource = service.NewRepositorySource(repo, cfg.Assistant.CatalogSeedPath)
	} else {
		items, err := catalog.LoadItems(cfg.Assistant.CatalogSeedPath)
		if err != nil {
			return nil, err
		}
		static := catalog.NewStaticStore(items, normalize)
		catalogStore = static
		catalogSource = service.NewStaticSource(static, cfg.Assistant.CatalogSeedPath)
		sysLogger.Info("BOOTSTRAP", "Serving catalog from seed file", map[string]interface{}{
			"path":     cfg.Assistant.CatalogSeedPath,
			"products": len(items),
		})
	}

	// 3. Redis (optional)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		}
	}

	var contexts session.Repository = memory.NewContextRepository(cfg.Assistant.ContextTTL)
	if cfg.Assistant.ContextStore == "redis" {
		if rdb == nil {
			return nil, fmt.Errorf("CONTEXT_STORE=redis requires REDIS_URL")
		}
		contexts = redisstore.NewContextRepository(rdb, "phone-store:", cfg.Assistant.ContextTTL)
	}

	// 4. NATS (optional)
	var (
		natsPub   *pktNats.Publisher
		natsSub   *pktNats.Subscriber
		publisher router.EventPublisher
	)
	if cfg.App.NatsURL != "" {
		if natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL); err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		} else {
			publisher = natsPub
		}
		if natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL); err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Subscriber", map[string]interface{}{"error": err.Error()})
		}
	}

	// 5. Text generation
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.LLMBaseURL, cfg.Ai.LLMApiKey)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 6. Engine
	engine := assistant.New(assistant.Options{
		Catalog:           catalogStore,
		Contexts:          contexts,
		Lexicon:           lexicon,
		LLM:               llmProvider,
		GenerationTimeout: cfg.Ai.GenerationTimeout,
		Publisher:         publisher,
		Search:            search.DefaultConfig(),
		PendingLimit:      cfg.Assistant.PendingLimit,
		PopularCacheTTL:   cfg.Assistant.PopularCacheTTL,
		HistoryTTL:        cfg.Assistant.ContextTTL,
		HistoryLimit:      cfg.Assistant.HistoryLimit,
		Logger:            engineLog,
	})

	// 7. Event bus and services
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	results := cache.NewResultCache(rdb, "phone-store:search:", cfg.Assistant.SearchCacheTTL)

	assistantService := service.NewAssistantService(engine.Router, sysLogger)
	catalogService := service.NewCatalogService(engine.Cascade, results, catalogSource, pubSub, sysLogger)
	consumerService := service.NewConsumerService(pubSub, service.CatalogUpdatedTopic, results, engine.Popular, sysLogger)
	auditService := service.NewTurnAuditService(sysLogger)

	// 8. WebSocket
	wsHub := websocket.NewHub(rdb, logger.NewIsolatedLogger(cfg.App.SocketLogFilePath))

	return &Container{
		AssistantController:    controller.NewAssistantController(assistantService, auditService),
		CatalogController:      controller.NewCatalogController(catalogService),
		AssistantSocketHandler: handler.NewAssistantSocketHandler(assistantService, wsHub, sysLogger),
		WebSocketHub:           wsHub,
		ConsumerService:        consumerService,
		TurnAuditService:       auditService,
		Logger:                 sysLogger,
		CatalogSource:          catalogSource.Name(),
		natsPub:                natsPub,
		natsSub:                natsSub,
		rdb:                    rdb,
		pubSub:                 pubSub,
	}, nil
}

// Start runs the background workers until ctx is done
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		return fmt.Errorf("start catalog consumer: %w", err)
	}

	if c.natsSub != nil {
		subject := pktNats.Subject(events.TurnResolved{})
		if err := c.natsSub.Subscribe(ctx, subject, auditDurable, c.TurnAuditService.Handle); err != nil {
			c.Logger.Warn("BOOTSTRAP", "Turn audit subscription failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

// Close releases connections in reverse order of creation
func (c *Container) Close() {
	c.natsSub.Close()
	c.natsPub.Close()
	if c.pubSub != nil {
		_ = c.pubSub.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	_ = c.Logger.Sync()
}
