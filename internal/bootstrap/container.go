package bootstrap

import (
	"context"
	"log"

	"ai-filevault-be/internal/config"
	"ai-filevault-be/internal/controller"
	"ai-filevault-be/internal/handler"
	"ai-filevault-be/internal/pkg/logger"
	"ai-filevault-be/internal/repository/implementation"
	"ai-filevault-be/internal/repository/unitofwork"
	"ai-filevault-be/internal/service"
	"ai-filevault-be/internal/websocket"
	"ai-filevault-be/pkg/assistant/resolver"
	"ai-filevault-be/pkg/assistant/tools"
	reasoningOpenAI "ai-filevault-be/pkg/reasoning/openai"
	speechOpenAI "ai-filevault-be/pkg/speech/openai"
	"ai-filevault-be/pkg/storage"

	pktNats "ai-filevault-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	AdminController     controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Storage gateway and AI providers
	gateway := storage.NewGatewayClient(cfg.Storage.GatewayURL, cfg.Storage.APIKey)
	reasoner := reasoningOpenAI.NewProvider(cfg.Keys.OpenAI)
	speechClient := speechOpenAI.NewClient(cfg.Keys.OpenAI, cfg.Assistant.TranscribeModel, cfg.Assistant.TTSModel)

	// 4. Repositories used outside transactions
	fileRepo := implementation.NewUserFileRepository(db)
	categoryRepo := implementation.NewFileCategoryRepository(db)
	ocrRepo := implementation.NewOcrResultRepository(db)
	interactionRepo := implementation.NewInteractionRepository(db)
	settingRepo := implementation.NewAssistantSettingRepository(db)

	usageService := storage.NewUsageService(fileRepo, cfg.Storage.QuotaBytes)

	// 5. Background OCR pipeline
	publisherService := service.NewPublisherService(pubSub, cfg.Assistant.OcrTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Assistant.OcrTopic,
		uowFactory,
		gateway,
	)
	ocrRequester := service.NewOcrRequestPublisher(publisherService)

	// 6. Assistant core
	fileResolver := resolver.New(fileRepo, interactionRepo, sysLogger)
	executor := tools.NewExecutor(
		fileRepo,
		categoryRepo,
		ocrRepo,
		ocrRequester,
		fileResolver,
		gateway,
		usageService,
		reasoner,
		cfg.Assistant.ChatModel,
		sysLogger,
	)

	var eventPublisher service.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}

	assistantService := service.NewAssistantService(
		interactionRepo,
		settingRepo,
		fileRepo,
		fileResolver,
		executor,
		reasoner,
		speechClient,
		speechClient,
		gateway,
		eventPublisher,
		cfg.Assistant,
		sysLogger,
	)

	// 7. Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger) // Hub implements NotificationDelivery

	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, natsPub, wsHub, wsLogger)

	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		AssistantController: controller.NewAssistantController(assistantService),
		AdminController:     controller.NewAdminController(sysLogger),

		ConsumerService: consumerService,
	}
}
