package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"file-concierge-be/internal/config"
	"file-concierge-be/internal/controller"
	"file-concierge-be/internal/pkg/logger"
	"file-concierge-be/internal/pkg/mailer"
	"file-concierge-be/internal/repository/implementation"
	"file-concierge-be/internal/repository/session"
	"file-concierge-be/internal/repository/unitofwork"
	"file-concierge-be/internal/service"
	"file-concierge-be/pkg/dialogue"
	"file-concierge-be/pkg/dialogue/access"
	"file-concierge-be/pkg/dialogue/history"
	"file-concierge-be/pkg/dialogue/intent"
	"file-concierge-be/pkg/dialogue/state"
	"file-concierge-be/pkg/dialogue/token"
	"file-concierge-be/pkg/graph"
	"file-concierge-be/pkg/identity"
	"file-concierge-be/pkg/llm/factory"

	pktNats "file-concierge-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	AuditService    service.IAuditService // nil when NATS is unreachable

	// System logger, exposed for shutdown Sync
	Logger logger.ILogger
}

func initDialogueLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "dialogue.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[DIALOGUE] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := initDialogueLogger()

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// 3. Session Storage
	var sessionRepo session.Repository
	sessionTTL := time.Duration(cfg.App.SessionTTLMinutes) * time.Minute
	if cfg.App.SessionStore == "redis" {
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
		sessionRepo = session.NewRedisRepository(rdb, sessionTTL)
		log.Printf("[INFO] Using Session Store: REDIS")
	} else {
		sessionRepo = session.NewMemoryRepository(sessionTTL)
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	// 4. Remote Clients
	graphClient := graph.NewClient(cfg.Azure.GraphBaseURL)
	identityClient := identity.NewClient(identity.Config{
		ClientID:     cfg.Azure.ClientID,
		ClientSecret: cfg.Azure.ClientSecret,
		TenantID:     cfg.Azure.TenantID,
		RedirectURL:  cfg.Azure.RedirectURL,
	}, implementation.NewTokenCacheRepository(db), stdLogger)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.BaseURL,
		cfg.Ai.APIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 5. Notification Pipeline
	publisherService := service.NewPublisherService(cfg.App.NotifyTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.NotifyTopic,
		graphClient,
		emailService,
		cfg.App.NotifyChannel == "smtp",
		natsPub,
	)

	var auditService service.IAuditService
	if natsSub != nil {
		auditService = service.NewAuditService(natsSub, sysLogger)
	}

	// 6. Dialogue Engine
	engine := dialogue.NewEngine(
		token.NewGuard(identityClient, stdLogger),
		access.NewGate(graphClient, stdLogger),
		state.NewManager(stdLogger),
		intent.NewResolver(llmProvider, stdLogger),
		graphClient,
		publisherService,
		history.NewRecorder(uowFactory),
		stdLogger,
	)

	// 7. Services
	dialogueService := service.NewDialogueService(engine, sessionRepo, uowFactory, natsPub)
	authService := service.NewAuthService(identityClient, sessionRepo, natsPub)
	historyService := service.NewHistoryService(uowFactory)

	// 8. Controllers
	return &Container{
		AuthController:  controller.NewAuthController(authService, cfg.App.ClientURL),
		ChatController:  controller.NewChatController(dialogueService, historyService),
		ConsumerService: consumerService,
		AuditService:    auditService,
		Logger:          sysLogger,
	}
}
