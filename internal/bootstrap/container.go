package bootstrap

import (
	"context"
	"log"

	"traffic-assistant-be/internal/config"
	"traffic-assistant-be/internal/controller"
	"traffic-assistant-be/internal/pkg/credential"
	"traffic-assistant-be/internal/pkg/logger"
	"traffic-assistant-be/internal/pkg/serverutils"
	"traffic-assistant-be/internal/repository/unitofwork"
	"traffic-assistant-be/internal/service"
	"traffic-assistant-be/pkg/assistant"
	"traffic-assistant-be/pkg/database"
	"traffic-assistant-be/pkg/events"
	"traffic-assistant-be/pkg/llm"
	"traffic-assistant-be/pkg/llm/factory"
	pktNats "traffic-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	HealthController       controller.IHealthController
	AuthController         controller.IAuthController
	ConversationController controller.IConversationController
	ChatController         controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher
}

type Option func(*options)

type options struct {
	logger      logger.ILogger
	llmProvider llm.LLMProvider
}

// WithLogger replaces the zap file+console logger built from config.
func WithLogger(l logger.ILogger) Option {
	return func(o *options) { o.logger = l }
}

// WithLLMProvider replaces the backend selected by LLM_PROVIDER.
func WithLLMProvider(p llm.LLMProvider) Option {
	return func(o *options) { o.llmProvider = p }
}

func NewContainer(db *gorm.DB, cfg *config.Config, opts ...Option) *Container {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := o.logger
	if sysLogger == nil {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	}
	tokens := credential.NewTokenIssuer(cfg.Auth.JwtSecret)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	publishers := events.MultiPublisher{events.NewWatermillPublisher(pubSub, cfg.Events.Topic)}

	var natsPub *pktNats.Publisher
	if cfg.Events.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.Events.NatsURL, cfg.Events.Topic)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			publishers = append(publishers, natsPub)
		}
	}
	activity := service.NewActivityPublisher(publishers, sysLogger)

	// 3. LLM backend and responder
	llmProvider := o.llmProvider
	if llmProvider == nil {
		var err error
		llmProvider, err = factory.NewLLMProvider(factory.Settings{
			Provider:      cfg.Ai.LLMProvider,
			Model:         cfg.Ai.LLMModel,
			Timeout:       cfg.Ai.Timeout,
			OllamaBaseURL: cfg.Ai.OllamaBaseURL,
			GeminiAPIKey:  cfg.Ai.GeminiAPIKey,
			GeminiBaseURL: cfg.Ai.GeminiBaseURL,
			OpenAIAPIKey:  cfg.Ai.OpenAIAPIKey,
			OpenAIBaseURL: cfg.Ai.OpenAIBaseURL,
		})
		if err != nil {
			log.Printf("[WARN] LLM Provider unavailable, answers will use the fallback text: %v", err)
			llmProvider = llm.Unavailable(err)
		} else {
			log.Printf("[INFO] Using LLM Provider: %s", cfg.Ai.LLMProvider)
		}
	}
	responder := assistant.NewTrafficLawResponder(llmProvider, sysLogger)

	// 4. Services
	identityService := service.NewIdentityService(uowFactory, tokens)
	authService := service.NewAuthService(uowFactory, tokens, cfg.Auth.AccessTokenTTL, activity, sysLogger)
	conversationService := service.NewConversationService(uowFactory, activity, sysLogger)
	chatService := service.NewChatService(uowFactory, responder, activity, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Events.Topic, sysLogger)

	// 5. Controllers
	authMiddleware := serverutils.AuthMiddleware(identityService)
	ping := func(ctx context.Context) error { return database.Ping(ctx, db) }

	return &Container{
		HealthController:       controller.NewHealthController(cfg.App.Name, cfg.App.Version, ping, sysLogger),
		AuthController:         controller.NewAuthController(authService, authMiddleware),
		ConversationController: controller.NewConversationController(conversationService, authMiddleware),
		ChatController:         controller.NewChatController(chatService, authMiddleware),
		ConsumerService:        consumerService,
		Logger:                 sysLogger,
		pubSub:                 pubSub,
		natsPub:                natsPub,
	}
}

// Close releases the event bus connections. The database is owned by main.
func (c *Container) Close() {
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if err := c.pubSub.Close(); err != nil {
		c.Logger.Warn("Container", "Failed to close event bus", map[string]interface{}{"error": err.Error()})
	}
	_ = c.Logger.Sync()
}
