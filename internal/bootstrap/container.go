package bootstrap

import (
	"context"
	"log"
	"os"

	"aftercare-ai-be/internal/config"
	"aftercare-ai-be/internal/controller"
	"aftercare-ai-be/internal/handler"
	"aftercare-ai-be/internal/pkg/logger"
	"aftercare-ai-be/internal/pkg/mailer"
	"aftercare-ai-be/internal/repository/memory"
	"aftercare-ai-be/internal/repository/unitofwork"
	"aftercare-ai-be/internal/service"
	"aftercare-ai-be/internal/websocket"
	"aftercare-ai-be/pkg/audit"
	"aftercare-ai-be/pkg/compose"
	"aftercare-ai-be/pkg/conversation"
	"aftercare-ai-be/pkg/embedding"
	"aftercare-ai-be/pkg/evidence"
	"aftercare-ai-be/pkg/llm/factory"
	"aftercare-ai-be/pkg/triage"
	"aftercare-ai-be/pkg/websearch"
	"aftercare-ai-be/pkg/websearch/tavily"

	pkgNats "aftercare-ai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	AssistantController controller.IAssistantController
	PatientController   controller.IPatientController
	KnowledgeController controller.IKnowledgeController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	AuditFeedHandler *handler.AuditFeedHandler
	WebSocketHub     *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.New(os.Stdout, "", log.LstdFlags)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-memory conversation state
	sessionRepo := memory.NewSessionRepository()

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
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

	// WebSocket Hub (live audit feed for staff consoles)
	wsLogger := logger.NewIsolatedLogger("logs/audit_feed.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Conversation pipeline
	auditEmitter := websocket.NewAuditFeed(audit.NewNatsEmitter(natsPub, sysLogger), wsHub)

	knowledgeSearcher := service.NewKnowledgeSearcher(uowFactory, embeddingProvider)
	webSearcher := websearch.NewEvidenceAdapter(tavily.NewTavilyProvider(cfg.Keys.Tavily))
	coordinator := evidence.NewCoordinator(knowledgeSearcher, webSearcher, evidence.DefaultConfig(), stdLogger)
	composer := compose.NewComposer(llmProvider, compose.DefaultConfig(), stdLogger)
	classifier := triage.NewClassifier(triage.DefaultPatterns())
	directory := service.NewPatientDirectory(uowFactory)

	router := conversation.NewRouter(
		sessionRepo,
		directory,
		classifier,
		coordinator,
		composer,
		auditEmitter,
		stdLogger,
	)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		uowFactory,
		embeddingProvider,
	)

	authService := service.NewAuthService(uowFactory, natsPub)
	patientService := service.NewPatientService(uowFactory, emailService)
	knowledgeService := service.NewKnowledgeService(uowFactory, publisherService)
	assistantService := service.NewAssistantService(router, sessionRepo, uowFactory, stdLogger)

	// 6. Controllers
	return &Container{
		AuthController:      controller.NewAuthController(authService),
		AssistantController: controller.NewAssistantController(assistantService),
		PatientController:   controller.NewPatientController(patientService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),

		ConsumerService: consumerService,

		AuditFeedHandler: handler.NewAuditFeedHandler(wsHub, wsLogger),
		WebSocketHub:     wsHub,
	}
}
