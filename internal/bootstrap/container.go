package bootstrap

import (
	"context"
	"log"

	"neurobridge-be/internal/config"
	"neurobridge-be/internal/controller"
	"neurobridge-be/internal/pkg/inference"
	"neurobridge-be/internal/pkg/logger"
	"neurobridge-be/internal/pkg/serverutils"
	"neurobridge-be/internal/repository/implementation"
	"neurobridge-be/internal/service"
	"neurobridge-be/internal/websocket"

	pktNats "neurobridge-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// sessionEventsTopic names the in-process bus topic carrying session audit
// events from the gateway to the NATS forwarder.
const sessionEventsTopic = "session_events"

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	EmotionController controller.IEmotionController

	// REST auth guard, built from the same cfg.Auth.JWTSecret the token
	// service validates stream handshakes with.
	AuthMiddleware fiber.Handler

	// Stream gateway
	StreamHandler *websocket.StreamHandler
	WebSocketHub  *websocket.Hub

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	streamLogger := logger.NewIsolatedLogger(cfg.App.StreamLogFilePath)

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
		log.Printf("[WARN] Failed to connect to Redis, hub runs instance-local: %v", err)
		rdb = nil
	}

	// WebSocket Hub
	wsHub := websocket.NewHub(rdb, streamLogger)
	go wsHub.Run()

	// 3. Repositories
	userRepo := implementation.NewUserRepository(db)
	sessionRepo := implementation.NewSessionRepository(db)
	metadataRepo := implementation.NewMetadataRepository(db)
	snapshotRepo := implementation.NewSnapshotRepository(db)

	// 4. Services
	publisherService := service.NewPublisherService(sessionEventsTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, sessionEventsTopic, natsPub, sysLogger)

	tokenService := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, userRepo)
	sessionService := service.NewSessionService(sessionRepo, publisherService, sysLogger)
	metadataService := service.NewMetadataService(sessionRepo, metadataRepo, sysLogger)
	snapshotService := service.NewSnapshotService(sessionRepo, snapshotRepo)

	inferenceClient := inference.NewClient(cfg.Inference.BaseURL, cfg.Inference.Timeout)
	emotionService := service.NewEmotionService(inferenceClient, sysLogger)

	// 5. Stream gateway
	gateway := websocket.NewGateway(wsHub, sessionService, metadataService, streamLogger)
	streamHandler := websocket.NewStreamHandler(wsHub, gateway, tokenService, streamLogger)

	// 6. Controllers
	return &Container{
		SessionController: controller.NewSessionController(sessionService, metadataService, snapshotService),
		EmotionController: controller.NewEmotionController(emotionService),
		AuthMiddleware:    serverutils.JwtMiddleware(cfg.Auth.JWTSecret),

		StreamHandler: streamHandler,
		WebSocketHub:  wsHub,

		ConsumerService: consumerService,
	}
}
