package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/cache"
	"go-portfolio-api/internal/config"
	"go-portfolio-api/internal/events"
	"go-portfolio-api/internal/handler"
	"go-portfolio-api/internal/logger"
	"go-portfolio-api/internal/mail"
	"go-portfolio-api/internal/media"
	"go-portfolio-api/internal/middleware"
	"go-portfolio-api/internal/repository"
	"go-portfolio-api/internal/service"
	"go-portfolio-api/internal/ws"
	"go-portfolio-api/pkg/database"
	"go-portfolio-api/pkg/jwt"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.Logger)
	if envErr != nil {
		log.Warn().Msg(".env file not found, relying on system env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// 3. Collaborators
	uploader, err := media.New(ctx, cfg.Media, log)
	if err != nil {
		log.Fatal().Err(err).Msg("media uploader unavailable")
	}

	var productCache cache.ProductCache = cache.NopProductCache{}
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, product cache disabled")
		} else {
			productCache = cache.NewRedisProductCache(redisClient, cfg.Redis.TTL, log)
		}
	}

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	publishers := events.Multi{hub}
	var kafkaPublisher *events.KafkaPublisher
	if cfg.Kafka.Enabled() {
		kafkaPublisher = events.NewKafkaPublisher(cfg.Kafka, log)
		publishers = append(publishers, kafkaPublisher)
	}

	// 4. Dependency Injection (Wiring Layers)
	tokens := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	productRepo := repository.NewProductRepo(db)
	userRepo := repository.NewUserRepo(db)

	productService := service.NewProductService(productRepo, uploader, productCache, publishers, cfg.Media, log)
	authService := service.NewAuthService(userRepo, tokens, log)
	contactService := service.NewContactService(userRepo, mail.New(cfg.Mail, log), cfg.Mail, log)

	handlers := handler.Handlers{
		Product: handler.NewProductHandler(productService, log),
		Auth:    handler.NewAuthHandler(authService, cfg.Auth.TokenTTL, log),
		User:    handler.NewUserHandler(authService, log),
		Contact: handler.NewContactHandler(contactService, log),
	}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Portfolio Products API",
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: handler.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.Middleware(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigin,
		AllowCredentials: cfg.Server.AllowedOrigin != "*",
	}))

	// 6. Routes
	handler.Register(app.Group("/api"), handlers, middleware.RequireAuth(tokens, userRepo, log))

	app.Use("/ws", ws.Upgrade)
	app.Get("/ws", hub.Handler())

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(cfg.Server.Address()); err != nil {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()
	log.Info().Str("addr", cfg.Server.Address()).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error().Err(err).Msg("kafka close error")
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("redis close error")
		}
	}
	if err := database.Close(db); err != nil {
		log.Error().Err(err).Msg("database close error")
	}

	log.Info().Msg("server exited")
}
