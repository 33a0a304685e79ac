package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/psycheck/psycheck-api/internal/config"
	"github.com/psycheck/psycheck-api/internal/database"
	"github.com/psycheck/psycheck-api/internal/handler"
	"github.com/psycheck/psycheck-api/internal/middleware"
	"github.com/psycheck/psycheck-api/internal/models"
	"github.com/psycheck/psycheck-api/internal/repository"
	"github.com/psycheck/psycheck-api/internal/router"
	"github.com/psycheck/psycheck-api/internal/service"
	"github.com/psycheck/psycheck-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Test{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	scorer, err := buildScorer(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create rubric scorer: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	testRepo := repository.NewTestRepository(db)

	userService := service.NewUserService(userRepo, logger)
	events := service.NewEvaluationEvents(natsConn, cfg.NATSSubject, logger)
	checkService := service.NewCheckService(userService, userRepo, testRepo, scorer, events, redisClient, cfg.HistoryCacheTTL, validate, logger)

	checkHandler := handler.NewCheckHandler(checkService, validate, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CheckHandler:  checkHandler,
		UserHandler:   userHandler,
		JWTMiddleware: middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildScorer(cfg config.Config, logger zerolog.Logger) (ai.Scorer, error) {
	if cfg.AIProvider == "anthropic" {
		return ai.NewAnthropicScorer(ai.AnthropicConfig{
			APIKey: cfg.AnthropicAPIKey,
		})
	}

	return ai.NewOpenAIScorer(ai.OpenAIConfig{
		APIKey:    cfg.OpenAIAPIKey,
		Model:     cfg.OpenAIModel,
		MaxTokens: cfg.AIMaxTokens,
		Timeout:   cfg.AITimeout,
		Logger:    logger,
	})
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
