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
	"github.com/rs/zerolog"

	"github.com/mosab320010/-betc/internal/config"
	"github.com/mosab320010/-betc/internal/handler"
	"github.com/mosab320010/-betc/internal/middleware"
	"github.com/mosab320010/-betc/internal/pdf"
	"github.com/mosab320010/-betc/internal/router"
	"github.com/mosab320010/-betc/internal/service"
	"github.com/mosab320010/-betc/internal/session"
	"github.com/mosab320010/-betc/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	evaluator, err := buildEvaluator(cfg, logger)
	if err != nil {
		log.Fatalf("failed to build evaluator: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	store := session.NewStore()
	fonts := pdf.NewFontProvisioner(cfg.FontURL, nil, logger)
	exporter := pdf.NewExporter(fonts, logger)

	evaluationService := service.NewEvaluationService(store, evaluator, exporter, validate, cfg.EvaluationTimeout, cfg.AIProvider, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		EvaluationHandler: &router.EvaluationHandlerDep{
			Handler:   evaluationHandler,
			RateLimit: middleware.RateLimit("evaluate", cfg.RateLimitMax, cfg.RateLimitWindow),
		},
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildEvaluator(cfg config.Config, logger zerolog.Logger) (ai.Evaluator, error) {
	if cfg.AIProvider == "openai" {
		return ai.NewOpenAIEvaluator(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
	}

	return ai.NewMockEvaluator(ai.MockConfig{
		Delay:  cfg.MockDelay,
		Logger: logger,
	}), nil
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
