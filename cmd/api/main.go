package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"humanwrk/job-recommender/internal/bootstrap"
	"humanwrk/job-recommender/internal/config"
	"humanwrk/job-recommender/internal/handlers"
	applog "humanwrk/job-recommender/internal/logger"
	"humanwrk/job-recommender/internal/services"
)

func main() {
	cfg := config.Load()

	log, err := applog.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("config loaded",
		zap.String("env", cfg.Server.Env),
		zap.Bool("env_file", cfg.EnvFileLoaded),
		zap.String("index_store", cfg.Index.Store),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer components.Close()

	// Startup fails when no index can be loaded or built.
	if err := components.Manager.LoadOrBuild(ctx); err != nil {
		return err
	}

	refresher := services.NewRefresher(components.Manager, cfg.Index.RefreshInterval, log)
	refresher.Start(ctx)

	recommendationService := services.NewRecommendationService(
		components.Manager,
		components.DataSource,
		components.Embedder,
		components.Scorer,
		services.RecommendationOptions{
			DefaultTopN: cfg.Recommendation.DefaultTopN,
			MaxTopN:     cfg.Recommendation.MaxTopN,
			Concurrency: cfg.Index.BuildConcurrency,
		},
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:      "Job Recommendation API",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: customErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Server.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	handlers.RegisterRoutes(app,
		handlers.NewRecommendationHandler(recommendationService, log),
		handlers.NewIndexHandler(components.Manager, refresher),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		cancel()
		refresher.Stop()
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func customErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  code,
		})
	}
}
