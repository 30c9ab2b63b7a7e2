package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/tunecache/internal/api/handler"
	"github.com/hszk-dev/tunecache/internal/api/middleware"
	"github.com/hszk-dev/tunecache/internal/auth"
	"github.com/hszk-dev/tunecache/internal/config"
	"github.com/hszk-dev/tunecache/internal/infrastructure/cache"
	"github.com/hszk-dev/tunecache/internal/infrastructure/postgres"
	"github.com/hszk-dev/tunecache/internal/infrastructure/queue"
	"github.com/hszk-dev/tunecache/internal/provider"
	"github.com/hszk-dev/tunecache/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Initialize infrastructure clients
	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to Redis")

	// Initialize repositories and services
	trackRepo := postgres.NewTrackRepository(pgClient.Pool())
	mappingRepo := postgres.NewQueryMappingRepository(pgClient.Pool())
	memoryCache := cache.NewMemoryTrackCache()
	verifier := auth.NewRedisVerifier(redisClient, cfg.Auth.DailyLimit)

	ytdlp := provider.NewYTDLP(provider.YTDLPConfig{
		Binary:        cfg.Provider.Binary,
		LookupTimeout: cfg.Provider.LookupTimeout,
		FetchTimeout:  cfg.Provider.FetchTimeout,
	})

	cacheSvc := usecase.NewCacheService(trackRepo, memoryCache)
	resolveSvc := usecase.NewResolveService(ytdlp, mappingRepo, trackRepo)
	requestSvc := usecase.NewRequestService(verifier, cacheSvc, resolveSvc, queueClient)

	r := setupRouter(logger, cfg, requestSvc, memoryCache)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupRouter(logger *slog.Logger, cfg *config.Config, requestSvc usecase.RequestService, tracks cache.TrackCache) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(
		float64(cfg.Server.RateLimitRPS), cfg.Server.RateLimitBurst,
	)))

	r.Get("/health", handler.Health(tracks))
	r.Handle("/metrics", promhttp.Handler())

	resolveHandler := handler.NewResolveHandler(requestSvc)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/resolve", resolveHandler.Resolve)
	})

	return r
}
