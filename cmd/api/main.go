package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lendit/internal/api"
	"lendit/internal/config"
	"lendit/internal/database"
	"lendit/internal/domain"
	"lendit/internal/events"
	"lendit/internal/export"
	"lendit/internal/logging"
	"lendit/internal/metrics"
	"lendit/internal/repository"
	"lendit/internal/service"
	"lendit/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer func() { _ = repository.Close(redisClient) }()
	}

	viewCache := initViewCache(cfg, redisClient, &logger)

	eventBus := events.NewEventBus()
	subscribeMetrics(eventBus)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exporter := initExporter(ctx, cfg, db, redisClient, &logger)

	userService := service.NewUserService(db, &logger)
	itemService := service.NewItemService(db, viewCache, eventBus, &logger)
	bookingService := service.NewBookingService(db, viewCache, eventBus, exporter, &logger)
	requestService := service.NewRequestService(db, &logger)

	httpServer := api.NewHTTPServer(cfg.HTTP, userService, itemService, bookingService, requestService, &logger)

	startMetrics(ctx, cfg, &logger)

	return serve(ctx, httpServer, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initViewCache builds the item view cache. With Redis available the cache
// fails over to an in-memory copy when Redis misbehaves; without Redis the
// in-memory cache serves alone.
func initViewCache(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.ViewCache {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	memory := repository.NewMemoryViewCache(ttl)
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverViewCache(repository.NewRedisViewCache(redisClient, ttl), memory, logger)
}

func subscribeMetrics(bus *events.EventBus) {
	for _, eventType := range []string{events.EventBookingCreated, events.EventBookingApproved, events.EventBookingRejected} {
		et := eventType
		bus.Subscribe(et, func(_ *events.Event) error {
			metrics.IncBookingEvent(et)
			return nil
		})
	}
	bus.Subscribe(events.EventCommentCreated, func(_ *events.Event) error {
		metrics.IncComment()
		return nil
	})
}

func initExporter(ctx context.Context, cfg *config.Config, db *database.DB, redisClient *redis.Client, logger *zerolog.Logger) domain.ExportWorker {
	if !cfg.Exports.Enabled {
		return nil
	}

	exportWorker := worker.NewExportWorker(db, export.NewExcelWriter(cfg.Exports.Path), redisClient, worker.RetryPolicy{}, logger)
	go exportWorker.Run(ctx)

	logger.Info().Str("path", cfg.Exports.Path).Msg("export worker started")
	return exportWorker
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func serve(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
