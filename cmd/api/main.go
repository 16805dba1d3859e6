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

	"github.com/Sher-V/play-today-admin/internal/api"
	"github.com/Sher-V/play-today-admin/internal/config"
	"github.com/Sher-V/play-today-admin/internal/database"
	"github.com/Sher-V/play-today-admin/internal/domain"
	"github.com/Sher-V/play-today-admin/internal/events"
	"github.com/Sher-V/play-today-admin/internal/export"
	"github.com/Sher-V/play-today-admin/internal/logging"
	"github.com/Sher-V/play-today-admin/internal/metrics"
	"github.com/Sher-V/play-today-admin/internal/models"
	"github.com/Sher-V/play-today-admin/internal/payments"
	"github.com/Sher-V/play-today-admin/internal/repository"
	"github.com/Sher-V/play-today-admin/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
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
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	if !cfg.API.Enabled {
		logger.Warn().Msg("API is disabled in config, but starting API application. Check your config.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, cacheCloser := initScheduleCache(cfg, &logger)
	if cacheCloser != nil {
		defer cacheCloser.Close()
	}

	eventBus := events.NewEventBus()
	subscribeMetrics(eventBus)

	provider := initPayments(cfg, &logger)

	bookingService := service.NewBookingService(db, cache, provider, eventBus, cfg.Club.Pricing, &logger)
	courtService := service.NewCourtService(db, &logger)
	clientService := service.NewClientService(db, &logger)

	if err := seedCourts(ctx, courtService, cfg.Courts); err != nil {
		logger.Error().Err(err).Msg("seed courts")
		return err
	}

	exporter := export.NewExporter(bookingService, courtService, cfg.Exports, &logger)

	httpServer := api.NewHTTPServer(cfg.API, cfg.Club, bookingService, courtService, clientService, exporter, &logger)

	if cfg.Backup.Enabled {
		backup := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backup.Start(ctx)
	}

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, cfg, &logger)
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

// initScheduleCache wires the day-schedule cache: redis when
// configured and reachable, with the in-memory cache as fallback.
func initScheduleCache(cfg *config.Config, logger *zerolog.Logger) (domain.ScheduleCache, io.Closer) {
	ttl := time.Duration(cfg.Redis.CacheTTL) * time.Second
	memory := repository.NewMemoryScheduleCache(ttl)

	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis is not configured, using in-memory schedule cache")
		return memory, nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing with in-memory schedule cache")
	} else {
		logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	}

	primary := repository.NewRedisScheduleCache(redisClient, ttl)
	return repository.NewFailoverScheduleCache(primary, memory, logger), redisClient
}

func initPayments(cfg *config.Config, logger *zerolog.Logger) domain.PaymentProvider {
	if !cfg.Payments.Enabled {
		return nil
	}
	logger.Info().Str("shop_id", cfg.Payments.ShopID).Msg("payments enabled")
	return payments.NewYooKassaClient(cfg.Payments, logger)
}

// subscribeMetrics keeps the booking counters out of the service
// layer: the service publishes events, the counters follow here.
func subscribeMetrics(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := event.Unmarshal(&payload); err != nil {
			return err
		}
		metrics.IncBookingCreated(string(payload.Activity))
		return nil
	})
	bus.Subscribe(events.EventBookingCanceled, func(event *events.Event) error {
		metrics.IncBookingCanceled()
		return nil
	})
}

func seedCourts(ctx context.Context, courts *service.CourtService, configured []config.CourtConfig) error {
	if len(configured) == 0 {
		return nil
	}

	seed := make([]models.Court, 0, len(configured))
	for _, c := range configured {
		seed = append(seed, models.Court{
			Name:      c.Name,
			SortOrder: c.SortOrder,
			Pricing:   c.Pricing,
		})
	}
	return courts.SeedCourts(ctx, seed)
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

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

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
