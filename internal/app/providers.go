package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"adaptive-reader/internal/api/server"
	"adaptive-reader/internal/api/upload"
	"adaptive-reader/internal/api/v1/routes"
	"adaptive-reader/internal/api/v1/services"
	"adaptive-reader/internal/app/repository"
	"adaptive-reader/internal/app/repository/pg"
	"adaptive-reader/internal/app/repository/sqlite"
	"adaptive-reader/internal/config"
	"adaptive-reader/internal/relay"
)

const storeInitTimeout = 10 * time.Second

// ProviderSet wires the whole HTTP backend from a loaded config and a logger
var ProviderSet = wire.NewSet(
	provideRegistry,
	provideRelayMetrics,
	provideLimiter,
	provideRelay,
	wire.Bind(new(services.Executor), new(*relay.Relay)),
	provideHistoryStore,
	provideArtifactStore,
	provideUploadSaver,
	provideProcessingService,
	provideAnalysisService,
	services.NewHistoryService,
	services.NewContentService,
	provideServiceContainer,
	provideServer,
)

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideRelayMetrics(reg *prometheus.Registry) *relay.Metrics {
	return relay.NewMetrics(reg)
}

func provideLimiter(cfg *config.Config, metrics *relay.Metrics, logger *zap.Logger) *relay.Limiter {
	limiter := relay.NewLimiter(cfg.Relay.MaxConcurrency, cfg.Relay.QueueTimeout, metrics)
	if limiter.Capacity() == 0 {
		logger.Warn("Relay concurrency is unbounded")
	} else {
		logger.Info("Relay admission configured",
			zap.Int("max_concurrency", limiter.Capacity()),
			zap.Duration("queue_timeout", cfg.Relay.QueueTimeout),
		)
	}
	return limiter
}

func provideRelay(cfg *config.Config, limiter *relay.Limiter, metrics *relay.Metrics, logger *zap.Logger) *relay.Relay {
	return relay.New(relay.Config{
		Interpreter: cfg.Relay.Interpreter,
		Timeout:     cfg.Relay.Timeout,
		WaitDelay:   cfg.Relay.WaitDelay,
	}, limiter, metrics, logger.Named("relay"))
}

// provideHistoryStore opens the configured history backend. The cleanup func
// closes it.
func provideHistoryStore(cfg *config.Config, logger *zap.Logger) (repository.HistoryStore, func(), error) {
	store, err := OpenHistoryStore(cfg.History)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("History store ready", zap.String("driver", cfg.History.Driver))

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close history store", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

// OpenHistoryStore opens the history backend named by cfg.Driver
func OpenHistoryStore(cfg config.HistoryConfig) (repository.HistoryStore, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.NewHistoryDB(cfg.DSN)
	case "postgres":
		store, err := pg.NewHistoryDB(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeInitTimeout)
		defer cancel()
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	case "", "none":
		return repository.NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown history driver %q", cfg.Driver)
	}
}

func provideArtifactStore(cfg *config.Config) (services.ArtifactStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeInitTimeout)
	defer cancel()
	return services.NewArtifactStore(ctx, cfg.Artifacts, cfg.Paths)
}

func provideUploadSaver(cfg *config.Config) *upload.Saver {
	return upload.NewSaver(cfg.Paths.UploadDir)
}

func provideProcessingService(
	cfg *config.Config,
	executor services.Executor,
	history services.HistoryService,
	logger *zap.Logger,
) services.ProcessingService {
	return services.NewProcessingService(executor, cfg.Relay.Scripts, cfg.Paths, history, logger)
}

func provideAnalysisService(cfg *config.Config, artifacts services.ArtifactStore, logger *zap.Logger) services.AnalysisService {
	return services.NewAnalysisService(cfg.ML, artifacts, logger.Named("ml"))
}

func provideServiceContainer(
	processing services.ProcessingService,
	analysis services.AnalysisService,
	history services.HistoryService,
	content services.ContentService,
	uploads *upload.Saver,
) *routes.ServiceContainer {
	return &routes.ServiceContainer{
		ProcessingService: processing,
		AnalysisService:   analysis,
		HistoryService:    history,
		ContentService:    content,
		Uploads:           uploads,
	}
}

func provideServer(cfg *config.Config, container *routes.ServiceContainer, reg *prometheus.Registry, logger *zap.Logger) *server.Server {
	return server.NewServer(cfg, container, reg, logger)
}
