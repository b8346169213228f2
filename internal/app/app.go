package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/microservice-production/internal/data/db"
	"github.com/yungbote/microservice-production/internal/events"
	httpserver "github.com/yungbote/microservice-production/internal/http"
	"github.com/yungbote/microservice-production/internal/observability"
	"github.com/yungbote/microservice-production/internal/platform/logger"
)

type App struct {
	Log     *logger.Logger
	Cfg     *Config
	DB      *gorm.DB
	Metrics *observability.Metrics
	Events  events.Publisher
	Server  *httpserver.Server

	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(context.Background(), cfg)
}

// NewWithConfig wires the app from an already loaded config.
func NewWithConfig(ctx context.Context, cfg *Config) (*App, error) {
	log, err := logger.NewWithOptions(cfg.LogMode, logger.Options{
		Level:          cfg.LogLevel,
		IdentifierSalt: cfg.LogSalt,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Env,
		Version:     cfg.Version,
		Endpoint:    cfg.Otel.Endpoint,
		Insecure:    cfg.Otel.Insecure,
		Headers:     observability.ParseHeaders(cfg.Otel.Headers),
		SampleRatio: cfg.Otel.SampleRatio,
	})

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	theDB, err := db.Open(cfg.dbConfig(), log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrateAll(theDB); err != nil {
			closeDB(theDB)
			log.Sync()
			return nil, err
		}
	}
	if metrics != nil {
		if sqlDB, err := theDB.DB(); err == nil {
			if err := metrics.RegisterDB(sqlDB, cfg.Database.Driver); err != nil {
				log.Warn("db stats collector not registered", "error", err)
			}
		}
	}

	publisher, err := events.New(cfg.eventsConfig(), log, metrics)
	if err != nil {
		closeDB(theDB)
		log.Sync()
		return nil, fmt.Errorf("init events: %w", err)
	}

	reposet := wireRepos(theDB, log)
	resources := wireResources(theDB, log, reposet, metrics)
	handlerset := wireHandlers(log, cfg, theDB, resources, publisher)
	router := wireRouter(log, cfg, handlerset, metrics)

	srv := httpserver.NewServer(httpserver.ServerConfig{
		Addr:              cfg.HTTP.Addr,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout.Duration,
		IdleTimeout:       cfg.HTTP.IdleTimeout.Duration,
		ShutdownTimeout:   cfg.HTTP.ShutdownTimeout.Duration,
	}, router, log)

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           theDB,
		Metrics:      metrics,
		Events:       publisher,
		Server:       srv,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves until ctx is done or a listener fails, then releases resources.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	defer a.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Server.Run(gctx) })
	if a.Metrics != nil && a.Cfg.Metrics.Addr != "" {
		g.Go(func() error { return a.Metrics.Serve(gctx, a.Log, a.Cfg.Metrics.Addr) })
	}
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	var errs []error
	if a.Events != nil {
		errs = append(errs, a.Events.Close())
	}
	if a.otelShutdown != nil {
		errs = append(errs, a.otelShutdown(context.Background()))
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	if err := errors.Join(errs...); err != nil && a.Log != nil {
		a.Log.Warn("shutdown finished with errors", "error", err)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

func closeDB(theDB *gorm.DB) {
	if sqlDB, err := theDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
