package cmd

import (
	"fmt"

	"catalog-sync/core/config"
	"catalog-sync/core/connection"
	"catalog-sync/core/database"
	"catalog-sync/core/executor"
	"catalog-sync/core/jobs"
	"catalog-sync/core/logger"
	"catalog-sync/core/metrics"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/storage"
	"catalog-sync/feature/export"
	"catalog-sync/feature/health"
	"catalog-sync/feature/migrate"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the components shared by the server and the CLI commands.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	store   storage.Client
	metrics *metrics.Metrics
	factory *connection.Factory
	queue   *jobs.Queue
	migrate *migrate.Service
	export  *export.Service
	health  *health.Service
}

// setup loads configuration and wires every component. The database is
// optional: when it is disabled or unreachable, connections come from
// configuration only and job history is kept in memory.
func setup() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logg, metrics: metrics.New()}

	var stores connection.Chain
	var archive *jobs.Archive
	if cfg.Database.Enabled {
		if db, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			repo := connection.NewRepository(db)
			archive = jobs.NewArchive(db)
			if err := repo.Migrate(); err != nil {
				return nil, err
			}
			if err := archive.Migrate(); err != nil {
				return nil, err
			}
			a.db = db
			stores = append(stores, repo)
			logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
		}
	}
	stores = append(stores, connection.NewConfigStore(cfg.WooCommerce, cfg.Shopify))
	a.factory = connection.NewFactory(stores)

	a.store, err = storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	translator := executor.NewTranslator()
	runner := executor.New(cfg.Sync.Executor(), translator, logg, a.metrics)
	cache := reconcile.NewSnapshotCache()

	opts := []jobs.Option{
		jobs.WithLogger(logg),
		jobs.WithMetrics(a.metrics),
		jobs.OnFinish(migrate.InvalidateOnFinish(cache)),
	}
	if archive != nil {
		opts = append(opts, jobs.WithArchive(archive))
	}
	a.queue = jobs.NewQueue(jobs.NewMemoryStore(), a.factory, runner, opts...)

	a.migrate = migrate.NewService(a.factory, a.queue, cache, translator, migrate.Options{
		PageSize:    cfg.Sync.PageSize,
		SnapshotTTL: cfg.Sync.SnapshotTTL,
	}, logg)
	a.export = export.NewService(a.factory, a.store, cfg.Storage.Bucket, cfg.Storage.Region, cfg.Sync.PageSize, logg)
	a.health = health.NewService(a.store, cfg.Storage.Bucket, a.db, []any{&jobs.Record{}, &connection.Record{}}, a.factory, logg)

	return a, nil
}

// close releases the database connection.
func (a *app) close() {
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = a.logger.Sync()
}
