// Package app is the composition root: it turns a parsed Config into the
// wired application services shared by the API server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/greenmobile/heatglass/internal/application/design"
	"github.com/greenmobile/heatglass/internal/application/history"
	"github.com/greenmobile/heatglass/internal/application/search"
	"github.com/greenmobile/heatglass/internal/config"
	"github.com/greenmobile/heatglass/internal/domain/electrical"
	"github.com/greenmobile/heatglass/internal/domain/estimate"
	"github.com/greenmobile/heatglass/internal/domain/field"
	"github.com/greenmobile/heatglass/internal/infrastructure/cache"
	"github.com/greenmobile/heatglass/internal/infrastructure/database/postgres"
	"github.com/greenmobile/heatglass/internal/infrastructure/export"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/logging"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/prometheus"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App bundles every wired service. Close releases the external resources.
type App struct {
	Config *config.Config
	Logger logging.Logger

	Facade  *design.Facade
	Search  *search.Service
	History *history.Service
	SVG     *export.SVGGenerator
	DXF     *export.DXFGenerator

	Metrics   *prometheus.AppMetrics
	Collector prometheus.MetricsCollector

	pool  *pgxpool.Pool
	redis *cache.RedisStore
}

// Options toggles the optional external resources; the CLI runs with both
// off so that a missing database never blocks a local calculation.
type Options struct {
	EnableDatabase bool
	EnableRedis    bool
	EnableMetrics  bool
}

// New wires the full service graph from the configuration. Optional
// resources that are disabled in cfg are skipped regardless of opts.
func New(ctx context.Context, cfg *config.Config, log logging.Logger, opts Options) (*App, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	a := &App{Config: cfg, Logger: log}

	a.Collector = prometheus.NewNopCollector()
	if opts.EnableMetrics && cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("app: metrics collector: %w", err)
		}
		a.Collector = collector
	}
	a.Metrics = prometheus.NewAppMetrics(a.Collector)

	solver := field.NewSolver(solverOptions(cfg.Solver), log)
	engine := electrical.NewEngine(cfg.Electrical.MainsVoltage)
	estimator := estimate.NewEstimator(estimatorParams(cfg.Estimator))
	solveCache := cache.NewSolveCache(cfg.Cache.Capacity)

	facadeOpts := []design.Option{design.WithMetrics(a.Metrics)}
	if opts.EnableRedis && cfg.Cache.Redis.Enabled {
		store, err := cache.NewRedisStore(ctx, cfg.Cache.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("app: redis store: %w", err)
		}
		a.redis = store
		facadeOpts = append(facadeOpts, design.WithSharedStore(store))
	}
	a.Facade = design.NewFacade(solver, engine, estimator, solveCache, log, facadeOpts...)

	a.Search = search.NewService(a.Facade, engine, estimator,
		cfg.Search, cfg.Solver.CoarseMeshStepMm, log, search.WithMetrics(a.Metrics))

	var repo history.Repository
	if opts.EnableDatabase && cfg.Database.Enabled {
		if err := postgres.RunMigrations(cfg.Database, log); err != nil {
			return nil, fmt.Errorf("app: migrations: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("app: postgres pool: %w", err)
		}
		a.pool = pool
		repo = postgres.NewHistoryRepository(pool)
	}
	a.History = history.NewService(repo, log, history.WithMetrics(a.Metrics))

	a.SVG = export.NewSVGGenerator(log)
	a.DXF = export.NewDXFGenerator(log)

	return a, nil
}

// Pool exposes the database pool for readiness probes; nil when the
// history store is disabled.
func (a *App) Pool() *pgxpool.Pool { return a.pool }

// Close releases the database pool and the Redis client.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("redis close failed", logging.Err(err))
		}
	}
}

func solverOptions(cfg config.SolverConfig) field.Options {
	return field.Options{
		DefaultMeshStepMm:     cfg.DefaultMeshStepMm,
		SigmaAblation:         cfg.SigmaAblation,
		CGMaxIters:            cfg.CGMaxIters,
		CGTolerance:           cfg.CGTolerance,
		CoarseMeshThresholdMm: cfg.CoarseMeshThresholdMm,
		CoarseCGMaxIters:      cfg.CoarseCGMaxIters,
		CoarseCGTolerance:     cfg.CoarseCGTolerance,
	}
}

func estimatorParams(cfg config.EstimatorConfig) estimate.Params {
	return estimate.Params{
		Model:              estimate.Model(cfg.Model),
		Pattern:            estimate.Pattern(cfg.Pattern),
		Alpha:              cfg.Alpha,
		TortuosityCoeff:    cfg.TortuosityCoeff,
		MinConductFraction: cfg.MinConductFraction,
		LegacyCoeff:        cfg.LegacyCoeff,
		Scale:              cfg.MultiplierScale,
	}
}

// NewLogger builds the zap logger from the config section.
func NewLogger(cfg config.LogConfig) (logging.Logger, error) {
	return logging.NewLogger(logging.LogConfig{
		Level:            cfg.Level,
		Format:           cfg.Format,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
	})
}
