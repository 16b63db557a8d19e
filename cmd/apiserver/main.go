// The apiserver binary serves the heatglass REST API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/greenmobile/heatglass/internal/app"
	"github.com/greenmobile/heatglass/internal/config"
	httpserver "github.com/greenmobile/heatglass/internal/interfaces/http"
	"github.com/greenmobile/heatglass/internal/interfaces/http/handlers"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: env only)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := app.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("apiserver")
	logger.Info("starting heatglass API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger, app.Options{
		EnableDatabase: true,
		EnableRedis:    true,
		EnableMetrics:  true,
	})
	if err != nil {
		logger.Fatal("wiring failed", logging.Err(err))
	}
	defer application.Close()

	var checkers []handlers.HealthChecker
	if pool := application.Pool(); pool != nil {
		checkers = append(checkers, postgresChecker{pool: pool})
	}

	router := httpserver.NewRouter(cfg.Server, httpserver.RouterConfig{
		Calc:       handlers.NewCalcHandler(application.Facade, application.History),
		Production: handlers.NewProductionHandler(application.Search, application.History),
		Export:     handlers.NewExportHandler(application.SVG, application.DXF),
		History:    handlers.NewHistoryHandler(application.History),
		Health:     handlers.NewHealthHandler(version, checkers...),
		Logger:     logger,
		Metrics:    application.Metrics,
		Collector:  application.Collector,
	})
	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server failed", logging.Err(err))
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := srv.Stop(context.Background()); err != nil {
			logger.Error("shutdown failed", logging.Err(err))
		}
	}
	logger.Info("heatglass API server stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat("./configs/config.yaml"); err == nil {
		return config.Load("./configs/config.yaml")
	}
	return config.LoadFromEnv()
}
