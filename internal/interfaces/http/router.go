package http

import (
	"github.com/gin-gonic/gin"

	"github.com/greenmobile/heatglass/internal/config"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/prometheus"
	"github.com/greenmobile/heatglass/internal/interfaces/http/handlers"
	"github.com/greenmobile/heatglass/internal/interfaces/http/middleware"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/logging"
)

// RouterConfig aggregates everything the router mounts.
type RouterConfig struct {
	Calc       *handlers.CalcHandler
	Production *handlers.ProductionHandler
	Export     *handlers.ExportHandler
	History    *handlers.HistoryHandler
	Health     *handlers.HealthHandler

	Logger    logging.Logger
	Metrics   *prometheus.AppMetrics
	Collector prometheus.MetricsCollector
}

// NewRouter builds the gin engine with the full middleware chain and all
// API routes mounted under /api/v1.
func NewRouter(cfg config.ServerConfig, rc RouterConfig) *gin.Engine {
	switch cfg.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogging(rc.Logger, middleware.DefaultLoggingConfig()))
	r.Use(middleware.Recovery(rc.Logger))
	if rc.Metrics != nil {
		r.Use(middleware.Metrics(rc.Metrics))
	}

	if rc.Health != nil {
		r.GET("/healthz", rc.Health.Liveness)
		r.GET("/readyz", rc.Health.Readiness)
	}
	if rc.Collector != nil {
		r.GET("/metrics", gin.WrapH(rc.Collector.Handler()))
	}

	v1 := r.Group("/api/v1")
	{
		calc := v1.Group("/calc")
		calc.POST("/manual", rc.Calc.Manual)
		calc.POST("/solve", rc.Calc.Solve)
		calc.POST("/energy", rc.Calc.Energy)

		prod := v1.Group("/production")
		prod.POST("/auto", rc.Production.Auto)
		prod.POST("/max", rc.Production.Max)
		prod.POST("/recommend", rc.Production.Recommend)

		exp := v1.Group("/export")
		exp.POST("/svg", rc.Export.SVG)
		exp.POST("/dxf", rc.Export.DXF)

		v1.GET("/designs/history", rc.History.List)
	}

	return r
}
