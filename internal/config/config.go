// Package config defines all configuration structures for the heatglass
// service.  No I/O or parsing logic lives here — only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// Version is the service version, overridden at build time via ldflags.
var Version = "dev"

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SolverConfig holds field-solver tunables.  The mesh step is the
// accuracy/speed knob: search-time solves use CoarseMeshStepMm, final solves
// DefaultMeshStepMm.
type SolverConfig struct {
	DefaultMeshStepMm float64 `mapstructure:"default_mesh_step_mm"`
	CoarseMeshStepMm  float64 `mapstructure:"coarse_mesh_step_mm"`
	SigmaAblation     float64 `mapstructure:"sigma_ablation"`
	CGMaxIters        int     `mapstructure:"cg_max_iters"`
	CGTolerance       float64 `mapstructure:"cg_tolerance"`
	// Relaxed CG parameters applied when the mesh step is at least
	// CoarseMeshThresholdMm: exploratory solves trade the last digit of
	// precision for speed.
	CoarseMeshThresholdMm float64 `mapstructure:"coarse_mesh_threshold_mm"`
	CoarseCGMaxIters      int     `mapstructure:"coarse_cg_max_iters"`
	CoarseCGTolerance     float64 `mapstructure:"coarse_cg_tolerance"`
}

// EstimatorConfig holds the analytic path-length multiplier model parameters.
type EstimatorConfig struct {
	Model               string  `mapstructure:"model"`   // "physical" | "legacy"
	Pattern             string  `mapstructure:"pattern"` // "islands" | "lines"
	Alpha               float64 `mapstructure:"alpha"`
	TortuosityCoeff     float64 `mapstructure:"tortuosity_coeff"`
	MinConductFraction  float64 `mapstructure:"min_conduct_fraction"`
	LegacyCoeff         float64 `mapstructure:"legacy_coeff"`
	MultiplierScale     float64 `mapstructure:"multiplier_scale"`
}

// RangeConfig describes one rectangular sweep range of the candidate search.
type RangeConfig struct {
	AMin    float64 `mapstructure:"a_min"`
	AMax    float64 `mapstructure:"a_max"`
	AStep   float64 `mapstructure:"a_step"`
	GapMin  float64 `mapstructure:"gap_min"`
	GapMax  float64 `mapstructure:"gap_max"`
	GapStep float64 `mapstructure:"gap_step"`
}

// SearchConfig holds candidate-search tunables.
type SearchConfig struct {
	TopN             int         `mapstructure:"top_n"`
	TolerancePercent float64     `mapstructure:"tolerance_percent"`
	AutoExpand       bool        `mapstructure:"auto_expand"`
	SolverTopK       int         `mapstructure:"solver_top_k"`
	Workers          int         `mapstructure:"workers"`
	Base             RangeConfig `mapstructure:"base"`
	Extended         RangeConfig `mapstructure:"extended"`
}

// CacheConfig holds solve-cache tunables.
type CacheConfig struct {
	Capacity int `mapstructure:"capacity"`
	// Redis enables an optional shared store layered behind the in-process
	// LRU so that multiple replicas reuse each other's solves.
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds Redis connection parameters for the shared solve store.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	TTL          time.Duration `mapstructure:"ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the calculation
// history store.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// ElectricalConfig holds mains parameters used to convert resistance to power.
type ElectricalConfig struct {
	MainsVoltage float64 `mapstructure:"mains_voltage"`
}

// LogConfig mirrors logging.LogConfig so that the config package has no
// dependency on the logging package.
type LogConfig struct {
	Level            string   `mapstructure:"level"`
	Format           string   `mapstructure:"format"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Config is the root configuration for the heatglass service.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Solver     SolverConfig     `mapstructure:"solver"`
	Estimator  EstimatorConfig  `mapstructure:"estimator"`
	Search     SearchConfig     `mapstructure:"search"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Electrical ElectricalConfig `mapstructure:"electrical"`
}

// Validate checks cross-field invariants that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if c.Solver.DefaultMeshStepMm <= 0 {
		return fmt.Errorf("solver.default_mesh_step_mm must be positive, got %g", c.Solver.DefaultMeshStepMm)
	}
	if c.Solver.SigmaAblation <= 0 || c.Solver.SigmaAblation >= 1 {
		return fmt.Errorf("solver.sigma_ablation must be in (0, 1), got %g", c.Solver.SigmaAblation)
	}
	if c.Solver.CGMaxIters <= 0 {
		return fmt.Errorf("solver.cg_max_iters must be positive, got %d", c.Solver.CGMaxIters)
	}
	if c.Search.TopN <= 0 {
		return fmt.Errorf("search.top_n must be positive, got %d", c.Search.TopN)
	}
	if c.Search.TolerancePercent <= 0 {
		return fmt.Errorf("search.tolerance_percent must be positive, got %g", c.Search.TolerancePercent)
	}
	for _, r := range []struct {
		name string
		rng  RangeConfig
	}{{"search.base", c.Search.Base}, {"search.extended", c.Search.Extended}} {
		if r.rng.AMin <= 0 || r.rng.AMax < r.rng.AMin || r.rng.AStep <= 0 {
			return fmt.Errorf("%s island-side range is invalid", r.name)
		}
		if r.rng.GapMin <= 0 || r.rng.GapMax < r.rng.GapMin || r.rng.GapStep <= 0 {
			return fmt.Errorf("%s gap range is invalid", r.name)
		}
	}
	if c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache.capacity must be positive, got %d", c.Cache.Capacity)
	}
	if c.Electrical.MainsVoltage <= 0 {
		return fmt.Errorf("electrical.mains_voltage must be positive, got %g", c.Electrical.MainsVoltage)
	}
	return nil
}
