package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all service settings.
const envPrefix = "HEATGLASS"

// newViper builds a pre-configured Viper instance with the service's standard
// settings: YAML file type, HEATGLASS_ env prefix, automatic env binding, and
// a key replacer that maps "." → "_" so that nested keys like "solver.cg_max_iters"
// resolve to "HEATGLASS_SOLVER_CG_MAX_ITERS".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setViperDefaults(v)
	return v
}

// setViperDefaults registers every known key with viper.  AutomaticEnv only
// resolves keys viper has seen, so each key must be registered even when the
// default matches ApplyDefaults.
func setViperDefaults(v *viper.Viper) {
	def := NewDefaultConfig()

	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.mode", def.Server.Mode)
	v.SetDefault("server.read_timeout", def.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", def.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.output_paths", def.Log.OutputPaths)
	v.SetDefault("log.error_output_paths", def.Log.ErrorOutputPaths)

	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.namespace", def.Metrics.Namespace)

	v.SetDefault("solver.default_mesh_step_mm", def.Solver.DefaultMeshStepMm)
	v.SetDefault("solver.coarse_mesh_step_mm", def.Solver.CoarseMeshStepMm)
	v.SetDefault("solver.sigma_ablation", def.Solver.SigmaAblation)
	v.SetDefault("solver.cg_max_iters", def.Solver.CGMaxIters)
	v.SetDefault("solver.cg_tolerance", def.Solver.CGTolerance)
	v.SetDefault("solver.coarse_mesh_threshold_mm", def.Solver.CoarseMeshThresholdMm)
	v.SetDefault("solver.coarse_cg_max_iters", def.Solver.CoarseCGMaxIters)
	v.SetDefault("solver.coarse_cg_tolerance", def.Solver.CoarseCGTolerance)

	v.SetDefault("estimator.model", def.Estimator.Model)
	v.SetDefault("estimator.pattern", def.Estimator.Pattern)
	v.SetDefault("estimator.alpha", def.Estimator.Alpha)
	v.SetDefault("estimator.tortuosity_coeff", def.Estimator.TortuosityCoeff)
	v.SetDefault("estimator.min_conduct_fraction", def.Estimator.MinConductFraction)
	v.SetDefault("estimator.legacy_coeff", def.Estimator.LegacyCoeff)
	v.SetDefault("estimator.multiplier_scale", def.Estimator.MultiplierScale)

	v.SetDefault("search.top_n", def.Search.TopN)
	v.SetDefault("search.tolerance_percent", def.Search.TolerancePercent)
	v.SetDefault("search.auto_expand", def.Search.AutoExpand)
	v.SetDefault("search.solver_top_k", def.Search.SolverTopK)
	v.SetDefault("search.workers", def.Search.Workers)
	for prefix, r := range map[string]RangeConfig{
		"search.base":     def.Search.Base,
		"search.extended": def.Search.Extended,
	} {
		v.SetDefault(prefix+".a_min", r.AMin)
		v.SetDefault(prefix+".a_max", r.AMax)
		v.SetDefault(prefix+".a_step", r.AStep)
		v.SetDefault(prefix+".gap_min", r.GapMin)
		v.SetDefault(prefix+".gap_max", r.GapMax)
		v.SetDefault(prefix+".gap_step", r.GapStep)
	}

	v.SetDefault("cache.capacity", def.Cache.Capacity)
	v.SetDefault("cache.redis.enabled", def.Cache.Redis.Enabled)
	v.SetDefault("cache.redis.addr", def.Cache.Redis.Addr)
	v.SetDefault("cache.redis.password", def.Cache.Redis.Password)
	v.SetDefault("cache.redis.db", def.Cache.Redis.DB)
	v.SetDefault("cache.redis.dial_timeout", def.Cache.Redis.DialTimeout)
	v.SetDefault("cache.redis.read_timeout", def.Cache.Redis.ReadTimeout)
	v.SetDefault("cache.redis.write_timeout", def.Cache.Redis.WriteTimeout)
	v.SetDefault("cache.redis.ttl", def.Cache.Redis.TTL)
	v.SetDefault("cache.redis.key_prefix", def.Cache.Redis.KeyPrefix)

	v.SetDefault("database.enabled", def.Database.Enabled)
	v.SetDefault("database.host", def.Database.Host)
	v.SetDefault("database.port", def.Database.Port)
	v.SetDefault("database.user", def.Database.User)
	v.SetDefault("database.password", def.Database.Password)
	v.SetDefault("database.db_name", def.Database.DBName)
	v.SetDefault("database.ssl_mode", def.Database.SSLMode)
	v.SetDefault("database.max_conns", def.Database.MaxConns)
	v.SetDefault("database.min_conns", def.Database.MinConns)
	v.SetDefault("database.conn_max_lifetime", def.Database.ConnMaxLifetime)
	v.SetDefault("database.migration_path", def.Database.MigrationPath)

	v.SetDefault("electrical.mains_voltage", def.Electrical.MainsVoltage)
}

// Load reads the YAML file at configPath, merges HEATGLASS_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from HEATGLASS_* environment variables,
// with no config file required.  Preferred for containerised deployments.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  It is intended for
// hot-reloading non-critical settings such as log level and search ranges;
// callers are responsible for applying only the safe subset of changes at
// runtime.
//
// Watch is non-blocking; it starts a background goroutine managed by viper
// (fsnotify underneath).  If the changed file fails to parse or validate,
// onChange is not called.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// Intended for use in main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
