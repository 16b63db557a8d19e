package config

import "time"

// ApplyDefaults fills every unset field of cfg with its production default.
// The solver and search defaults reproduce the calibrated values of the
// engineering model and must only be changed together with re-validation
// against measured panels.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		// Exact solves on fine meshes can run for tens of seconds.
		cfg.Server.WriteTimeout = 120 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "heatglass"
	}

	if cfg.Solver.DefaultMeshStepMm == 0 {
		cfg.Solver.DefaultMeshStepMm = 2.0
	}
	if cfg.Solver.CoarseMeshStepMm == 0 {
		cfg.Solver.CoarseMeshStepMm = 4.0
	}
	if cfg.Solver.SigmaAblation == 0 {
		cfg.Solver.SigmaAblation = 1e-6
	}
	if cfg.Solver.CGMaxIters == 0 {
		cfg.Solver.CGMaxIters = 4000
	}
	if cfg.Solver.CGTolerance == 0 {
		cfg.Solver.CGTolerance = 1e-8
	}
	if cfg.Solver.CoarseMeshThresholdMm == 0 {
		cfg.Solver.CoarseMeshThresholdMm = 4.0
	}
	if cfg.Solver.CoarseCGMaxIters == 0 {
		cfg.Solver.CoarseCGMaxIters = 1500
	}
	if cfg.Solver.CoarseCGTolerance == 0 {
		cfg.Solver.CoarseCGTolerance = 3e-8
	}

	if cfg.Estimator.Model == "" {
		cfg.Estimator.Model = "physical"
	}
	if cfg.Estimator.Pattern == "" {
		cfg.Estimator.Pattern = "islands"
	}
	if cfg.Estimator.Alpha == 0 {
		cfg.Estimator.Alpha = 1.0
	}
	if cfg.Estimator.TortuosityCoeff == 0 {
		cfg.Estimator.TortuosityCoeff = 1.5
	}
	if cfg.Estimator.MinConductFraction == 0 {
		cfg.Estimator.MinConductFraction = 0.10
	}
	if cfg.Estimator.LegacyCoeff == 0 {
		cfg.Estimator.LegacyCoeff = 0.35
	}
	if cfg.Estimator.MultiplierScale == 0 {
		cfg.Estimator.MultiplierScale = 1.0
	}

	if cfg.Search.TopN == 0 {
		cfg.Search.TopN = 5
	}
	if cfg.Search.TolerancePercent == 0 {
		cfg.Search.TolerancePercent = 10.0
	}
	if cfg.Search.SolverTopK == 0 {
		cfg.Search.SolverTopK = 30
	}
	if cfg.Search.Workers == 0 {
		cfg.Search.Workers = 4
	}
	if isZeroRange(cfg.Search.Base) {
		cfg.Search.Base = RangeConfig{AMin: 10, AMax: 70, AStep: 1.0, GapMin: 0.5, GapMax: 10, GapStep: 0.5}
	}
	if isZeroRange(cfg.Search.Extended) {
		cfg.Search.Extended = RangeConfig{AMin: 5, AMax: 80, AStep: 0.5, GapMin: 0.5, GapMax: 12, GapStep: 0.5}
	}

	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = 512
	}
	if cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = "localhost:6379"
	}
	if cfg.Cache.Redis.DialTimeout == 0 {
		cfg.Cache.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Cache.Redis.ReadTimeout == 0 {
		cfg.Cache.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Cache.Redis.WriteTimeout == 0 {
		cfg.Cache.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Cache.Redis.TTL == 0 {
		cfg.Cache.Redis.TTL = 24 * time.Hour
	}
	if cfg.Cache.Redis.KeyPrefix == "" {
		cfg.Cache.Redis.KeyPrefix = "heatglass:solve:"
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "heatglass"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "heatglass"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.MinConns == 0 {
		cfg.Database.MinConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "migrations"
	}

	if cfg.Electrical.MainsVoltage == 0 {
		cfg.Electrical.MainsVoltage = 220.0
	}
}

func isZeroRange(r RangeConfig) bool {
	return r == RangeConfig{}
}

// NewDefaultConfig returns a Config populated entirely with defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
