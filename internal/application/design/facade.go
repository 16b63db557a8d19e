// Package design is the engineering facade: every calculation the interfaces
// layer offers goes through here. It composes the electrical engine, the
// analytic estimator, the field solver and the solve cache into the manual,
// exact, layout and energy calculations.
package design

import (
	"context"
	"math"
	"time"

	"github.com/greenmobile/heatglass/internal/domain/electrical"
	"github.com/greenmobile/heatglass/internal/domain/estimate"
	"github.com/greenmobile/heatglass/internal/domain/field"
	"github.com/greenmobile/heatglass/internal/domain/geometry"
	"github.com/greenmobile/heatglass/internal/domain/panel"
	"github.com/greenmobile/heatglass/internal/infrastructure/cache"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/logging"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/prometheus"
)

// SolveVoltage is the probe voltage for field solves; resistance follows
// directly as R = U/I with U fixed at one volt. Mains voltage only enters
// the power conversion.
const SolveVoltage = 1.0

// Facade bundles the calculation engines behind one entry point. Safe for
// concurrent use; the solve cache is its only shared mutable state.
type Facade struct {
	solver    *field.Solver
	engine    *electrical.Engine
	estimator *estimate.Estimator
	cache     *cache.SolveCache
	shared    cache.SharedStore
	metrics   *prometheus.AppMetrics
	log       logging.Logger
}

// Option configures optional facade collaborators.
type Option func(*Facade)

// WithSharedStore layers a shared solve store behind the in-process cache.
func WithSharedStore(store cache.SharedStore) Option {
	return func(f *Facade) { f.shared = store }
}

// WithMetrics wires solve and cache metrics.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(f *Facade) { f.metrics = m }
}

// NewFacade builds the facade. solver, engine, estimator and solveCache are
// required.
func NewFacade(solver *field.Solver, engine *electrical.Engine, estimator *estimate.Estimator,
	solveCache *cache.SolveCache, log logging.Logger, opts ...Option) *Facade {
	if log == nil {
		log = logging.NewNopLogger()
	}
	f := &Facade{
		solver:    solver,
		engine:    engine,
		estimator: estimator,
		cache:     solveCache,
		log:       log.Named("design"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Solve computes the panel resistance through the cache tiers: in-process
// LRU first, then the shared store when configured, then the field solver.
// Results produced by an aborted context are returned but never cached.
func (f *Facade) Solve(ctx context.Context, spec panel.PanelSpec, meshStepMm float64) *panel.SolveResult {
	key := cache.NewSolveKey(spec, f.effectiveMeshStep(spec, meshStepMm), SolveVoltage)

	if res, ok := f.cache.Get(key); ok {
		f.countCacheHit("memory")
		return res
	}
	if f.shared != nil {
		if res, ok := f.shared.Get(ctx, key); ok {
			f.countCacheHit("shared")
			f.cache.Put(key, res)
			return res
		}
	}
	f.countCacheMiss()

	started := time.Now()
	res := f.solver.Solve(ctx, spec, meshStepMm, SolveVoltage)
	if f.metrics != nil {
		f.metrics.ObserveSolve(time.Since(started), res.Iterations, res.IsOk(), res.Converged)
	}

	if ctx.Err() == nil {
		f.cache.Put(key, res)
		if f.shared != nil {
			f.shared.Put(ctx, key, res)
		}
		if f.metrics != nil {
			f.metrics.SolveCacheEntries.WithLabelValues().Set(float64(f.cache.Len()))
		}
	}
	return res
}

func (f *Facade) effectiveMeshStep(spec panel.PanelSpec, meshStepMm float64) float64 {
	if meshStepMm > 0 {
		return meshStepMm
	}
	if spec.MeshStepMm > 0 {
		return spec.MeshStepMm
	}
	return f.solver.DefaultMeshStep()
}

func (f *Facade) countCacheHit(tier string) {
	if f.metrics != nil {
		f.metrics.SolveCacheHits.WithLabelValues(tier).Inc()
	}
}

func (f *Facade) countCacheMiss() {
	if f.metrics != nil {
		f.metrics.SolveCacheMisses.WithLabelValues().Inc()
	}
}

// CalcResult carries the electrical outcome of a manual or exact
// calculation for one fixed (island side, gap) pattern.
type CalcResult struct {
	TargetResistanceOhm   float64 `json:"target_resistance_ohm"`
	RawResistanceOhm      float64 `json:"raw_resistance_ohm"`
	Multiplier            float64 `json:"multiplier"`
	AchievedResistanceOhm float64 `json:"achieved_resistance_ohm"`
	AchievedPowerWm2      float64 `json:"achieved_power_w_m2"`
	DeviationPercent      float64 `json:"deviation_percent"`
	// Exact is true when the numbers come from the field solver rather
	// than the analytic estimator.
	Exact bool `json:"exact"`
	// Converged mirrors the solver flag on exact results; always true on
	// manual ones.
	Converged bool `json:"converged"`
}

// CalculateManual evaluates the pattern with the analytic estimator only:
// instant, approximate, good enough for interactive sliders.
func (f *Facade) CalculateManual(spec panel.PanelSpec, targetPowerWm2 float64) *CalcResult {
	area := f.engine.AreaM2(spec)
	rawR := f.engine.RawResistanceOhm(spec)
	mult := f.estimator.Multiplier(spec, spec.IslandSideMm, spec.GapMm)
	achR := rawR * mult
	achP := f.engine.PowerDensityWm2(achR, area)

	return &CalcResult{
		TargetResistanceOhm:   f.engine.TargetResistanceOhm(spec, targetPowerWm2),
		RawResistanceOhm:      rawR,
		Multiplier:            mult,
		AchievedResistanceOhm: achR,
		AchievedPowerWm2:      achP,
		DeviationPercent:      electrical.DeviationPercent(achP, targetPowerWm2),
		Converged:             true,
	}
}

// CalculateExact evaluates the pattern with the field solver through the
// cache: the multiplier is the solver resistance over the raw resistance.
// An Invalid solve returns a nil result together with the solve outcome so
// callers can surface the reason.
func (f *Facade) CalculateExact(ctx context.Context, spec panel.PanelSpec, targetPowerWm2, meshStepMm float64) (*CalcResult, *panel.SolveResult) {
	solve := f.Solve(ctx, spec, meshStepMm)
	if !solve.IsOk() {
		return nil, solve
	}

	area := f.engine.AreaM2(spec)
	rawR := f.engine.RawResistanceOhm(spec)
	achP := f.engine.PowerDensityWm2(solve.ResistanceOhm, area)

	mult := 0.0
	if rawR > 0 {
		mult = solve.ResistanceOhm / rawR
	}

	return &CalcResult{
		TargetResistanceOhm:   f.engine.TargetResistanceOhm(spec, targetPowerWm2),
		RawResistanceOhm:      rawR,
		Multiplier:            mult,
		AchievedResistanceOhm: solve.ResistanceOhm,
		AchievedPowerWm2:      achP,
		DeviationPercent:      electrical.DeviationPercent(achP, targetPowerWm2),
		Exact:                 true,
		Converged:             solve.Converged,
	}, solve
}

// HoneycombLayout is the cell grid that covers the pattern zone.
type HoneycombLayout struct {
	Cols                int     `json:"cols"`
	Rows                int     `json:"rows"`
	EstimatedMultiplier float64 `json:"estimated_multiplier"`
}

// perimeterPathCoeff converts total hexagon perimeter into effective
// current path length in the legacy layout estimate.
const perimeterPathCoeff = 0.35

// FitLayout sizes the cell grid for the pattern zone: the minimum is the
// ceiling coverage plus one overscan column and row; when a positive target
// multiplier is given the column count is scaled toward it but never below
// the coverage minimum, otherwise bare stripes would appear at the zone
// edge.
func (f *Facade) FitLayout(spec panel.PanelSpec, targetMultiplier float64) HoneycombLayout {
	clip := geometry.NewClassifier(spec).ClipRect()
	if clip.IsDegenerate() || !spec.HasPattern() {
		return HoneycombLayout{}
	}

	a, gap := spec.IslandSideMm, spec.GapMm
	stepX := 1.5*a + gap
	stepY := geometry.Sqrt3*a + gap

	colsMin := int(math.Ceil(clip.Width()/stepX)) + 1
	rowsMin := int(math.Ceil(clip.Height()/stepY)) + 1
	if colsMin < 1 {
		colsMin = 1
	}
	if rowsMin < 1 {
		rowsMin = 1
	}

	direction := clip.Width()
	if spec.Orientation == panel.BusbarsTopBottom {
		direction = clip.Height()
	}
	direction = math.Max(direction, 1e-9)

	estimated := func(cols, rows int) float64 {
		return perimeterPathCoeff * 6 * a * float64(cols*rows) / direction
	}

	cols, rows := colsMin, rowsMin
	mult := estimated(cols, rows)
	if mult > 0 && targetMultiplier > 0 {
		scaled := int(math.Round(float64(cols) * targetMultiplier / mult))
		if scaled < 1 {
			scaled = 1
		}
		if scaled > colsMin {
			cols = scaled
		}
		mult = estimated(cols, rows)
	}

	return HoneycombLayout{Cols: cols, Rows: rows, EstimatedMultiplier: mult}
}
