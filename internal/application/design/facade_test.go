package design

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmobile/heatglass/internal/domain/electrical"
	"github.com/greenmobile/heatglass/internal/domain/estimate"
	"github.com/greenmobile/heatglass/internal/domain/field"
	"github.com/greenmobile/heatglass/internal/domain/panel"
	"github.com/greenmobile/heatglass/internal/infrastructure/cache"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/logging"
)

func newTestFacade() (*Facade, *cache.SolveCache) {
	solveCache := cache.NewSolveCache(64)
	f := NewFacade(
		field.NewSolver(field.DefaultOptions(), logging.NewNopLogger()),
		electrical.NewEngine(220),
		estimate.NewEstimator(estimate.DefaultParams()),
		solveCache,
		logging.NewNopLogger(),
	)
	return f, solveCache
}

func facadeSpec() panel.PanelSpec {
	return panel.PanelSpec{
		WidthMm:           400,
		HeightMm:          300,
		SheetResistance:   20,
		EdgeMarginMm:      5,
		BusbarWidthMm:     10,
		Orientation:       panel.BusbarsLeftRight,
		BusbarClearanceMm: 4,
		IslandSideMm:      20,
		GapMm:             2,
	}
}

func TestFacade_SolveHitsCacheOnRepeat(t *testing.T) {
	f, solveCache := newTestFacade()
	spec := facadeSpec()

	first := f.Solve(context.Background(), spec, 4.0)
	require.True(t, first.IsOk(), "reason: %s", first.Reason)

	second := f.Solve(context.Background(), spec, 4.0)
	assert.Same(t, first, second, "expected the cached result object")

	stats := solveCache.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestFacade_SolveQuantizedSpecsShareEntry(t *testing.T) {
	f, solveCache := newTestFacade()
	spec := facadeSpec()

	first := f.Solve(context.Background(), spec, 4.0)
	require.True(t, first.IsOk())

	nudged := spec
	nudged.WidthMm += 0.0003 // below key resolution
	second := f.Solve(context.Background(), nudged, 4.0)
	assert.Same(t, first, second)
	assert.Equal(t, 1, solveCache.Len())
}

func TestFacade_AbortedSolveNotCached(t *testing.T) {
	f, solveCache := newTestFacade()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := f.Solve(ctx, facadeSpec(), 4.0)
	require.False(t, res.IsOk())
	assert.Zero(t, solveCache.Len())
}

type stubShared struct {
	store map[cache.SolveKey]*panel.SolveResult
	gets  int
	puts  int
}

func newStubShared() *stubShared {
	return &stubShared{store: map[cache.SolveKey]*panel.SolveResult{}}
}

func (s *stubShared) Get(_ context.Context, key cache.SolveKey) (*panel.SolveResult, bool) {
	s.gets++
	res, ok := s.store[key]
	return res, ok
}

func (s *stubShared) Put(_ context.Context, key cache.SolveKey, res *panel.SolveResult) {
	s.puts++
	s.store[key] = res
}

func TestFacade_SharedStoreTier(t *testing.T) {
	shared := newStubShared()
	solveCache := cache.NewSolveCache(64)
	f := NewFacade(
		field.NewSolver(field.DefaultOptions(), logging.NewNopLogger()),
		electrical.NewEngine(220),
		estimate.NewEstimator(estimate.DefaultParams()),
		solveCache,
		logging.NewNopLogger(),
		WithSharedStore(shared),
	)

	spec := facadeSpec()
	res := f.Solve(context.Background(), spec, 4.0)
	require.True(t, res.IsOk())
	assert.Equal(t, 1, shared.gets)
	assert.Equal(t, 1, shared.puts)

	// Drop the local tier: the shared store must backfill it.
	solveCache.Purge()
	again := f.Solve(context.Background(), spec, 4.0)
	require.True(t, again.IsOk())
	assert.Equal(t, 2, shared.gets)
	assert.Equal(t, 1, shared.puts, "shared hit must not re-put")
	assert.Equal(t, 1, solveCache.Len())
}

func TestFacade_CalculateManual(t *testing.T) {
	f, _ := newTestFacade()
	spec := facadeSpec()

	res := f.CalculateManual(spec, 2000)
	require.NotNil(t, res)

	// R_raw = 20 · 400/300.
	assert.InDelta(t, 20.0*400/300, res.RawResistanceOhm, 1e-9)
	assert.Positive(t, res.Multiplier)
	assert.InDelta(t, res.RawResistanceOhm*res.Multiplier, res.AchievedResistanceOhm, 1e-9)
	assert.False(t, res.Exact)
	assert.True(t, res.Converged)

	// Deviation is consistent with achieved power vs target.
	wantDev := (res.AchievedPowerWm2 - 2000) / 2000 * 100
	assert.InDelta(t, wantDev, res.DeviationPercent, 1e-9)
}

func TestFacade_CalculateExact(t *testing.T) {
	f, _ := newTestFacade()
	spec := facadeSpec()

	res, solve := f.CalculateExact(context.Background(), spec, 2000, 4.0)
	require.True(t, solve.IsOk(), "reason: %s", solve.Reason)
	require.NotNil(t, res)

	assert.True(t, res.Exact)
	assert.Equal(t, solve.ResistanceOhm, res.AchievedResistanceOhm)
	assert.InDelta(t, solve.ResistanceOhm/res.RawResistanceOhm, res.Multiplier, 1e-9)
	assert.Positive(t, res.AchievedPowerWm2)
}

func TestFacade_CalculateExactInvalid(t *testing.T) {
	f, _ := newTestFacade()
	spec := facadeSpec()
	spec.WidthMm = 0

	res, solve := f.CalculateExact(context.Background(), spec, 2000, 4.0)
	assert.Nil(t, res)
	require.NotNil(t, solve)
	assert.False(t, solve.IsOk())
}

func TestFacade_FitLayout(t *testing.T) {
	f, _ := newTestFacade()
	spec := facadeSpec()

	base := f.FitLayout(spec, 0)
	require.Positive(t, base.Cols)
	require.Positive(t, base.Rows)
	require.Positive(t, base.EstimatedMultiplier)

	// A higher target multiplier scales columns up, never below coverage.
	bigger := f.FitLayout(spec, base.EstimatedMultiplier*3)
	assert.GreaterOrEqual(t, bigger.Cols, base.Cols)
	assert.Equal(t, base.Rows, bigger.Rows)

	// A tiny target cannot shrink below the coverage minimum.
	smaller := f.FitLayout(spec, base.EstimatedMultiplier/10)
	assert.Equal(t, base.Cols, smaller.Cols)

	// Degenerate zone yields a zero layout.
	spec.BusbarWidthMm = 200
	assert.Zero(t, f.FitLayout(spec, 1))
}

func TestFacade_Energy(t *testing.T) {
	f, _ := newTestFacade()
	spec := panel.PanelSpec{WidthMm: 1000, HeightMm: 1000, SheetResistance: 20, Orientation: panel.BusbarsLeftRight}

	res := f.Energy(spec, EnergyInput{
		TargetPowerWm2: 500,
		Mode:           ModeCondensate,
		AmbientTempC:   0,
	})

	// 1 m² at 500 W/m².
	assert.InDelta(t, 500.0, res.TotalPowerW, 1e-9)
	// Condensate mode at 0 °C ambient targets 10 °C.
	assert.InDelta(t, 10.0, res.DeltaTempC, 1e-9)

	// Warm-up: mass = 1 m² · 4 mm · 2500 = 10 kg; C = 8400 J/K;
	// t = 8400·10/(500·0.6) = 280 s.
	assert.InDelta(t, 280.0, res.WarmupTimeS, 1e-6)
	assert.InDelta(t, 500*280/3.6e6, res.WarmupEnergyKWh, 1e-9)
	assert.InDelta(t, 200.0, res.HoldingPowerW, 1e-9)
	assert.InDelta(t, 0.2, res.HoldingEnergyPerHourKWh, 1e-9)
}

func TestFacade_EnergyModesAndOverrides(t *testing.T) {
	f, _ := newTestFacade()
	spec := panel.PanelSpec{WidthMm: 1000, HeightMm: 1000, SheetResistance: 20, Orientation: panel.BusbarsLeftRight}

	deicing := f.Energy(spec, EnergyInput{TargetPowerWm2: 500, Mode: ModeDeicing, AmbientTempC: -5})
	assert.InDelta(t, 10.0, deicing.DeltaTempC, 1e-9) // max(-5+10, 5) = 5 → ΔT 10

	target := 30.0
	heating := f.Energy(spec, EnergyInput{
		TargetPowerWm2:     500,
		Mode:               ModeHeating,
		AmbientTempC:       20,
		TargetSurfaceTempC: &target,
	})
	assert.InDelta(t, 10.0, heating.DeltaTempC, 1e-9)

	// Already warm enough: no warm-up phase, full power held.
	warm := f.Energy(spec, EnergyInput{
		TargetPowerWm2:     500,
		Mode:               ModeHeating,
		AmbientTempC:       40,
		TargetSurfaceTempC: &target, // 30 °C, below ambient
	})
	assert.Zero(t, warm.WarmupTimeS)
	assert.InDelta(t, 500.0, warm.HoldingPowerW, 1e-9)
}

func TestOperationMode_Basics(t *testing.T) {
	assert.True(t, ModeCondensate.IsValid())
	assert.False(t, OperationMode("defrost").IsValid())
	assert.Equal(t, 0.6, ModeCondensate.Efficiency())
	assert.Equal(t, 0.5, ModeHeating.Efficiency())
	assert.Equal(t, 0.4, ModeDeicing.Efficiency())
	assert.InDelta(t, 22.0, ModeHeating.DefaultTargetTempC(0), 1e-12)
}
