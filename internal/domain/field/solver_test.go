package field

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmobile/heatglass/internal/domain/panel"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/logging"
)

func newTestSolver() *Solver {
	return NewSolver(DefaultOptions(), logging.NewNopLogger())
}

func uniformSpec() panel.PanelSpec {
	// Uniform coating, no ablation pattern: electrodes on the 500 mm edges.
	return panel.PanelSpec{
		WidthMm:         1000,
		HeightMm:        500,
		SheetResistance: 20,
		BusbarWidthMm:   10,
		Orientation:     panel.BusbarsLeftRight,
	}
}

func TestSolve_UniformCoatingMatchesSheetFormula(t *testing.T) {
	s := newTestSolver()
	res := s.Solve(context.Background(), uniformSpec(), 2.0, 1.0)
	require.True(t, res.IsOk(), "reason: %s", res.Reason)

	// Separation between the busbar inner edges is 980 mm over a 500 mm
	// electrode: R = 20 · 980/500 = 39.2 Ω, within discretization error.
	assert.InDelta(t, 39.2, res.ResistanceOhm, 39.2*0.02)
	assert.True(t, res.Converged)
	assert.Zero(t, res.SegmentCount)
	assert.Equal(t, 501, res.GridNX)
	assert.Equal(t, 251, res.GridNY)
}

func TestSolve_OrientationSymmetryOnSquarePanel(t *testing.T) {
	spec := panel.PanelSpec{
		WidthMm:         400,
		HeightMm:        400,
		SheetResistance: 15,
		BusbarWidthMm:   10,
		Orientation:     panel.BusbarsLeftRight,
	}
	s := newTestSolver()

	lr := s.Solve(context.Background(), spec, 2.0, 1.0)
	require.True(t, lr.IsOk())

	spec.Orientation = panel.BusbarsTopBottom
	tb := s.Solve(context.Background(), spec, 2.0, 1.0)
	require.True(t, tb.IsOk())

	assert.InDelta(t, lr.ResistanceOhm, tb.ResistanceOhm, lr.ResistanceOhm*1e-6)
}

func patternedSpec(a, gap float64) panel.PanelSpec {
	return panel.PanelSpec{
		WidthMm:           200,
		HeightMm:          150,
		SheetResistance:   10,
		EdgeMarginMm:      5,
		BusbarWidthMm:     8,
		Orientation:       panel.BusbarsLeftRight,
		BusbarClearanceMm: 4,
		IslandSideMm:      a,
		GapMm:             gap,
	}
}

// Gap monotonicity holds only while the mesh resolves the channels (see
// the package doc); the 1 mm step keeps these gaps resolvable. At coarser
// steps the near-segment classification can invert the ordering.
func TestSolve_ResistanceGrowsWithGap(t *testing.T) {
	s := newTestSolver()
	narrow := s.Solve(context.Background(), patternedSpec(20, 2), 1.0, 1.0)
	wide := s.Solve(context.Background(), patternedSpec(20, 6), 1.0, 1.0)
	require.True(t, narrow.IsOk(), "reason: %s", narrow.Reason)
	require.True(t, wide.IsOk(), "reason: %s", wide.Reason)

	assert.GreaterOrEqual(t, wide.ResistanceOhm, narrow.ResistanceOhm)
}

func TestSolve_ResistanceGrowsWithIslandSide(t *testing.T) {
	s := newTestSolver()
	small := s.Solve(context.Background(), patternedSpec(10, 2), 1.0, 1.0)
	large := s.Solve(context.Background(), patternedSpec(40, 2), 1.0, 1.0)
	require.True(t, small.IsOk(), "reason: %s", small.Reason)
	require.True(t, large.IsOk(), "reason: %s", large.Reason)

	assert.GreaterOrEqual(t, large.ResistanceOhm, small.ResistanceOhm)
}

func TestSolve_PatternRaisesResistanceAboveUniform(t *testing.T) {
	s := newTestSolver()
	spec := patternedSpec(20, 2)
	patterned := s.Solve(context.Background(), spec, 1.0, 1.0)

	spec.IslandSideMm = 0
	spec.GapMm = 0
	uniform := s.Solve(context.Background(), spec, 1.0, 1.0)

	require.True(t, patterned.IsOk())
	require.True(t, uniform.IsOk())
	assert.Greater(t, patterned.ResistanceOhm, uniform.ResistanceOhm)
	assert.Positive(t, patterned.SegmentCount)
}

func TestSolve_InvalidInputs(t *testing.T) {
	s := newTestSolver()

	tests := []struct {
		name string
		spec panel.PanelSpec
		mesh float64
	}{
		{"zero width", panel.PanelSpec{HeightMm: 100, SheetResistance: 10, Orientation: panel.BusbarsLeftRight}, 2.0},
		{"margin swallows panel", func() panel.PanelSpec {
			sp := uniformSpec()
			sp.EdgeMarginMm = 500
			return sp
		}(), 2.0},
		{"degenerate mesh", panel.PanelSpec{WidthMm: 2, HeightMm: 2, SheetResistance: 10, Orientation: panel.BusbarsLeftRight}, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Solve(context.Background(), tt.spec, tt.mesh, 1.0)
			require.False(t, res.IsOk())
			assert.NotEmpty(t, res.Reason)
		})
	}
}

func TestSolve_NoFreeNodes(t *testing.T) {
	spec := panel.PanelSpec{
		WidthMm:         100,
		HeightMm:        100,
		SheetResistance: 10,
		BusbarWidthMm:   50, // the two busbars cover the entire panel
		Orientation:     panel.BusbarsLeftRight,
	}
	res := newTestSolver().Solve(context.Background(), spec, 2.0, 1.0)
	require.False(t, res.IsOk())
	assert.Contains(t, res.Reason, "no free nodes")
}

func TestSolve_NoCurrentFlow(t *testing.T) {
	// Busbars so thin they fall between grid nodes: no Dirichlet node ever
	// forms, the zero field solves trivially, and no current is extracted.
	spec := panel.PanelSpec{
		WidthMm:         100,
		HeightMm:        100,
		SheetResistance: 10,
		EdgeMarginMm:    0.5,
		BusbarWidthMm:   0.5,
		Orientation:     panel.BusbarsLeftRight,
	}
	res := newTestSolver().Solve(context.Background(), spec, 2.0, 1.0)
	require.False(t, res.IsOk())
	assert.Contains(t, res.Reason, "no current")
}

func TestSolve_ZeroVoltage(t *testing.T) {
	res := newTestSolver().Solve(context.Background(), uniformSpec(), 2.0, 0)
	require.False(t, res.IsOk())
}

func TestSolve_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := newTestSolver().Solve(ctx, uniformSpec(), 2.0, 1.0)
	require.False(t, res.IsOk())
	assert.Contains(t, res.Reason, "aborted")
}

func TestSolve_MeshStepPrecedence(t *testing.T) {
	s := newTestSolver()
	spec := uniformSpec()
	spec.MeshStepMm = 5.0

	// Explicit argument wins over the spec override.
	res := s.Solve(context.Background(), spec, 10.0, 1.0)
	require.True(t, res.IsOk())
	assert.Equal(t, 10.0, res.MeshStepMm)

	// Spec override wins over the configured default.
	res = s.Solve(context.Background(), spec, 0, 1.0)
	require.True(t, res.IsOk())
	assert.Equal(t, 5.0, res.MeshStepMm)
}

type recordingObserver struct {
	calls     int
	converged bool
	duration  time.Duration
}

func (r *recordingObserver) SolveFinished(d time.Duration, _ int, converged bool) {
	r.calls++
	r.converged = converged
	r.duration = d
}

func TestSolve_NotifiesObserver(t *testing.T) {
	s := newTestSolver()
	obs := &recordingObserver{}
	s.SetObserver(obs)

	res := s.Solve(context.Background(), uniformSpec(), 4.0, 1.0)
	require.True(t, res.IsOk())
	assert.Equal(t, 1, obs.calls)
	assert.Equal(t, res.Converged, obs.converged)
}
