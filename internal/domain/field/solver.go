// Package field implements the resistive field solver: a 5-point
// finite-difference conductance network over a regular grid, Dirichlet
// conditions at the busbars, conjugate-gradient solution of the reduced
// sparse system, and current extraction at the hot electrode.
//
// The discretization resolves the ablation channels only while the mesh
// step stays below the half-gap; once half the gap reaches the step, the
// near-segment node classification can ablate whole conduction paths and
// resistance stops varying monotonically with the gap. Keep the mesh step
// under gap/2 for patterns whose gap matters.
package field

import (
	"context"
	"time"

	"github.com/greenmobile/heatglass/internal/domain/geometry"
	"github.com/greenmobile/heatglass/internal/domain/panel"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/logging"
)

// Options are the solver tunables. Coarse meshes (step at or above
// CoarseMeshThresholdMm) run the CG loop with the relaxed budget: search-time
// solves prioritize speed, final solves accuracy.
type Options struct {
	DefaultMeshStepMm     float64
	SigmaAblation         float64
	CGMaxIters            int
	CGTolerance           float64
	CoarseMeshThresholdMm float64
	CoarseCGMaxIters      int
	CoarseCGTolerance     float64
}

// DefaultOptions returns the production solver tuning.
func DefaultOptions() Options {
	return Options{
		DefaultMeshStepMm:     2.0,
		SigmaAblation:         1e-6,
		CGMaxIters:            4000,
		CGTolerance:           1e-8,
		CoarseMeshThresholdMm: 4.0,
		CoarseCGMaxIters:      1500,
		CoarseCGTolerance:     3e-8,
	}
}

// Observer receives solve telemetry; the metrics layer implements it.
type Observer interface {
	SolveFinished(duration time.Duration, iterations int, converged bool)
}

// Solver computes the equivalent resistance between the busbars of a panel.
// A Solver is stateless apart from its options and safe for concurrent use;
// each Solve call owns its grid and system exclusively.
type Solver struct {
	opts     Options
	log      logging.Logger
	observer Observer
}

// NewSolver builds a solver with the given options. A nil logger falls back
// to the nop logger.
func NewSolver(opts Options, log logging.Logger) *Solver {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Solver{opts: opts, log: log.Named("solver")}
}

// SetObserver registers a telemetry sink. Not safe to call concurrently
// with Solve; wire it at startup.
func (s *Solver) SetObserver(o Observer) { s.observer = o }

// DefaultMeshStep returns the mesh step used when neither the caller nor
// the spec overrides it.
func (s *Solver) DefaultMeshStep() float64 { return s.opts.DefaultMeshStepMm }

// Solve runs Validate → BuildGrid → ClassifyNodes → AssembleSystem → CG →
// ExtractCurrent and returns the resistance between the busbars under the
// given applied voltage. meshStepMm overrides the spec's mesh step when
// positive; zero falls back to the spec, then to the configured default.
//
// Structural failures (bad input, degenerate mesh, no free nodes, no
// current) come back as an Invalid result, never as a panic or error; an
// expired ctx likewise yields an Invalid result with a distinct reason.
// CG non-convergence is soft: the result carries the best iterate with
// Converged=false.
func (s *Solver) Solve(ctx context.Context, spec panel.PanelSpec, meshStepMm, voltage float64) *panel.SolveResult {
	started := time.Now()

	if err := spec.Validate(); err != nil {
		return panel.InvalidResult(err.Error())
	}
	if voltage <= 0 {
		return panel.InvalidResult("applied voltage must be positive")
	}

	dx := meshStepMm
	if dx <= 0 {
		dx = spec.MeshStepMm
	}
	if dx <= 0 {
		dx = s.opts.DefaultMeshStepMm
	}

	cls := geometry.NewClassifier(spec)
	segs := geometry.BuildAblationSegments(spec)
	var idx *geometry.SegmentIndex
	if len(segs) > 0 {
		idx = geometry.BuildSegmentIndex(segs, spec.GapMm/2)
	}

	grid := buildGrid(spec, cls, idx, dx, voltage, s.opts.SigmaAblation)
	if grid.nx < 3 || grid.ny < 3 {
		return panel.InvalidResult("degenerate mesh: fewer than 3 nodes on an axis")
	}

	sys, unknown := s.assemble(grid, spec.SheetResistance)
	if sys.n == 0 {
		return panel.InvalidResult("no free nodes: entire grid is held at fixed potential")
	}

	maxIters, tol := s.opts.CGMaxIters, s.opts.CGTolerance
	if dx >= s.opts.CoarseMeshThresholdMm {
		maxIters, tol = s.opts.CoarseCGMaxIters, s.opts.CoarseCGTolerance
	}

	x, iters, converged, ctxErr := conjugateGradient(ctx, sys, maxIters, tol)
	if ctxErr != nil {
		return panel.InvalidResult("solve aborted: " + ctxErr.Error())
	}
	if !converged {
		s.log.Warn("conjugate gradient hit the iteration cap, using best iterate",
			logging.Int("iterations", iters),
			logging.Float64("mesh_step_mm", dx),
			logging.Int("unknowns", sys.n))
	}

	current := extractCurrent(grid, unknown, x, 1.0/spec.SheetResistance)
	if current <= 0 {
		return panel.InvalidResult("no current flow, check busbar and pattern geometry")
	}

	result := &panel.SolveResult{
		Status:        panel.SolveOk,
		ResistanceOhm: voltage / current,
		CurrentA:      current,
		MeshStepMm:    dx,
		GridNX:        grid.nx,
		GridNY:        grid.ny,
		SegmentCount:  len(segs),
		Converged:     converged,
		Iterations:    iters,
	}

	elapsed := time.Since(started)
	if s.observer != nil {
		s.observer.SolveFinished(elapsed, iters, converged)
	}
	s.log.Debug("solve finished",
		logging.Float64("resistance_ohm", result.ResistanceOhm),
		logging.Int("iterations", iters),
		logging.Bool("converged", converged),
		logging.Int("segments", len(segs)),
		logging.Duration("elapsed", elapsed))
	return result
}

// assemble builds the reduced system over the free nodes. Edge conductance
// between two nodes is g0 times the average of their conductivity factors,
// with g0 = 1/sheetResistance: a unit square of coating has resistance equal
// to the sheet resistance, independent of the mesh step.
func (s *Solver) assemble(g *conductivityGrid, sheetResistance float64) (*sparseSystem, []int32) {
	total := g.nx * g.ny
	unknown := make([]int32, total)
	free := 0
	for n := 0; n < total; n++ {
		if g.dirichlet[n] {
			unknown[n] = -1
			continue
		}
		unknown[n] = int32(free)
		free++
	}

	sys := newSparseSystem(free)
	g0 := 1.0 / sheetResistance

	for j := 0; j < g.ny; j++ {
		for i := 0; i < g.nx; i++ {
			n := g.at(i, j)
			r := unknown[n]
			if r < 0 {
				continue
			}
			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				ni, nj := i+d[0], j+d[1]
				if ni < 0 || ni >= g.nx || nj < 0 || nj >= g.ny {
					continue
				}
				m := g.at(ni, nj)
				cond := g0 * 0.5 * (g.sigma[n] + g.sigma[m])
				sys.addEdge(int(r), unknown[m], cond, g.potential[m], unknown[m] >= 0)
			}
		}
	}
	return sys, unknown
}

// extractCurrent sums the conductance-weighted potential drops out of every
// hot-busbar node; only positive drops carry current out of the electrode.
func extractCurrent(g *conductivityGrid, unknown []int32, x []float64, g0 float64) float64 {
	total := 0.0
	for j := 0; j < g.ny; j++ {
		for i := 0; i < g.nx; i++ {
			n := g.at(i, j)
			if !g.hot[n] {
				continue
			}
			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				ni, nj := i+d[0], j+d[1]
				if ni < 0 || ni >= g.nx || nj < 0 || nj >= g.ny {
					continue
				}
				m := g.at(ni, nj)
				var vm float64
				if g.dirichlet[m] {
					vm = g.potential[m]
				} else {
					vm = x[unknown[m]]
				}
				drop := g.potential[n] - vm
				if drop <= 0 {
					continue
				}
				total += g0 * 0.5 * (g.sigma[n] + g.sigma[m]) * drop
			}
		}
	}
	return total
}
