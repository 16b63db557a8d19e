// Package search finds manufacturable honeycomb parameters (island side,
// channel gap) for a target specific power. The search runs in two phases:
// a cheap analytic sweep ranks the whole (a, gap) grid, then the field
// solver re-evaluates the top slice in parallel so the returned candidates
// carry exact numbers.
package search

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/greenmobile/heatglass/internal/application/design"
	"github.com/greenmobile/heatglass/internal/config"
	"github.com/greenmobile/heatglass/internal/domain/electrical"
	"github.com/greenmobile/heatglass/internal/domain/estimate"
	"github.com/greenmobile/heatglass/internal/domain/panel"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/logging"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/prometheus"
)

const sweepEps = 1e-9

// Service runs the two-phase candidate search.
type Service struct {
	facade    *design.Facade
	engine    *electrical.Engine
	estimator *estimate.Estimator
	cfg       config.SearchConfig
	// meshStepMm is the coarse solver mesh used for search-time solves;
	// a 3-4 mm step is several times faster than the default fine mesh.
	meshStepMm float64
	metrics    *prometheus.AppMetrics
	log        logging.Logger
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithMetrics wires search metrics.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService builds the search service. meshStepMm is the coarse solver
// mesh step for search-time solves.
func NewService(facade *design.Facade, engine *electrical.Engine, estimator *estimate.Estimator,
	cfg config.SearchConfig, meshStepMm float64, log logging.Logger, opts ...Option) *Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if meshStepMm <= 0 {
		meshStepMm = 4.0
	}
	s := &Service{
		facade:     facade,
		engine:     engine,
		estimator:  estimator,
		cfg:        cfg,
		meshStepMm: meshStepMm,
		log:        log.Named("search"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// scoredCandidate pairs a candidate with its precomputed ranking
// tiebreakers so sorting does not recompute them.
type scoredCandidate struct {
	design       panel.CandidateDesign
	ablIntensity float64
	cellDensity  float64
}

// rank orders by |deviation|, then smaller ablation intensity (gap/a),
// then larger cell density (finer pattern).
func rank(list []scoredCandidate) {
	sort.SliceStable(list, func(i, j int) bool {
		di, dj := math.Abs(list[i].design.DeviationPercent), math.Abs(list[j].design.DeviationPercent)
		if di != dj {
			return di < dj
		}
		if list[i].ablIntensity != list[j].ablIntensity {
			return list[i].ablIntensity < list[j].ablIntensity
		}
		return list[i].cellDensity > list[j].cellDensity
	})
}

// FindTopDesigns explores the base (a, gap) range for spec and returns up
// to the configured number of solver-verified candidates whose power
// deviation meets tolerance. When the base range has none and auto-expand
// is on, the extended range is tried; if that also fails the closest
// candidates found are returned with Achievable set to false.
func (s *Service) FindTopDesigns(ctx context.Context, spec panel.PanelSpec, targetPowerWm2 float64) ([]panel.CandidateDesign, error) {
	started := time.Now()

	result, outcome, err := s.findTopDesigns(ctx, spec, targetPowerWm2)
	if s.metrics != nil {
		s.metrics.SearchDuration.WithLabelValues().Observe(time.Since(started).Seconds())
		s.metrics.SearchTotal.WithLabelValues(outcome).Inc()
	}
	return result, err
}

func (s *Service) findTopDesigns(ctx context.Context, spec panel.PanelSpec, targetPowerWm2 float64) ([]panel.CandidateDesign, string, error) {
	topN := s.cfg.TopN
	if topN < 1 {
		topN = 1
	}

	baseRanked := s.sweep(spec, targetPowerWm2, s.cfg.Base)
	baseSolved, err := s.solveTopK(ctx, spec, targetPowerWm2, baseRanked)
	if err != nil {
		return nil, "failed", err
	}
	if accepted := s.withinTolerance(baseSolved); len(accepted) > 0 {
		return limit(accepted, topN), "achievable", nil
	}

	if !s.cfg.AutoExpand {
		return limit(baseSolved, topN), "closest", nil
	}

	s.log.Info("no candidate met tolerance in base range, expanding",
		logging.Float64("tolerance_percent", s.cfg.TolerancePercent))

	extRanked := s.sweep(spec, targetPowerWm2, s.cfg.Extended)
	extSolved, err := s.solveTopK(ctx, spec, targetPowerWm2, extRanked)
	if err != nil {
		return nil, "failed", err
	}
	if accepted := s.withinTolerance(extSolved); len(accepted) > 0 {
		return limit(accepted, topN), "achievable", nil
	}
	return limit(extSolved, topN), "closest", nil
}

// sweep runs the analytic phase: every (a, gap) pair in the range is
// scored with the estimator and the whole grid is ranked. The candidate
// numbers are approximate and get replaced by the solver phase.
func (s *Service) sweep(spec panel.PanelSpec, targetPowerWm2 float64, rng config.RangeConfig) []scoredCandidate {
	area := s.engine.AreaM2(spec)
	rawR := s.engine.RawResistanceOhm(spec)

	var out []scoredCandidate
	for a := rng.AMin; a <= rng.AMax+sweepEps; a += rng.AStep {
		for gap := rng.GapMin; gap <= rng.GapMax+sweepEps; gap += rng.GapStep {
			mult := s.estimator.Multiplier(spec, a, gap)
			if mult <= 0 {
				continue
			}
			rEst := rawR * mult
			if rEst <= 0 {
				continue
			}
			pEst := s.engine.PowerDensityWm2(rEst, area)

			cand := panel.CandidateDesign{
				IslandSideMm:     a,
				GapMm:            gap,
				Multiplier:       mult,
				ResistanceOhm:    rEst,
				PowerDensity:     pEst,
				DeviationPercent: electrical.DeviationPercent(pEst, targetPowerWm2),
			}
			out = append(out, scoredCandidate{
				design:       cand,
				ablIntensity: cand.AblationIntensity(),
				cellDensity:  cand.CellDensity(),
			})
		}
	}
	rank(out)
	return out
}

// solveTopK re-evaluates the best-ranked candidates through the field
// solver on a worker pool. Every candidate in the slice is solved; the
// shared best-deviation value feeds logging and metrics only, so the
// result set is deterministic.
func (s *Service) solveTopK(ctx context.Context, spec panel.PanelSpec, targetPowerWm2 float64, ranked []scoredCandidate) ([]panel.CandidateDesign, error) {
	if len(ranked) == 0 {
		return nil, nil
	}

	k := s.cfg.SolverTopK
	if k < 8 {
		k = 8
	}
	if min := 3 * s.cfg.TopN; k < min {
		k = min
	}
	if k > len(ranked) {
		k = len(ranked)
	}

	area := s.engine.AreaM2(spec)
	rawR := s.engine.RawResistanceOhm(spec)

	var best bestDeviation
	best.reset()

	solved := make([]*scoredCandidate, k)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	for i := 0; i < k; i++ {
		i := i
		sc := ranked[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			cand := spec.WithPattern(sc.design.IslandSideMm, sc.design.GapMm)
			res := s.facade.Solve(gctx, cand, s.meshStepMm)
			if !res.IsOk() {
				if err := gctx.Err(); err != nil {
					return err
				}
				s.log.Debug("candidate rejected by solver",
					logging.Float64("island_side_mm", cand.IslandSideMm),
					logging.Float64("gap_mm", cand.GapMm),
					logging.String("reason", res.Reason))
				return nil
			}

			mult := 0.0
			if rawR > 0 {
				mult = res.ResistanceOhm / rawR
			}
			power := s.engine.PowerDensityWm2(res.ResistanceOhm, area)
			dev := electrical.DeviationPercent(power, targetPowerWm2)
			best.observe(math.Abs(dev))

			out := sc
			out.design.Multiplier = mult
			out.design.ResistanceOhm = res.ResistanceOhm
			out.design.PowerDensity = power
			out.design.DeviationPercent = dev
			out.design.Achievable = math.Abs(dev) <= s.cfg.TolerancePercent
			out.design.Verified = true
			solved[i] = &out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kept := make([]scoredCandidate, 0, k)
	for _, sc := range solved {
		if sc != nil {
			kept = append(kept, *sc)
		}
	}
	rank(kept)

	if s.metrics != nil {
		s.metrics.SearchCandidates.WithLabelValues().Observe(float64(len(kept)))
		if d, ok := best.value(); ok {
			s.metrics.SearchBestDeviation.WithLabelValues().Set(d)
		}
	}
	s.log.Debug("solver phase done",
		logging.Int("verified", len(kept)),
		logging.Int("requested", k))

	out := make([]panel.CandidateDesign, len(kept))
	for i, sc := range kept {
		out[i] = sc.design
	}
	return out, nil
}

func (s *Service) withinTolerance(in []panel.CandidateDesign) []panel.CandidateDesign {
	var out []panel.CandidateDesign
	for _, d := range in {
		if math.Abs(d.DeviationPercent) <= s.cfg.TolerancePercent {
			out = append(out, d)
		}
	}
	return out
}

func (s *Service) workers() int {
	if s.cfg.Workers > 0 {
		return s.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func limit(in []panel.CandidateDesign, n int) []panel.CandidateDesign {
	if len(in) > n {
		in = in[:n]
	}
	return in
}

// bestDeviation tracks the smallest |deviation| seen across workers. It is
// informational: workers never read it to skip candidates.
type bestDeviation struct {
	bits atomic.Uint64
}

func (b *bestDeviation) reset() {
	b.bits.Store(math.Float64bits(math.Inf(1)))
}

// observe lowers the stored value if d is smaller. Non-negative float64
// bit patterns order like the values, so CAS on the bits suffices.
func (b *bestDeviation) observe(d float64) {
	if d < 0 || math.IsNaN(d) {
		return
	}
	for {
		old := b.bits.Load()
		if math.Float64bits(d) >= old {
			return
		}
		if b.bits.CompareAndSwap(old, math.Float64bits(d)) {
			return
		}
	}
}

func (b *bestDeviation) value() (float64, bool) {
	v := math.Float64frombits(b.bits.Load())
	if math.IsInf(v, 1) {
		return 0, false
	}
	return v, true
}
