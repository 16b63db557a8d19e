package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/greenmobile/heatglass/internal/domain/panel"
)

// MaxAchievable is the best resistance multiplier the extended range can
// reach on this panel, solver-verified.
type MaxAchievable struct {
	MaxMultiplier float64 `json:"max_multiplier"`
	MaxPowerWm2   float64 `json:"max_power_w_m2"`
	BestSideMm    float64 `json:"best_side_mm"`
	BestGapMm     float64 `json:"best_gap_mm"`
}

// EstimateMaxAchievable scans the extended (a, gap) range for the highest
// estimator multiplier, then verifies the top slice with the solver and
// returns the best verified point. A zero result means nothing in the
// range produced a valid solve.
func (s *Service) EstimateMaxAchievable(ctx context.Context, spec panel.PanelSpec) (MaxAchievable, error) {
	type estPoint struct {
		a, gap, mult float64
	}

	rng := s.cfg.Extended
	var est []estPoint
	for a := rng.AMin; a <= rng.AMax+sweepEps; a += rng.AStep {
		for gap := rng.GapMin; gap <= rng.GapMax+sweepEps; gap += rng.GapStep {
			if m := s.estimator.Multiplier(spec, a, gap); m > 0 {
				est = append(est, estPoint{a, gap, m})
			}
		}
	}
	if len(est) == 0 {
		return MaxAchievable{}, nil
	}

	sort.SliceStable(est, func(i, j int) bool { return est[i].mult > est[j].mult })

	k := 20
	if min := 6 * s.cfg.TopN; k < min {
		k = min
	}
	if k > len(est) {
		k = len(est)
	}

	area := s.engine.AreaM2(spec)
	rawR := s.engine.RawResistanceOhm(spec)

	type verified struct {
		mult, power, a, gap float64
	}
	results := make([]*verified, k)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i := 0; i < k; i++ {
		i := i
		p := est[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := s.facade.Solve(gctx, spec.WithPattern(p.a, p.gap), s.meshStepMm)
			if !res.IsOk() {
				return gctx.Err()
			}
			mult := 0.0
			if rawR > 0 {
				mult = res.ResistanceOhm / rawR
			}
			results[i] = &verified{
				mult:  mult,
				power: s.engine.PowerDensityWm2(res.ResistanceOhm, area),
				a:     p.a,
				gap:   p.gap,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return MaxAchievable{}, err
	}

	var best MaxAchievable
	for _, v := range results {
		if v != nil && v.mult > best.MaxMultiplier {
			best = MaxAchievable{
				MaxMultiplier: v.mult,
				MaxPowerWm2:   v.power,
				BestSideMm:    v.a,
				BestGapMm:     v.gap,
			}
		}
	}
	return best, nil
}

// Recommendation is user-facing guidance on how to reach a target power
// with the current coating and production ranges.
type Recommendation struct {
	RequiredMultiplier float64       `json:"required_multiplier"`
	Achievable         bool          `json:"achievable"`
	Max                MaxAchievable `json:"max_achievable"`
	// SuggestedSideMm is the smallest island side at the minimum gap whose
	// estimated multiplier reaches the target; nil when none does.
	SuggestedSideMm *float64 `json:"suggested_side_mm,omitempty"`
	// SuggestedGapMm is the smallest gap at the minimum island side whose
	// estimated multiplier reaches the target; nil when none does.
	SuggestedGapMm *float64 `json:"suggested_gap_mm,omitempty"`
	Message        string   `json:"message"`
}

// Recommend explains whether targetPowerWm2 is reachable on this panel and
// which corner of the production range to move toward.
func (s *Service) Recommend(ctx context.Context, spec panel.PanelSpec, targetPowerWm2 float64) (*Recommendation, error) {
	rawR := s.engine.RawResistanceOhm(spec)
	if rawR <= 0 {
		return nil, fmt.Errorf("raw resistance is not positive; check panel dimensions, sheet resistance and orientation")
	}
	targetR := s.engine.TargetResistanceOhm(spec, targetPowerWm2)
	required := targetR / rawR

	max, err := s.EstimateMaxAchievable(ctx, spec)
	if err != nil {
		return nil, err
	}

	rec := &Recommendation{RequiredMultiplier: required, Max: max}

	if required > max.MaxMultiplier {
		rec.Message = fmt.Sprintf(
			"Not achievable in the current ranges: required multiplier ~%.2f, maximum ~%.2f (best at a=%.1f mm, gap=%.1f mm). Consider a lower-resistance coating or relaxed production limits.",
			required, max.MaxMultiplier, max.BestSideMm, max.BestGapMm)
		return rec, nil
	}
	rec.Achievable = true

	rng := s.cfg.Extended
	rec.SuggestedSideMm = s.minSideFor(spec, required, rng.GapMin)
	rec.SuggestedGapMm = s.minGapFor(spec, required, rng.AMin)

	var b strings.Builder
	fmt.Fprintf(&b, "Required multiplier ~%.2f. ", required)
	if rec.SuggestedSideMm != nil {
		fmt.Fprintf(&b, "Reduce the island side to ~%.1f mm at gap ~%.1f mm. ", *rec.SuggestedSideMm, rng.GapMin)
	}
	if rec.SuggestedGapMm != nil {
		fmt.Fprintf(&b, "Alternatively, reduce the gap to ~%.1f mm at a ~%.1f mm island side. ", *rec.SuggestedGapMm, rng.AMin)
	}
	b.WriteString("Prefer the option with the smaller deviation and the easier ablation.")
	rec.Message = b.String()
	return rec, nil
}

// minSideFor walks the island side up from the range minimum at a fixed
// gap and returns the first side whose estimated multiplier reaches the
// target. The multiplier grows with the side, so the first hit is the
// smallest side that suffices.
func (s *Service) minSideFor(spec panel.PanelSpec, targetMult, gap float64) *float64 {
	rng := s.cfg.Extended
	for a := rng.AMin; a <= rng.AMax+sweepEps; a += rng.AStep {
		if s.estimator.Multiplier(spec, a, gap) >= targetMult {
			v := a
			return &v
		}
	}
	return nil
}

// minGapFor is the gap-axis counterpart of minSideFor at a fixed side.
func (s *Service) minGapFor(spec panel.PanelSpec, targetMult, a float64) *float64 {
	rng := s.cfg.Extended
	for gap := rng.GapMin; gap <= rng.GapMax+sweepEps; gap += rng.GapStep {
		if s.estimator.Multiplier(spec, a, gap) >= targetMult {
			v := gap
			return &v
		}
	}
	return nil
}
