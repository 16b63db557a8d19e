// Package estimate implements the analytic path-length multiplier models
// used as a fast pre-filter by the candidate search. The estimator is a
// closed-form oracle, cheap enough to sweep thousands of (a, gap) pairs; the
// field solver later verifies only the top-ranked few.
package estimate

import (
	"math"

	"github.com/greenmobile/heatglass/internal/domain/panel"
	"github.com/greenmobile/heatglass/pkg/errors"
)

// Model selects between the physical channel model and the legacy
// perimeter model.
type Model string

const (
	ModelPhysical Model = "physical"
	ModelLegacy   Model = "legacy"
)

// IsValid checks if the model is supported.
func (m Model) IsValid() bool {
	return m == ModelPhysical || m == ModelLegacy
}

// Pattern selects what the laser ablates in the physical model: insulating
// lines along hexagon edges, or whole hexagon islands with current flowing
// in the channels between them.
type Pattern string

const (
	PatternIslands Pattern = "islands"
	PatternLines   Pattern = "lines"
)

// IsValid checks if the pattern is supported.
func (p Pattern) IsValid() bool {
	return p == PatternIslands || p == PatternLines
}

// Params are the estimator model coefficients.
type Params struct {
	Model   Model
	Pattern Pattern
	// Alpha is the exponent on the conducting-fraction divisor.
	Alpha float64
	// TortuosityCoeff scales how much narrowing channels lengthen the
	// current path.
	TortuosityCoeff float64
	// MinConductFraction clamps the conducting area fraction away from
	// zero so the multiplier stays finite.
	MinConductFraction float64
	// LegacyCoeff is the perimeter coefficient of the legacy model.
	LegacyCoeff float64
	// Scale is an optional global calibration factor, 1.0 for none.
	Scale float64
}

// DefaultParams returns the calibrated production model: physical islands.
func DefaultParams() Params {
	return Params{
		Model:              ModelPhysical,
		Pattern:            PatternIslands,
		Alpha:              1.0,
		TortuosityCoeff:    1.5,
		MinConductFraction: 0.10,
		LegacyCoeff:        0.35,
		Scale:              1.0,
	}
}

// Validate rejects unusable parameter sets.
func (p Params) Validate() error {
	if !p.Model.IsValid() {
		return errors.New(errors.ErrCodeValidation, "unsupported estimator model: "+string(p.Model))
	}
	if !p.Pattern.IsValid() {
		return errors.New(errors.ErrCodeValidation, "unsupported estimator pattern: "+string(p.Pattern))
	}
	if p.MinConductFraction <= 0 || p.MinConductFraction >= 1 {
		return errors.New(errors.ErrCodeValidation, "min conduct fraction must be in (0, 1)")
	}
	if p.Scale <= 0 {
		return errors.New(errors.ErrCodeValidation, "multiplier scale must be positive")
	}
	return nil
}

// Estimator computes the approximate path-length multiplier for a honeycomb
// pattern. Stateless and safe for concurrent use.
type Estimator struct {
	params Params
}

// NewEstimator builds an estimator; zero-value params fall back to defaults.
func NewEstimator(params Params) *Estimator {
	if params == (Params{}) {
		params = DefaultParams()
	}
	return &Estimator{params: params}
}

// Multiplier estimates the ratio of patterned to raw resistance for island
// side a and channel gap, both in millimetres. Returns 0 for inputs outside
// the model's domain.
func (e *Estimator) Multiplier(spec panel.PanelSpec, a, gap float64) float64 {
	if a <= 0 || gap < 0 {
		return 0
	}
	var mult float64
	if e.params.Model == ModelLegacy {
		mult = e.legacy(spec, a, gap)
	} else if e.params.Pattern == PatternLines {
		mult = e.physicalLines(a, gap)
	} else {
		mult = e.physicalIslands(a, gap)
	}
	return mult * e.params.Scale
}

// physicalIslands: the coating between hexagonal islands forms the
// conducting channels. The effective cell side is s = a + gap/√3; the
// conducting area fraction is f = 1 − (a/s)², clamped at the configured
// floor; tortuosity grows as channels narrow, τ = 1 + c·(a/gap).
func (e *Estimator) physicalIslands(a, gap float64) float64 {
	s := a + gap/math.Sqrt(3)
	if s <= 0 {
		return 0
	}
	f := 1.0 - (a/s)*(a/s)
	if f < e.params.MinConductFraction {
		f = e.params.MinConductFraction
	}
	var tau float64
	if gap > 0 {
		tau = 1.0 + e.params.TortuosityCoeff*(a/gap)
	} else {
		// Closed channels: clamp hard instead of dividing by zero.
		tau = 1.0 + e.params.TortuosityCoeff*1e6
	}
	return tau / math.Pow(f, e.params.Alpha)
}

// physicalLines: the laser cuts insulating kerfs of width gap along the
// hexagon edges and current flows inside the cells. Edge length density of
// a hex tiling is 2/(√3·a), so the ablated fraction is that times the kerf
// width; tortuosity grows with gap/a.
func (e *Estimator) physicalLines(a, gap float64) float64 {
	ablated := 2.0 / (math.Sqrt(3) * a) * gap
	f := 1.0 - ablated
	if f < e.params.MinConductFraction {
		f = e.params.MinConductFraction
	}
	tau := 1.0 + e.params.TortuosityCoeff*(gap/a)
	return tau / math.Pow(f, e.params.Alpha)
}

// legacy: total hexagon perimeter per current-direction length, scaled by a
// fitted coefficient. Kept for comparing against historical calculations.
func (e *Estimator) legacy(spec panel.PanelSpec, a, gap float64) float64 {
	workingWidth := spec.WidthMm - 2*spec.EdgeMarginMm
	workingHeight := spec.HeightMm - 2*spec.EdgeMarginMm
	if workingWidth <= 0 || workingHeight <= 0 {
		return 0
	}
	stepX := 1.5*a + gap
	stepY := math.Sqrt(3)*a + gap
	if stepX <= 0 || stepY <= 0 {
		return 0
	}
	cellCount := (workingWidth / stepX) * (workingHeight / stepY)
	totalPerimeter := 6.0 * a * cellCount

	directionLength := spec.ElectrodeSeparationMm()
	if directionLength <= 0 {
		return 0
	}
	return e.params.LegacyCoeff * totalPerimeter / directionLength
}
