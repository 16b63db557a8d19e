// Package panel defines the immutable input and output value types shared by
// the geometry, field-solver, and search layers: the panel description, the
// solve outcome, and the candidate designs produced by the search.
package panel

import (
	"github.com/greenmobile/heatglass/pkg/errors"
)

// Orientation identifies which pair of panel edges carries the busbars.
type Orientation string

const (
	// BusbarsLeftRight places the electrodes on the left and right edges;
	// current flows along the width axis.
	BusbarsLeftRight Orientation = "left_right"
	// BusbarsTopBottom places the electrodes on the top and bottom edges;
	// current flows along the height axis.
	BusbarsTopBottom Orientation = "top_bottom"
)

// IsValid checks if the orientation is one of the supported placements.
func (o Orientation) IsValid() bool {
	switch o {
	case BusbarsLeftRight, BusbarsTopBottom:
		return true
	default:
		return false
	}
}

// String returns the string representation of the orientation.
func (o Orientation) String() string {
	return string(o)
}

// ParseOrientation parses a string into an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	o := Orientation(s)
	if o.IsValid() {
		return o, nil
	}
	return "", errors.New(errors.ErrCodeValidation, "unsupported busbar orientation: "+s)
}

// PanelSpec describes one heated-glass panel and its ablation pattern. All
// lengths are millimetres, sheet resistance is Ω per square. A PanelSpec is
// immutable for the duration of a solve.
type PanelSpec struct {
	WidthMm         float64     `json:"width_mm"`
	HeightMm        float64     `json:"height_mm"`
	SheetResistance float64     `json:"sheet_resistance"`
	EdgeMarginMm    float64     `json:"edge_margin_mm"`
	BusbarWidthMm   float64     `json:"busbar_width_mm"`
	Orientation     Orientation `json:"orientation"`
	// BusbarClearanceMm is the pattern-free strip between each busbar and
	// the first row of islands; ablation is suppressed there so the busbar
	// is never isolated from the coating.
	BusbarClearanceMm float64 `json:"busbar_clearance_mm"`
	IslandSideMm      float64 `json:"island_side_mm"`
	GapMm             float64 `json:"gap_mm"`
	// MeshStepMm overrides the solver mesh step when positive; zero means
	// "use the configured default".
	MeshStepMm float64 `json:"mesh_step_mm,omitempty"`
}

// Validate checks the structural invariants of the spec. A degenerate pattern
// region (clip rectangle collapsed by busbars and clearance) is not an error
// here; the solver treats it as uniform coating.
func (s *PanelSpec) Validate() error {
	if s.WidthMm <= 0 || s.HeightMm <= 0 {
		return errors.Newf(errors.ErrCodeSolverInput,
			"panel dimensions must be positive, got %gx%g mm", s.WidthMm, s.HeightMm)
	}
	if s.SheetResistance <= 0 {
		return errors.Newf(errors.ErrCodeSolverInput,
			"sheet resistance must be positive, got %g", s.SheetResistance)
	}
	if s.EdgeMarginMm < 0 || s.BusbarWidthMm < 0 || s.BusbarClearanceMm < 0 {
		return errors.New(errors.ErrCodeSolverInput,
			"edge margin, busbar width and clearance must be non-negative")
	}
	if !s.Orientation.IsValid() {
		return errors.New(errors.ErrCodeSolverInput,
			"unsupported busbar orientation: "+s.Orientation.String())
	}
	if s.WidthMm-2*s.EdgeMarginMm <= 0 || s.HeightMm-2*s.EdgeMarginMm <= 0 {
		return errors.Newf(errors.ErrCodeSolverInput,
			"edge margin %g mm leaves no working region on a %gx%g mm panel",
			s.EdgeMarginMm, s.WidthMm, s.HeightMm)
	}
	if s.IslandSideMm < 0 || s.GapMm < 0 {
		return errors.New(errors.ErrCodeSolverInput,
			"island side and gap must be non-negative")
	}
	if s.MeshStepMm < 0 {
		return errors.Newf(errors.ErrCodeSolverInput,
			"mesh step must be non-negative, got %g", s.MeshStepMm)
	}
	return nil
}

// HasPattern reports whether the spec describes an actual ablation pattern;
// a zero island side or gap means plain uniform coating.
func (s *PanelSpec) HasPattern() bool {
	return s.IslandSideMm > 0 && s.GapMm > 0
}

// ElectrodeSeparationMm is the distance between the two busbars, i.e. the
// length of the current path across an unpatterned coating.
func (s *PanelSpec) ElectrodeSeparationMm() float64 {
	if s.Orientation == BusbarsTopBottom {
		return s.HeightMm
	}
	return s.WidthMm
}

// ElectrodeLengthMm is the length of each busbar, i.e. the width of the
// current path across an unpatterned coating.
func (s *PanelSpec) ElectrodeLengthMm() float64 {
	if s.Orientation == BusbarsTopBottom {
		return s.WidthMm
	}
	return s.HeightMm
}

// WithPattern returns a copy of the spec with the island side and gap
// replaced. Used by the candidate search to stamp out (a, gap) variants.
func (s PanelSpec) WithPattern(islandSideMm, gapMm float64) PanelSpec {
	s.IslandSideMm = islandSideMm
	s.GapMm = gapMm
	return s
}
