package panel

// SolveStatus tags the outcome of a field solve.
type SolveStatus string

const (
	SolveOk      SolveStatus = "ok"
	SolveInvalid SolveStatus = "invalid"
)

// SolveResult is the immutable outcome of one field solve. An Invalid result
// carries a human-readable Reason and zeroed numeric fields; it is a normal
// value, not an error, and callers must branch on Status.
type SolveResult struct {
	Status SolveStatus `json:"status"`
	Reason string      `json:"reason,omitempty"`

	ResistanceOhm float64 `json:"resistance_ohm"`
	CurrentA      float64 `json:"current_a"`
	MeshStepMm    float64 `json:"mesh_step_mm"`
	GridNX        int     `json:"grid_nx"`
	GridNY        int     `json:"grid_ny"`
	SegmentCount  int     `json:"segment_count"`

	// Converged is false when the conjugate-gradient iteration hit its cap
	// before reaching tolerance; the resistance is then a best-effort
	// iterate, usable but lower confidence.
	Converged  bool `json:"converged"`
	Iterations int  `json:"iterations"`
}

// IsOk reports whether the solve produced a usable resistance.
func (r *SolveResult) IsOk() bool {
	return r.Status == SolveOk
}

// InvalidResult builds an Invalid SolveResult with the given reason.
func InvalidResult(reason string) *SolveResult {
	return &SolveResult{Status: SolveInvalid, Reason: reason}
}

// CandidateDesign is one (island side, gap) point evaluated by the search.
// After phase 2 the multiplier, resistance, power and deviation hold
// solver-derived values; before that they come from the analytic estimator.
type CandidateDesign struct {
	IslandSideMm  float64 `json:"island_side_mm"`
	GapMm         float64 `json:"gap_mm"`
	Multiplier    float64 `json:"multiplier"`
	ResistanceOhm float64 `json:"resistance_ohm"`
	// PowerDensity is the specific power dissipated at mains voltage, W/m².
	PowerDensity     float64 `json:"power_density_w_m2"`
	DeviationPercent float64 `json:"deviation_percent"`
	// Achievable is false for closest-found candidates returned after the
	// search exhausted the extended range without meeting tolerance.
	Achievable bool `json:"achievable"`
	// Verified is true once the solver, not the estimator, produced the
	// numbers above.
	Verified bool `json:"verified"`
}

// CellDensity is the number of hexagon cells per unit area, used as the
// finer-pattern-preferred tiebreaker in candidate ranking.
func (c *CandidateDesign) CellDensity() float64 {
	stepX := 1.5*c.IslandSideMm + c.GapMm
	stepY := sqrt3*c.IslandSideMm + c.GapMm
	if stepX <= 0 || stepY <= 0 {
		return 0
	}
	return 1.0 / (stepX * stepY)
}

// AblationIntensity is gap/side, the smaller-preferred ranking tiebreaker:
// less ablated material per island is easier to manufacture.
func (c *CandidateDesign) AblationIntensity() float64 {
	if c.IslandSideMm <= 0 {
		return 0
	}
	return c.GapMm / c.IslandSideMm
}

const sqrt3 = 1.7320508075688772
