package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenmobile/heatglass/internal/application/design"
	"github.com/greenmobile/heatglass/internal/application/history"
	"github.com/greenmobile/heatglass/internal/domain/panel"
)

// CalcRequest is the shared body for the manual and exact endpoints.
type CalcRequest struct {
	Spec           panel.PanelSpec `json:"spec"`
	TargetPowerWm2 float64         `json:"target_power_w_m2"`
	// MeshStepMm overrides the solver mesh on the exact endpoint; zero
	// uses the configured default.
	MeshStepMm float64 `json:"mesh_step_mm,omitempty"`
}

// EnergyRequest is the body for the energy estimate endpoint.
type EnergyRequest struct {
	Spec  panel.PanelSpec    `json:"spec"`
	Input design.EnergyInput `json:"input"`
}

// CalcHandler serves the manual, exact and energy calculation endpoints.
type CalcHandler struct {
	facade  *design.Facade
	history *history.Service
}

func NewCalcHandler(facade *design.Facade, hist *history.Service) *CalcHandler {
	return &CalcHandler{facade: facade, history: hist}
}

// Manual evaluates the pattern with the analytic estimator.
// POST /api/v1/calc/manual
func (h *CalcHandler) Manual(c *gin.Context) {
	var req CalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := req.Spec.Validate(); err != nil {
		respondError(c, err)
		return
	}

	res := h.facade.CalculateManual(req.Spec, req.TargetPowerWm2)
	h.record(c, history.KindManual, req, res)
	c.JSON(http.StatusOK, res)
}

// solveResponse pairs the electrical outcome with the raw solve detail.
type solveResponse struct {
	Result *design.CalcResult `json:"result"`
	Solve  *panel.SolveResult `json:"solve"`
}

// Solve evaluates the pattern with the field solver. An Invalid solve is
// a 200 with a nil result and the tagged solve outcome: the caller must
// branch on it, not on the HTTP status.
// POST /api/v1/calc/solve
func (h *CalcHandler) Solve(c *gin.Context) {
	var req CalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := req.Spec.Validate(); err != nil {
		respondError(c, err)
		return
	}

	res, solve := h.facade.CalculateExact(c.Request.Context(), req.Spec, req.TargetPowerWm2, req.MeshStepMm)
	if res != nil {
		h.record(c, history.KindExact, req, res)
	}
	c.JSON(http.StatusOK, solveResponse{Result: res, Solve: solve})
}

// Energy estimates warm-up and holding energy.
// POST /api/v1/calc/energy
func (h *CalcHandler) Energy(c *gin.Context) {
	var req EnergyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := req.Spec.Validate(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.facade.Energy(req.Spec, req.Input))
}

func (h *CalcHandler) record(c *gin.Context, kind history.Kind, req CalcRequest, res *design.CalcResult) {
	if h.history == nil {
		return
	}
	h.history.Record(c.Request.Context(), history.Record{
		Kind:             kind,
		Spec:             req.Spec,
		TargetPowerWm2:   req.TargetPowerWm2,
		AchievedPowerWm2: res.AchievedPowerWm2,
		ResistanceOhm:    res.AchievedResistanceOhm,
		Multiplier:       res.Multiplier,
		DeviationPercent: res.DeviationPercent,
		Converged:        res.Converged,
	})
}
