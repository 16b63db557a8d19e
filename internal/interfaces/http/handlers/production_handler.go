package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenmobile/heatglass/internal/application/history"
	"github.com/greenmobile/heatglass/internal/application/search"
	"github.com/greenmobile/heatglass/internal/domain/panel"
)

// AutoRequest is the body for the two-phase candidate search.
type AutoRequest struct {
	Spec           panel.PanelSpec `json:"spec"`
	TargetPowerWm2 float64         `json:"target_power_w_m2"`
}

type autoResponse struct {
	Candidates []panel.CandidateDesign `json:"candidates"`
}

// ProductionHandler serves the search endpoints: auto candidate search,
// maximum achievable power and the textual recommendation.
type ProductionHandler struct {
	search  *search.Service
	history *history.Service
}

func NewProductionHandler(svc *search.Service, hist *history.Service) *ProductionHandler {
	return &ProductionHandler{search: svc, history: hist}
}

// Auto runs the estimator sweep plus solver verification and returns the
// ranked candidates.
// POST /api/v1/production/auto
func (h *ProductionHandler) Auto(c *gin.Context) {
	var req AutoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := req.Spec.Validate(); err != nil {
		respondError(c, err)
		return
	}

	candidates, err := h.search.FindTopDesigns(c.Request.Context(), req.Spec, req.TargetPowerWm2)
	if err != nil {
		respondError(c, err)
		return
	}
	h.recordBest(c, req, candidates)
	c.JSON(http.StatusOK, autoResponse{Candidates: candidates})
}

// Max reports the strongest multiplier reachable inside the extended
// range. The spec arrives in the body because it is too rich for query
// parameters.
// POST /api/v1/production/max
func (h *ProductionHandler) Max(c *gin.Context) {
	var req AutoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := req.Spec.Validate(); err != nil {
		respondError(c, err)
		return
	}

	max, err := h.search.EstimateMaxAchievable(c.Request.Context(), req.Spec)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, max)
}

// Recommend explains whether the target is reachable and how to get
// there.
// POST /api/v1/production/recommend
func (h *ProductionHandler) Recommend(c *gin.Context) {
	var req AutoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := req.Spec.Validate(); err != nil {
		respondError(c, err)
		return
	}

	rec, err := h.search.Recommend(c.Request.Context(), req.Spec, req.TargetPowerWm2)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *ProductionHandler) recordBest(c *gin.Context, req AutoRequest, candidates []panel.CandidateDesign) {
	if h.history == nil || len(candidates) == 0 {
		return
	}
	best := candidates[0]
	h.history.Record(c.Request.Context(), history.Record{
		Kind:             history.KindAuto,
		Spec:             req.Spec.WithPattern(best.IslandSideMm, best.GapMm),
		TargetPowerWm2:   req.TargetPowerWm2,
		AchievedPowerWm2: best.PowerDensity,
		ResistanceOhm:    best.ResistanceOhm,
		Multiplier:       best.Multiplier,
		DeviationPercent: best.DeviationPercent,
		Converged:        best.Verified,
	})
}
