package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenmobile/heatglass/internal/application/history"
)

// HistoryHandler serves the persisted calculation records.
type HistoryHandler struct {
	history *history.Service
}

func NewHistoryHandler(hist *history.Service) *HistoryHandler {
	return &HistoryHandler{history: hist}
}

type historyResponse struct {
	Records []history.Record `json:"records"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// List returns recent records, newest first.
// GET /api/v1/designs/history?limit=50&offset=0
func (h *HistoryHandler) List(c *gin.Context) {
	if h.history == nil || !h.history.Enabled() {
		c.JSON(http.StatusOK, historyResponse{Records: []history.Record{}})
		return
	}

	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	records, err := h.history.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	c.JSON(http.StatusOK, historyResponse{Records: records, Limit: limit, Offset: offset})
}
