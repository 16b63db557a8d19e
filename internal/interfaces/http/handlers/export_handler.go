package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenmobile/heatglass/internal/domain/panel"
	"github.com/greenmobile/heatglass/internal/infrastructure/export"
)

// ExportRequest carries the spec to render.
type ExportRequest struct {
	Spec panel.PanelSpec `json:"spec"`
}

// ExportHandler serves the SVG and DXF drawing endpoints.
type ExportHandler struct {
	svg *export.SVGGenerator
	dxf *export.DXFGenerator
}

func NewExportHandler(svg *export.SVGGenerator, dxf *export.DXFGenerator) *ExportHandler {
	return &ExportHandler{svg: svg, dxf: dxf}
}

// SVG renders the panel drawing as image/svg+xml.
// POST /api/v1/export/svg
func (h *ExportHandler) SVG(c *gin.Context) {
	h.render(c, "image/svg+xml", "panel.svg", h.svg.Generate)
}

// DXF renders the panel drawing as a CAD exchange file.
// POST /api/v1/export/dxf
func (h *ExportHandler) DXF(c *gin.Context) {
	h.render(c, "application/dxf", "panel.dxf", h.dxf.Generate)
}

func (h *ExportHandler) render(c *gin.Context, contentType, filename string, gen func(panel.PanelSpec) ([]byte, error)) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	data, err := gen(req.Spec)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
