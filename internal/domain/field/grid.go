package field

import (
	"math"

	"github.com/greenmobile/heatglass/internal/domain/geometry"
	"github.com/greenmobile/heatglass/internal/domain/panel"
)

// conductivityGrid holds the per-node scalar conductivity factors and the
// Dirichlet boundary data for one solve. It is created fresh per solve and
// discarded after current extraction.
type conductivityGrid struct {
	nx, ny int
	dx     float64

	sigma     []float64 // conductivity factor in [sigmaAblation, 1.0]
	dirichlet []bool
	potential []float64 // fixed potential, meaningful only where dirichlet
	hot       []bool    // dirichlet node held at the applied voltage
}

func (g *conductivityGrid) at(i, j int) int { return j*g.nx + i }

// buildGrid discretizes the panel with spacing dx on both axes and
// classifies every node against the panel zones: edge margin and ablation
// boundaries get the sigma floor, busbars become Dirichlet nodes at the
// applied voltage or ground, clearance strips and intact channels keep full
// coating conductivity.
func buildGrid(spec panel.PanelSpec, cls *geometry.Classifier, idx *geometry.SegmentIndex,
	dx, voltage, sigmaAblation float64) *conductivityGrid {

	nx := int(math.Ceil(spec.WidthMm/dx)) + 1
	ny := int(math.Ceil(spec.HeightMm/dx)) + 1

	g := &conductivityGrid{
		nx:        nx,
		ny:        ny,
		dx:        dx,
		sigma:     make([]float64, nx*ny),
		dirichlet: make([]bool, nx*ny),
		potential: make([]float64, nx*ny),
		hot:       make([]bool, nx*ny),
	}

	for j := 0; j < ny; j++ {
		y := float64(j) * dx
		for i := 0; i < nx; i++ {
			x := float64(i) * dx
			n := g.at(i, j)

			if cls.InEdgeMargin(x, y) {
				g.sigma[n] = sigmaAblation
				continue
			}
			switch cls.BusbarAt(x, y) {
			case geometry.BusbarHot:
				g.sigma[n] = 1.0
				g.dirichlet[n] = true
				g.potential[n] = voltage
				g.hot[n] = true
				continue
			case geometry.BusbarCold:
				g.sigma[n] = 1.0
				g.dirichlet[n] = true
				continue
			}
			if cls.InClearance(x, y) {
				g.sigma[n] = 1.0
				continue
			}
			if idx != nil && idx.IsNearAny(x, y) {
				g.sigma[n] = sigmaAblation
				continue
			}
			g.sigma[n] = 1.0
		}
	}
	return g
}
