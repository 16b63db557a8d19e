package geometry

import (
	"github.com/greenmobile/heatglass/internal/domain/panel"
)

// BusbarKind tags which electrode, if any, a point belongs to.
type BusbarKind int

const (
	BusbarNone BusbarKind = iota
	// BusbarHot is the electrode held at the applied voltage: the left
	// busbar for left/right orientation, the bottom one for top/bottom.
	BusbarHot
	// BusbarCold is the grounded electrode.
	BusbarCold
)

// Classifier precomputes the panel's zone rectangles so that per-node
// membership tests during grid classification are plain comparisons. It is
// immutable after construction and safe for concurrent use.
type Classifier struct {
	spec panel.PanelSpec

	working   Rect // panel minus edge margin
	hot, cold Rect // busbar rectangles
	clearance [2]Rect
	clip      Rect // working minus busbars minus clearance: the pattern zone
}

// NewClassifier derives the zone rectangles for the given spec. The spec is
// assumed validated; a clip rectangle collapsed by wide busbars is allowed
// and simply reports as degenerate.
func NewClassifier(spec panel.PanelSpec) *Classifier {
	c := &Classifier{spec: spec}

	m := spec.EdgeMarginMm
	c.working = Rect{MinX: m, MinY: m, MaxX: spec.WidthMm - m, MaxY: spec.HeightMm - m}

	bw := spec.BusbarWidthMm
	cl := spec.BusbarClearanceMm
	w := c.working
	if spec.Orientation == panel.BusbarsTopBottom {
		c.hot = Rect{MinX: w.MinX, MinY: w.MinY, MaxX: w.MaxX, MaxY: w.MinY + bw}
		c.cold = Rect{MinX: w.MinX, MinY: w.MaxY - bw, MaxX: w.MaxX, MaxY: w.MaxY}
		c.clearance[0] = Rect{MinX: w.MinX, MinY: c.hot.MaxY, MaxX: w.MaxX, MaxY: c.hot.MaxY + cl}
		c.clearance[1] = Rect{MinX: w.MinX, MinY: c.cold.MinY - cl, MaxX: w.MaxX, MaxY: c.cold.MinY}
		c.clip = Rect{MinX: w.MinX, MinY: c.clearance[0].MaxY, MaxX: w.MaxX, MaxY: c.clearance[1].MinY}
	} else {
		c.hot = Rect{MinX: w.MinX, MinY: w.MinY, MaxX: w.MinX + bw, MaxY: w.MaxY}
		c.cold = Rect{MinX: w.MaxX - bw, MinY: w.MinY, MaxX: w.MaxX, MaxY: w.MaxY}
		c.clearance[0] = Rect{MinX: c.hot.MaxX, MinY: w.MinY, MaxX: c.hot.MaxX + cl, MaxY: w.MaxY}
		c.clearance[1] = Rect{MinX: c.cold.MinX - cl, MinY: w.MinY, MaxX: c.cold.MinX, MaxY: w.MaxY}
		c.clip = Rect{MinX: c.clearance[0].MaxX, MinY: w.MinY, MaxX: c.clearance[1].MinX, MaxY: w.MaxY}
	}
	return c
}

// ClipRect returns the pattern zone: the rectangle the honeycomb tiling
// must cover. May be degenerate when the busbars swallow the working region.
func (c *Classifier) ClipRect() Rect { return c.clip }

// WorkingRect returns the panel minus the edge-removed margin.
func (c *Classifier) WorkingRect() Rect { return c.working }

// HotRect returns the hot-busbar rectangle.
func (c *Classifier) HotRect() Rect { return c.hot }

// ColdRect returns the cold-busbar rectangle.
func (c *Classifier) ColdRect() Rect { return c.cold }

// InEdgeMargin reports whether (x, y) lies in the edge-removed strip where
// the coating is ablated away.
func (c *Classifier) InEdgeMargin(x, y float64) bool {
	return !c.working.Contains(x, y)
}

// BusbarAt reports which electrode, if any, contains (x, y).
func (c *Classifier) BusbarAt(x, y float64) BusbarKind {
	if c.hot.Contains(x, y) {
		return BusbarHot
	}
	if c.cold.Contains(x, y) {
		return BusbarCold
	}
	return BusbarNone
}

// InClearance reports whether (x, y) lies in a busbar clearance strip, where
// the ablation pattern is suppressed to keep the electrode connected to the
// coating.
func (c *Classifier) InClearance(x, y float64) bool {
	// Zero clearance leaves zero-height strips whose border a node can
	// still sit on; they must not suppress anything.
	for _, r := range c.clearance {
		if !r.IsDegenerate() && r.Contains(x, y) {
			return true
		}
	}
	return false
}
