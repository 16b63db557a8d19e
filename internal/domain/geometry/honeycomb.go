package geometry

import (
	"math"

	"github.com/greenmobile/heatglass/internal/domain/panel"
)

// Sqrt3 is used throughout the hexagonal tiling math.
const Sqrt3 = 1.7320508075688772

// Hexagon is one flat-top honeycomb cell: center plus circumradius (the
// island side).
type Hexagon struct {
	CX   float64
	CY   float64
	Side float64
}

// Vertices returns the six corners counter-clockwise starting at the
// rightmost one.
func (h Hexagon) Vertices() []Point {
	pts := make([]Point, 6)
	for i := 0; i < 6; i++ {
		angle := math.Pi / 3 * float64(i)
		pts[i] = Point{
			X: h.CX + h.Side*math.Cos(angle),
			Y: h.CY + h.Side*math.Sin(angle),
		}
	}
	return pts
}

// BBox returns the cell's bounding box.
func (h Hexagon) BBox() Rect {
	halfH := Sqrt3 * h.Side / 2
	return Rect{MinX: h.CX - h.Side, MinY: h.CY - halfH, MaxX: h.CX + h.Side, MaxY: h.CY + halfH}
}

// Hexagons tiles the spec's pattern zone with flat-top hexagons: horizontal
// center step 1.5·side+gap, vertical step √3·side+gap, odd columns shifted
// down-up by half the vertical step. The tiling overscans by one ring of
// cells so that cells straddling the zone boundary are still produced; cells
// whose bounding box misses the zone entirely are skipped. A degenerate zone
// or a spec without a pattern yields nil.
func Hexagons(spec panel.PanelSpec) []Hexagon {
	if !spec.HasPattern() {
		return nil
	}
	clip := NewClassifier(spec).ClipRect()
	if clip.IsDegenerate() {
		return nil
	}

	a := spec.IslandSideMm
	gap := spec.GapMm
	hexH := Sqrt3 * a
	stepX := 1.5*a + gap
	stepY := hexH + gap
	startX := clip.MinX + a
	startY := clip.MinY + hexH/2

	var cells []Hexagon
	for col := -1; ; col++ {
		cx := startX + float64(col)*stepX
		if cx-a > clip.MaxX+stepX {
			break
		}
		cy0 := startY
		if col%2 != 0 {
			cy0 += stepY / 2
		}
		for row := -2; ; row++ {
			cy := cy0 + float64(row)*stepY
			if cy-hexH/2 > clip.MaxY+stepY {
				break
			}
			h := Hexagon{CX: cx, CY: cy, Side: a}
			if !h.BBox().Intersects(clip) {
				continue
			}
			cells = append(cells, h)
		}
	}
	return cells
}

// BuildAblationSegments produces the hexagon-boundary segments of the spec's
// honeycomb tiling, six per cell. The solver classifies grid nodes against
// these segments; the drawing exporters reuse the same tiling so that the
// exported pattern matches the analyzed one. An empty result means "uniform
// coating, no ablation" and is not an error.
func BuildAblationSegments(spec panel.PanelSpec) []AblationSegment {
	cells := Hexagons(spec)
	if len(cells) == 0 {
		return nil
	}
	segs := make([]AblationSegment, 0, len(cells)*6)
	for _, h := range cells {
		v := h.Vertices()
		for i := 0; i < 6; i++ {
			j := (i + 1) % 6
			segs = append(segs, AblationSegment{X1: v[i].X, Y1: v[i].Y, X2: v[j].X, Y2: v[j].Y})
		}
	}
	return segs
}
