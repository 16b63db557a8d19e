// Package geometry turns a honeycomb pattern description into the spatial
// primitives the field solver consumes: the clipped working rectangle, the
// hexagon-boundary ablation segments, membership predicates for busbars and
// margins, and a bucket-hashed index for fast near-segment queries.
package geometry

import "math"

// Point is a 2-D point in panel coordinates (millimetres, origin at the
// bottom-left panel corner).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// IsDegenerate reports whether the rectangle has non-positive extent on
// either axis.
func (r Rect) IsDegenerate() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Contains reports whether (x, y) lies inside the rectangle, borders
// included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Intersects reports whether the two rectangles overlap or touch.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX <= o.MaxX && r.MaxX >= o.MinX && r.MinY <= o.MaxY && r.MaxY >= o.MinY
}

// AblationSegment is one undirected edge of a hexagon boundary. Segments are
// produced by the tiling for a single solve and consumed read-only by the
// solver and the index.
type AblationSegment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// BBox returns the segment's bounding box expanded by pad on every side.
func (s AblationSegment) BBox(pad float64) Rect {
	return Rect{
		MinX: math.Min(s.X1, s.X2) - pad,
		MinY: math.Min(s.Y1, s.Y2) - pad,
		MaxX: math.Max(s.X1, s.X2) + pad,
		MaxY: math.Max(s.Y1, s.Y2) + pad,
	}
}

// DistSqToPoint returns the squared distance from (px, py) to the segment.
func (s AblationSegment) DistSqToPoint(px, py float64) float64 {
	dx := s.X2 - s.X1
	dy := s.Y2 - s.Y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		ex := px - s.X1
		ey := py - s.Y1
		return ex*ex + ey*ey
	}
	t := ((px-s.X1)*dx + (py-s.Y1)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx := s.X1 + t*dx
	cy := s.Y1 + t*dy
	ex := px - cx
	ey := py - cy
	return ex*ex + ey*ey
}
