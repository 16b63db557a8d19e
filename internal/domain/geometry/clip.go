package geometry

// clipEdge is one axis-aligned half-plane of the clip rectangle. The clip
// rectangle is always axis-aligned, so four fixed edge variants cover all
// cases.
type clipEdge struct {
	limit   float64
	axisX   bool // test x when true, y otherwise
	keepGte bool // keep points at or beyond limit when true
}

func (e clipEdge) inside(p Point) bool {
	v := p.Y
	if e.axisX {
		v = p.X
	}
	if e.keepGte {
		return v >= e.limit
	}
	return v <= e.limit
}

// intersect returns the point where segment a-b crosses the edge line. A
// segment parallel to the edge is snapped onto it.
func (e clipEdge) intersect(a, b Point) Point {
	if e.axisX {
		dx := b.X - a.X
		if dx < 1e-12 && dx > -1e-12 {
			return Point{X: e.limit, Y: a.Y}
		}
		t := (e.limit - a.X) / dx
		return Point{X: e.limit, Y: a.Y + t*(b.Y-a.Y)}
	}
	dy := b.Y - a.Y
	if dy < 1e-12 && dy > -1e-12 {
		return Point{X: a.X, Y: e.limit}
	}
	t := (e.limit - a.Y) / dy
	return Point{X: a.X + t*(b.X-a.X), Y: e.limit}
}

// ClipPolygon clips a convex or concave polygon against an axis-aligned
// rectangle (Sutherland-Hodgman). The result is empty when fewer than
// three vertices survive; a result with more than the input vertex count
// means the polygon was cut by at least one edge.
func ClipPolygon(poly []Point, r Rect) []Point {
	if len(poly) < 3 || r.IsDegenerate() {
		return nil
	}

	edges := [4]clipEdge{
		{limit: r.MinX, axisX: true, keepGte: true},
		{limit: r.MaxX, axisX: true, keepGte: false},
		{limit: r.MinY, axisX: false, keepGte: true},
		{limit: r.MaxY, axisX: false, keepGte: false},
	}

	out := poly
	for _, e := range edges {
		out = clipAgainst(out, e)
		if len(out) < 3 {
			return nil
		}
	}
	return out
}

func clipAgainst(in []Point, e clipEdge) []Point {
	out := make([]Point, 0, len(in)+2)
	prev := in[len(in)-1]
	prevInside := e.inside(prev)
	for _, curr := range in {
		currInside := e.inside(curr)
		if currInside {
			if !prevInside {
				out = append(out, e.intersect(prev, curr))
			}
			out = append(out, curr)
		} else if prevInside {
			out = append(out, e.intersect(prev, curr))
		}
		prev = curr
		prevInside = currInside
	}
	return out
}
