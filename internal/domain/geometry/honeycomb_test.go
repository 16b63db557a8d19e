package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexagon_Vertices(t *testing.T) {
	h := Hexagon{CX: 0, CY: 0, Side: 10}
	v := h.Vertices()
	require.Len(t, v, 6)

	// Flat-top hexagon: rightmost vertex at (side, 0), width 2·side,
	// height √3·side.
	assert.InDelta(t, 10.0, v[0].X, 1e-9)
	assert.InDelta(t, 0.0, v[0].Y, 1e-9)

	bbox := h.BBox()
	assert.InDelta(t, 20.0, bbox.Width(), 1e-9)
	assert.InDelta(t, Sqrt3*10, bbox.Height(), 1e-9)

	// Every vertex sits on the circumcircle.
	for _, p := range v {
		assert.InDelta(t, 10.0, math.Hypot(p.X-h.CX, p.Y-h.CY), 1e-9)
	}
}

func TestHexagons_TilingLayout(t *testing.T) {
	spec := testSpec()
	cells := Hexagons(spec)
	require.NotEmpty(t, cells)

	clip := NewClassifier(spec).ClipRect()
	a := spec.IslandSideMm
	stepX := 1.5*a + spec.GapMm
	stepY := Sqrt3*a + spec.GapMm

	// The first cell anchors at (clip.MinX + a, clip.MinY + √3·a/2) unless
	// an overscan cell to the left survived the bbox test; either way some
	// cell must sit exactly on the anchor.
	anchorX := clip.MinX + a
	anchorY := clip.MinY + Sqrt3*a/2
	found := false
	for _, h := range cells {
		if math.Abs(h.CX-anchorX) < 1e-9 && math.Abs(h.CY-anchorY) < 1e-9 {
			found = true
			break
		}
	}
	assert.True(t, found, "anchor cell missing")

	// Centers live on the step lattice, odd columns shifted half a step.
	for _, h := range cells {
		colF := (h.CX - anchorX) / stepX
		col := math.Round(colF)
		assert.InDelta(t, col, colF, 1e-9)
		rowOff := 0.0
		if int(col)%2 != 0 {
			rowOff = 0.5
		}
		rowF := (h.CY-anchorY)/stepY - rowOff
		assert.InDelta(t, math.Round(rowF), rowF, 1e-9)

		// No cell lies entirely outside the pattern zone.
		assert.True(t, h.BBox().Intersects(clip))
	}
}

func TestHexagons_DegenerateAndPatternless(t *testing.T) {
	spec := testSpec()
	spec.IslandSideMm = 0
	assert.Nil(t, Hexagons(spec))
	assert.Nil(t, BuildAblationSegments(spec))

	spec = testSpec()
	spec.BusbarWidthMm = 490
	assert.Nil(t, Hexagons(spec))
	assert.Nil(t, BuildAblationSegments(spec))
}

func TestBuildAblationSegments_SixPerCell(t *testing.T) {
	spec := testSpec()
	cells := Hexagons(spec)
	segs := BuildAblationSegments(spec)
	require.Equal(t, len(cells)*6, len(segs))

	// Each segment has the hexagon side length.
	for _, s := range segs[:12] {
		assert.InDelta(t, spec.IslandSideMm, math.Hypot(s.X2-s.X1, s.Y2-s.Y1), 1e-9)
	}
}

func TestBuildAblationSegments_CoversClipRect(t *testing.T) {
	spec := testSpec()
	clip := NewClassifier(spec).ClipRect()

	var union Rect
	segs := BuildAblationSegments(spec)
	require.NotEmpty(t, segs)
	union = segs[0].BBox(0)
	for _, s := range segs[1:] {
		b := s.BBox(0)
		union.MinX = math.Min(union.MinX, b.MinX)
		union.MinY = math.Min(union.MinY, b.MinY)
		union.MaxX = math.Max(union.MaxX, b.MaxX)
		union.MaxY = math.Max(union.MaxY, b.MaxY)
	}

	// The tiling overscans: the segment cloud must cover the zone.
	assert.LessOrEqual(t, union.MinX, clip.MinX)
	assert.LessOrEqual(t, union.MinY, clip.MinY)
	assert.GreaterOrEqual(t, union.MaxX, clip.MaxX)
	assert.GreaterOrEqual(t, union.MaxY, clip.MaxY)
}
