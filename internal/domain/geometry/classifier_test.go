package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmobile/heatglass/internal/domain/panel"
)

func testSpec() panel.PanelSpec {
	return panel.PanelSpec{
		WidthMm:           1000,
		HeightMm:          500,
		SheetResistance:   20,
		EdgeMarginMm:      10,
		BusbarWidthMm:     15,
		Orientation:       panel.BusbarsLeftRight,
		BusbarClearanceMm: 5,
		IslandSideMm:      20,
		GapMm:             2,
	}
}

func TestClassifier_ZonesLeftRight(t *testing.T) {
	c := NewClassifier(testSpec())

	clip := c.ClipRect()
	require.False(t, clip.IsDegenerate())
	// margin 10 + busbar 15 + clearance 5 per side on the x axis.
	assert.InDelta(t, 30.0, clip.MinX, 1e-12)
	assert.InDelta(t, 970.0, clip.MaxX, 1e-12)
	assert.InDelta(t, 10.0, clip.MinY, 1e-12)
	assert.InDelta(t, 490.0, clip.MaxY, 1e-12)

	// Edge margin surrounds everything.
	assert.True(t, c.InEdgeMargin(5, 250))
	assert.True(t, c.InEdgeMargin(500, 495))
	assert.False(t, c.InEdgeMargin(500, 250))

	// Hot busbar on the left, cold on the right.
	assert.Equal(t, BusbarHot, c.BusbarAt(15, 250))
	assert.Equal(t, BusbarCold, c.BusbarAt(985, 250))
	assert.Equal(t, BusbarNone, c.BusbarAt(500, 250))

	// Clearance strips hug the busbar inner edges.
	assert.True(t, c.InClearance(27, 250))
	assert.True(t, c.InClearance(973, 250))
	assert.False(t, c.InClearance(500, 250))
}

func TestClassifier_ZonesTopBottom(t *testing.T) {
	spec := testSpec()
	spec.Orientation = panel.BusbarsTopBottom
	c := NewClassifier(spec)

	clip := c.ClipRect()
	require.False(t, clip.IsDegenerate())
	assert.InDelta(t, 10.0, clip.MinX, 1e-12)
	assert.InDelta(t, 990.0, clip.MaxX, 1e-12)
	assert.InDelta(t, 30.0, clip.MinY, 1e-12)
	assert.InDelta(t, 470.0, clip.MaxY, 1e-12)

	assert.Equal(t, BusbarHot, c.BusbarAt(500, 15))
	assert.Equal(t, BusbarCold, c.BusbarAt(500, 485))
}

func TestClassifier_ZeroClearanceSuppressesNothing(t *testing.T) {
	spec := testSpec()
	spec.BusbarClearanceMm = 0
	c := NewClassifier(spec)

	// The busbar inner edge sits on the border of the zero-height
	// clearance strip; it must not read as clearance.
	assert.False(t, c.InClearance(25, 250))
	assert.False(t, c.InClearance(975, 250))
	assert.False(t, c.InClearance(500, 250))

	// The clip rect starts right at the busbar edge.
	assert.InDelta(t, 25.0, c.ClipRect().MinX, 1e-12)
	assert.InDelta(t, 975.0, c.ClipRect().MaxX, 1e-12)
}

func TestClassifier_DegenerateClip(t *testing.T) {
	spec := testSpec()
	spec.BusbarWidthMm = 490 // busbars swallow the whole working width
	c := NewClassifier(spec)
	assert.True(t, c.ClipRect().IsDegenerate())
}

func TestRect_Intersects(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	assert.True(t, a.Intersects(Rect{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15}))
	assert.True(t, a.Intersects(Rect{MinX: 10, MinY: 0, MaxX: 20, MaxY: 10})) // touching
	assert.False(t, a.Intersects(Rect{MinX: 11, MinY: 0, MaxX: 20, MaxY: 10}))
}
