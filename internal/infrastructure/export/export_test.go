package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmobile/heatglass/internal/domain/geometry"
	"github.com/greenmobile/heatglass/internal/domain/panel"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/logging"
)

func exportSpec() panel.PanelSpec {
	return panel.PanelSpec{
		WidthMm:           400,
		HeightMm:          300,
		SheetResistance:   20,
		EdgeMarginMm:      10,
		BusbarWidthMm:     12,
		Orientation:       panel.BusbarsLeftRight,
		BusbarClearanceMm: 4,
		IslandSideMm:      20,
		GapMm:             2,
	}
}

// surviving counts the contours the generators must draw: hexagons whose
// clipped polygon keeps at least three vertices.
func surviving(spec panel.PanelSpec) int {
	clip := geometry.NewClassifier(spec).ClipRect()
	n := 0
	for _, hex := range geometry.Hexagons(spec) {
		if len(geometry.ClipPolygon(hex.Vertices(), clip)) >= 3 {
			n++
		}
	}
	return n
}

func TestSVGGenerator_Honeycomb(t *testing.T) {
	spec := exportSpec()
	out, err := NewSVGGenerator(logging.NewNopLogger()).Generate(spec)
	require.NoError(t, err)

	svg := string(out)
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Contains(t, svg, "stroke-dasharray") // margin zone
	assert.Equal(t, 2, strings.Count(svg, "#c0c0c0"), "two busbars")

	want := surviving(spec)
	require.Positive(t, want)
	assert.Equal(t, want, strings.Count(svg, "<path "))
}

func TestSVGGenerator_NoPattern(t *testing.T) {
	spec := exportSpec()
	spec.IslandSideMm = 0
	spec.GapMm = 0

	out, err := NewSVGGenerator(nil).Generate(spec)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<path ")
}

func TestSVGGenerator_InvalidSpec(t *testing.T) {
	spec := exportSpec()
	spec.WidthMm = -1
	_, err := NewSVGGenerator(nil).Generate(spec)
	assert.Error(t, err)
}

func TestDXFGenerator_Honeycomb(t *testing.T) {
	spec := exportSpec()
	out, err := NewDXFGenerator(logging.NewNopLogger()).Generate(spec)
	require.NoError(t, err)

	dxf := string(out)
	assert.True(t, strings.HasPrefix(dxf, "0\nSECTION"))
	assert.True(t, strings.HasSuffix(dxf, "EOF\n"))
	assert.Contains(t, dxf, layerGlass)
	assert.Contains(t, dxf, layerSafeZone)
	assert.Contains(t, dxf, layerBusbar)

	want := surviving(spec)
	require.Positive(t, want)
	assert.Equal(t, want, strings.Count(dxf, "LWPOLYLINE"))
}

func TestDXFGenerator_InvalidSpec(t *testing.T) {
	spec := exportSpec()
	spec.SheetResistance = 0
	_, err := NewDXFGenerator(nil).Generate(spec)
	assert.Error(t, err)
}

// Both formats must draw the identical contour set: they share the tiling
// and the clip rectangle.
func TestGenerators_SameContourCount(t *testing.T) {
	spec := exportSpec()
	svg, err := NewSVGGenerator(nil).Generate(spec)
	require.NoError(t, err)
	dxf, err := NewDXFGenerator(nil).Generate(spec)
	require.NoError(t, err)

	assert.Equal(t,
		strings.Count(string(svg), "<path "),
		strings.Count(string(dxf), "LWPOLYLINE"))
}
