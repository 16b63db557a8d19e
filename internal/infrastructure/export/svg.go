// Package export renders panel drawings for download: an SVG preview and
// a DXF cut file. Both generators take the tiling and the clip rectangle
// from the geometry package, so every exported contour matches the pattern
// the field solver analyzes.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/greenmobile/heatglass/internal/domain/geometry"
	"github.com/greenmobile/heatglass/internal/domain/panel"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/logging"
)

// svgPadding is the white border around the glass outline, drawing units.
const svgPadding = 50.0

// SVGGenerator renders a panel preview: glass outline, edge-margin zone,
// busbars and the clipped honeycomb grid.
type SVGGenerator struct {
	log logging.Logger
}

func NewSVGGenerator(log logging.Logger) *SVGGenerator {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &SVGGenerator{log: log.Named("svg")}
}

// Generate renders the drawing for spec. The honeycomb group is omitted
// when the spec carries no pattern; the glass, margin and busbars are
// always drawn.
func (g *SVGGenerator) Generate(spec panel.PanelSpec) ([]byte, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	w, h := spec.WidthMm, spec.HeightMm
	margin := spec.EdgeMarginMm
	cls := geometry.NewClassifier(spec)

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&b, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%smm\" height=\"%smm\" viewBox=\"%s %s %s %s\">\n",
		num(w+2*svgPadding), num(h+2*svgPadding),
		num(-svgPadding), num(-svgPadding), num(w+2*svgPadding), num(h+2*svgPadding))

	// Background and glass.
	fmt.Fprintf(&b, "  <rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" fill=\"#e9f3ff\" />\n",
		num(-svgPadding), num(-svgPadding), num(w+2*svgPadding), num(h+2*svgPadding))
	fmt.Fprintf(&b, "  <rect x=\"0\" y=\"0\" width=\"%s\" height=\"%s\" fill=\"#ffffff\" stroke=\"none\" />\n",
		num(w), num(h))
	fmt.Fprintf(&b, "  <rect x=\"0\" y=\"0\" width=\"%s\" height=\"%s\" fill=\"none\" stroke=\"#000000\" stroke-width=\"3\" />\n",
		num(w), num(h))

	// Edge-margin zone, dashed.
	if margin > 0 && w > 2*margin && h > 2*margin {
		fmt.Fprintf(&b, "  <rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" fill=\"none\" stroke=\"#ff0000\" stroke-width=\"2\" stroke-dasharray=\"10,6\" />\n",
			num(margin), num(margin), num(w-2*margin), num(h-2*margin))
	}

	for _, r := range []geometry.Rect{cls.HotRect(), cls.ColdRect()} {
		fmt.Fprintf(&b, "  <rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" fill=\"#c0c0c0\" stroke=\"#808080\" stroke-width=\"1\" />\n",
			num(r.MinX), num(r.MinY), num(r.Width()), num(r.Height()))
	}

	if spec.HasPattern() {
		drawn, clipped := g.writeHexagons(&b, spec, cls.ClipRect())
		g.log.Debug("honeycomb rendered",
			logging.Int("contours", drawn),
			logging.Int("clipped", clipped))
	}

	b.WriteString("</svg>")
	return []byte(b.String()), nil
}

func (g *SVGGenerator) writeHexagons(b *strings.Builder, spec panel.PanelSpec, clip geometry.Rect) (drawn, clipped int) {
	b.WriteString("  <g stroke=\"#c0d2e8\" stroke-width=\"1.2\" fill=\"none\" opacity=\"0.75\">\n")
	for _, hex := range geometry.Hexagons(spec) {
		poly := geometry.ClipPolygon(hex.Vertices(), clip)
		if len(poly) < 3 {
			continue
		}
		fmt.Fprintf(b, "    <path d=\"%s\" />\n", svgPath(poly))
		drawn++
		if len(poly) != 6 {
			clipped++
		}
	}
	b.WriteString("  </g>\n")
	return drawn, clipped
}

func svgPath(poly []geometry.Point) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M %s %s", num(poly[0].X), num(poly[0].Y))
	for _, p := range poly[1:] {
		fmt.Fprintf(&b, " L %s %s", num(p.X), num(p.Y))
	}
	b.WriteString(" Z")
	return b.String()
}

// num formats a coordinate without a trailing zero tail.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
