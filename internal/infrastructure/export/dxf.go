package export

import (
	"fmt"
	"strings"

	"github.com/greenmobile/heatglass/internal/domain/geometry"
	"github.com/greenmobile/heatglass/internal/domain/panel"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/logging"
)

// DXF layer names understood by the cutting workflow.
const (
	layerGlass    = "GLASS"
	layerSafeZone = "SAFE_ZONE"
	layerBusbar   = "BUSBAR"
	layerAblation = "ABLATION"
)

// DXFGenerator writes a minimal ASCII DXF: the glass and margin outlines
// as LINE entities, every honeycomb contour as a closed LWPOLYLINE on the
// ABLATION layer.
type DXFGenerator struct {
	log logging.Logger
}

func NewDXFGenerator(log logging.Logger) *DXFGenerator {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &DXFGenerator{log: log.Named("dxf")}
}

// Generate writes the cut file for spec.
func (g *DXFGenerator) Generate(spec panel.PanelSpec) ([]byte, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	w, h := spec.WidthMm, spec.HeightMm
	margin := spec.EdgeMarginMm
	cls := geometry.NewClassifier(spec)

	var b strings.Builder
	writeDXFHeader(&b)

	writeDXFRect(&b, 0, 0, w, h, layerGlass)
	if margin > 0 && w > 2*margin && h > 2*margin {
		writeDXFRect(&b, margin, margin, w-2*margin, h-2*margin, layerSafeZone)
	}
	for _, r := range []geometry.Rect{cls.HotRect(), cls.ColdRect()} {
		writeDXFRect(&b, r.MinX, r.MinY, r.Width(), r.Height(), layerBusbar)
	}

	if spec.HasPattern() {
		clip := cls.ClipRect()
		drawn := 0
		for _, hex := range geometry.Hexagons(spec) {
			poly := geometry.ClipPolygon(hex.Vertices(), clip)
			if len(poly) < 3 {
				continue
			}
			writeDXFPolyline(&b, poly, layerAblation)
			drawn++
		}
		g.log.Debug("honeycomb written", logging.Int("contours", drawn))
	}

	writeDXFFooter(&b)
	return []byte(b.String()), nil
}

func writeDXFHeader(b *strings.Builder) {
	writeGroups(b, "0", "SECTION", "2", "HEADER", "0", "ENDSEC",
		"0", "SECTION", "2", "ENTITIES")
}

func writeDXFFooter(b *strings.Builder) {
	writeGroups(b, "0", "ENDSEC", "0", "EOF")
}

func writeDXFLine(b *strings.Builder, x1, y1, x2, y2 float64, layer string) {
	writeGroups(b, "0", "LINE", "8", layer,
		"10", num(x1), "20", num(y1),
		"11", num(x2), "21", num(y2))
}

func writeDXFRect(b *strings.Builder, x, y, w, h float64, layer string) {
	writeDXFLine(b, x, y, x+w, y, layer)
	writeDXFLine(b, x+w, y, x+w, y+h, layer)
	writeDXFLine(b, x+w, y+h, x, y+h, layer)
	writeDXFLine(b, x, y+h, x, y, layer)
}

// writeDXFPolyline writes a closed LWPOLYLINE (group 70 flag 1), the
// correct entity for closed cut contours.
func writeDXFPolyline(b *strings.Builder, pts []geometry.Point, layer string) {
	writeGroups(b, "0", "LWPOLYLINE", "8", layer,
		"90", fmt.Sprintf("%d", len(pts)), "70", "1")
	for _, p := range pts {
		writeGroups(b, "10", num(p.X), "20", num(p.Y))
	}
}

func writeGroups(b *strings.Builder, groups ...string) {
	for _, g := range groups {
		b.WriteString(g)
		b.WriteByte('\n')
	}
}
