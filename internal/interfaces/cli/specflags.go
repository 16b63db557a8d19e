package cli

import (
	"github.com/spf13/cobra"

	"github.com/greenmobile/heatglass/internal/domain/panel"
)

// specFlags collects the panel geometry flags shared by every command.
type specFlags struct {
	widthMm         float64
	heightMm        float64
	sheetResistance float64
	edgeMarginMm    float64
	busbarWidthMm   float64
	orientation     string
	clearanceMm     float64
	islandSideMm    float64
	gapMm           float64
}

func (f *specFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64Var(&f.widthMm, "width", 0, "panel width, mm (required)")
	fl.Float64Var(&f.heightMm, "height", 0, "panel height, mm (required)")
	fl.Float64Var(&f.sheetResistance, "sheet-resistance", 20, "coating sheet resistance, Ohm/sq")
	fl.Float64Var(&f.edgeMarginMm, "margin", 5, "edge safe margin, mm")
	fl.Float64Var(&f.busbarWidthMm, "busbar-width", 10, "busbar width, mm")
	fl.StringVar(&f.orientation, "orientation", "left_right", "busbar orientation (left_right, top_bottom)")
	fl.Float64Var(&f.clearanceMm, "clearance", 4, "busbar-to-pattern clearance, mm")
	cmd.MarkFlagRequired("width")
	cmd.MarkFlagRequired("height")
}

// registerPattern adds the island flags for commands operating on one
// fixed pattern; the search commands pick the pattern themselves.
func (f *specFlags) registerPattern(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64Var(&f.islandSideMm, "side", 20, "hexagon island side, mm")
	fl.Float64Var(&f.gapMm, "gap", 2, "ablation channel gap, mm")
}

func (f *specFlags) spec() (panel.PanelSpec, error) {
	spec := panel.PanelSpec{
		WidthMm:           f.widthMm,
		HeightMm:          f.heightMm,
		SheetResistance:   f.sheetResistance,
		EdgeMarginMm:      f.edgeMarginMm,
		BusbarWidthMm:     f.busbarWidthMm,
		Orientation:       panel.Orientation(f.orientation),
		BusbarClearanceMm: f.clearanceMm,
		IslandSideMm:      f.islandSideMm,
		GapMm:             f.gapMm,
	}
	if err := spec.Validate(); err != nil {
		return panel.PanelSpec{}, err
	}
	return spec, nil
}
