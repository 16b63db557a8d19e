// Package cache memoizes field-solver results. Repeated and parallel search
// calls hit the same handful of (spec, mesh) points over and over; a solve
// costs tens of milliseconds, a lookup nanoseconds.
package cache

import (
	"fmt"
	"math"

	"github.com/greenmobile/heatglass/internal/domain/panel"
)

// keyResolution quantizes every length field to 1/1000 of a millimetre.
// Two specs differing only below that resolution are cache-identical.
const keyResolution = 1000.0

func quantize(v float64) int64 {
	return int64(math.Round(v * keyResolution))
}

// SolveKey is the quantized digest of every input that influences a solve.
// It is a comparable value type usable directly as a map key.
type SolveKey struct {
	Width           int64
	Height          int64
	SheetResistance int64
	EdgeMargin      int64
	BusbarWidth     int64
	Orientation     panel.Orientation
	BusbarClearance int64
	IslandSide      int64
	Gap             int64
	MeshStep        int64
	Voltage         int64
}

// NewSolveKey digests the spec plus the effective mesh step and applied
// voltage.
func NewSolveKey(spec panel.PanelSpec, meshStepMm, voltage float64) SolveKey {
	return SolveKey{
		Width:           quantize(spec.WidthMm),
		Height:          quantize(spec.HeightMm),
		SheetResistance: quantize(spec.SheetResistance),
		EdgeMargin:      quantize(spec.EdgeMarginMm),
		BusbarWidth:     quantize(spec.BusbarWidthMm),
		Orientation:     spec.Orientation,
		BusbarClearance: quantize(spec.BusbarClearanceMm),
		IslandSide:      quantize(spec.IslandSideMm),
		Gap:             quantize(spec.GapMm),
		MeshStep:        quantize(meshStepMm),
		Voltage:         quantize(voltage),
	}
}

// String renders the key as a stable text form, used as the Redis member
// name for the shared store.
func (k SolveKey) String() string {
	return fmt.Sprintf("%d:%d:%d:%d:%d:%s:%d:%d:%d:%d:%d",
		k.Width, k.Height, k.SheetResistance, k.EdgeMargin, k.BusbarWidth,
		k.Orientation, k.BusbarClearance, k.IslandSide, k.Gap, k.MeshStep, k.Voltage)
}
