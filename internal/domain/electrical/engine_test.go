package electrical

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/greenmobile/heatglass/internal/domain/panel"
)

func TestEngine_RawResistance(t *testing.T) {
	e := NewEngine(220)
	spec := panel.PanelSpec{
		WidthMm:         1000,
		HeightMm:        500,
		SheetResistance: 20,
		Orientation:     panel.BusbarsLeftRight,
	}
	// Current path 1000 mm long, 500 mm wide: two squares.
	assert.InDelta(t, 40.0, e.RawResistanceOhm(spec), 1e-9)

	spec.Orientation = panel.BusbarsTopBottom
	assert.InDelta(t, 10.0, e.RawResistanceOhm(spec), 1e-9)
}

func TestEngine_AreaAndPower(t *testing.T) {
	e := NewEngine(220)
	spec := panel.PanelSpec{WidthMm: 1000, HeightMm: 500, SheetResistance: 20, Orientation: panel.BusbarsLeftRight}

	area := e.AreaM2(spec)
	assert.InDelta(t, 0.5, area, 1e-12)

	// P = U²/R/area: 220²/40/0.5 = 2420 W/m².
	assert.InDelta(t, 2420.0, e.PowerDensityWm2(40, area), 1e-9)
	assert.Zero(t, e.PowerDensityWm2(0, area))
	assert.Zero(t, e.PowerDensityWm2(40, 0))

	// Round trip: the resistance that yields 2420 W/m² is 40 Ω.
	assert.InDelta(t, 40.0, e.TargetResistanceOhm(spec, 2420), 1e-9)
	assert.Zero(t, e.TargetResistanceOhm(spec, 0))
}

func TestNewEngine_DefaultVoltage(t *testing.T) {
	assert.Equal(t, DefaultMainsVoltage, NewEngine(0).MainsVoltage())
	assert.Equal(t, 110.0, NewEngine(110).MainsVoltage())
}

func TestDeviationPercent(t *testing.T) {
	assert.InDelta(t, 10.0, DeviationPercent(110, 100), 1e-12)
	assert.InDelta(t, -25.0, DeviationPercent(75, 100), 1e-12)
	assert.Zero(t, DeviationPercent(50, 0))
}
