// Package electrical holds the closed-form mains-side arithmetic: panel
// area, raw (unpatterned) resistance, the target resistance implied by a
// requested specific power, and the specific power dissipated by a given
// resistance.
package electrical

import (
	"github.com/greenmobile/heatglass/internal/domain/panel"
)

// DefaultMainsVoltage is the supply the panels are designed for.
const DefaultMainsVoltage = 220.0

// Engine converts between resistance and specific power at a fixed mains
// voltage. Stateless and safe for concurrent use.
type Engine struct {
	mainsVoltage float64
}

// NewEngine builds an engine for the given supply voltage; non-positive
// values fall back to the default mains voltage.
func NewEngine(mainsVoltage float64) *Engine {
	if mainsVoltage <= 0 {
		mainsVoltage = DefaultMainsVoltage
	}
	return &Engine{mainsVoltage: mainsVoltage}
}

// MainsVoltage returns the supply voltage the engine was built with.
func (e *Engine) MainsVoltage() float64 { return e.mainsVoltage }

// AreaM2 returns the full panel area in square metres.
func (e *Engine) AreaM2(spec panel.PanelSpec) float64 {
	return spec.WidthMm * spec.HeightMm / 1e6
}

// RawResistanceOhm returns the resistance of the unpatterned coating:
// sheet resistance times the squares count between the electrodes.
func (e *Engine) RawResistanceOhm(spec panel.PanelSpec) float64 {
	return spec.SheetResistance * spec.ElectrodeSeparationMm() / spec.ElectrodeLengthMm()
}

// TargetResistanceOhm returns the panel resistance that dissipates the
// requested specific power (W/m²) at mains voltage.
func (e *Engine) TargetResistanceOhm(spec panel.PanelSpec, targetPowerWm2 float64) float64 {
	area := e.AreaM2(spec)
	if targetPowerWm2 <= 0 || area <= 0 {
		return 0
	}
	return e.mainsVoltage * e.mainsVoltage / (targetPowerWm2 * area)
}

// PowerDensityWm2 returns the specific power a panel of the given
// resistance dissipates at mains voltage, or 0 for non-positive inputs.
func (e *Engine) PowerDensityWm2(resistanceOhm, areaM2 float64) float64 {
	if resistanceOhm <= 0 || areaM2 <= 0 {
		return 0
	}
	return e.mainsVoltage * e.mainsVoltage / resistanceOhm / areaM2
}

// DeviationPercent returns the signed percent deviation of achieved from
// target; 0 when the target is non-positive.
func DeviationPercent(achieved, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return (achieved - target) / target * 100
}
