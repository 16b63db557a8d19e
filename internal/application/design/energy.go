package design

import (
	"github.com/greenmobile/heatglass/internal/domain/panel"
)

// OperationMode selects what the heated panel is fighting: condensation,
// room heating, or ice and snow. The mode drives the default surface
// temperature and the share of power that actually warms the glass.
type OperationMode string

const (
	ModeCondensate OperationMode = "condensate"
	ModeHeating    OperationMode = "heating"
	ModeDeicing    OperationMode = "deicing"
)

// IsValid checks if the mode is supported.
func (m OperationMode) IsValid() bool {
	switch m {
	case ModeCondensate, ModeHeating, ModeDeicing:
		return true
	default:
		return false
	}
}

// Efficiency is the fraction of dissipated power that goes into warming the
// glass rather than the surroundings; the rest must be replaced during the
// holding phase.
func (m OperationMode) Efficiency() float64 {
	switch m {
	case ModeCondensate:
		return 0.6
	case ModeDeicing:
		return 0.4
	default:
		return 0.5
	}
}

// DefaultTargetTempC is the surface temperature the mode aims for, given
// the ambient temperature.
func (m OperationMode) DefaultTargetTempC(ambientC float64) float64 {
	switch m {
	case ModeCondensate:
		return maxF(ambientC+5, 10)
	case ModeHeating:
		return maxF(ambientC+10, 22)
	case ModeDeicing:
		return maxF(ambientC+10, 5)
	default:
		return ambientC + 10
	}
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Glass material constants.
const (
	glassDensityKgM3        = 2500.0
	glassHeatCapacityJKgK   = 840.0
	defaultGlassThicknessMm = 4.0
)

// EnergyInput describes the thermal scenario for the energy estimate.
type EnergyInput struct {
	TargetPowerWm2   float64       `json:"target_power_w_m2"`
	Mode             OperationMode `json:"mode"`
	GlassThicknessMm float64       `json:"glass_thickness_mm,omitempty"` // 0 → 4 mm
	AmbientTempC     float64       `json:"ambient_temp_c"`
	// TargetSurfaceTempC overrides the mode default when non-nil.
	TargetSurfaceTempC *float64 `json:"target_surface_temp_c,omitempty"`
}

// EnergyResult is the closed-form warm-up and holding estimate.
type EnergyResult struct {
	TotalPowerW             float64 `json:"total_power_w"`
	DeltaTempC              float64 `json:"delta_temp_c"`
	WarmupTimeS             float64 `json:"warmup_time_s"`
	WarmupEnergyKWh         float64 `json:"warmup_energy_kwh"`
	HoldingPowerW           float64 `json:"holding_power_w"`
	HoldingEnergyPerHourKWh float64 `json:"holding_energy_per_hour_kwh"`
}

// Energy estimates warm-up time and energy from the glass heat capacity and
// the mode efficiency, plus the steady holding power. A non-positive
// temperature delta or power collapses to a zero warm-up with the full
// power held.
func (f *Facade) Energy(spec panel.PanelSpec, in EnergyInput) *EnergyResult {
	area := f.engine.AreaM2(spec)
	totalPower := in.TargetPowerWm2 * area

	mode := in.Mode
	if !mode.IsValid() {
		mode = ModeCondensate
	}

	targetT := mode.DefaultTargetTempC(in.AmbientTempC)
	if in.TargetSurfaceTempC != nil {
		targetT = *in.TargetSurfaceTempC
	}
	deltaT := targetT - in.AmbientTempC

	if deltaT <= 0 || totalPower <= 0 {
		return &EnergyResult{
			TotalPowerW:             totalPower,
			DeltaTempC:              deltaT,
			HoldingPowerW:           totalPower,
			HoldingEnergyPerHourKWh: totalPower / 1000,
		}
	}

	thickness := in.GlassThicknessMm
	if thickness <= 0 {
		thickness = defaultGlassThicknessMm
	}

	mass := area * (thickness / 1000) * glassDensityKgM3
	heatCapacity := mass * glassHeatCapacityJKgK

	eff := mode.Efficiency()
	warmupTime := heatCapacity * deltaT / (totalPower * eff)
	holdingPower := totalPower * (1 - eff)

	return &EnergyResult{
		TotalPowerW:             totalPower,
		DeltaTempC:              deltaT,
		WarmupTimeS:             warmupTime,
		WarmupEnergyKWh:         totalPower * warmupTime / 3.6e6,
		HoldingPowerW:           holdingPower,
		HoldingEnergyPerHourKWh: holdingPower / 1000,
	}
}
