package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmobile/heatglass/pkg/errors"
)

func validSpec() PanelSpec {
	return PanelSpec{
		WidthMm:           1000,
		HeightMm:          500,
		SheetResistance:   20,
		EdgeMarginMm:      10,
		BusbarWidthMm:     10,
		Orientation:       BusbarsLeftRight,
		BusbarClearanceMm: 5,
		IslandSideMm:      20,
		GapMm:             2,
	}
}

func TestPanelSpec_Validate(t *testing.T) {
	s := validSpec()
	require.NoError(t, s.Validate())

	tests := []struct {
		name   string
		mutate func(*PanelSpec)
	}{
		{"zero width", func(s *PanelSpec) { s.WidthMm = 0 }},
		{"negative height", func(s *PanelSpec) { s.HeightMm = -1 }},
		{"zero sheet resistance", func(s *PanelSpec) { s.SheetResistance = 0 }},
		{"negative margin", func(s *PanelSpec) { s.EdgeMarginMm = -1 }},
		{"bad orientation", func(s *PanelSpec) { s.Orientation = "diagonal" }},
		{"margin swallows panel", func(s *PanelSpec) { s.EdgeMarginMm = 250 }},
		{"negative gap", func(s *PanelSpec) { s.GapMm = -0.5 }},
		{"negative mesh step", func(s *PanelSpec) { s.MeshStepMm = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSpec()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeSolverInput, errors.GetCode(err))
		})
	}
}

func TestPanelSpec_ElectrodeAxes(t *testing.T) {
	s := validSpec()
	assert.Equal(t, 1000.0, s.ElectrodeSeparationMm())
	assert.Equal(t, 500.0, s.ElectrodeLengthMm())

	s.Orientation = BusbarsTopBottom
	assert.Equal(t, 500.0, s.ElectrodeSeparationMm())
	assert.Equal(t, 1000.0, s.ElectrodeLengthMm())
}

func TestPanelSpec_HasPattern(t *testing.T) {
	s := validSpec()
	assert.True(t, s.HasPattern())

	s.IslandSideMm = 0
	assert.False(t, s.HasPattern())

	s = validSpec()
	s.GapMm = 0
	assert.False(t, s.HasPattern())
}

func TestPanelSpec_WithPattern(t *testing.T) {
	s := validSpec()
	v := s.WithPattern(35, 1.5)
	assert.Equal(t, 35.0, v.IslandSideMm)
	assert.Equal(t, 1.5, v.GapMm)
	// The receiver is untouched.
	assert.Equal(t, 20.0, s.IslandSideMm)
}

func TestParseOrientation(t *testing.T) {
	o, err := ParseOrientation("top_bottom")
	require.NoError(t, err)
	assert.Equal(t, BusbarsTopBottom, o)

	_, err = ParseOrientation("sideways")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(err))
}

func TestInvalidResult(t *testing.T) {
	r := InvalidResult("no current flow")
	assert.False(t, r.IsOk())
	assert.Equal(t, "no current flow", r.Reason)
	assert.Zero(t, r.ResistanceOhm)
}

func TestCandidateDesign_Tiebreakers(t *testing.T) {
	coarse := CandidateDesign{IslandSideMm: 40, GapMm: 4}
	fine := CandidateDesign{IslandSideMm: 10, GapMm: 1}

	assert.Greater(t, fine.CellDensity(), coarse.CellDensity())
	assert.InDelta(t, 0.1, coarse.AblationIntensity(), 1e-12)

	var zero CandidateDesign
	assert.Zero(t, zero.CellDensity())
	assert.Zero(t, zero.AblationIntensity())
}
