package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/recipe-engine/pkg/types"
)

func TestClean(t *testing.T) {
	assert.Equal(t, "650 C 15 min", Clean("  650 C   15 min "))
	assert.Equal(t, "a b", Clean("a\t\n b"))
	assert.Equal(t, "", Clean("   "))
}

func TestIsMissing(t *testing.T) {
	for _, cell := range []string{"", "  ", "-", "–", "—"} {
		assert.True(t, IsMissing(cell), "cell %q", cell)
	}
	assert.False(t, IsMissing("650 C"))
}

func TestTempTime(t *testing.T) {
	tests := []struct {
		name      string
		cell      string
		wantTemp  *float64
		wantTime  *float64
		wantFlags []string
	}{
		{
			name:     "plain temperature and time",
			cell:     "650 °C 15 min",
			wantTemp: f(650), wantTime: f(15),
		},
		{
			name:     "no degree sign",
			cell:     "650 C 15 min",
			wantTemp: f(650), wantTime: f(15),
		},
		{
			name:      "temperature profile keeps time",
			cell:      "780–650 °C 10 min",
			wantTime:  f(10),
			wantFlags: []string{types.FlagTemperatureProfile},
		},
		{
			name:      "time range stays null",
			cell:      "530 °C 30–60 min",
			wantTemp:  f(530),
			wantFlags: []string{types.FlagRangeUnresolved},
		},
		{
			name:      "approximate temperature and range time",
			cell:      "∼650 °C/ 15 – 20 min",
			wantFlags: []string{types.FlagApproximateValue, types.FlagRangeUnresolved},
		},
		{
			name:      "missing cell",
			cell:      "–",
			wantFlags: []string{types.FlagFieldMissing},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			temp, tm, flags := TempTime(tt.cell)
			assertFloat(t, tt.wantTemp, temp, "temperature")
			assertFloat(t, tt.wantTime, tm, "time")
			for _, want := range tt.wantFlags {
				assert.Contains(t, flags, want)
			}
			if temp == nil || tm == nil {
				require.NotEmpty(t, flags, "null value with no explanatory flag")
			}
		})
	}
}

func TestTemperature(t *testing.T) {
	v, flags := Temperature("780–650 °C")
	assert.Nil(t, v)
	assert.Contains(t, flags, types.FlagTemperatureProfile)

	v, flags = Temperature("∼650 °C")
	assert.Nil(t, v)
	assert.Contains(t, flags, types.FlagApproximateValue)

	v, flags = Temperature("750 to 850 °C")
	assert.Nil(t, v)
	assert.Contains(t, flags, types.FlagTemperatureProfile)

	v, flags = Temperature("650")
	require.NotNil(t, v)
	assert.Equal(t, 650.0, *v)
	assert.Empty(t, flags)
}

func TestGrowthTime(t *testing.T) {
	v, flags := GrowthTime("30–60 min")
	assert.Nil(t, v)
	assert.Contains(t, flags, types.FlagRangeUnresolved)

	v, flags = GrowthTime("~15 min")
	require.NotNil(t, v)
	assert.Equal(t, 15.0, *v)
	assert.Contains(t, flags, types.FlagApproximateValue)

	v, _ = GrowthTime("15 min")
	require.NotNil(t, v)
	assert.Equal(t, 15.0, *v)
}

func TestPressure(t *testing.T) {
	tests := []struct {
		name      string
		cell      string
		policy    types.AmbientPressurePolicy
		want      *float64
		wantFlags []string
	}{
		{
			name: "pascal converted", cell: "30 Pa",
			want:      f(0.225),
			wantFlags: []string{types.FlagPressureConverted},
		},
		{
			name: "torr passthrough", cell: "2 Torr",
			want: f(2),
		},
		{
			name: "ambient assumed", cell: "ambient",
			want:      f(760),
			wantFlags: []string{types.FlagPressureAmbient},
		},
		{
			name: "atmospheric case insensitive", cell: "Atmospheric",
			want:      f(760),
			wantFlags: []string{types.FlagPressureAmbient},
		},
		{
			name: "ambient left null", cell: "ambient",
			policy:    types.AmbientNull,
			wantFlags: []string{types.FlagAmbientUnresolved},
		},
		{
			name: "unknown unit", cell: "5 bar",
			wantFlags: []string{types.FlagPressureUnknown},
		},
		{
			name: "bare number", cell: "760",
			wantFlags: []string{types.FlagPressureUnknown},
		},
		{
			name: "dash", cell: "–",
			wantFlags: []string{types.FlagFieldMissing},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := tt.policy
			if policy == "" {
				policy = types.AmbientAssume760
			}
			v, flags := Pressure(tt.cell, policy)
			assertFloat(t, tt.want, v, "pressure")
			assert.Equal(t, tt.wantFlags, flags)
		})
	}
}

func TestGasFlow(t *testing.T) {
	gases, flows, flags := GasFlow("Ar14 sccm H2/2 sccm")
	assert.Equal(t, []string{"Ar", "H2"}, gases)
	assert.Equal(t, map[string]float64{"Ar": 14, "H2": 2}, flows)
	assert.Empty(t, flags)

	gases, flows, flags = GasFlow("N2 1 sccm")
	assert.Equal(t, []string{"N2"}, gases)
	assert.Equal(t, map[string]float64{"N2": 1}, flows)
	assert.Empty(t, flags)

	// H2S must not truncate into H2.
	gases, flows, _ = GasFlow("H2S 5 sccm")
	assert.Equal(t, []string{"H2S"}, gases)
	assert.Equal(t, map[string]float64{"H2S": 5}, flows)

	// Residue keeps the parsed pairs and flags the leftovers.
	gases, flows, flags = GasFlow("Ar 50 sccm quartz tube")
	assert.Equal(t, []string{"Ar"}, gases)
	assert.Equal(t, map[string]float64{"Ar": 50}, flows)
	assert.Contains(t, flags, types.FlagGasFlowPartial)

	// No pairs at all.
	gases, flows, flags = GasFlow("static atmosphere")
	assert.Empty(t, gases)
	assert.Empty(t, flows)
	assert.Contains(t, flags, types.FlagGasFlowPartial)

	_, _, flags = GasFlow("")
	assert.Equal(t, []string{types.FlagFieldMissing}, flags)
}

func TestText(t *testing.T) {
	v, flags := Text("  SiO2/Si   face-down ")
	require.NotNil(t, v)
	assert.Equal(t, "SiO2/Si face-down", *v)
	assert.Empty(t, flags)

	v, flags = Text("<0.1 g")
	require.NotNil(t, v)
	assert.Contains(t, flags, types.FlagInequalityValue)

	v, flags = Text("∼0.3 g")
	require.NotNil(t, v)
	assert.Contains(t, flags, types.FlagApproximateValue)

	v, flags = Text("-")
	assert.Nil(t, v)
	assert.Equal(t, []string{types.FlagFieldMissing}, flags)
}

func TestSulfurText(t *testing.T) {
	v, flags := SulfurText("S rich atmosphere")
	require.NotNil(t, v)
	assert.Contains(t, flags, types.FlagSulfurAmountVague)

	_, flags = SulfurText("S powder 0.8 g")
	assert.Empty(t, flags)
}

// --- helpers ---

func f(v float64) *float64 { return &v }

func assertFloat(t *testing.T, want, got *float64, label string) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got, label)
		return
	}
	require.NotNil(t, got, label)
	assert.InDelta(t, *want, *got, 1e-9, label)
}
