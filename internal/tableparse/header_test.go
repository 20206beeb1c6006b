package tableparse

import "testing"

func TestMapHeader(t *testing.T) {
	header := []string{
		"Mo source", "Sulfur source", "Temp. Time", "Pressure",
		"Carrier gas Flow rate", "Substrate/ Set-up", "Ref", "Comments",
	}
	want := HeaderMapping{
		FieldMoSource, FieldSSource, FieldTempTime, FieldPressure,
		FieldGasFlow, FieldSubstrate, FieldRef, FieldUnmapped,
	}

	got := MapHeader(header)
	if len(got) != len(want) {
		t.Fatalf("got %d mapped columns, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d (%q) mapped to %q, want %q", i, header[i], got[i], want[i])
		}
	}
}

func TestMapHeaderDeterministic(t *testing.T) {
	header := []string{"Temp. Time", "Pressure", "Ref"}
	first := MapHeader(header)
	second := MapHeader(header)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("mapping not deterministic at column %d: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestMapHeaderSeparateColumns(t *testing.T) {
	tests := []struct {
		cell string
		want Field
	}{
		{"Growth temperature (°C)", FieldTemperature},
		{"Temp.", FieldTemperature},
		{"Growth time", FieldGrowthTime},
		{"Duration", FieldGrowthTime},
		{"Gas flow", FieldGasFlow},
		{"Flow rate (sccm)", FieldGasFlow},
		{"Set-up", FieldSubstrate},
		{"", FieldUnmapped},
		{"Morphology", FieldUnmapped},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got := MapHeader([]string{tt.cell})
			if got[0] != tt.want {
				t.Errorf("MapHeader(%q) = %q, want %q", tt.cell, got[0], tt.want)
			}
		})
	}
}

func TestColumnsFor(t *testing.T) {
	m := HeaderMapping{FieldGasFlow, FieldUnmapped, FieldGasFlow}
	cols := m.ColumnsFor(FieldGasFlow)
	if len(cols) != 2 || cols[0] != 0 || cols[1] != 2 {
		t.Errorf("ColumnsFor(gas_flow) = %v, want [0 2]", cols)
	}
}
