package tableparse

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCols int
		wantRows int
	}{
		{
			name:     "tab delimited",
			text:     "Mo source\tSulfur source\tTemp. Time\nMoO3 powder 0.4 g\tS powder 0.8 g\t650 C 15 min\n",
			wantCols: 3,
			wantRows: 1,
		},
		{
			name:     "multi space delimited",
			text:     "Mo source    Sulfur source    Pressure\nMoO3 powder 0.4 g   S powder   ambient\n",
			wantCols: 3,
			wantRows: 1,
		},
		{
			name:     "blank lines skipped",
			text:     "\n\nA\tB\n\nrow1a\trow1b\n\n\nrow2a\trow2b\n",
			wantCols: 2,
			wantRows: 2,
		},
		{
			name:     "header only",
			text:     "A\tB\tC\n",
			wantCols: 3,
			wantRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(table.Header) != tt.wantCols {
				t.Errorf("got %d header cells, want %d: %q", len(table.Header), tt.wantCols, table.Header)
			}
			if len(table.Rows) != tt.wantRows {
				t.Errorf("got %d rows, want %d", len(table.Rows), tt.wantRows)
			}
		})
	}
}

func TestParseNoHeader(t *testing.T) {
	for _, text := range []string{"", "\n\n", "   \n\t\n"} {
		if _, err := Parse(text); !errors.Is(err, ErrNoHeader) {
			t.Errorf("Parse(%q) error = %v, want ErrNoHeader", text, err)
		}
	}
}

func TestSplitCellsPreservesSingleSpaces(t *testing.T) {
	cells := splitCells("MoO3 powder 0.4 g   S powder 0.8 g")
	want := []string{"MoO3 powder 0.4 g", "S powder 0.8 g"}
	if len(cells) != len(want) {
		t.Fatalf("got %d cells %q, want %d", len(cells), cells, len(want))
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cell[%d] = %q, want %q", i, cells[i], want[i])
		}
	}
}

func TestSplitCellsPrefersTabs(t *testing.T) {
	// Tab-delimited lines may carry runs of spaces inside cells.
	cells := splitCells("SiO2/Si  face-down\t14")
	if len(cells) != 2 {
		t.Fatalf("got %d cells %q, want 2", len(cells), cells)
	}
	if cells[0] != "SiO2/Si  face-down" {
		t.Errorf("cell[0] = %q", cells[0])
	}
}

func TestCellAt(t *testing.T) {
	row := []string{"a", "b"}
	if got := CellAt(row, 1); got != "b" {
		t.Errorf("CellAt(row, 1) = %q, want b", got)
	}
	if got := CellAt(row, 5); got != "" {
		t.Errorf("CellAt(row, 5) = %q, want empty", got)
	}
	if got := CellAt(row, -1); got != "" {
		t.Errorf("CellAt(row, -1) = %q, want empty", got)
	}
}
