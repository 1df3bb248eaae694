package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Glyph", "Avg (s)", "Rounds"}
	rows := [][]string{
		{"A", "12.50", "3"},
		{"字", "9.00", "12"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Glyph Avg (s) Rounds" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "A       12.50      3" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	// Wide glyphs take two columns.
	if lines[2] != "字       9.00     12" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}
