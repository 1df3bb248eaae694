package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/traceglyph/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestSparklineFlat(t *testing.T) {
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if got := Sparkline([]float64{0, 1}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	rounds := []model.RoundAggregate{
		{SessionID: "s1", Glyph: "A", TraceMs: 4000},
		{SessionID: "s1", Glyph: "B", TraceMs: 6000},
		{SessionID: "s2", Glyph: "A", TraceMs: 2000},
	}
	if err := RenderSummary(&buf, rounds, []string{"B"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Rounds: 3", "Glyphs traced: 2", "Avg trace time: 4.00s", "Best trace time: 2.00s", "Needs practice: B"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderGlyphTableOrdersSlowestFirst(t *testing.T) {
	var buf bytes.Buffer
	aggs := []model.GlyphAggregate{
		{Glyph: "A", Rounds: 1, TraceMsSum: 2000, BestTraceMs: 2000, FramesSum: 60},
		{Glyph: "W", Rounds: 2, TraceMsSum: 18000, BestTraceMs: 8000, FramesSum: 500},
	}
	if err := RenderGlyphTable(&buf, aggs); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 4 || !strings.HasPrefix(lines[2], "W") || !strings.HasPrefix(lines[3], "A") {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
	if !strings.Contains(lines[2], "9.00") || !strings.Contains(lines[2], "250.0") {
		t.Fatalf("unexpected W row %q", lines[2])
	}
}

func TestRenderCurveFitsWidth(t *testing.T) {
	var buf bytes.Buffer
	values := make([]float64, 200)
	for i := range values {
		values[i] = float64(i % 10)
	}
	if err := RenderCurve(&buf, "Trace time", values, 1, 40); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[0] != "Trace time" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if len(lines[1]) != 40 {
		t.Fatalf("expected 40 columns, got %d: %q", len(lines[1]), lines[1])
	}
}
