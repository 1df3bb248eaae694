package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/traceglyph/internal/model"
	"github.com/verte-zerg/traceglyph/internal/stats"
)

func fixedReport() stats.Report {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	return stats.Report{
		Rounds: []model.RoundAggregate{
			{RoundID: 1, SessionID: "s1", Glyph: "A", CompletedAt: now, TraceMs: 4000},
			{RoundID: 2, SessionID: "s1", Glyph: "B", CompletedAt: now, TraceMs: 2000},
		},
		GlyphsAll: []model.GlyphAggregate{
			{Glyph: "B", Rounds: 1, TraceMsSum: 2000, BestTraceMs: 2000, FramesSum: 60},
			{Glyph: "A", Rounds: 1, TraceMsSum: 4000, BestTraceMs: 4000, FramesSum: 120},
		},
		NeedsPractice: []string{"A"},
	}
}

func TestGlyphRowsSlowestFirst(t *testing.T) {
	rows := glyphRows(fixedReport().GlyphsAll)
	if len(rows) != 2 || rows[0][0] != "A" || rows[1][0] != "B" {
		t.Fatalf("unexpected order: %v", rows)
	}
	if rows[0][2] != "4.00" || rows[0][4] != "120" {
		t.Fatalf("unexpected row: %v", rows[0])
	}
}

func TestParseFilter(t *testing.T) {
	cfg, err := parseFilter(" latin ", "2026-01-02", "5", "10", "AB")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Alphabet != "latin" || cfg.Last != 5 || cfg.CurveWindow != 10 || cfg.Glyphs != "AB" || cfg.Since == nil {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if _, err := parseFilter("", "02/01/2026", "", "", ""); err == nil {
		t.Fatalf("expected date error")
	}
	if _, err := parseFilter("", "", "-1", "", ""); err == nil {
		t.Fatalf("expected last error")
	}
	if _, err := parseFilter("", "", "", "0", ""); err == nil {
		t.Fatalf("expected window error")
	}
}

func TestCurveWindowSteps(t *testing.T) {
	if nextCurveWindow(3) != 5 || nextCurveWindow(5) != 10 || nextCurveWindow(7) != 10 {
		t.Fatalf("unexpected next window")
	}
	if prevCurveWindow(5) != 1 || prevCurveWindow(10) != 5 || prevCurveWindow(12) != 10 {
		t.Fatalf("unexpected prev window")
	}
}

func TestModelRendersOverview(t *testing.T) {
	var got model.StatsConfig
	load := func(_ context.Context, cfg model.StatsConfig) (stats.Report, error) {
		got = cfg
		return fixedReport(), nil
	}
	m := NewModel(load, model.StatsConfig{CurveWindow: 20})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := m.View()
	for _, want := range []string{"Overview", "Rounds", "Needs Practice", "3.00s"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	if got.CurveWindow != 25 {
		t.Fatalf("expected reload with window 25, got %d", got.CurveWindow)
	}
}

func TestModelShowsLoadError(t *testing.T) {
	load := func(context.Context, model.StatsConfig) (stats.Report, error) {
		return stats.Report{}, errors.New("db locked")
	}
	m := NewModel(load, model.StatsConfig{CurveWindow: 20})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	if !strings.Contains(m.View(), "db locked") {
		t.Fatalf("expected error in footer")
	}
}
