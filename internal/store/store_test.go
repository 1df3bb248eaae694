package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/traceglyph/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "traceglyph.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestRecordRoundAndList(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	start := time.Unix(1000, 0).UTC()
	if err := st.InsertSession(ctx, model.SessionStats{ID: "s1", StartedAt: start, Alphabet: "latin", Glyphs: "AB", Font: "Go Bold", Mirror: true}); err != nil {
		t.Fatalf("insert session: %v", err)
	}

	for i, g := range []string{"A", "B"} {
		began := start.Add(time.Duration(i) * time.Minute)
		round := model.RoundStats{
			SessionID:   "s1",
			Index:       i,
			Glyph:       g,
			StartedAt:   began,
			ArmedAt:     began.Add(2 * time.Second),
			CompletedAt: began.Add(12 * time.Second),
			Cells:       76,
			Frames:      300,
			Progress:    95,
		}
		if _, err := st.RecordRound(ctx, round); err != nil {
			t.Fatalf("record round: %v", err)
		}
	}

	rounds, err := st.ListRounds(ctx, model.StatsConfig{Alphabet: "latin"})
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(rounds) != 2 || rounds[0].Glyph != "A" || rounds[1].Glyph != "B" {
		t.Fatalf("unexpected rounds: %+v", rounds)
	}
	if rounds[0].DurationMs != 12000 || rounds[0].TraceMs != 10000 {
		t.Fatalf("unexpected durations: %+v", rounds[0])
	}

	only, err := st.ListRounds(ctx, model.StatsConfig{Glyphs: "B"})
	if err != nil {
		t.Fatalf("list filtered rounds: %v", err)
	}
	if len(only) != 1 || only[0].Glyph != "B" {
		t.Fatalf("unexpected filtered rounds: %+v", only)
	}

	since := start.Add(30 * time.Second)
	recent, err := st.ListRounds(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list recent rounds: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 recent round, got %d", len(recent))
	}

	aggs, err := st.GlyphAggregatesForRounds(ctx, []int64{rounds[0].RoundID, rounds[1].RoundID})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(aggs) != 2 || aggs[0].Rounds != 1 || aggs[0].BestTraceMs != 10000 {
		t.Fatalf("unexpected aggregates: %+v", aggs)
	}
}

func TestRecordRoundUnknownSession(t *testing.T) {
	st := openTestStore(t)
	now := time.Unix(0, 0)
	_, err := st.RecordRound(context.Background(), model.RoundStats{SessionID: "missing", Glyph: "A", StartedAt: now, CompletedAt: now})
	if err == nil {
		t.Fatalf("expected error for unknown session")
	}
	rounds, err := st.ListRounds(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(rounds) != 0 {
		t.Fatalf("expected rollback, found %d rounds", len(rounds))
	}
}

func TestCountSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b"} {
		if err := st.InsertSession(ctx, model.SessionStats{ID: id, StartedAt: time.Unix(0, 0)}); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}
	n, err := st.CountSessions(ctx)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 sessions, got %d (%v)", n, err)
	}
}
