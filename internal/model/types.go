// Package model defines shared data structures.
package model

import "time"

// Config defines play settings.
type Config struct {
	Alphabet     string
	AlphabetPath string
	Shuffle      bool
	Seed         int64
	FontPath     string

	Width  int
	Height int
	Mirror bool
	FPS    int

	CellSize     int
	TargetCells  int
	CompleteAt   float64
	StartRadius  float64
	StartOffset  float64
	AdvanceDelay time.Duration
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Alphabet    string
	Since       *time.Time
	Last        int
	CurveWindow int
	Glyphs      string
}

// SessionStats describes one run of the game.
type SessionStats struct {
	ID        string
	StartedAt time.Time
	Alphabet  string
	Glyphs    string
	Font      string
	Mirror    bool
}

// RoundStats captures one completed glyph.
type RoundStats struct {
	SessionID   string
	Index       int
	Glyph       string
	StartedAt   time.Time
	ArmedAt     time.Time
	CompletedAt time.Time
	Cells       int
	Frames      int
	Progress    float64
}

// DurationMs is the time from the glyph appearing to its completion.
func (r RoundStats) DurationMs() int64 {
	return r.CompletedAt.Sub(r.StartedAt).Milliseconds()
}

// TraceMs is the time from reaching the start gate to completion.
func (r RoundStats) TraceMs() int64 {
	if r.ArmedAt.IsZero() {
		return r.DurationMs()
	}
	return r.CompletedAt.Sub(r.ArmedAt).Milliseconds()
}

// RoundAggregate summarizes a stored round for reporting.
type RoundAggregate struct {
	RoundID     int64
	SessionID   string
	Glyph       string
	CompletedAt time.Time
	DurationMs  int64
	TraceMs     int64
	Frames      int
}

// GlyphAggregate aggregates rounds of one glyph.
type GlyphAggregate struct {
	Glyph       string
	Rounds      int
	TraceMsSum  int64
	BestTraceMs int64
	FramesSum   int
}
