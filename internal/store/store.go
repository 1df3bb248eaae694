// Package store handles SQLite persistence of play history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/traceglyph/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for sessions and rounds.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			last_round_at TEXT NOT NULL DEFAULT '',
			alphabet TEXT NOT NULL,
			glyphs TEXT NOT NULL,
			font TEXT NOT NULL,
			mirror INTEGER NOT NULL,
			rounds INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			glyph TEXT NOT NULL,
			started_at TEXT NOT NULL,
			armed_at TEXT NOT NULL,
			completed_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			trace_ms INTEGER NOT NULL,
			cells INTEGER NOT NULL,
			frames INTEGER NOT NULL,
			progress REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_completed_at ON rounds(completed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_glyph ON rounds(glyph);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores the start of a play session.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats) error {
	mirror := 0
	if stats.Mirror {
		mirror = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, alphabet, glyphs, font, mirror) VALUES (?, ?, ?, ?, ?, ?)`,
		stats.ID,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.Alphabet,
		stats.Glyphs,
		stats.Font,
		mirror,
	)
	return err
}

// RecordRound stores a completed glyph and bumps its session's round count.
func (s *Store) RecordRound(ctx context.Context, round model.RoundStats) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	armedAt := ""
	if !round.ArmedAt.IsZero() {
		armedAt = round.ArmedAt.Format(time.RFC3339Nano)
	}
	completedAt := round.CompletedAt.Format(time.RFC3339Nano)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO rounds (session_id, idx, glyph, started_at, armed_at, completed_at, duration_ms, trace_ms, cells, frames, progress)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		round.SessionID,
		round.Index,
		round.Glyph,
		round.StartedAt.Format(time.RFC3339Nano),
		armedAt,
		completedAt,
		round.DurationMs(),
		round.TraceMs(),
		round.Cells,
		round.Frames,
		round.Progress,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}
	res, err = tx.ExecContext(ctx,
		`UPDATE sessions SET rounds = rounds + 1, last_round_at = ? WHERE id = ?`,
		completedAt, round.SessionID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		err = fmt.Errorf("unknown session %q", round.SessionID)
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRounds returns rounds filtered by stats config in completion order.
func (s *Store) ListRounds(ctx context.Context, cfg model.StatsConfig) ([]model.RoundAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Alphabet != "" {
		clauses = append(clauses, "s.alphabet = ?")
		args = append(args, cfg.Alphabet)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "r.completed_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	if glyphs := splitGlyphs(cfg.Glyphs); len(glyphs) > 0 {
		placeholders := make([]string, len(glyphs))
		for i, g := range glyphs {
			placeholders[i] = "?"
			args = append(args, g)
		}
		clauses = append(clauses, fmt.Sprintf("r.glyph IN (%s)", strings.Join(placeholders, ",")))
	}
	query := fmt.Sprintf(`SELECT r.id, r.session_id, r.glyph, r.completed_at, r.duration_ms, r.trace_ms, r.frames
		FROM rounds r
		JOIN sessions s ON s.id = r.session_id
		WHERE %s
		ORDER BY r.completed_at ASC, r.id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var rounds []model.RoundAggregate
	for rows.Next() {
		var agg model.RoundAggregate
		var completedAt string
		if err := rows.Scan(&agg.RoundID, &agg.SessionID, &agg.Glyph, &completedAt, &agg.DurationMs, &agg.TraceMs, &agg.Frames); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, completedAt)
		if err != nil {
			return nil, err
		}
		agg.CompletedAt = parsed
		rounds = append(rounds, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rounds, nil
}

// GlyphAggregatesForRounds aggregates the given rounds per glyph.
func (s *Store) GlyphAggregatesForRounds(ctx context.Context, roundIDs []int64) ([]model.GlyphAggregate, error) {
	if len(roundIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(roundIDs))
	args := make([]any, len(roundIDs))
	for i, id := range roundIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT glyph, COUNT(*) AS rounds, SUM(trace_ms) AS trace_ms_sum,
		MIN(trace_ms) AS best_trace_ms, SUM(frames) AS frames_sum
		FROM rounds
		WHERE id IN (%s)
		GROUP BY glyph`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.GlyphAggregate
	for rows.Next() {
		var agg model.GlyphAggregate
		if err := rows.Scan(&agg.Glyph, &agg.Rounds, &agg.TraceMsSum, &agg.BestTraceMs, &agg.FramesSum); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountSessions returns the number of stored sessions.
func (s *Store) CountSessions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func splitGlyphs(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
