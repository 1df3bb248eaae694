// Package stats contains play history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/traceglyph/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if maxVal-minVal < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// TraceSeconds returns the trace time of each round in seconds.
func TraceSeconds(rounds []model.RoundAggregate) []float64 {
	out := make([]float64, len(rounds))
	for i, r := range rounds {
		out[i] = float64(r.TraceMs) / 1000
	}
	return out
}

// RenderSummary prints totals for the listed rounds.
func RenderSummary(w io.Writer, rounds []model.RoundAggregate, practice []string) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, "No rounds found.")
		return err
	}
	sessions := map[string]struct{}{}
	glyphs := map[string]struct{}{}
	var total float64
	best := math.Inf(1)
	for _, r := range rounds {
		sessions[r.SessionID] = struct{}{}
		glyphs[r.Glyph] = struct{}{}
		sec := float64(r.TraceMs) / 1000
		total += sec
		best = math.Min(best, sec)
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Rounds: %d", len(rounds)),
		fmt.Sprintf("Glyphs traced: %d", len(glyphs)),
		fmt.Sprintf("Avg trace time: %.2fs", total/float64(len(rounds))),
		fmt.Sprintf("Best trace time: %.2fs", best),
	}
	if len(practice) > 0 {
		lines = append(lines, "Needs practice: "+strings.Join(practice, " "))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderGlyphTable prints per-glyph aggregates, slowest first.
func RenderGlyphTable(w io.Writer, aggs []model.GlyphAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No glyph stats found.")
		return err
	}
	rows := append([]model.GlyphAggregate(nil), aggs...)
	sort.Slice(rows, func(i, j int) bool {
		ai, aj := avgTraceMs(rows[i]), avgTraceMs(rows[j])
		if ai == aj {
			return rows[i].Glyph < rows[j].Glyph
		}
		return ai > aj
	})

	if _, err := fmt.Fprintln(w, "Per-Glyph (Windowed)"); err != nil {
		return err
	}
	headers := []string{"Glyph", "Rounds", "Avg Trace (s)", "Best (s)", "Avg Frames"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		frames := 0.0
		if r.Rounds > 0 {
			frames = float64(r.FramesSum) / float64(r.Rounds)
		}
		tableRows = append(tableRows, []string{
			r.Glyph,
			fmt.Sprintf("%d", r.Rounds),
			fmt.Sprintf("%.2f", avgTraceMs(r)/1000),
			fmt.Sprintf("%.2f", float64(r.BestTraceMs)/1000),
			fmt.Sprintf("%.1f", frames),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func avgTraceMs(agg model.GlyphAggregate) float64 {
	if agg.Rounds == 0 {
		return 0
	}
	return float64(agg.TraceMsSum) / float64(agg.Rounds)
}
