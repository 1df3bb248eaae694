package stats

import (
	"sort"

	"github.com/verte-zerg/traceglyph/internal/model"
)

// SlowestGlyphs returns up to n glyphs with the highest average trace time.
func SlowestGlyphs(aggs []model.GlyphAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := append([]model.GlyphAggregate(nil), aggs...)
	sort.Slice(items, func(i, j int) bool {
		ai, aj := avgTraceMs(items[i]), avgTraceMs(items[j])
		if ai == aj {
			return items[i].Glyph < items[j].Glyph
		}
		return ai > aj
	})
	n = min(n, len(items))
	out := make([]string, 0, n)
	for _, item := range items[:n] {
		out = append(out, item.Glyph)
	}
	return out
}
