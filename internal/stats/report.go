package stats

import (
	"context"

	"github.com/verte-zerg/traceglyph/internal/model"
	"github.com/verte-zerg/traceglyph/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Rounds        []model.RoundAggregate
	WindowRounds  []int64
	GlyphsAll     []model.GlyphAggregate
	GlyphsWindow  []model.GlyphAggregate
	NeedsPractice []string
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	rounds, err := st.ListRounds(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(rounds) > cfg.Last {
		rounds = rounds[len(rounds)-cfg.Last:]
	}

	windowIDs := lastRoundIDs(rounds, cfg.CurveWindow)
	all, err := st.GlyphAggregatesForRounds(ctx, roundIDs(rounds))
	if err != nil {
		return Report{}, err
	}
	window, err := st.GlyphAggregatesForRounds(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Rounds:        rounds,
		WindowRounds:  windowIDs,
		GlyphsAll:     all,
		GlyphsWindow:  window,
		NeedsPractice: SlowestGlyphs(window, 3),
	}, nil
}

func roundIDs(rounds []model.RoundAggregate) []int64 {
	ids := make([]int64, len(rounds))
	for i, r := range rounds {
		ids[i] = r.RoundID
	}
	return ids
}

func lastRoundIDs(rounds []model.RoundAggregate, window int) []int64 {
	if window <= 0 || len(rounds) <= window {
		return roundIDs(rounds)
	}
	return roundIDs(rounds[len(rounds)-window:])
}
