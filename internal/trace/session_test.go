package trace

import (
	"testing"
	"time"
)

var everywhere = RasterFunc(func(x, y int) bool { return x >= 0 && y >= 0 && x < 1000 && y < 1000 })

func armedSession(t *testing.T, cal Calibration) Session {
	t.Helper()
	anchor := Point{X: 500, Y: 350}
	s := NewSession(cal, 'A', 0, anchor, time.Unix(0, 0))
	s, events := Step(s, Input{Raster: everywhere, Fingertip: anchor, HasFingertip: true})
	if s.State() != Armed || len(events) != 1 || events[0].Kind != EventArmed {
		t.Fatalf("expected session to arm, state=%v events=%v", s.State(), events)
	}
	return s
}

// visitCells feeds n distinct on-path cells along a row starting at y.
func visitCells(s Session, n int, y float64) (Session, []Event) {
	var all []Event
	size := float64(s.Calibration().CellSize)
	for i := 0; i < n; i++ {
		var events []Event
		s, events = Step(s, Input{
			Raster:       everywhere,
			Fingertip:    Point{X: float64(i)*size + 1, Y: y},
			HasFingertip: true,
		})
		all = append(all, events...)
	}
	return s, all
}

func TestStartGateBoundaryIsExclusive(t *testing.T) {
	cal := DefaultCalibration()
	anchor := Point{X: 500, Y: 350}
	s := NewSession(cal, 'A', 0, anchor, time.Time{})

	s, events := Step(s, Input{Raster: everywhere, Fingertip: Point{X: 500, Y: 400}, HasFingertip: true})
	if s.State() != NotStarted || len(events) != 0 {
		t.Fatalf("distance 50 must not arm, state=%v", s.State())
	}
	s, events = Step(s, Input{Raster: everywhere, Fingertip: Point{X: 500, Y: 399}, HasFingertip: true})
	if s.State() != Armed {
		t.Fatalf("distance 49 must arm, state=%v", s.State())
	}
	if len(events) != 1 || events[0].Kind != EventArmed {
		t.Fatalf("expected one armed event, got %v", events)
	}
	if s.Cells() != 0 {
		t.Fatalf("arming frame must not record coverage, got %d cells", s.Cells())
	}
}

func TestNoCoverageBeforeGate(t *testing.T) {
	s := NewSession(DefaultCalibration(), 'A', 0, Point{X: 500, Y: 350}, time.Time{})
	for i := 0; i < 200; i++ {
		var events []Event
		s, events = Step(s, Input{Raster: everywhere, Fingertip: Point{X: float64(i * 4), Y: 900}, HasFingertip: true})
		if len(events) != 0 {
			t.Fatalf("unexpected events before gate: %v", events)
		}
	}
	if s.Cells() != 0 || s.Progress() != 0 {
		t.Fatalf("expected no coverage before gate, got %d cells", s.Cells())
	}
}

func TestNoFingertipIsIdle(t *testing.T) {
	s := armedSession(t, DefaultCalibration())
	next, events := Step(s, Input{Raster: everywhere})
	if len(events) != 0 || next.Frames() != s.Frames() || next.Cells() != 0 {
		t.Fatalf("frame without fingertip must not change state")
	}
}

func TestSameCellCountsOnce(t *testing.T) {
	s := armedSession(t, DefaultCalibration())
	s, first := Step(s, Input{Raster: everywhere, Fingertip: Point{X: 100, Y: 100}, HasFingertip: true})
	s, second := Step(s, Input{Raster: everywhere, Fingertip: Point{X: 101, Y: 103}, HasFingertip: true})
	if s.Cells() != 1 {
		t.Fatalf("expected 1 cell, got %d", s.Cells())
	}
	if len(first) != 1 || first[0].Cell != (Cell{X: 12, Y: 12}) {
		t.Fatalf("expected coverage of cell (12,12), got %v", first)
	}
	if first[0].Point != (Point{X: 100, Y: 100}) {
		t.Fatalf("coverage event must carry the unquantized point, got %v", first[0].Point)
	}
	if len(second) != 0 {
		t.Fatalf("revisit must not emit events, got %v", second)
	}
	for i := 0; i < 10; i++ {
		s, _ = Step(s, Input{Raster: everywhere, Fingertip: Point{X: 100, Y: 100}, HasFingertip: true})
	}
	if s.Cells() != 1 {
		t.Fatalf("repeated point must count once, got %d", s.Cells())
	}
}

func TestOffPathIgnored(t *testing.T) {
	s := armedSession(t, DefaultCalibration())
	nowhere := RasterFunc(func(int, int) bool { return false })
	s, events := Step(s, Input{Raster: nowhere, Fingertip: Point{X: 10, Y: 10}, HasFingertip: true})
	if len(events) != 0 || s.Cells() != 0 {
		t.Fatalf("off-path sample must not record coverage")
	}
	s, events = Step(s, Input{Raster: everywhere, Fingertip: Point{X: -40, Y: 5000}, HasFingertip: true})
	if len(events) != 0 || s.Cells() != 0 {
		t.Fatalf("out-of-bounds sample must be off-path")
	}
}

func TestProgressScenario(t *testing.T) {
	s := armedSession(t, DefaultCalibration())
	s, events := visitCells(s, 40, 100)
	if got := s.Progress(); got != 50 {
		t.Fatalf("expected 50%% after 40 cells, got %v", got)
	}
	for _, e := range events {
		if e.Kind == EventComplete {
			t.Fatalf("unexpected completion at %v", e.Progress)
		}
	}
	s, events = visitCells(s, 36, 200)
	if got := s.Progress(); got != 95 {
		t.Fatalf("expected 95%% after 76 cells, got %v", got)
	}
	if s.State() != Complete {
		t.Fatalf("expected complete state, got %v", s.State())
	}
	last := events[len(events)-1]
	if last.Kind != EventComplete || last.Glyph != 'A' {
		t.Fatalf("expected completion event last, got %+v", last)
	}
}

func TestCompletionFiresOnce(t *testing.T) {
	s := armedSession(t, DefaultCalibration())
	s, events := visitCells(s, 76, 100)
	completions := countKind(events, EventComplete)
	s, more := visitCells(s, 60, 300)
	completions += countKind(more, EventComplete)
	if completions != 1 {
		t.Fatalf("expected exactly one completion, got %d", completions)
	}
	if !s.Celebrating() {
		t.Fatalf("expected celebrating flag")
	}
	if got := s.Progress(); got != 100 {
		t.Fatalf("progress must clip at 100, got %v", got)
	}
	if s.Cells() <= s.Calibration().TargetCells {
		t.Fatalf("expected more cells than target, got %d", s.Cells())
	}
}

func TestMonotonicAndValueSemantics(t *testing.T) {
	s := armedSession(t, DefaultCalibration())
	prevCells, prevProgress := 0, 0.0
	history := []Session{s}
	for i := 0; i < 300; i++ {
		x := float64((i * 37) % 400)
		y := float64((i * 11) % 120)
		s, _ = Step(s, Input{Raster: everywhere, Fingertip: Point{X: x, Y: y}, HasFingertip: true})
		if s.Cells() < prevCells || s.Progress() < prevProgress {
			t.Fatalf("coverage decreased at step %d", i)
		}
		prevCells, prevProgress = s.Cells(), s.Progress()
		history = append(history, s)
	}
	if history[0].Cells() != 0 {
		t.Fatalf("earlier session value was mutated: %d cells", history[0].Cells())
	}
}

func TestNewSessionResets(t *testing.T) {
	cal := DefaultCalibration()
	s := armedSession(t, cal)
	s, _ = visitCells(s, 80, 100)
	next := NewSession(cal, 'B', 1, s.Anchor(), time.Unix(10, 0))
	if next.Cells() != 0 || next.Progress() != 0 || next.State() != NotStarted || next.Celebrating() {
		t.Fatalf("new session must start empty")
	}
	if next.Glyph() != 'B' || next.Index() != 1 {
		t.Fatalf("unexpected glyph %q index %d", next.Glyph(), next.Index())
	}
}

func TestCalibrationProgressClips(t *testing.T) {
	cal := DefaultCalibration()
	if got := cal.Progress(0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := cal.Progress(800); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
	cal.TargetCells = 0
	if got := cal.Progress(10); got != 0 {
		t.Fatalf("expected 0 for zero target, got %v", got)
	}
}

func TestCalibrationValidate(t *testing.T) {
	if err := DefaultCalibration().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	bad := DefaultCalibration()
	bad.CellSize = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for zero cell size")
	}
	bad = DefaultCalibration()
	bad.CompleteAt = 120
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for threshold above 100")
	}
}

func TestCellOfFloorsNegative(t *testing.T) {
	cal := DefaultCalibration()
	if got := cal.CellOf(Point{X: -1, Y: 7.9}); got != (Cell{X: -1, Y: 0}) {
		t.Fatalf("unexpected cell %v", got)
	}
}

func countKind(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
