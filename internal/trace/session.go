package trace

import (
	"math"
	"time"
)

// Point is a position in raster pixel space.
type Point struct {
	X float64
	Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Cell identifies one square of the coverage grid.
type Cell struct {
	X int
	Y int
}

// State is the per-glyph tracing state.
type State int

const (
	// NotStarted waits for the fingertip to reach the start anchor.
	NotStarted State = iota
	// Armed records coverage.
	Armed
	// Complete means the threshold was crossed and the celebration is in flight.
	Complete
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Armed:
		return "armed"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Raster answers hit tests against the rendered road. Points outside the
// surface must report false.
type Raster interface {
	OnPath(x, y int) bool
}

// RasterFunc adapts a plain function to Raster.
type RasterFunc func(x, y int) bool

// OnPath implements Raster.
func (f RasterFunc) OnPath(x, y int) bool { return f(x, y) }

// EventKind tells which transition produced an Event.
type EventKind int

const (
	// EventArmed fires once when the start gate is reached.
	EventArmed EventKind = iota
	// EventCoverage fires for every newly visited cell.
	EventCoverage
	// EventComplete fires once per glyph when progress crosses the threshold.
	EventComplete
)

// Event is emitted by Step for the host loop to dispatch.
type Event struct {
	Kind     EventKind
	Glyph    rune
	Point    Point // unquantized fingertip position
	Cell     Cell
	Progress float64
	At       time.Time
}

// Input is everything Step needs for one frame.
type Input struct {
	Raster       Raster
	Fingertip    Point
	HasFingertip bool
	Now          time.Time
}

// Session is the tracing state of a single glyph attempt. It is a value:
// Step returns an updated copy and never mutates the receiver's cell set.
type Session struct {
	cal    Calibration
	glyph  rune
	index  int
	anchor Point
	state  State

	visited     map[Cell]struct{}
	celebrating bool

	startedAt   time.Time
	armedAt     time.Time
	completedAt time.Time
	frames      int
}

// NewSession starts a fresh attempt at glyph g, the index-th glyph of the sequence.
func NewSession(cal Calibration, g rune, index int, anchor Point, now time.Time) Session {
	return Session{
		cal:       cal,
		glyph:     g,
		index:     index,
		anchor:    anchor,
		state:     NotStarted,
		startedAt: now,
	}
}

// Glyph returns the target glyph.
func (s Session) Glyph() rune { return s.glyph }

// Index returns the glyph position in its sequence.
func (s Session) Index() int { return s.index }

// Anchor returns the start anchor.
func (s Session) Anchor() Point { return s.anchor }

// State returns the tracing state.
func (s Session) State() State { return s.state }

// Calibration returns the calibration the session scores with.
func (s Session) Calibration() Calibration { return s.cal }

// Cells returns the number of distinct visited cells.
func (s Session) Cells() int { return len(s.visited) }

// Visited reports whether c has been covered.
func (s Session) Visited(c Cell) bool {
	_, ok := s.visited[c]
	return ok
}

// EachCell calls fn for every visited cell in unspecified order.
func (s Session) EachCell(fn func(Cell)) {
	for c := range s.visited {
		fn(c)
	}
}

// Progress returns the coverage percentage in [0, 100].
func (s Session) Progress() float64 {
	return s.cal.Progress(len(s.visited))
}

// Celebrating reports whether completion already fired for this glyph.
func (s Session) Celebrating() bool { return s.celebrating }

// StartedAt returns when the glyph became current.
func (s Session) StartedAt() time.Time { return s.startedAt }

// ArmedAt returns when the start gate was reached, or the zero time.
func (s Session) ArmedAt() time.Time { return s.armedAt }

// CompletedAt returns when completion fired, or the zero time.
func (s Session) CompletedAt() time.Time { return s.completedAt }

// Frames returns the number of frames that carried a fingertip.
func (s Session) Frames() int { return s.frames }

// Step advances the session by one frame. Without a fingertip nothing
// changes. The frame that arms the gate records no coverage.
func Step(s Session, in Input) (Session, []Event) {
	if !in.HasFingertip {
		return s, nil
	}
	s.frames++

	if s.state == NotStarted {
		if !s.cal.Armed(in.Fingertip, s.anchor) {
			return s, nil
		}
		s.state = Armed
		s.armedAt = in.Now
		return s, []Event{{
			Kind:  EventArmed,
			Glyph: s.glyph,
			Point: in.Fingertip,
			At:    in.Now,
		}}
	}

	if in.Raster == nil || !onPath(in.Raster, in.Fingertip) {
		return s, nil
	}
	cell := s.cal.CellOf(in.Fingertip)
	if s.Visited(cell) {
		return s, nil
	}
	s.visited = withCell(s.visited, cell)
	progress := s.Progress()
	events := []Event{{
		Kind:     EventCoverage,
		Glyph:    s.glyph,
		Point:    in.Fingertip,
		Cell:     cell,
		Progress: progress,
		At:       in.Now,
	}}

	if s.state == Armed && !s.celebrating && progress >= s.cal.CompleteAt {
		s.state = Complete
		s.celebrating = true
		s.completedAt = in.Now
		events = append(events, Event{
			Kind:     EventComplete,
			Glyph:    s.glyph,
			Point:    in.Fingertip,
			Cell:     cell,
			Progress: progress,
			At:       in.Now,
		})
	}
	return s, events
}

func onPath(r Raster, p Point) bool {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return false
	}
	return r.OnPath(int(math.Floor(p.X)), int(math.Floor(p.Y)))
}

// withCell returns a copy of set with c added so earlier Session values keep
// their own cell count.
func withCell(set map[Cell]struct{}, c Cell) map[Cell]struct{} {
	next := make(map[Cell]struct{}, len(set)+1)
	for k := range set {
		next[k] = struct{}{}
	}
	next[c] = struct{}{}
	return next
}
