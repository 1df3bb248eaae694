// Package game drives the per-frame tracing loop and its side effects.
package game

import (
	"context"
	"image"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/verte-zerg/traceglyph/internal/companion"
	"github.com/verte-zerg/traceglyph/internal/glyph"
	"github.com/verte-zerg/traceglyph/internal/handtrack"
	"github.com/verte-zerg/traceglyph/internal/model"
	"github.com/verte-zerg/traceglyph/internal/trace"
)

const cueTimeout = 5 * time.Second

// Canvas is the drawing surface the controller renders into and hit-tests
// against.
type Canvas interface {
	trace.Raster
	Size() (int, int)
	DrawRoad(g rune, anchor trace.Point, started bool, now time.Time) error
	DrawOverlay(o glyph.Overlay) error
	DrawLayers(layers []glyph.Layer) error
	Image() image.Image
}

// Effects spawns celebration particles.
type Effects interface {
	Burst(x, y float64, n int)
	Emit(x, y float64)
	Update()
}

// Recorder persists completed rounds.
type Recorder interface {
	RecordRound(ctx context.Context, round model.RoundStats) (int64, error)
}

// Exporter ships display snapshots to the companion. Due is checked first
// so the frame is only copied when an export will be sent.
type Exporter interface {
	Due(now time.Time) bool
	MaybeExport(now time.Time, img image.Image) bool
	Close()
}

// Readiness is implemented by providers that know whether the tracker has
// started delivering.
type Readiness interface {
	Ready() bool
}

// Phase is the controller phase shown by the dashboard.
type Phase int

const (
	// PhaseTracing runs the tracing step every frame.
	PhaseTracing Phase = iota
	// PhaseCelebrating waits for the advance deadline after a completion.
	PhaseCelebrating
	// PhaseFinale runs the closing fireworks; tracing is suspended.
	PhaseFinale
)

func (p Phase) String() string {
	switch p {
	case PhaseTracing:
		return "tracing"
	case PhaseCelebrating:
		return "celebrating"
	case PhaseFinale:
		return "finale"
	default:
		return "unknown"
	}
}

// Options configures a Controller.
type Options struct {
	SessionID    string
	Calibration  trace.Calibration
	Viewport     handtrack.Viewport
	AdvanceDelay time.Duration

	CelebrationBurst int
	FinaleBursts     int
	FinaleBurstSize  int
	FinaleInterval   time.Duration

	Seed int64
}

// DefaultOptions returns the standard pacing for a viewport.
func DefaultOptions(vp handtrack.Viewport) Options {
	return Options{
		Calibration:      trace.DefaultCalibration(),
		Viewport:         vp,
		AdvanceDelay:     2 * time.Second,
		CelebrationBurst: 150,
		FinaleBursts:     21,
		FinaleBurstSize:  50,
		FinaleInterval:   300 * time.Millisecond,
		Seed:             1,
	}
}

// Deps are the collaborators of a Controller. Effects, Companion, Exporter
// and Recorder may be nil.
type Deps struct {
	Provider  handtrack.Provider
	Canvas    Canvas
	Sequence  *glyph.Sequence
	Effects   Effects
	Layers    []glyph.Layer
	Companion companion.Companion
	Exporter  Exporter
	Recorder  Recorder
	Logger    *slog.Logger
}

// View is a snapshot of the controller for display.
type View struct {
	Phase        Phase
	Ready        bool
	Glyph        rune
	Index        int
	Total        int
	Glyphs       []rune
	State        trace.State
	Progress     float64
	Completed    []rune
	Mastery      int
	HasFingertip bool
	Fingertip    trace.Point
}

// Controller owns the tracing session of the current glyph and reacts to
// its events. Tick must be called from a single goroutine.
type Controller struct {
	opts      Options
	provider  handtrack.Provider
	canvas    Canvas
	seq       *glyph.Sequence
	effects   Effects
	layers    []glyph.Layer
	companion companion.Companion
	exporter  Exporter
	recorder  Recorder
	logger    *slog.Logger
	rnd       *rand.Rand

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	session   trace.Session
	completed []rune
	phase     Phase
	announced bool

	seenFrame    bool
	lastFrame    time.Duration
	fingertip    trace.Point
	hasFingertip bool

	advanceAt   time.Time
	finaleFired int
	nextBurst   time.Time
}

// NewController starts a controller on the first glyph of deps.Sequence.
func NewController(opts Options, deps Deps, now time.Time) *Controller {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Companion == nil {
		deps.Companion = companion.Nop{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		opts:      opts,
		provider:  deps.Provider,
		canvas:    deps.Canvas,
		seq:       deps.Sequence,
		effects:   deps.Effects,
		layers:    deps.Layers,
		companion: deps.Companion,
		exporter:  deps.Exporter,
		recorder:  deps.Recorder,
		logger:    deps.Logger,
		rnd:       rand.New(rand.NewSource(opts.Seed)),
		ctx:       ctx,
		cancel:    cancel,
	}
	c.resetSession(now)
	return c
}

// Session returns the current tracing session.
func (c *Controller) Session() trace.Session {
	return c.session
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Completed returns the glyphs completed so far, in order.
func (c *Controller) Completed() []rune {
	return append([]rune(nil), c.completed...)
}

// Mastery returns the completed share of the sequence as a whole percentage.
func (c *Controller) Mastery() int {
	if c.seq.Len() == 0 {
		return 0
	}
	return int(math.Round(100 * float64(len(c.completed)) / float64(c.seq.Len())))
}

// Ready reports whether the tracker has delivered anything yet.
func (c *Controller) Ready() bool {
	if r, ok := c.provider.(Readiness); ok {
		return r.Ready()
	}
	return c.seenFrame
}

// View returns a display snapshot.
func (c *Controller) View() View {
	glyphs := make([]rune, c.seq.Len())
	for i := range glyphs {
		glyphs[i] = c.seq.At(i)
	}
	return View{
		Phase:        c.phase,
		Ready:        c.Ready(),
		Glyph:        c.session.Glyph(),
		Index:        c.session.Index(),
		Total:        c.seq.Len(),
		Glyphs:       glyphs,
		State:        c.session.State(),
		Progress:     c.session.Progress(),
		Completed:    c.Completed(),
		Mastery:      c.Mastery(),
		HasFingertip: c.hasFingertip,
		Fingertip:    c.fingertip,
	}
}

// Tick runs one frame: deadlines first, then the tracing step for a fresh
// detection, then rendering and export.
func (c *Controller) Tick(now time.Time) error {
	if c.effects != nil {
		c.effects.Update()
	}

	if c.phase == PhaseFinale {
		c.fireworks(now)
		return c.canvas.DrawLayers(c.layers)
	}
	if c.phase == PhaseCelebrating && !now.Before(c.advanceAt) {
		c.advance(now)
		if c.phase == PhaseFinale {
			return c.canvas.DrawLayers(c.layers)
		}
	}

	det := c.provider.Latest()
	if c.seenFrame && det.FrameTime == c.lastFrame {
		return nil
	}
	c.seenFrame = true
	c.lastFrame = det.FrameTime

	if !c.announced && c.Ready() {
		c.announced = true
		c.say(companion.AnnounceCue(c.session.Glyph()))
	}

	c.fingertip, c.hasFingertip = c.opts.Viewport.Fingertip(det)

	started := c.session.State() != trace.NotStarted
	if err := c.canvas.DrawRoad(c.session.Glyph(), c.session.Anchor(), started, now); err != nil {
		return err
	}

	var events []trace.Event
	c.session, events = trace.Step(c.session, trace.Input{
		Raster:       c.canvas,
		Fingertip:    c.fingertip,
		HasFingertip: c.hasFingertip,
		Now:          now,
	})
	for _, ev := range events {
		c.dispatch(ev, now)
	}

	if err := c.canvas.DrawOverlay(glyph.Overlay{
		Session:      c.session,
		Fingertip:    c.fingertip,
		HasFingertip: c.hasFingertip,
		Layers:       c.layers,
	}); err != nil {
		return err
	}
	if c.exporter != nil && c.exporter.Due(now) {
		c.exporter.MaybeExport(now, c.canvas.Image())
	}
	return nil
}

func (c *Controller) dispatch(ev trace.Event, now time.Time) {
	switch ev.Kind {
	case trace.EventArmed:
		c.logger.Debug("start gate reached", "glyph", string(ev.Glyph))
	case trace.EventCoverage:
		if c.effects != nil {
			c.effects.Emit(ev.Point.X, ev.Point.Y)
		}
	case trace.EventComplete:
		c.celebrate(ev, now)
	}
}

func (c *Controller) celebrate(ev trace.Event, now time.Time) {
	c.logger.Info("glyph completed", "glyph", string(ev.Glyph), "progress", ev.Progress)
	if !c.isCompleted(ev.Glyph) {
		c.completed = append(c.completed, ev.Glyph)
	}
	if c.effects != nil {
		w, h := c.canvas.Size()
		c.effects.Burst(float64(w)/2, float64(h)/2, c.opts.CelebrationBurst)
	}
	c.say(companion.SuccessCue(ev.Glyph))
	c.record(c.session)
	c.phase = PhaseCelebrating
	c.advanceAt = now.Add(c.opts.AdvanceDelay)
}

func (c *Controller) advance(now time.Time) {
	if !c.seq.Advance() {
		c.startFinale(now)
		return
	}
	c.phase = PhaseTracing
	c.resetSession(now)
}

func (c *Controller) startFinale(now time.Time) {
	c.logger.Info("alphabet finished", "glyphs", c.seq.Len())
	c.phase = PhaseFinale
	c.finaleFired = 0
	c.nextBurst = now.Add(c.opts.FinaleInterval)
	c.hasFingertip = false
	c.say(companion.FinaleCue())
}

// fireworks fires every finale burst that is due by now.
func (c *Controller) fireworks(now time.Time) {
	for c.finaleFired < c.opts.FinaleBursts && !now.Before(c.nextBurst) {
		if c.effects != nil {
			w, h := c.canvas.Size()
			c.effects.Burst(c.rnd.Float64()*float64(w), c.rnd.Float64()*float64(h), c.opts.FinaleBurstSize)
		}
		c.finaleFired++
		c.nextBurst = c.nextBurst.Add(c.opts.FinaleInterval)
	}
}

// FinaleBurstsFired returns how many finale bursts have gone off.
func (c *Controller) FinaleBurstsFired() int {
	return c.finaleFired
}

// Restart leaves the finale or abandons the run and begins again at the
// first glyph.
func (c *Controller) Restart(now time.Time) {
	c.seq.Reset()
	c.completed = nil
	c.phase = PhaseTracing
	c.finaleFired = 0
	c.resetSession(now)
}

func (c *Controller) resetSession(now time.Time) {
	w, h := c.canvas.Size()
	anchor := glyph.StartAnchor(w, h, c.opts.Calibration.StartOffset)
	c.session = trace.NewSession(c.opts.Calibration, c.seq.Current(), c.seq.Index(), anchor, now)
	c.announced = false
}

func (c *Controller) isCompleted(g rune) bool {
	for _, r := range c.completed {
		if r == g {
			return true
		}
	}
	return false
}

// say sends a cue without blocking the frame loop.
func (c *Controller) say(text string) {
	if c.ctx.Err() != nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(c.ctx, cueTimeout)
		defer cancel()
		if err := c.companion.SendText(ctx, text); err != nil {
			c.logger.Debug("companion cue dropped", "err", err)
		}
	}()
}

func (c *Controller) record(s trace.Session) {
	if c.recorder == nil || c.ctx.Err() != nil {
		return
	}
	round := model.RoundStats{
		SessionID:   c.opts.SessionID,
		Index:       s.Index(),
		Glyph:       string(s.Glyph()),
		StartedAt:   s.StartedAt(),
		ArmedAt:     s.ArmedAt(),
		CompletedAt: s.CompletedAt(),
		Cells:       s.Cells(),
		Frames:      s.Frames(),
		Progress:    s.Progress(),
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if _, err := c.recorder.RecordRound(c.ctx, round); err != nil {
			c.logger.Warn("failed to record round", "glyph", round.Glyph, "err", err)
		}
	}()
}

// Close cancels in-flight dispatches and waits for them.
func (c *Controller) Close() error {
	c.cancel()
	if c.exporter != nil {
		c.exporter.Close()
	}
	c.wg.Wait()
	return c.companion.Close()
}
