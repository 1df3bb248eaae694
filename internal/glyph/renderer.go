package glyph

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/gogpu/gg"

	"github.com/verte-zerg/traceglyph/internal/trace"
)

// Style holds the colours and widths of the road layers.
type Style struct {
	FontSize    float64
	StrokeWidth float64
	GuideWidth  float64
	GuideDash   float64
	TraceRadius float64

	Shadow    gg.RGBA
	Hit       gg.RGBA
	Guide     gg.RGBA
	StartHalo gg.RGBA
	StartCore gg.RGBA
	Trace     gg.RGBA
	Sparkle   gg.RGBA
}

// DefaultStyle returns the golden road look.
func DefaultStyle() Style {
	return Style{
		FontSize:    450,
		StrokeWidth: 120,
		GuideWidth:  10,
		GuideDash:   20,
		TraceRadius: 45,
		Shadow:      gg.RGBA2(51.0/255, 65.0/255, 85.0/255, 0.5),
		Hit:         gg.RGB(1, 1, 1),
		Guide:       gg.RGBA2(1, 215.0/255, 0, 0.3),
		StartHalo:   gg.RGBA2(74.0/255, 222.0/255, 128.0/255, 0.4),
		StartCore:   gg.Hex("#4ade80"),
		Trace:       gg.Hex("#FFD700"),
		Sparkle:     gg.Hex("#FFD700"),
	}
}

// Layer is drawn on top of the display surface, e.g. particles.
type Layer interface {
	Draw(ctx *gg.Context) error
}

// Frame is the pair of surfaces a frame is drawn into. Display is what the
// player and the companion see; Hit holds only the road and answers hit tests.
type Frame struct {
	Display *gg.Context
	Hit     *gg.Context

	// scratch collects trace dots before they are clipped to the road.
	scratch *gg.Context
}

// NewFrame allocates the surfaces.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Display: gg.NewContext(width, height),
		Hit:     gg.NewContext(width, height),
		scratch: gg.NewContext(width, height),
	}
}

// Size returns the surface dimensions.
func (f *Frame) Size() (int, int) {
	return f.Display.Width(), f.Display.Height()
}

// Resize changes both surfaces; it is a no-op for unchanged dimensions.
func (f *Frame) Resize(width, height int) error {
	if err := f.Display.Resize(width, height); err != nil {
		return fmt.Errorf("failed to resize display: %w", err)
	}
	if err := f.Hit.Resize(width, height); err != nil {
		return fmt.Errorf("failed to resize hit surface: %w", err)
	}
	if err := f.scratch.Resize(width, height); err != nil {
		return fmt.Errorf("failed to resize scratch surface: %w", err)
	}
	return nil
}

// OnPath implements trace.Raster: a pixel is on the road when the hit
// surface has non-zero alpha there. Outside the surface is off-path.
func (f *Frame) OnPath(x, y int) bool {
	pm := f.Hit.ResizeTarget()
	if x < 0 || y < 0 || x >= pm.Width() || y >= pm.Height() {
		return false
	}
	return pm.GetPixel(x, y).A > 0
}

// Close releases the surfaces.
func (f *Frame) Close() error {
	if err := f.Display.Close(); err != nil {
		return err
	}
	if err := f.Hit.Close(); err != nil {
		return err
	}
	return f.scratch.Close()
}

// Overlay is the per-frame state drawn after the tracing step.
type Overlay struct {
	Session      trace.Session
	Fingertip    trace.Point
	HasFingertip bool
	Layers       []Layer
}

// Renderer draws glyph roads.
type Renderer struct {
	font       *Font
	style      Style
	dashOffset float64
}

// NewRenderer returns a renderer for font.
func NewRenderer(font *Font, style Style) *Renderer {
	return &Renderer{font: font, style: style}
}

// Style returns the renderer style.
func (r *Renderer) Style() Style {
	return r.style
}

// StartAnchor returns the start gate position for a surface, offset above
// the centre.
func StartAnchor(width, height int, offset float64) trace.Point {
	return trace.Point{X: float64(width) / 2, Y: float64(height)/2 - offset}
}

// DrawRoad clears the frame and draws the road for g. The shadow, dashed
// guide and start hint go to Display only; the hit stroke goes to Hit only.
func (r *Renderer) DrawRoad(f *Frame, g rune, anchor trace.Point, started bool, now time.Time) error {
	outline, err := r.font.Outline(g, r.style.FontSize)
	if err != nil {
		return err
	}
	w, h := f.Size()
	offset := trace.Point{
		X: float64(w)/2 - outline.Center().X,
		Y: float64(h)/2 - outline.Center().Y,
	}

	f.Display.Clear()
	f.Hit.Clear()

	roundStroke(f.Display, r.style.StrokeWidth, r.style.Shadow)
	if err := strokeOutline(f.Display, outline, offset); err != nil {
		return fmt.Errorf("failed to stroke shadow: %w", err)
	}

	roundStroke(f.Hit, r.style.StrokeWidth, r.style.Hit)
	if err := strokeOutline(f.Hit, outline, offset); err != nil {
		return fmt.Errorf("failed to stroke hit road: %w", err)
	}

	r.dashOffset--
	setPaint(f.Display, r.style.Guide)
	f.Display.SetStroke(roundedStroke(r.style.GuideWidth).
		WithDashPattern(r.style.GuideDash, r.style.GuideDash).
		WithDashOffset(r.dashOffset))
	if err := strokeOutline(f.Display, outline, offset); err != nil {
		return fmt.Errorf("failed to stroke guide: %w", err)
	}

	if !started {
		pulse := math.Sin(float64(now.UnixMilli())/200)*10 + 30
		setPaint(f.Display, r.style.StartHalo)
		f.Display.DrawCircle(anchor.X, anchor.Y, pulse)
		if err := f.Display.Fill(); err != nil {
			return fmt.Errorf("failed to draw start hint: %w", err)
		}
		setPaint(f.Display, r.style.StartCore)
		f.Display.DrawCircle(anchor.X, anchor.Y, 15)
		if err := f.Display.Fill(); err != nil {
			return fmt.Errorf("failed to draw start hint: %w", err)
		}
	}
	return nil
}

// DrawOverlay draws covered cells clipped to the road, the fingertip
// sparkle and any extra layers.
func (r *Renderer) DrawOverlay(f *Frame, o Overlay) error {
	if o.Session.Cells() > 0 {
		if err := r.drawTrace(f, o.Session); err != nil {
			return fmt.Errorf("failed to draw trace: %w", err)
		}
	}

	if o.HasFingertip {
		glow := r.style.Sparkle
		glow.A = 0.35
		setPaint(f.Display, glow)
		f.Display.DrawCircle(o.Fingertip.X, o.Fingertip.Y, 25)
		if err := f.Display.Fill(); err != nil {
			return fmt.Errorf("failed to draw sparkle: %w", err)
		}
		setPaint(f.Display, r.style.Sparkle)
		f.Display.DrawCircle(o.Fingertip.X, o.Fingertip.Y, 15)
		if err := f.Display.Fill(); err != nil {
			return fmt.Errorf("failed to draw sparkle: %w", err)
		}
	}

	for _, layer := range o.Layers {
		if err := layer.Draw(f.Display); err != nil {
			return err
		}
	}
	return nil
}

// drawTrace paints a dot per covered cell and keeps only the parts that
// fall on the road, like a source-atop composite over the hit surface.
func (r *Renderer) drawTrace(f *Frame, s trace.Session) error {
	size := float64(s.Calibration().CellSize)
	rad := r.style.TraceRadius
	w, h := f.Size()
	x0, y0, x1, y1 := w, h, 0, 0

	f.scratch.Clear()
	setPaint(f.scratch, r.style.Trace)
	s.EachCell(func(c trace.Cell) {
		cx, cy := (float64(c.X)+0.5)*size, (float64(c.Y)+0.5)*size
		f.scratch.DrawCircle(cx, cy, rad)
		x0 = min(x0, int(math.Floor(cx-rad)))
		y0 = min(y0, int(math.Floor(cy-rad)))
		x1 = max(x1, int(math.Ceil(cx+rad)))
		y1 = max(y1, int(math.Ceil(cy+rad)))
	})
	if err := f.scratch.Fill(); err != nil {
		return err
	}

	src, hit, dst := f.scratch.ResizeTarget(), f.Hit.ResizeTarget(), f.Display.ResizeTarget()
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, w-1), min(y1, h-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if hit.GetPixel(x, y).A == 0 {
				continue
			}
			p := src.GetPixel(x, y)
			if p.A == 0 {
				continue
			}
			dst.SetPixel(x, y, over(p, dst.GetPixel(x, y)))
		}
	}
	return nil
}

// over composites src onto dst (non-premultiplied).
func over(src, dst gg.RGBA) gg.RGBA {
	a := src.A + dst.A*(1-src.A)
	if a == 0 {
		return gg.RGBA{}
	}
	blend := func(s, d float64) float64 {
		return (s*src.A + d*dst.A*(1-src.A)) / a
	}
	return gg.RGBA{R: blend(src.R, dst.R), G: blend(src.G, dst.G), B: blend(src.B, dst.B), A: a}
}

func roundStroke(ctx *gg.Context, width float64, c gg.RGBA) {
	setPaint(ctx, c)
	ctx.SetStroke(roundedStroke(width))
}

func roundedStroke(width float64) gg.Stroke {
	return gg.DefaultStroke().WithWidth(width).WithCap(gg.LineCapRound).WithJoin(gg.LineJoinRound)
}

func setPaint(ctx *gg.Context, c gg.RGBA) {
	ctx.SetRGBA(c.R, c.G, c.B, c.A)
}

func strokeOutline(ctx *gg.Context, o Outline, offset trace.Point) error {
	open := false
	for _, seg := range o.Segments {
		p := seg.Pts
		switch seg.Op {
		case OpMoveTo:
			if open {
				ctx.ClosePath()
			}
			ctx.MoveTo(p[0].X+offset.X, p[0].Y+offset.Y)
			open = true
		case OpLineTo:
			ctx.LineTo(p[0].X+offset.X, p[0].Y+offset.Y)
		case OpQuadTo:
			ctx.QuadraticTo(p[0].X+offset.X, p[0].Y+offset.Y, p[1].X+offset.X, p[1].Y+offset.Y)
		case OpCubicTo:
			ctx.CubicTo(p[0].X+offset.X, p[0].Y+offset.Y, p[1].X+offset.X, p[1].Y+offset.Y, p[2].X+offset.X, p[2].Y+offset.Y)
		}
	}
	if open {
		ctx.ClosePath()
	}
	return ctx.Stroke()
}

// Canvas binds a renderer to the frame it draws into.
type Canvas struct {
	Renderer *Renderer
	Frame    *Frame
}

// NewCanvas returns a canvas drawing with r into f.
func NewCanvas(r *Renderer, f *Frame) *Canvas {
	return &Canvas{Renderer: r, Frame: f}
}

// Size returns the frame dimensions.
func (c *Canvas) Size() (int, int) { return c.Frame.Size() }

// OnPath implements trace.Raster.
func (c *Canvas) OnPath(x, y int) bool { return c.Frame.OnPath(x, y) }

// DrawRoad draws the road for g.
func (c *Canvas) DrawRoad(g rune, anchor trace.Point, started bool, now time.Time) error {
	return c.Renderer.DrawRoad(c.Frame, g, anchor, started, now)
}

// DrawOverlay draws the per-frame overlay.
func (c *Canvas) DrawOverlay(o Overlay) error {
	return c.Renderer.DrawOverlay(c.Frame, o)
}

// DrawLayers clears both surfaces and draws only layers, as during the finale.
func (c *Canvas) DrawLayers(layers []Layer) error {
	c.Frame.Display.Clear()
	c.Frame.Hit.Clear()
	for _, layer := range layers {
		if err := layer.Draw(c.Frame.Display); err != nil {
			return err
		}
	}
	return nil
}

// Image returns a copy of the display surface.
func (c *Canvas) Image() image.Image {
	return c.Frame.Display.Image()
}
