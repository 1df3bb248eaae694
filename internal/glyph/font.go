// Package glyph renders target glyphs as traceable roads.
package glyph

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/verte-zerg/traceglyph/internal/trace"
)

// ErrGlyphNotFound is returned for runes the font cannot draw.
var ErrGlyphNotFound = errors.New("glyph not found in font")

// Op is a path command.
type Op int

const (
	// OpMoveTo starts a contour.
	OpMoveTo Op = iota
	// OpLineTo draws a straight segment.
	OpLineTo
	// OpQuadTo draws a quadratic Bézier (control, end).
	OpQuadTo
	// OpCubicTo draws a cubic Bézier (control 1, control 2, end).
	OpCubicTo
)

// Segment is one outline command in pixel units, y down.
type Segment struct {
	Op  Op
	Pts [3]trace.Point
}

// Outline is the vector outline of a glyph at a given size.
type Outline struct {
	Glyph    rune
	Segments []Segment
	Min      trace.Point
	Max      trace.Point
}

// Center returns the centre of the outline bounding box.
func (o Outline) Center() trace.Point {
	return trace.Point{X: (o.Min.X + o.Max.X) / 2, Y: (o.Min.Y + o.Max.Y) / 2}
}

// Empty reports whether the outline has nothing to stroke.
func (o Outline) Empty() bool {
	return len(o.Segments) == 0
}

// Font wraps a parsed sfnt font with an outline cache.
type Font struct {
	name string
	font *sfnt.Font

	mu    sync.Mutex
	buf   sfnt.Buffer
	cache map[outlineKey]Outline
}

type outlineKey struct {
	r    rune
	size float64
}

// LoadFont parses a TTF/OTF file. An empty path selects the embedded Go Bold face.
func LoadFont(path string) (*Font, error) {
	if path == "" {
		return ParseFont("Go Bold", gobold.TTF)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return ParseFont(path, data)
}

// ParseFont parses font data.
func ParseFont(name string, data []byte) (*Font, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	return &Font{name: name, font: f, cache: map[outlineKey]Outline{}}, nil
}

// Name returns the font file name or the embedded face name.
func (f *Font) Name() string {
	return f.name
}

// Has reports whether the font maps r to a real glyph.
func (f *Font) Has(r rune) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx, err := f.font.GlyphIndex(&f.buf, r)
	return err == nil && idx != 0
}

// Outline returns the outline of r at size pixels per em.
func (f *Font) Outline(r rune, size float64) (Outline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := outlineKey{r: r, size: size}
	if o, ok := f.cache[key]; ok {
		return o, nil
	}
	idx, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil {
		return Outline{}, fmt.Errorf("failed to look up %q: %w", r, err)
	}
	if idx == 0 {
		return Outline{}, fmt.Errorf("%q: %w", r, ErrGlyphNotFound)
	}
	segments, err := f.font.LoadGlyph(&f.buf, idx, fixed.Int26_6(size*64), nil)
	if err != nil {
		return Outline{}, fmt.Errorf("failed to load %q: %w", r, err)
	}

	o := Outline{Glyph: r, Segments: make([]Segment, 0, len(segments))}
	first := true
	for _, seg := range segments {
		var out Segment
		n := 1
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			out.Op = OpMoveTo
		case sfnt.SegmentOpLineTo:
			out.Op = OpLineTo
		case sfnt.SegmentOpQuadTo:
			out.Op = OpQuadTo
			n = 2
		case sfnt.SegmentOpCubeTo:
			out.Op = OpCubicTo
			n = 3
		}
		for i := 0; i < n; i++ {
			p := fromFixed(seg.Args[i])
			out.Pts[i] = p
			if first {
				o.Min, o.Max = p, p
				first = false
				continue
			}
			o.Min.X = min(o.Min.X, p.X)
			o.Min.Y = min(o.Min.Y, p.Y)
			o.Max.X = max(o.Max.X, p.X)
			o.Max.Y = max(o.Max.Y, p.Y)
		}
		o.Segments = append(o.Segments, out)
	}
	f.cache[key] = o
	return o, nil
}

// Filter splits glyphs into the ones the font can draw and the ones it cannot.
func (f *Font) Filter(glyphs []rune) (kept, missing []rune) {
	for _, r := range glyphs {
		if f.Has(r) {
			kept = append(kept, r)
		} else {
			missing = append(missing, r)
		}
	}
	return kept, missing
}

func fromFixed(p fixed.Point26_6) trace.Point {
	return trace.Point{X: float64(p.X) / 64, Y: float64(p.Y) / 64}
}
