// Package handtrack adapts external hand-tracking output to raster coordinates.
package handtrack

import (
	"time"

	"github.com/verte-zerg/traceglyph/internal/trace"
)

// LandmarkCount is the number of landmarks per detected hand.
const LandmarkCount = 21

// IndexFingerTip is the landmark index of the index fingertip.
const IndexFingerTip = 8

// Landmark is a normalized [0,1] hand landmark.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand holds the landmarks of one detected hand.
type Hand [LandmarkCount]Landmark

// Detection is the tracker output for one video frame.
type Detection struct {
	// FrameTime is the video timestamp the detection belongs to. A repeated
	// value means the tracker has nothing new.
	FrameTime time.Duration
	Hands     []Hand
}

// Provider returns the most recent detection without blocking.
type Provider interface {
	Latest() Detection
}

// Viewport maps normalized landmarks onto a raster surface.
type Viewport struct {
	Width  int
	Height int
	// Mirror flips the horizontal axis, for selfie-style feeds. Only the
	// fingertip is flipped; the road is drawn unmirrored so the hit raster
	// and the fingertip share one coordinate space.
	Mirror bool
}

// Fingertip returns the index fingertip of the first hand in raster pixels.
func (v Viewport) Fingertip(det Detection) (trace.Point, bool) {
	if len(det.Hands) == 0 {
		return trace.Point{}, false
	}
	return v.ToRaster(det.Hands[0][IndexFingerTip]), true
}

// ToRaster maps one landmark into raster space.
func (v Viewport) ToRaster(l Landmark) trace.Point {
	nx := l.X
	if v.Mirror {
		nx = 1 - nx
	}
	return trace.Point{
		X: nx * float64(v.Width),
		Y: l.Y * float64(v.Height),
	}
}

// Center returns the surface centre.
func (v Viewport) Center() trace.Point {
	return trace.Point{X: float64(v.Width) / 2, Y: float64(v.Height) / 2}
}
