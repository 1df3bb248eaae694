// Package trace implements the per-frame trace detection and progress scoring loop.
package trace

import (
	"fmt"
	"math"
)

// Calibration holds the tunables that jointly set the difficulty of a glyph.
type Calibration struct {
	// CellSize is the edge length, in raster pixels, of one coverage cell.
	CellSize int
	// TargetCells is the number of distinct cells that count as 100% progress.
	TargetCells int
	// CompleteAt is the progress value (0-100) at which a glyph is complete.
	CompleteAt float64
	// StartRadius is the exclusive distance from the start anchor that arms tracing.
	StartRadius float64
	// StartOffset is how far above the surface centre the start anchor sits.
	StartOffset float64
}

// DefaultCalibration returns the tuned defaults: 8px cells, 80 target cells,
// completion at 95%, and a 50px start gate 150px above centre.
func DefaultCalibration() Calibration {
	return Calibration{
		CellSize:    8,
		TargetCells: 80,
		CompleteAt:  95,
		StartRadius: 50,
		StartOffset: 150,
	}
}

// Validate reports the first invalid field.
func (c Calibration) Validate() error {
	if c.CellSize <= 0 {
		return fmt.Errorf("cell size must be > 0")
	}
	if c.TargetCells <= 0 {
		return fmt.Errorf("target cells must be > 0")
	}
	if c.CompleteAt <= 0 || c.CompleteAt > 100 {
		return fmt.Errorf("completion threshold must be in (0, 100]")
	}
	if c.StartRadius <= 0 {
		return fmt.Errorf("start radius must be > 0")
	}
	return nil
}

// Progress converts a distinct cell count into a value clipped to [0, 100].
func (c Calibration) Progress(cells int) float64 {
	if c.TargetCells <= 0 || cells <= 0 {
		return 0
	}
	return math.Min(100, 100*float64(cells)/float64(c.TargetCells))
}

// CellOf quantizes a raster point onto the coverage grid.
func (c Calibration) CellOf(p Point) Cell {
	size := float64(c.CellSize)
	return Cell{
		X: int(math.Floor(p.X / size)),
		Y: int(math.Floor(p.Y / size)),
	}
}

// Armed reports whether p is strictly inside the start gate around anchor.
func (c Calibration) Armed(p, anchor Point) bool {
	return p.Dist(anchor) < c.StartRadius
}
