// Package effects animates celebration particles on the display surface.
package effects

import (
	"math"
	"math/rand"
	"sync"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	gravity = 0.05
	decay   = 0.015
)

var (
	hot  = colorful.Color{R: 1, G: 215.0 / 255, B: 0}
	cool = colorful.Color{R: 1, G: 243.0 / 255, B: 176.0 / 255}
)

// Particle is a single spark. Velocity is in pixels per frame.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   float64
	Size   float64
}

// System owns the live particles. Burst and Emit may be called from any
// goroutine; Update and Draw run once per frame.
type System struct {
	mu        sync.Mutex
	rnd       *rand.Rand
	particles []Particle
}

// NewSystem returns an empty system seeded with seed.
func NewSystem(seed int64) *System {
	return &System{rnd: rand.New(rand.NewSource(seed))}
}

// Burst throws n particles outward from (x, y) in random directions.
func (s *System) Burst(x, y float64, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		angle := s.rnd.Float64() * 2 * math.Pi
		speed := s.rnd.Float64()*8 + 2
		s.particles = append(s.particles, Particle{
			X:    x,
			Y:    y,
			VX:   math.Cos(angle) * speed,
			VY:   math.Sin(angle) * speed,
			Life: 1,
			Size: s.rnd.Float64()*4 + 2,
		})
	}
}

// Emit drops a small trail of three slow particles at (x, y).
func (s *System) Emit(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < 3; i++ {
		s.particles = append(s.particles, Particle{
			X:    x,
			Y:    y,
			VX:   (s.rnd.Float64() - 0.5) * 2,
			VY:   (s.rnd.Float64() - 0.5) * 2,
			Life: 0.8,
			Size: s.rnd.Float64()*3 + 1,
		})
	}
}

// Update advances every particle by one frame and drops the dead ones.
func (s *System) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()
	live := s.particles[:0]
	for _, p := range s.particles {
		p.X += p.VX
		p.Y += p.VY
		p.VY += gravity
		p.Life -= decay
		if p.Life <= 0 {
			continue
		}
		live = append(live, p)
	}
	clear(s.particles[len(live):])
	s.particles = live
}

// Len returns the number of live particles.
func (s *System) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.particles)
}

// Snapshot returns a copy of the live particles.
func (s *System) Snapshot() []Particle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Particle(nil), s.particles...)
}

// Reset removes all particles.
func (s *System) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.particles = nil
}

// Draw paints the particles onto ctx. Young particles are gold and fade
// toward pale yellow as they die.
func (s *System) Draw(ctx *gg.Context) error {
	for _, p := range s.Snapshot() {
		c := hot.BlendRgb(cool, 1-p.Life).Clamped()
		ctx.SetRGBA(c.R, c.G, c.B, math.Max(0, p.Life))
		ctx.DrawCircle(p.X, p.Y, p.Size)
		if err := ctx.Fill(); err != nil {
			return err
		}
	}
	return nil
}
