package effects

import (
	"testing"

	"github.com/gogpu/gg"
)

func TestBurstSpeedAndSize(t *testing.T) {
	s := NewSystem(1)
	s.Burst(100, 100, 150)
	if s.Len() != 150 {
		t.Fatalf("expected 150 particles, got %d", s.Len())
	}
	for _, p := range s.Snapshot() {
		speed := p.VX*p.VX + p.VY*p.VY
		if speed < 4-1e-9 || speed > 100+1e-9 {
			t.Fatalf("speed out of range: %f", speed)
		}
		if p.Size < 2 || p.Size >= 6 || p.Life != 1 {
			t.Fatalf("unexpected particle %+v", p)
		}
	}
}

func TestEmitTrail(t *testing.T) {
	s := NewSystem(1)
	s.Emit(10, 20)
	ps := s.Snapshot()
	if len(ps) != 3 {
		t.Fatalf("expected 3 particles, got %d", len(ps))
	}
	for _, p := range ps {
		if p.VX < -1 || p.VX > 1 || p.VY < -1 || p.VY > 1 || p.Life != 0.8 {
			t.Fatalf("unexpected particle %+v", p)
		}
	}
}

func TestUpdateAppliesGravityAndExpires(t *testing.T) {
	s := NewSystem(1)
	s.Emit(0, 0)
	before := s.Snapshot()[0]
	s.Update()
	after := s.Snapshot()[0]
	if after.VY != before.VY+gravity {
		t.Fatalf("gravity not applied: %f -> %f", before.VY, after.VY)
	}
	if after.X != before.X+before.VX {
		t.Fatalf("position not advanced")
	}
	// 0.8 life lasts 53 more frames at 0.015 per frame.
	for i := 0; i < 60; i++ {
		s.Update()
	}
	if s.Len() != 0 {
		t.Fatalf("expected particles to expire, %d left", s.Len())
	}
}

func TestSameSeedSameParticles(t *testing.T) {
	a, b := NewSystem(42), NewSystem(42)
	a.Burst(0, 0, 5)
	b.Burst(0, 0, 5)
	pa, pb := a.Snapshot(), b.Snapshot()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("particle %d differs", i)
		}
	}
}

func TestDrawPaintsParticles(t *testing.T) {
	ctx := gg.NewContext(64, 64)
	defer func() { _ = ctx.Close() }()
	s := NewSystem(1)
	s.Burst(32, 32, 1)
	if err := s.Draw(ctx); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if ctx.ResizeTarget().GetPixel(32, 32).A == 0 {
		t.Fatalf("expected particle ink at the burst origin")
	}
	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("reset left particles")
	}
}
