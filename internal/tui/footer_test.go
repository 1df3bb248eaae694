package tui

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/traceglyph/internal/game"
	"github.com/verte-zerg/traceglyph/internal/trace"
)

type stubController struct {
	view     game.View
	ticks    int
	restarts int
}

func (s *stubController) Tick(time.Time) error { s.ticks++; return nil }
func (s *stubController) View() game.View      { return s.view }
func (s *stubController) Restart(time.Time)    { s.restarts++ }

func newTestModel(v game.View) (*Model, *stubController) {
	ctrl := &stubController{view: v}
	return NewModel(ctrl, "Sparky", 30, slog.New(slog.NewTextHandler(io.Discard, nil))), ctrl
}

func TestRenderFooterFormats(t *testing.T) {
	m, _ := newTestModel(game.View{Ready: true, Index: 2, Total: 26, Progress: 47.5, Mastery: 8})
	out := m.renderFooter()
	if !containsAll(out, []string{"Mastery 8%", "Letter 3/26", "Trace 47%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestViewWaitingScreen(t *testing.T) {
	m, _ := newTestModel(game.View{Total: 26})
	if !strings.Contains(m.View(), "Waking up Sparky...") {
		t.Fatalf("expected waiting screen")
	}
}

func TestViewFinale(t *testing.T) {
	m, _ := newTestModel(game.View{Ready: true, Phase: game.PhaseFinale, Total: 26, Mastery: 100})
	if !containsAll(m.View(), []string{"ALPHABET MASTER!", "Sparky is so proud of you!"}) {
		t.Fatalf("expected finale screen")
	}
}

func TestStatusLine(t *testing.T) {
	if got := statusLine(game.View{State: trace.NotStarted}); got != "Start at the green light!" {
		t.Fatalf("unexpected status %q", got)
	}
	if got := statusLine(game.View{State: trace.Armed}); got != "Keep going!" {
		t.Fatalf("unexpected status %q", got)
	}
	if got := statusLine(game.View{State: trace.Complete, Phase: game.PhaseCelebrating}); got != "AMAZING!" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestUpdateTicksAndRestarts(t *testing.T) {
	m, ctrl := newTestModel(game.View{Ready: true, Total: 1})
	_, cmd := m.Update(frameMsg(time.Unix(0, 0)))
	if ctrl.ticks != 1 || cmd == nil {
		t.Fatalf("expected a tick and the next frame command")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if ctrl.restarts != 1 {
		t.Fatalf("expected restart")
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
