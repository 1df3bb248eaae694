// Package tui provides the Bubble Tea game dashboard.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/traceglyph/internal/game"
	"github.com/verte-zerg/traceglyph/internal/trace"
)

// Controller is the part of game.Controller the dashboard drives.
type Controller interface {
	Tick(now time.Time) error
	View() game.View
	Restart(now time.Time)
}

type frameMsg time.Time

// Model implements the Bubble Tea dashboard. Every frame tick advances the
// controller; all game state is touched from Update only.
type Model struct {
	ctrl   Controller
	name   string
	fps    int
	logger *slog.Logger

	width  int
	height int

	bar     progress.Model
	view    game.View
	lastErr error
}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FEF3C7")).Bold(true)
	glyphStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true).Padding(1, 4).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#F59E0B"))
	amazingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24")).Bold(true).Blink(true)
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0F172A")).Background(lipgloss.Color("#F59E0B")).Bold(true)
	currentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24")).Underline(true).Bold(true)
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs the dashboard. name is the companion persona shown
// while waiting for the tracker.
func NewModel(ctrl Controller, name string, fps int, logger *slog.Logger) *Model {
	if fps <= 0 {
		fps = 30
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{
		ctrl:   ctrl,
		name:   name,
		fps:    fps,
		logger: logger,
		bar:    progress.New(progress.WithGradient("#F59E0B", "#FDE68A"), progress.WithoutPercentage()),
		view:   ctrl.View(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.nextFrame()
}

func (m *Model) nextFrame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(60, msg.Width-20))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			m.ctrl.Restart(time.Now())
			m.view = m.ctrl.View()
		}
		return m, nil
	case frameMsg:
		if err := m.ctrl.Tick(time.Time(msg)); err != nil {
			if m.lastErr == nil || m.lastErr.Error() != err.Error() {
				m.logger.Error("frame failed", "err", err)
			}
			m.lastErr = err
		} else {
			m.lastErr = nil
		}
		m.view = m.ctrl.View()
		return m, m.nextFrame()
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch {
	case !m.view.Ready:
		content = m.renderWaiting()
	case m.view.Phase == game.PhaseFinale:
		content = m.renderFinale()
	default:
		content = m.renderPlay()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderWaiting() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(fmt.Sprintf("Waking up %s...", m.name)),
		"",
		pendingStyle.Render("Make sure your camera is on!"),
	)
}

func (m *Model) renderFinale() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		amazingStyle.Render("ALPHABET MASTER!"),
		"",
		statusStyle.Render(fmt.Sprintf("%s is so proud of you!", m.name)),
		"",
		footerStyle.Render("Press r to play again"),
	)
}

func (m *Model) renderPlay() string {
	v := m.view
	lines := []string{
		titleStyle.Render("Golden Trace"),
		statusStyle.Render(statusLine(v)),
		"",
		glyphStyle.Render(string(v.Glyph)),
		"",
		m.bar.ViewAs(v.Progress / 100),
		"",
		m.renderStrip(),
	}
	if m.lastErr != nil {
		lines = append(lines, "", errorStyle.Render(m.lastErr.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func statusLine(v game.View) string {
	switch {
	case v.Phase == game.PhaseCelebrating:
		return "AMAZING!"
	case v.State == trace.NotStarted:
		return "Start at the green light!"
	default:
		return "Keep going!"
	}
}

func (m *Model) renderStrip() string {
	strip := buildStrip(m.view.Glyphs, m.view.Completed, m.view.Index)
	if m.width == 0 {
		return renderStyledRunes(strip)
	}
	return wrapStyledRunes(strip, max(1, int(float64(m.width)*0.9)))
}

func (m *Model) renderFooter() string {
	v := m.view
	if v.Total == 0 {
		return ""
	}
	segments := []string{
		fmt.Sprintf("Mastery %d%%", v.Mastery),
		fmt.Sprintf("Letter %d/%d", v.Index+1, v.Total),
		fmt.Sprintf("Trace %d%%", int(v.Progress)),
		"r restart",
		"q quit",
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
