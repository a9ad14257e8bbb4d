// Package review provides a bubbletea model that shows a snapshot mismatch
// and asks whether to accept the new content as the baseline.
package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docsnap/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docsnap/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docsnap/internal/core/domain"
)

// Decision is the reviewer's verdict.
type Decision int

// Review decisions.
const (
	// DecisionNone means the reviewer quit without deciding.
	DecisionNone Decision = iota

	// DecisionAccept means the current content should become the baseline.
	DecisionAccept

	// DecisionReject means the baseline stays as it is.
	DecisionReject
)

// String returns the string representation.
func (d Decision) String() string {
	switch d {
	case DecisionAccept:
		return "accept"
	case DecisionReject:
		return "reject"
	default:
		return "none"
	}
}

// Model is the review screen.
type Model struct {
	result *domain.ComparisonResult
	styles *styles.Styles
	keys   *keymap.KeyMap

	viewport    viewport.Model
	help        help.Model
	width       int
	height      int
	ready       bool
	showContent bool
	decision    Decision
}

// New creates a review model for a comparison result.
func New(result *domain.ComparisonResult, s *styles.Styles) *Model {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Model{
		result: result,
		styles: s,
		keys:   keymap.DefaultKeyMap(),
		help:   help.New(),
	}
}

// Run shows the review screen and blocks until the reviewer decides or
// ctx is cancelled.
func Run(ctx context.Context, result *domain.ComparisonResult, s *styles.Styles) (Decision, error) {
	p := tea.NewProgram(New(result, s), tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return DecisionNone, fmt.Errorf("review: %w", err)
	}
	m, ok := final.(*Model)
	if !ok {
		return DecisionNone, nil
	}
	return m.Decision(), nil
}

// Decision returns the verdict, DecisionNone until one is made.
func (m *Model) Decision() Decision {
	return m.decision
}

// Init initialises the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Accept):
			m.decision = DecisionAccept
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reject):
			m.decision = DecisionReject
			return m, tea.Quit
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			if m.ready {
				m.resize(m.width, m.height)
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			m.showContent = !m.showContent
			m.viewport.SetContent(m.body())
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the model.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), m.viewport.View(), m.footer())
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	bodyHeight := height - m.chromeHeight()
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(width, bodyHeight)
		m.viewport.SetContent(m.body())
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = bodyHeight
	}
	m.help.Width = width
}

func (m *Model) chromeHeight() int {
	return lipgloss.Height(m.header()) + lipgloss.Height(m.footer())
}

func (m *Model) header() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Review " + m.result.SnapshotPath))
	b.WriteString("\n")
	b.WriteString(m.styles.Outcome(m.result.Outcome).Render(m.result.Message))

	mode := "diff"
	if m.showContent {
		mode = "current content"
	}
	b.WriteString(m.styles.Muted.Render(" · showing " + mode))
	return b.String()
}

func (m *Model) footer() string {
	percent := 0.0
	if m.ready {
		percent = m.viewport.ScrollPercent() * 100
	}
	status := m.styles.StatusBar.Render(fmt.Sprintf("%3.0f%%", percent))
	return status + "\n" + m.styles.Help.Render(m.help.View(m.keys))
}

func (m *Model) body() string {
	if m.showContent {
		return m.result.Content
	}
	if m.result.Diff == "" {
		return m.styles.Muted.Render("No differences.")
	}
	return m.styles.Diff(m.result.Diff)
}
