package review

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsnap/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docsnap/internal/core/domain"
)

func mismatch() *domain.ComparisonResult {
	r := domain.NewComparedResult("snaps/report.snap", "{\n  \"tag\": \"new\"\n}\n", "{\n  \"tag\": \"old\"\n}\n")
	r.Diff = "--- snaps/report.snap (baseline)\n+++ snaps/report.snap (current)\n@@ -1,3 +1,3 @@\n {\n-  \"tag\": \"old\"\n+  \"tag\": \"new\"\n }\n"
	return r
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func sized(t *testing.T) *Model {
	t.Helper()
	m := New(mismatch(), styles.PlainStyles())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, ok := updated.(*Model)
	require.True(t, ok)
	return model
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "none", DecisionNone.String())
	assert.Equal(t, "accept", DecisionAccept.String())
	assert.Equal(t, "reject", DecisionReject.String())
}

func TestNew_NilStyles(t *testing.T) {
	m := New(mismatch(), nil)

	require.NotNil(t, m)
	assert.Nil(t, m.Init())
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_ViewShowsDiff(t *testing.T) {
	m := sized(t)

	view := m.View()

	assert.Contains(t, view, "Review snaps/report.snap")
	assert.Contains(t, view, domain.MessageMismatched)
	assert.Contains(t, view, `-  "tag": "old"`)
	assert.Contains(t, view, `+  "tag": "new"`)
	assert.Contains(t, view, "accept")
}

func TestModel_ToggleShowsContent(t *testing.T) {
	m := sized(t)

	_, cmd := m.Update(keyPress("tab"))

	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "showing current content")
	assert.NotContains(t, m.View(), "@@")
}

func TestModel_Decisions(t *testing.T) {
	tests := []struct {
		key  string
		want Decision
	}{
		{"a", DecisionAccept},
		{"y", DecisionAccept},
		{"r", DecisionReject},
		{"n", DecisionReject},
		{"q", DecisionNone},
		{"esc", DecisionNone},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := sized(t)

			_, cmd := m.Update(keyPress(tt.key))

			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
			assert.Equal(t, tt.want, m.Decision())
		})
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m := sized(t)
	before := m.viewport.Height

	_, _ = m.Update(keyPress("?"))

	assert.True(t, m.help.ShowAll)
	assert.Less(t, m.viewport.Height, before)
	assert.Contains(t, m.View(), "page down")
}

func TestModel_NoDiff(t *testing.T) {
	r := mismatch()
	r.Diff = ""
	m := New(r, styles.PlainStyles())
	_, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Contains(t, m.View(), "No differences.")
}
