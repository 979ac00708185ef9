package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robby/loose-end/internal/domain"
)

func pickerProjects() []domain.ProjectSummary {
	return []domain.ProjectSummary{
		{ID: "PVT_1", Title: "Roadmap", Number: 1},
		{ID: "PVT_2", Title: "Bugs", Number: 2},
		{ID: "PVT_3", Title: "Backlog", Number: 3},
	}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// step feeds one message through Update and returns the new model.
func step(t *testing.T, m PickerModel, msg tea.Msg) PickerModel {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(PickerModel)
	require.True(t, ok)
	return next
}

func TestPicker_SelectsFirstProjectByDefault(t *testing.T) {
	m := NewPickerModel(pickerProjects())

	m = step(t, m, key(tea.KeyEnter))

	require.NotNil(t, m.Choice())
	assert.Equal(t, "Roadmap", m.Choice().Title)
	assert.False(t, m.Skipped())
	assert.False(t, m.Aborted())
}

func TestPicker_NavigatesBeforeSelecting(t *testing.T) {
	m := NewPickerModel(pickerProjects())

	m = step(t, m, key(tea.KeyDown))
	m = step(t, m, key(tea.KeyDown))
	m = step(t, m, key(tea.KeyEnter))

	require.NotNil(t, m.Choice())
	assert.Equal(t, "Backlog", m.Choice().Title)
}

func TestPicker_SkipWithS(t *testing.T) {
	m := NewPickerModel(pickerProjects())

	m = step(t, m, runes('s'))

	assert.Nil(t, m.Choice())
	assert.True(t, m.Skipped())
	assert.False(t, m.Aborted())
}

func TestPicker_SkipWithEsc(t *testing.T) {
	m := NewPickerModel(pickerProjects())

	m = step(t, m, key(tea.KeyEsc))

	assert.Nil(t, m.Choice())
	assert.True(t, m.Skipped())
}

func TestPicker_AbortWithCtrlC(t *testing.T) {
	m := NewPickerModel(pickerProjects())

	m = step(t, m, key(tea.KeyCtrlC))

	assert.Nil(t, m.Choice())
	assert.True(t, m.Aborted())
}

func TestPicker_ViewShowsNumberedMenuInOrder(t *testing.T) {
	m := NewPickerModel(pickerProjects())

	view := m.View()

	// 1-based numbering in API return order.
	assert.Contains(t, view, "1. Roadmap (#1)")
	assert.Contains(t, view, "2. Bugs (#2)")
	assert.Contains(t, view, "3. Backlog (#3)")
	assert.Contains(t, view, "skip")
}
