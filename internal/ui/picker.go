package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/robby/loose-end/internal/domain"
)

// ErrPickerAborted is returned when the user interrupts the picker.
var ErrPickerAborted = errors.New("project selection aborted")

// pickerItem wraps a domain.ProjectSummary for use in bubbles/list.
type pickerItem struct {
	project domain.ProjectSummary
}

func (i pickerItem) FilterValue() string {
	return i.project.Title
}

// pickerDelegate renders boards as a numbered menu. Numbering is
// 1-based and follows the API return order.
type pickerDelegate struct{}

func (d pickerDelegate) Height() int                             { return 1 }
func (d pickerDelegate) Spacing() int                            { return 0 }
func (d pickerDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d pickerDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(pickerItem)
	if !ok {
		return
	}

	line := fmt.Sprintf("%d. %s (#%d)", index+1, i.project.Title, i.project.Number)
	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("> "+line))
	} else {
		fmt.Fprint(w, NormalItemStyle.Render("  "+line))
	}
}

// PickerModel lets the user choose one board or skip linking.
type PickerModel struct {
	list list.Model

	choice  *domain.ProjectSummary
	skipped bool
	aborted bool
	done    bool
}

// NewPickerModel creates a picker over the given boards.
func NewPickerModel(projects []domain.ProjectSummary) PickerModel {
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		items[i] = pickerItem{project: p}
	}

	l := list.New(items, pickerDelegate{}, 60, len(projects)+6)
	l.Title = "Link to which project?"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = TitleStyle

	return PickerModel{list: l}
}

// Init initializes the model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses: enter selects, s or esc skips, ctrl+c
// aborts.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width - 2)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.aborted = true
			m.done = true
			return m, tea.Quit
		case "s", "esc":
			m.skipped = true
			m.done = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(pickerItem); ok {
				project := item.project
				m.choice = &project
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the menu with its skip hint.
func (m PickerModel) View() string {
	if m.done {
		return ""
	}
	return m.list.View() + HelpStyle.Render("enter: select • s/esc: skip • ctrl+c: abort")
}

// Choice returns the selected board, nil when the user skipped.
func (m PickerModel) Choice() *domain.ProjectSummary { return m.choice }

// Skipped reports whether the user chose not to link.
func (m PickerModel) Skipped() bool { return m.skipped }

// Aborted reports whether the user interrupted the picker.
func (m PickerModel) Aborted() bool { return m.aborted }

// runPicker drives the picker to completion on the terminal.
func runPicker(projects []domain.ProjectSummary) (*domain.ProjectSummary, error) {
	p := tea.NewProgram(NewPickerModel(projects))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("project picker failed: %w", err)
	}

	m, ok := final.(PickerModel)
	if !ok {
		return nil, errors.New("project picker returned unexpected model")
	}
	if m.Aborted() {
		return nil, ErrPickerAborted
	}
	return m.Choice(), nil
}
