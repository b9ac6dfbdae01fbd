// Package tui implements the interactive token-game explorer: it lists the
// transitions enabled in the current marking and fires the selected one.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BPM-Research-Group/ebpmn/internal/semantics"
)

// keyMap binds the explorer actions.
type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Fire  key.Binding
	Reset key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Fire:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "fire")),
	Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the explorer's bubbletea model.
type Model struct {
	engine  *semantics.Engine
	marking *semantics.Marking

	enabled []int
	cursor  int
	fired   int
	err     error
}

// NewModel builds an explorer over the model's initial marking.
func NewModel(engine *semantics.Engine) (Model, error) {
	marking, err := engine.InitialState()
	if err != nil {
		return Model{}, err
	}
	m := Model{engine: engine, marking: marking}
	m.refresh()
	return m, nil
}

func (m *Model) refresh() {
	m.enabled = m.engine.EnabledTransitions(m.marking)
	if m.cursor >= len(m.enabled) {
		m.cursor = 0
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Quit):
		return m, tea.Quit

	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.enabled)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, keys.Fire):
		if len(m.enabled) == 0 {
			break
		}
		transition := m.enabled[m.cursor]
		if err := m.engine.Fire(m.marking, transition); err != nil {
			m.err = err
			break
		}
		m.err = nil
		m.fired++
		m.refresh()

	case key.Matches(keyMsg, keys.Reset):
		marking, err := m.engine.InitialState()
		if err != nil {
			m.err = err
			break
		}
		m.err = nil
		m.marking = marking
		m.fired = 0
		m.refresh()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var out string
	out += titleStyle.Render("ebpmn explorer") + "\n"
	out += statusStyle.Render(fmt.Sprintf("%d transitions fired · %d enabled", m.fired, len(m.enabled))) + "\n\n"

	if len(m.enabled) == 0 {
		out += finalStyle.Render("marking is final — nothing is enabled") + "\n"
	}

	for i, transition := range m.enabled {
		detail, _ := m.engine.TransitionDebug(m.marking, transition)
		line := fmt.Sprintf("%3d  %s", transition, detail)
		if act, ok := m.engine.TransitionActivity(m.marking, transition); ok {
			if label := m.engine.Model().Key.Label(act); label != "" {
				line += activityStyle.Render(fmt.Sprintf("  [%s]", label))
			}
		}
		if i == m.cursor {
			out += selectedStyle.Render("> "+line) + "\n"
		} else {
			out += itemStyle.Render("  "+line) + "\n"
		}
	}

	if m.err != nil {
		out += "\n" + errorStyle.Render(m.err.Error()) + "\n"
	}

	out += "\n" + helpStyle.Render("↑/↓ move · enter fire · r reset · q quit") + "\n"
	return out
}
