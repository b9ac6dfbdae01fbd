package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/BPM-Research-Group/ebpmn/internal/bpmnxml"
	"github.com/BPM-Research-Group/ebpmn/internal/infrastructure/logging"
	"github.com/BPM-Research-Group/ebpmn/internal/semantics"
)

const doc = `<?xml version="1.0" encoding="UTF-8"?>
<definitions id="defs" xmlns="http://www.omg.org/spec/BPMN/20100524/MODEL">
	<process id="p1">
		<startEvent id="start"/>
		<task id="work" name="register"/>
		<endEvent id="end"/>
		<sequenceFlow id="f1" sourceRef="start" targetRef="work"/>
		<sequenceFlow id="f2" sourceRef="work" targetRef="end"/>
	</process>
</definitions>`

func newExplorer(t *testing.T) Model {
	t.Helper()
	m, err := bpmnxml.NewImporter(logging.NewNoOpLogger()).ImportString(context.Background(), doc)
	require.NoError(t, err)
	explorer, err := NewModel(semantics.New(m))
	require.NoError(t, err)
	return explorer
}

func press(m Model, key string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return updated.(Model)
}

func pressEnter(m Model) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model)
}

func TestExplorerFiresThroughTheProcess(t *testing.T) {
	t.Parallel()

	m := newExplorer(t)
	require.Contains(t, m.View(), "start event `start`")

	m = pressEnter(m)
	require.Contains(t, m.View(), "task `work`")
	require.Contains(t, m.View(), "[register]")

	m = pressEnter(m)
	m = pressEnter(m)
	require.Contains(t, m.View(), "marking is final")
}

func TestExplorerResetRestoresInitialMarking(t *testing.T) {
	t.Parallel()

	m := newExplorer(t)
	m = pressEnter(m)
	m = press(m, "r")
	require.Contains(t, m.View(), "start event `start`")
	require.Contains(t, m.View(), "0 transitions fired")
}

func TestExplorerQuits(t *testing.T) {
	t.Parallel()

	m := newExplorer(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
}
