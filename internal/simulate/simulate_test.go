package simulate_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BPM-Research-Group/ebpmn/internal/bpmnxml"
	"github.com/BPM-Research-Group/ebpmn/internal/infrastructure/logging"
	"github.com/BPM-Research-Group/ebpmn/internal/semantics"
	"github.com/BPM-Research-Group/ebpmn/internal/simulate"
	bpmnerrors "github.com/BPM-Research-Group/ebpmn/pkg/errors"
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

func newRunner(t *testing.T) (*simulate.Runner, *semantics.Engine) {
	t.Helper()
	m, err := bpmnxml.NewImporter(logging.NewNoOpLogger()).ImportString(context.Background(), doc)
	require.NoError(t, err)
	engine := semantics.New(m)
	return simulate.NewRunner(engine, logging.NewNoOpLogger()), engine
}

func TestParseScenario(t *testing.T) {
	t.Parallel()

	scenario, err := simulate.ParseScenario(strings.NewReader(`
name: happy path
steps:
  - transition: 0
  - activity: register
  - transition: 2
`))
	require.NoError(t, err)
	require.Equal(t, "happy path", scenario.Name)
	require.Len(t, scenario.Steps, 3)
	require.Equal(t, "register", scenario.Steps[1].Activity)
}

func TestParseScenarioRejectsEmptySteps(t *testing.T) {
	t.Parallel()

	_, err := simulate.ParseScenario(strings.NewReader("steps: []\n"))
	var parseErr *bpmnerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseScenarioRejectsAmbiguousStep(t *testing.T) {
	t.Parallel()

	_, err := simulate.ParseScenario(strings.NewReader(`
steps:
  - transition: 1
    activity: register
`))
	var parseErr *bpmnerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Contains(t, err.Error(), "cannot name both")
}

func TestRunFiresByIndexAndActivity(t *testing.T) {
	t.Parallel()

	runner, engine := newRunner(t)
	scenario, err := simulate.ParseScenario(strings.NewReader(`
steps:
  - transition: 0
  - activity: register
  - transition: 2
`))
	require.NoError(t, err)

	fired, marking, err := runner.Run(context.Background(), scenario)
	require.NoError(t, err)
	require.Len(t, fired, 3)
	require.Equal(t, "register", fired[1].Activity)
	require.Contains(t, fired[0].Debug, "start event")
	require.True(t, engine.IsFinal(marking))
}

func TestRunFailsOnDisabledStep(t *testing.T) {
	t.Parallel()

	runner, _ := newRunner(t)
	scenario, err := simulate.ParseScenario(strings.NewReader(`
steps:
  - transition: 2
`))
	require.NoError(t, err)

	fired, _, err := runner.Run(context.Background(), scenario)
	require.Error(t, err)
	require.Empty(t, fired)

	var semErr *bpmnerrors.SemanticError
	require.ErrorAs(t, err, &semErr)
}

func TestRunFailsOnUnknownActivity(t *testing.T) {
	t.Parallel()

	runner, _ := newRunner(t)
	scenario, err := simulate.ParseScenario(strings.NewReader(`
steps:
  - activity: archive
`))
	require.NoError(t, err)

	_, _, err = runner.Run(context.Background(), scenario)
	require.ErrorContains(t, err, "archive")
}
