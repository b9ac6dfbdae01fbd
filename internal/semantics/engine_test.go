package semantics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BPM-Research-Group/ebpmn/internal/activity"
	bpmnerrors "github.com/BPM-Research-Group/ebpmn/pkg/errors"
)

func TestFireInvalidIndexLeavesMarkingUntouched(t *testing.T) {
	t.Parallel()

	engine := mustImport(t, twoElementProcess)
	marking, err := engine.InitialState()
	require.NoError(t, err)
	snapshot := marking.Clone()

	err = engine.Fire(marking, 99)
	var semErr *bpmnerrors.SemanticError
	require.ErrorAs(t, err, &semErr)
	require.Equal(t, snapshot, marking)

	// index exists but is not enabled
	err = engine.Fire(marking, 1)
	require.ErrorAs(t, err, &semErr)
	require.Equal(t, snapshot, marking)
}

func TestEnabledTransitionsStayInRange(t *testing.T) {
	t.Parallel()

	engine := mustImport(t, twoElementProcess)
	marking, err := engine.InitialState()
	require.NoError(t, err)

	for !engine.IsFinal(marking) {
		n := engine.NumberOfTransitions(marking)
		enabled := engine.EnabledTransitions(marking)
		for _, tr := range enabled {
			require.GreaterOrEqual(t, tr, 0)
			require.Less(t, tr, n)
		}
		require.Equal(t, engine.IsFinal(marking), len(enabled) == 0)
		require.NoError(t, engine.Fire(marking, enabled[0]))
	}
}

func TestTransitionProjections(t *testing.T) {
	t.Parallel()

	engine := mustImport(t, twoElementProcess)
	marking, err := engine.InitialState()
	require.NoError(t, err)

	debug, ok := engine.TransitionDebug(marking, 0)
	require.True(t, ok)
	require.Contains(t, debug, "start event `start`")

	debug, ok = engine.TransitionDebug(marking, 1)
	require.True(t, ok)
	require.Contains(t, debug, "task `work`")

	_, ok = engine.TransitionDebug(marking, 3)
	require.False(t, ok)

	// only the task transition carries an activity
	_, ok = engine.TransitionActivity(marking, 0)
	require.False(t, ok)

	act, ok := engine.TransitionActivity(marking, 1)
	require.True(t, ok)
	require.Equal(t, "register", engine.Model().Key.Label(act))

	_, ok = engine.TransitionActivity(marking, 2)
	require.False(t, ok)
}

func TestSubProcessDebugProjection(t *testing.T) {
	t.Parallel()

	doc := header + `
	<process id="p1">
		<startEvent id="start"/>
		<subProcess id="sp" name="review">
			<startEvent id="s1"/>
			<task id="inner" name="inspect"/>
			<endEvent id="innerEnd"/>
			<sequenceFlow id="g1" sourceRef="s1" targetRef="inner"/>
			<sequenceFlow id="g2" sourceRef="inner" targetRef="innerEnd"/>
		</subProcess>
		<endEvent id="end"/>
		<sequenceFlow id="f1" sourceRef="start" targetRef="sp"/>
		<sequenceFlow id="f2" sourceRef="sp" targetRef="end"/>
	</process>
</definitions>`

	engine := mustImport(t, doc)
	marking, err := engine.InitialState()
	require.NoError(t, err)

	debug, ok := engine.TransitionDebug(marking, 1)
	require.True(t, ok)
	require.Contains(t, debug, "start internal transition")

	require.NoError(t, engine.Fire(marking, 0))
	require.NoError(t, engine.Fire(marking, 1))

	// layout now: start(0) sp-start(1) inst-end(2) s1(3) inner(4) innerEnd(5) end(6)
	debug, ok = engine.TransitionDebug(marking, 2)
	require.True(t, ok)
	require.Contains(t, debug, "instantiation 0, end transition")

	act, ok := engine.TransitionActivity(marking, 4)
	require.True(t, ok)
	require.Equal(t, "inspect", engine.Model().Key.Label(act))
}

func TestActivityTranslationPreservesSemantics(t *testing.T) {
	t.Parallel()

	engine := mustImport(t, twoElementProcess)
	marking, err := engine.InitialState()
	require.NoError(t, err)
	before := engine.EnabledTransitions(marking)

	target := activity.NewKey()
	target.Intern("unrelated")
	engine.Model().TranslateActivityKey(target)

	require.Equal(t, before, engine.EnabledTransitions(marking))
	act, ok := engine.TransitionActivity(marking, 1)
	require.True(t, ok)
	require.Equal(t, "register", engine.Model().Key.Label(act))
}

func TestEventBasedGatewayDefersTheChoice(t *testing.T) {
	t.Parallel()

	doc := header + `
	<collaboration id="collab">
		<participant id="clock" name="Clock"/>
		<participant id="part" processRef="p1"/>
		<messageFlow id="mf" sourceRef="clock" targetRef="msg"/>
	</collaboration>
	<process id="p1">
		<startEvent id="start"/>
		<eventBasedGateway id="gw"/>
		<intermediateCatchEvent id="msg">
			<messageEventDefinition id="med"/>
		</intermediateCatchEvent>
		<intermediateCatchEvent id="tim">
			<timerEventDefinition id="td"/>
		</intermediateCatchEvent>
		<endEvent id="end"/>
		<sequenceFlow id="f1" sourceRef="start" targetRef="gw"/>
		<sequenceFlow id="f2" sourceRef="gw" targetRef="msg"/>
		<sequenceFlow id="f3" sourceRef="gw" targetRef="tim"/>
		<sequenceFlow id="f4" sourceRef="msg" targetRef="end"/>
		<sequenceFlow id="f5" sourceRef="tim" targetRef="end"/>
	</process>
</definitions>`

	engine := mustImport(t, doc)
	marking, err := engine.InitialState()
	require.NoError(t, err)

	// layout: start(0) gw(1) msg(2) tim(3) end(4,5)
	require.NoError(t, engine.Fire(marking, 0))
	require.NoError(t, engine.Fire(marking, 1))

	// both alternatives hold a token while the choice is pending
	require.Equal(t, []int{2, 3}, engine.EnabledTransitions(marking))

	// firing one alternative withdraws the sibling token of the deferred
	// choice
	require.NoError(t, engine.Fire(marking, 3))
	require.Equal(t, []int{5}, engine.EnabledTransitions(marking))
	require.NoError(t, engine.Fire(marking, 5))
	require.True(t, engine.IsFinal(marking))
}

func TestNumberOfTransitionsMatchesBlockSum(t *testing.T) {
	t.Parallel()

	engine := mustImport(t, twoElementProcess)
	marking, err := engine.InitialState()
	require.NoError(t, err)

	// exhaustively walk the reachable markings, checking the layout size at
	// every step
	seenSizes := []int{}
	for !engine.IsFinal(marking) {
		seenSizes = append(seenSizes, engine.NumberOfTransitions(marking))
		require.NoError(t, engine.Fire(marking, engine.EnabledTransitions(marking)[0]))
	}
	require.Equal(t, []int{3, 3, 3}, seenSizes)
}
