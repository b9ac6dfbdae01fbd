package semantics_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageStartEventFromCollapsedPoolIsUnconstrained(t *testing.T) {
	t.Parallel()

	doc := header + `
	<collaboration id="collab">
		<participant id="customer" name="Customer"/>
		<participant id="part" processRef="p1"/>
		<messageFlow id="mf" sourceRef="customer" targetRef="ms"/>
	</collaboration>
	<process id="p1">
		<startEvent id="ms">
			<messageEventDefinition id="med"/>
		</startEvent>
		<task id="work" name="handle"/>
		<endEvent id="end"/>
		<sequenceFlow id="f1" sourceRef="ms" targetRef="work"/>
		<sequenceFlow id="f2" sourceRef="work" targetRef="end"/>
	</process>
</definitions>`

	engine := mustImport(t, doc)
	marking, err := engine.InitialState()
	require.NoError(t, err)

	// the collapsed pool's message is always available, so the start event
	// behaves like a plain one and the pool is in choice mode
	require.True(t, marking.RootChoiceToken)
	require.Len(t, engine.EnabledTransitions(marking), 1)

	require.NoError(t, engine.Fire(marking, engine.EnabledTransitions(marking)[0]))
	require.False(t, marking.RootChoiceToken)
	// no message token was consumed
	require.Equal(t, uint64(0), marking.MessageFlowTokens[0])
}

func TestMessageStartEventWaitsForNormalPool(t *testing.T) {
	t.Parallel()

	doc := header + `
	<collaboration id="collab">
		<participant id="part1" processRef="p1"/>
		<participant id="part2" processRef="p2"/>
		<messageFlow id="mf" sourceRef="notify" targetRef="ms"/>
	</collaboration>
	<process id="p1">
		<startEvent id="start"/>
		<endEvent id="notify">
			<messageEventDefinition id="med1"/>
		</endEvent>
		<sequenceFlow id="f1" sourceRef="start" targetRef="notify"/>
	</process>
	<process id="p2">
		<startEvent id="ms">
			<messageEventDefinition id="med2"/>
		</startEvent>
		<task id="work" name="handle"/>
		<endEvent id="end"/>
		<sequenceFlow id="g1" sourceRef="ms" targetRef="work"/>
		<sequenceFlow id="g2" sourceRef="work" targetRef="end"/>
	</process>
</definitions>`

	engine := mustImport(t, doc)
	marking, err := engine.InitialState()
	require.NoError(t, err)

	// p1 is in choice mode; p2's message start event is armed by the message
	// token alone
	require.True(t, marking.RootChoiceToken)
	require.Equal(t, []int{0}, engine.EnabledTransitions(marking))

	require.NoError(t, engine.Fire(marking, 0))
	// the message end event emits the message token
	require.NoError(t, engine.Fire(marking, engine.EnabledTransitions(marking)[0]))
	require.Equal(t, uint64(1), marking.MessageFlowTokens[0])

	// now the second pool wakes up
	enabled := engine.EnabledTransitions(marking)
	require.Len(t, enabled, 1)
	require.NoError(t, engine.Fire(marking, enabled[0]))
	require.Equal(t, uint64(0), marking.MessageFlowTokens[0])

	// and runs to completion
	for !engine.IsFinal(marking) {
		require.NoError(t, engine.Fire(marking, engine.EnabledTransitions(marking)[0]))
	}
}

func TestReceiveTaskGuardAgainstCollapsedPool(t *testing.T) {
	t.Parallel()

	doc := header + `
	<collaboration id="collab">
		<participant id="clock" name="Clock"/>
		<participant id="part" processRef="p1"/>
		<messageFlow id="mf" sourceRef="clock" targetRef="wait"/>
	</collaboration>
	<process id="p1">
		<startEvent id="start"/>
		<task id="wait" name="wait for tick"/>
		<endEvent id="end"/>
		<sequenceFlow id="f1" sourceRef="start" targetRef="wait"/>
		<sequenceFlow id="f2" sourceRef="wait" targetRef="end"/>
	</process>
</definitions>`

	engine := mustImport(t, doc)
	marking, err := engine.InitialState()
	require.NoError(t, err)

	require.NoError(t, engine.Fire(marking, 0))
	// the guard is satisfied without a token: the source pool is collapsed
	require.Len(t, engine.EnabledTransitions(marking), 1)
	require.NoError(t, engine.Fire(marking, engine.EnabledTransitions(marking)[0]))
	require.Equal(t, uint64(0), marking.MessageFlowTokens[0])
}
