package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BPM-Research-Group/ebpmn/internal/activity"
	bpmnerrors "github.com/BPM-Research-Group/ebpmn/pkg/errors"
)

func TestConnectSequenceFlowRegistersAdjacency(t *testing.T) {
	t.Parallel()

	key := activity.NewKey()
	elements := []Element{
		NewStartEvent("start", 0, 0),
		NewTask("work", 1, 1, key.Intern("work")),
	}
	var flows []SequenceFlow

	require.NoError(t, ConnectSequenceFlow(elements, &flows, 2, "f1", "start", "work", nil))

	require.Len(t, flows, 1)
	require.Equal(t, 0, flows[0].SourceIndex)
	require.Equal(t, 1, flows[0].TargetIndex)
	require.Equal(t, 0, flows[0].FlowIndex)
	require.Equal(t, []int{0}, elements[0].OutgoingSequenceFlows())
	require.Equal(t, []int{0}, elements[1].IncomingSequenceFlows())
}

func TestConnectSequenceFlowUnknownEndpoint(t *testing.T) {
	t.Parallel()

	elements := []Element{NewStartEvent("start", 0, 0)}
	var flows []SequenceFlow

	err := ConnectSequenceFlow(elements, &flows, 1, "f1", "start", "ghost", func(id string) string {
		if id == "ghost" {
			return "lane"
		}
		return ""
	})

	var refErr *bpmnerrors.ReferenceError
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, "ghost", refErr.Ref)
	require.Equal(t, "lane", refErr.ShadowTag)
}

func TestConnectSequenceFlowRejectsForbiddenEdge(t *testing.T) {
	t.Parallel()

	elements := []Element{
		NewEndEvent("end", 0, 0),
		NewStartEvent("start", 1, 1),
	}
	var flows []SequenceFlow

	// an end event has no outgoing edge capability
	err := ConnectSequenceFlow(elements, &flows, 2, "f1", "end", "start", nil)
	var parseErr *bpmnerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestConnectMessageFlowAcrossPools(t *testing.T) {
	t.Parallel()

	key := activity.NewKey()
	send := NewTask("send", 1, 0, key.Intern("send"))
	recv := NewTask("recv", 3, 0, key.Intern("recv"))
	topLevel := []Element{
		NewProcess("p1", 0, 0, "", []Element{send}, nil),
		NewProcess("p2", 2, 1, "", []Element{recv}, nil),
	}
	var flows []MessageFlow

	require.NoError(t, ConnectMessageFlow(topLevel, &flows, 4, "mf", "send", "recv", nil))

	require.Len(t, flows, 1)
	require.Equal(t, 0, flows[0].SourcePoolIndex)
	require.Equal(t, 1, flows[0].TargetPoolIndex)
	require.Equal(t, GlobalIndex(1), flows[0].SourceElementIndex)
	require.Equal(t, []int{0}, send.OutgoingMessageFlows())
	require.Equal(t, []int{0}, recv.IncomingMessageFlows())
}

func TestSearchOperations(t *testing.T) {
	t.Parallel()

	key := activity.NewKey()
	inner := NewTask("inner", 3, 0, key.Intern("inner"))
	sp := NewExpandedSubProcess("sp", 2, 1, "sub", []Element{inner}, []SequenceFlow{{GlobalIndex: 9, ID: "g1"}})
	start := NewStartEvent("start", 1, 0)
	p := NewProcess("p1", 0, 0, "", []Element{start, sp}, nil)
	topLevel := []Element{p}

	require.Equal(t, 4, len(AllElements(topLevel)))
	require.Same(t, Element(inner), ElementByGlobalIndex(topLevel, 3))
	require.Nil(t, ElementByGlobalIndex(topLevel, 42))

	pool, global, ok := FindPoolAndGlobalIndex(topLevel, "inner")
	require.True(t, ok)
	require.Equal(t, 0, pool)
	require.Equal(t, GlobalIndex(3), global)

	local, ok := LocalIndexByID(p.Children(), "sp")
	require.True(t, ok)
	require.Equal(t, 1, local)

	flow, parent := SequenceFlowByGlobalIndex(topLevel, 9)
	require.NotNil(t, flow)
	require.Equal(t, "g1", flow.ID)
	require.Equal(t, "sp", parent.ID())
}
