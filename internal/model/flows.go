package model

import (
	"fmt"

	bpmnerrors "github.com/BPM-Research-Group/ebpmn/pkg/errors"
)

// SequenceFlow is a directed edge between two sibling elements inside one
// container. Source and target are local indices; FlowIndex is the flow's
// dense position within the container's flow table.
type SequenceFlow struct {
	GlobalIndex GlobalIndex
	ID          string
	FlowIndex   int
	SourceIndex int
	TargetIndex int
}

// MessageFlow is a directed edge between elements in different pools. Pool
// indices are local indices of the top-level elements; element indices are
// global.
type MessageFlow struct {
	GlobalIndex        GlobalIndex
	ID                 string
	SourcePoolIndex    int
	SourceElementIndex GlobalIndex
	TargetPoolIndex    int
	TargetElementIndex GlobalIndex
}

// LocalIndexByID scans sibling elements for the given id without recursing.
func LocalIndexByID(elements []Element, id string) (int, bool) {
	for i, el := range elements {
		if el.ID() == id {
			return i, true
		}
	}
	return 0, false
}

// ConnectSequenceFlow resolves a buffered flow draft against its container's
// sibling elements: both endpoints must be siblings; the flow is appended to
// the container's flow table and registered in both adjacency lists. Variants
// that forbid the edge kind reject the call.
func ConnectSequenceFlow(elements []Element, flows *[]SequenceFlow, global GlobalIndex, id, sourceID, targetID string, shadow func(string) string) error {
	sourceIndex, ok := LocalIndexByID(elements, sourceID)
	if !ok {
		return bpmnerrors.NewReferenceError(id, sourceID, shadowTag(shadow, sourceID))
	}
	targetIndex, ok := LocalIndexByID(elements, targetID)
	if !ok {
		return bpmnerrors.NewReferenceError(id, targetID, shadowTag(shadow, targetID))
	}

	flowIndex := len(*flows)
	if err := elements[sourceIndex].AddOutgoingSequenceFlow(flowIndex); err != nil {
		return bpmnerrors.NewParseError("sequenceFlow", fmt.Sprintf("cannot attach flow `%s` to `%s`: %v", id, sourceID, err), err)
	}
	if err := elements[targetIndex].AddIncomingSequenceFlow(flowIndex); err != nil {
		return bpmnerrors.NewParseError("sequenceFlow", fmt.Sprintf("cannot attach flow `%s` to `%s`: %v", id, targetID, err), err)
	}

	*flows = append(*flows, SequenceFlow{
		GlobalIndex: global,
		ID:          id,
		FlowIndex:   flowIndex,
		SourceIndex: sourceIndex,
		TargetIndex: targetIndex,
	})
	return nil
}

// ConnectMessageFlow resolves a buffered message flow at the collaboration
// boundary: both endpoints are located across the top-level elements, and
// their pools must differ. The flow is appended and registered with both
// endpoint elements.
func ConnectMessageFlow(topLevel []Element, flows *[]MessageFlow, global GlobalIndex, id, sourceID, targetID string, shadow func(string) string) error {
	sourcePool, sourceElement, ok := FindPoolAndGlobalIndex(topLevel, sourceID)
	if !ok {
		return bpmnerrors.NewReferenceError(id, sourceID, shadowTag(shadow, sourceID))
	}
	targetPool, targetElement, ok := FindPoolAndGlobalIndex(topLevel, targetID)
	if !ok {
		return bpmnerrors.NewReferenceError(id, targetID, shadowTag(shadow, targetID))
	}

	flowIndex := len(*flows)
	source := ElementByGlobalIndex(topLevel, sourceElement)
	if err := source.AddOutgoingMessageFlow(flowIndex); err != nil {
		return bpmnerrors.NewParseError("messageFlow", fmt.Sprintf("cannot attach flow `%s` to `%s`: %v", id, sourceID, err), err)
	}
	target := ElementByGlobalIndex(topLevel, targetElement)
	if err := target.AddIncomingMessageFlow(flowIndex); err != nil {
		return bpmnerrors.NewParseError("messageFlow", fmt.Sprintf("cannot attach flow `%s` to `%s`: %v", id, targetID, err), err)
	}

	*flows = append(*flows, MessageFlow{
		GlobalIndex:        global,
		ID:                 id,
		SourcePoolIndex:    sourcePool,
		SourceElementIndex: sourceElement,
		TargetPoolIndex:    targetPool,
		TargetElementIndex: targetElement,
	})
	return nil
}

func shadowTag(shadow func(string) string, id string) string {
	if shadow == nil {
		return ""
	}
	return shadow(id)
}
