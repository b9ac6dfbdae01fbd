package model

import (
	"fmt"

	"github.com/BPM-Research-Group/ebpmn/internal/activity"
)

// Model is a structurally validated BPMN collaboration: the top-level element
// forest (pools and collapsed pools), the collaboration-scoped message flows,
// and the activity key the tasks were interned against.
type Model struct {
	Key *activity.Key

	DefinitionsIndex GlobalIndex
	DefinitionsID    string

	// CollaborationIndex is -1 when the document has no collaboration.
	CollaborationIndex GlobalIndex
	CollaborationID    string

	Participants []Participant

	Elements     []Element
	MessageFlows []MessageFlow
}

// NumberOfElements counts all elements recursively.
func (m *Model) NumberOfElements() int {
	return len(AllElements(m.Elements))
}

// AllElements returns every element of the model, recursively.
func (m *Model) AllElements() []Element {
	return AllElements(m.Elements)
}

// ElementByGlobalIndex finds the element with the given global index.
func (m *Model) ElementByGlobalIndex(index GlobalIndex) Element {
	return ElementByGlobalIndex(m.Elements, index)
}

// MessageFlowSource returns the element a message flow originates from.
func (m *Model) MessageFlowSource(flowIndex int) (Element, error) {
	if flowIndex < 0 || flowIndex >= len(m.MessageFlows) {
		return nil, fmt.Errorf("message flow of index %d not found", flowIndex)
	}
	flow := m.MessageFlows[flowIndex]
	source := m.ElementByGlobalIndex(flow.SourceElementIndex)
	if source == nil {
		return nil, fmt.Errorf("the source of message flow `%s` was not found", flow.ID)
	}
	return source, nil
}

// MessageFlowFromCollapsedPool reports whether the message on the given flow
// is always available: messages emitted by a collapsed pool are treated as
// present at all times.
func (m *Model) MessageFlowFromCollapsedPool(flowIndex int) bool {
	if flowIndex < 0 || flowIndex >= len(m.MessageFlows) {
		return false
	}
	pool := m.MessageFlows[flowIndex].SourcePoolIndex
	if pool < 0 || pool >= len(m.Elements) {
		return false
	}
	return m.Elements[pool].Kind() == KindCollapsedPool
}

// ElementID returns the id behind a global index, or "" when unknown.
func (m *Model) ElementID(index GlobalIndex) string {
	if el := m.ElementByGlobalIndex(index); el != nil {
		return el.ID()
	}
	return ""
}

// TranslateActivityKey rewrites every task and collapsed sub-process activity
// against the target key, then adopts it. This is the only mutation a built
// model supports; it must not be interleaved with semantics queries.
func (m *Model) TranslateActivityKey(target *activity.Key) {
	translator := activity.NewTranslator(m.Key, target)
	for _, el := range m.AllElements() {
		switch t := el.(type) {
		case *Task:
			t.Activity = translator.Translate(t.Activity)
		case *CollapsedSubProcess:
			t.Activity = translator.Translate(t.Activity)
		}
	}
	m.Key = target
}
