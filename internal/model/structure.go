package model

import (
	"fmt"

	bpmnerrors "github.com/BPM-Research-Group/ebpmn/pkg/errors"
)

// VerifyStructure enforces the BPMN well-formedness the execution semantics
// relies on. It runs exactly once, at the end of import; semantics queries
// assume a verified model.
func (m *Model) VerifyStructure() error {
	for _, el := range m.Elements {
		if c, ok := el.(Container); ok {
			if err := m.verifyContainer(c); err != nil {
				return err
			}
		}
	}

	for _, flow := range m.MessageFlows {
		if flow.SourcePoolIndex == flow.TargetPoolIndex {
			return bpmnerrors.NewStructuralError(flow.ID, "message flow connects elements of the same pool")
		}
	}

	return nil
}

func (m *Model) verifyContainer(c Container) error {
	for _, child := range c.Children() {
		if sub, ok := child.(Container); ok {
			if err := m.verifyContainer(sub); err != nil {
				return err
			}
		}
		if child.Kind() == KindEventBasedGateway {
			if err := m.verifyEventBasedGateway(c, child); err != nil {
				return err
			}
		}
	}

	mode := m.ContainerInitiationMode(c)
	if !mode.Choice {
		return nil
	}

	// choice mode: the instance is born through a single start event, so the
	// container needs end events and a connected interior
	hasEnd := false
	for _, child := range c.Children() {
		if child.IsEndEvent() {
			hasEnd = true
			break
		}
	}
	if !hasEnd {
		return bpmnerrors.NewStructuralError(c.ID(), "container has start events but no end events")
	}

	for _, child := range c.Children() {
		if child.CanHaveIncomingSequenceFlows() && len(child.IncomingSequenceFlows()) == 0 {
			return bpmnerrors.NewStructuralError(child.ID(),
				fmt.Sprintf("given that `%s` has start events, this element needs an incoming sequence flow", c.ID()))
		}
		if child.CanHaveOutgoingSequenceFlows() && len(child.OutgoingSequenceFlows()) == 0 {
			return bpmnerrors.NewStructuralError(child.ID(),
				fmt.Sprintf("given that `%s` has start events, this element needs an outgoing sequence flow", c.ID()))
		}
	}
	return nil
}

// verifyEventBasedGateway checks the configuration rules of BPMN event-based
// gateways: at least two alternatives, successors restricted to message or
// timer intermediate catch events and receive tasks, no foreign inflows on
// successors, and no mixing of receive tasks with message events.
func (m *Model) verifyEventBasedGateway(c Container, gw Element) error {
	outgoing := gw.OutgoingSequenceFlows()
	if len(outgoing) < 2 {
		return bpmnerrors.NewStructuralError(gw.ID(), "an event-based gateway must have at least two outgoing sequence flows")
	}

	flows := c.SequenceFlows()
	children := c.Children()

	const (
		undecided = iota
		tasks
		events
	)
	configuration := undecided

	for _, flowIndex := range outgoing {
		if flowIndex < 0 || flowIndex >= len(flows) {
			return bpmnerrors.NewStructuralError(gw.ID(), "outgoing sequence flow does not exist")
		}
		target := children[flows[flowIndex].TargetIndex]

		if len(target.IncomingSequenceFlows()) > 1 {
			return bpmnerrors.NewStructuralError(target.ID(),
				"a successor of an event-based gateway cannot have other incoming sequence flows")
		}

		switch target.Kind() {
		case KindMessageIntermediateCatchEvent:
			if configuration == tasks {
				return bpmnerrors.NewStructuralError(gw.ID(),
					"cannot combine message intermediate catch events and receive tasks after an event-based gateway")
			}
			configuration = events

		case KindTimerIntermediateCatchEvent:
			// always allowed

		case KindTask:
			if len(target.IncomingMessageFlows()) == 0 {
				return bpmnerrors.NewStructuralError(target.ID(),
					"a task after an event-based gateway must have an incoming message flow")
			}
			if configuration == events {
				return bpmnerrors.NewStructuralError(gw.ID(),
					"cannot combine message intermediate catch events and receive tasks after an event-based gateway")
			}
			configuration = tasks

		default:
			return bpmnerrors.NewStructuralError(target.ID(),
				fmt.Sprintf("a %s is not allowed as the target of a sequence flow from an event-based gateway", target.Kind()))
		}
	}
	return nil
}
