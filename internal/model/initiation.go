package model

// InitiationMode describes how a process instance of a container comes into
// existence. Choice mode wins over parallel mode when modes are combined, so
// the collaboration's overall mode is the most permissive of its pools.
type InitiationMode struct {
	Choice bool
	// Starters holds the children that receive a token at instantiation in
	// parallel mode. Meaningless when Choice is set.
	Starters []Element
}

// Combine folds two modes: choice absorbs, parallel concatenates.
func (m InitiationMode) Combine(other InitiationMode) InitiationMode {
	if m.Choice || other.Choice {
		return InitiationMode{Choice: true}
	}
	return InitiationMode{Starters: append(append([]Element(nil), m.Starters...), other.Starters...)}
}

// IsUnconstrainedStartEvent reports whether el is a start event free to fire
// without an external stimulus: a plain or timer start event, or a message
// start event whose message comes from a collapsed pool (or from nowhere).
func (m *Model) IsUnconstrainedStartEvent(el Element) bool {
	switch el.Kind() {
	case KindStartEvent, KindTimerStartEvent:
		return true
	case KindMessageStartEvent:
		incoming := el.IncomingMessageFlows()
		if len(incoming) == 0 {
			return true
		}
		return m.MessageFlowFromCollapsedPool(incoming[0])
	}
	return false
}

// CanStartProcessInstance reports whether el belongs to the parallel-starter
// set of its container: it has no incoming sequence flow, is not itself a
// pool, and is not a message start event armed by a foreign pool's message.
func (m *Model) CanStartProcessInstance(el Element) bool {
	if len(el.IncomingSequenceFlows()) > 0 {
		return false
	}
	switch el.Kind() {
	case KindProcess, KindCollapsedPool:
		return false
	case KindMessageStartEvent:
		return m.IsUnconstrainedStartEvent(el)
	}
	return true
}

// ContainerInitiationMode computes the initiation mode of one container.
func (m *Model) ContainerInitiationMode(c Container) InitiationMode {
	for _, child := range c.Children() {
		if m.IsUnconstrainedStartEvent(child) {
			return InitiationMode{Choice: true}
		}
	}
	var starters []Element
	for _, child := range c.Children() {
		if m.CanStartProcessInstance(child) {
			starters = append(starters, child)
		}
	}
	return InitiationMode{Starters: starters}
}

// CollaborationInitiationMode folds the modes of all pools.
func (m *Model) CollaborationInitiationMode() InitiationMode {
	mode := InitiationMode{}
	for _, el := range m.Elements {
		if p, ok := el.(*Process); ok {
			mode = mode.Combine(m.ContainerInitiationMode(p))
		}
	}
	return mode
}
