package semantics

import (
	"github.com/BPM-Research-Group/ebpmn/internal/model"
	bpmnerrors "github.com/BPM-Research-Group/ebpmn/pkg/errors"
)

// Engine evaluates the execution semantics of one model. It holds no mutable
// state of its own; markings are owned by the caller, so independent callers
// may query different markings concurrently.
type Engine struct {
	model *model.Model
}

// New wraps a validated model.
func New(m *model.Model) *Engine {
	return &Engine{model: m}
}

// Model exposes the underlying model.
func (e *Engine) Model() *model.Model {
	return e.model
}

// scope is the evaluation context of one container: the marking it lives in,
// the container itself and its sub-marking. topLevel distinguishes pools
// (which share the root choice token) from sub-process instantiations.
type scope struct {
	root      *Marking
	container model.Container
	sub       *SubMarking
	topLevel  bool
}

// InitialState computes the birth marking of the collaboration per the
// initiation planner: the root choice token in choice mode, seed element
// tokens for the parallel starters otherwise.
func (e *Engine) InitialState() (*Marking, error) {
	overall := e.model.CollaborationInitiationMode()

	mk := &Marking{
		MessageFlowTokens: make([]uint64, len(e.model.MessageFlows)),
		RootChoiceToken:   overall.Choice,
		Subs:              make([]SubMarking, len(e.model.Elements)),
	}
	for i, el := range e.model.Elements {
		p, ok := el.(*model.Process)
		if !ok {
			continue
		}
		mode := e.model.ContainerInitiationMode(p)
		mk.Subs[i] = newSubMarking(p, mode, false)
	}
	return mk, nil
}

// NumberOfTransitions returns the size of the dense transition index space
// for the given marking. The layout depends on live sub-process
// instantiations, so indices are only meaningful together with the marking
// that produced them.
func (e *Engine) NumberOfTransitions(mk *Marking) int {
	total := 0
	for i, el := range e.model.Elements {
		if p, ok := el.(*model.Process); ok {
			total += e.containerBlockSize(p, &mk.Subs[i])
		}
	}
	return total
}

// EnabledTransitions enumerates the enabled transition indices in canonical
// (ascending) order.
func (e *Engine) EnabledTransitions(mk *Marking) []int {
	var result []int
	offset := 0
	for i, el := range e.model.Elements {
		p, ok := el.(*model.Process)
		if !ok {
			continue
		}
		sc := scope{root: mk, container: p, sub: &mk.Subs[i], topLevel: true}
		bits := e.containerEnabled(sc)
		for j, enabled := range bits {
			if enabled {
				result = append(result, offset+j)
			}
		}
		offset += len(bits)
	}
	return result
}

// IsFinal reports whether no transition is enabled.
func (e *Engine) IsFinal(mk *Marking) bool {
	return len(e.EnabledTransitions(mk)) == 0
}

// containerBlockSize sums the transition blocks of a container's children.
func (e *Engine) containerBlockSize(c model.Container, sub *SubMarking) int {
	total := 0
	for _, child := range c.Children() {
		total += e.blockSize(child, sub)
	}
	return total
}

// blockSize returns the size of one child's transition block. For most
// variants it depends only on adjacency; for expanded sub-processes it grows
// with the live instantiations of the given sub-marking.
func (e *Engine) blockSize(el model.Element, sub *SubMarking) int {
	in := len(el.IncomingSequenceFlows())
	out := len(el.OutgoingSequenceFlows())

	switch el.Kind() {
	case model.KindStartEvent, model.KindTimerStartEvent, model.KindMessageStartEvent,
		model.KindParallelGateway:
		return 1

	case model.KindEndEvent, model.KindMessageEndEvent, model.KindTask,
		model.KindIntermediateCatchEvent, model.KindIntermediateThrowEvent,
		model.KindMessageIntermediateCatchEvent, model.KindMessageIntermediateThrowEvent,
		model.KindTimerIntermediateCatchEvent, model.KindEventBasedGateway,
		model.KindCollapsedSubProcess:
		return maxInt(1, in)

	case model.KindExclusiveGateway:
		return maxInt(1, in) * maxInt(1, out)

	case model.KindInclusiveGateway:
		return (1 << out) - 1

	case model.KindExpandedSubProcess:
		sp := el.(*model.ExpandedSubProcess)
		total := maxInt(1, in)
		instances := sub.ChildSubs[el.LocalIndex()]
		for i := range instances {
			total += 1 + e.containerBlockSize(sp, &instances[i])
		}
		return total

	default:
		// pools and processes have no transitions of their own
		return 0
	}
}

// containerEnabled concatenates the enabled bits of a container's children in
// child order.
func (e *Engine) containerEnabled(sc scope) []bool {
	var bits []bool
	for _, child := range sc.container.Children() {
		bits = append(bits, e.elementEnabled(child, sc)...)
	}
	return bits
}

func (e *Engine) resolveTopLevel(mk *Marking, t int) (scope, int, error) {
	rem := t
	for i, el := range e.model.Elements {
		p, ok := el.(*model.Process)
		if !ok {
			continue
		}
		sc := scope{root: mk, container: p, sub: &mk.Subs[i], topLevel: true}
		n := e.containerBlockSize(p, sc.sub)
		if rem < n {
			return sc, rem, nil
		}
		rem -= n
	}
	return scope{}, 0, bpmnerrors.NewSemanticError(t, "no such transition in the current marking")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
