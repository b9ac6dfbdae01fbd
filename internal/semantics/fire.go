package semantics

import (
	"github.com/BPM-Research-Group/ebpmn/internal/model"
	bpmnerrors "github.com/BPM-Research-Group/ebpmn/pkg/errors"
)

// Fire derives the successor marking of transition t in place. The update is
// transactional: on any error the caller's marking is left untouched.
func (e *Engine) Fire(mk *Marking, t int) error {
	next := mk.Clone()
	sc, local, err := e.resolveTopLevel(next, t)
	if err != nil {
		return err
	}
	if err := e.fireInContainer(sc, local, t); err != nil {
		return err
	}
	*mk = *next
	return nil
}

func (e *Engine) fireInContainer(sc scope, local, origin int) error {
	for _, child := range sc.container.Children() {
		n := e.blockSize(child, sc.sub)
		if local < n {
			return e.fireElement(child, sc, local, origin)
		}
		local -= n
	}
	return bpmnerrors.NewSemanticError(origin, "transition index does not resolve to an element")
}

func (e *Engine) fireElement(el model.Element, sc scope, local, origin int) error {
	if el.Kind() == model.KindExpandedSubProcess {
		return e.fireSubProcess(el.(*model.ExpandedSubProcess), sc, local, origin)
	}

	bits := e.elementEnabled(el, sc)
	if local >= len(bits) || !bits[local] {
		return bpmnerrors.NewSemanticError(origin, "transition is not enabled")
	}
	e.applyElement(el, sc, local)
	return nil
}

// applyElement performs the token moves of one non-container transition. The
// enabled check has already passed, so every consumed place holds a token.
func (e *Engine) applyElement(el model.Element, sc scope, local int) {
	switch el.Kind() {
	case model.KindStartEvent, model.KindTimerStartEvent:
		e.consumeStartToken(el, sc)
		depositOutgoing(el, sc)

	case model.KindMessageStartEvent:
		incoming := el.IncomingMessageFlows()
		if len(incoming) > 0 && !e.model.MessageFlowFromCollapsedPool(incoming[0]) {
			sc.root.MessageFlowTokens[incoming[0]]--
		} else {
			e.consumeStartToken(el, sc)
		}
		depositOutgoing(el, sc)

	case model.KindEndEvent:
		e.consumeXorInput(el, sc, local)

	case model.KindMessageEndEvent:
		e.consumeXorInput(el, sc, local)
		depositMessages(el, sc)

	case model.KindTask, model.KindMessageIntermediateCatchEvent:
		e.consumeXorInput(el, sc, local)
		e.consumeMessage(el, sc)
		depositMessages(el, sc)
		depositOutgoing(el, sc)

	case model.KindIntermediateCatchEvent, model.KindIntermediateThrowEvent,
		model.KindTimerIntermediateCatchEvent, model.KindEventBasedGateway:
		e.consumeXorInput(el, sc, local)
		depositOutgoing(el, sc)

	case model.KindMessageIntermediateThrowEvent:
		e.consumeXorInput(el, sc, local)
		depositMessages(el, sc)
		depositOutgoing(el, sc)

	case model.KindCollapsedSubProcess:
		e.consumeXorInput(el, sc, local)
		depositMessages(el, sc)
		depositOutgoing(el, sc)

	case model.KindExclusiveGateway:
		e.applyExclusive(el, sc, local)

	case model.KindParallelGateway:
		e.applyParallel(el, sc)

	case model.KindInclusiveGateway:
		e.applyInclusive(el, sc, local)
	}
}

// consumeStartToken drains whichever token enabled a start event: the root
// choice token for top-level pools, the container choice token inside a
// sub-process instantiation, or a seeded element token.
func (e *Engine) consumeStartToken(el model.Element, sc scope) {
	if sc.topLevel && sc.root.RootChoiceToken {
		sc.root.RootChoiceToken = false
		return
	}
	if !sc.topLevel && sc.sub.ChoiceToken {
		sc.sub.ChoiceToken = false
		return
	}
	sc.sub.ElementTokens[el.LocalIndex()]--
}

// consumeXorInput removes the token behind xor-join transition i: the i-th
// incoming sequence flow, or the virtual element token when there is none.
// When the consumed flow leaves an event-based gateway, the sibling tokens of
// the deferred choice are withdrawn as well.
func (e *Engine) consumeXorInput(el model.Element, sc scope, i int) {
	in := el.IncomingSequenceFlows()
	if len(in) == 0 {
		sc.sub.ElementTokens[el.LocalIndex()]--
		return
	}
	flow := in[i]
	sc.sub.SequenceFlowTokens[flow]--

	source := sc.container.Children()[sc.container.SequenceFlows()[flow].SourceIndex]
	if source.Kind() == model.KindEventBasedGateway {
		for _, sibling := range source.OutgoingSequenceFlows() {
			if sibling != flow && sc.sub.SequenceFlowTokens[sibling] >= 1 {
				sc.sub.SequenceFlowTokens[sibling]--
			}
		}
	}
}

// consumeMessage drains the message token a guard actually read; messages
// from collapsed pools are always available and never consumed.
func (e *Engine) consumeMessage(el model.Element, sc scope) {
	incoming := el.IncomingMessageFlows()
	if len(incoming) == 0 || e.model.MessageFlowFromCollapsedPool(incoming[0]) {
		return
	}
	sc.root.MessageFlowTokens[incoming[0]]--
}

func depositOutgoing(el model.Element, sc scope) {
	for _, flow := range el.OutgoingSequenceFlows() {
		sc.sub.SequenceFlowTokens[flow]++
	}
}

func depositMessages(el model.Element, sc scope) {
	for _, flow := range el.OutgoingMessageFlows() {
		sc.root.MessageFlowTokens[flow]++
	}
}

func (e *Engine) applyExclusive(el model.Element, sc scope, local int) {
	in := el.IncomingSequenceFlows()
	out := el.OutgoingSequenceFlows()
	outBlock := maxInt(1, len(out))

	if len(in) > 0 {
		e.consumeXorInput(el, sc, local/outBlock)
	} else {
		sc.sub.ElementTokens[el.LocalIndex()]--
	}
	if len(out) > 0 {
		sc.sub.SequenceFlowTokens[out[local%outBlock]]++
	}
}

func (e *Engine) applyParallel(el model.Element, sc scope) {
	in := el.IncomingSequenceFlows()
	if len(in) == 0 {
		sc.sub.ElementTokens[el.LocalIndex()]--
	} else {
		for _, flow := range in {
			sc.sub.SequenceFlowTokens[flow]--
		}
	}
	depositOutgoing(el, sc)
}

// applyInclusive consumes one token from every non-empty incoming flow and
// deposits on the outgoing subset encoded by the transition index.
func (e *Engine) applyInclusive(el model.Element, sc scope, local int) {
	in := el.IncomingSequenceFlows()
	out := el.OutgoingSequenceFlows()

	if len(in) == 0 {
		sc.sub.ElementTokens[el.LocalIndex()]--
	} else {
		for _, flow := range in {
			if sc.sub.SequenceFlowTokens[flow] >= 1 {
				sc.sub.SequenceFlowTokens[flow]--
			}
		}
	}

	mask := local + 1
	for j, flow := range out {
		if mask&(1<<j) != 0 {
			sc.sub.SequenceFlowTokens[flow]++
		}
	}
}

// fireSubProcess handles the composite block of an expanded sub-process:
// start transitions instantiate, end transitions retire an instantiation, and
// everything in between recurses into the instantiation's own container.
func (e *Engine) fireSubProcess(sp *model.ExpandedSubProcess, sc scope, local, origin int) error {
	startBlock := maxInt(1, len(sp.IncomingSequenceFlows()))
	if local < startBlock {
		bits := e.xorJoin(sp, sc)
		if !bits[local] {
			return bpmnerrors.NewSemanticError(origin, "transition is not enabled")
		}
		e.consumeXorInput(sp, sc, local)
		mode := e.model.ContainerInitiationMode(sp)
		instances := &sc.sub.ChildSubs[sp.LocalIndex()]
		*instances = append(*instances, newSubMarking(sp, mode, true))
		return nil
	}
	local -= startBlock

	instances := &sc.sub.ChildSubs[sp.LocalIndex()]
	for i := 0; i < len(*instances); i++ {
		instScope := scope{root: sc.root, container: sp, sub: &(*instances)[i], topLevel: false}

		if local == 0 {
			// the end transition fires only once the instantiation is quiet
			for _, b := range e.containerEnabled(instScope) {
				if b {
					return bpmnerrors.NewSemanticError(origin, "sub-process instantiation still has enabled transitions")
				}
			}
			*instances = append((*instances)[:i], (*instances)[i+1:]...)
			depositOutgoing(sp, sc)
			return nil
		}
		local--

		inner := e.containerBlockSize(sp, instScope.sub)
		if local < inner {
			return e.fireInContainer(instScope, local, origin)
		}
		local -= inner
	}
	return bpmnerrors.NewSemanticError(origin, "transition index does not resolve to an element")
}
