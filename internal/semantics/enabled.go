package semantics

import (
	"github.com/BPM-Research-Group/ebpmn/internal/model"
)

// elementEnabled returns the enabled bits of one child's transition block,
// evaluated against its container's sub-marking.
func (e *Engine) elementEnabled(el model.Element, sc scope) []bool {
	switch el.Kind() {
	case model.KindStartEvent, model.KindTimerStartEvent:
		return []bool{e.startTokenAvailable(el, sc)}

	case model.KindMessageStartEvent:
		return []bool{e.messageStartEnabled(el, sc)}

	case model.KindEndEvent, model.KindMessageEndEvent,
		model.KindIntermediateCatchEvent, model.KindIntermediateThrowEvent,
		model.KindMessageIntermediateThrowEvent, model.KindTimerIntermediateCatchEvent,
		model.KindEventBasedGateway, model.KindCollapsedSubProcess:
		return e.xorJoin(el, sc)

	case model.KindTask, model.KindMessageIntermediateCatchEvent:
		bits := e.xorJoin(el, sc)
		if !e.messageAvailable(el, sc) {
			for i := range bits {
				bits[i] = false
			}
		}
		return bits

	case model.KindExclusiveGateway:
		return e.exclusiveEnabled(el, sc)

	case model.KindParallelGateway:
		return []bool{e.parallelEnabled(el, sc)}

	case model.KindInclusiveGateway:
		return e.inclusiveEnabled(el, sc)

	case model.KindExpandedSubProcess:
		return e.subProcessEnabled(el.(*model.ExpandedSubProcess), sc)

	default:
		return nil
	}
}

// xorJoin is the shared enabling pattern: one transition per incoming
// sequence flow, enabled when that flow holds a token; with no incoming flow,
// one virtual transition backed by the container-level element token.
func (e *Engine) xorJoin(el model.Element, sc scope) []bool {
	in := el.IncomingSequenceFlows()
	bits := make([]bool, maxInt(1, len(in)))
	if len(in) > 0 {
		for i, flow := range in {
			bits[i] = sc.sub.SequenceFlowTokens[flow] >= 1
		}
		return bits
	}
	bits[0] = sc.sub.ElementTokens[el.LocalIndex()] >= 1
	return bits
}

// startTokenAvailable checks the three sources a start event may draw from:
// the root choice token (top-level), the container choice token (sub-process
// instantiation), or a seeded element token.
func (e *Engine) startTokenAvailable(el model.Element, sc scope) bool {
	if sc.topLevel && sc.root.RootChoiceToken {
		return true
	}
	if !sc.topLevel && sc.sub.ChoiceToken {
		return true
	}
	return sc.sub.ElementTokens[el.LocalIndex()] >= 1
}

func (e *Engine) messageStartEnabled(el model.Element, sc scope) bool {
	incoming := el.IncomingMessageFlows()
	if len(incoming) == 0 || e.model.MessageFlowFromCollapsedPool(incoming[0]) {
		return e.startTokenAvailable(el, sc)
	}
	return sc.root.MessageFlowTokens[incoming[0]] >= 1
}

// messageAvailable is the message-presence guard of receive tasks and message
// catch events: no message flow, a collapsed-pool source, or a pending token.
func (e *Engine) messageAvailable(el model.Element, sc scope) bool {
	incoming := el.IncomingMessageFlows()
	if len(incoming) == 0 {
		return true
	}
	if e.model.MessageFlowFromCollapsedPool(incoming[0]) {
		return true
	}
	return sc.root.MessageFlowTokens[incoming[0]] >= 1
}

// exclusiveEnabled lays out the max(1,|in|)*max(1,|out|) pair grid: a token
// on incoming i enables every pair (i, *).
func (e *Engine) exclusiveEnabled(el model.Element, sc scope) []bool {
	in := el.IncomingSequenceFlows()
	out := el.OutgoingSequenceFlows()
	outBlock := maxInt(1, len(out))
	bits := make([]bool, maxInt(1, len(in))*outBlock)

	switch {
	case len(in) > 0:
		for i, flow := range in {
			if sc.sub.SequenceFlowTokens[flow] >= 1 {
				for j := i * outBlock; j < (i+1)*outBlock; j++ {
					bits[j] = true
				}
			}
		}
	default:
		// no incoming flows: backed by the virtual element token
		if sc.sub.ElementTokens[el.LocalIndex()] >= 1 {
			for j := range bits {
				bits[j] = true
			}
		}
	}
	return bits
}

func (e *Engine) parallelEnabled(el model.Element, sc scope) bool {
	in := el.IncomingSequenceFlows()
	if len(in) == 0 {
		return sc.sub.ElementTokens[el.LocalIndex()] >= 1
	}
	for _, flow := range in {
		if sc.sub.SequenceFlowTokens[flow] == 0 {
			return false
		}
	}
	return true
}

// inclusiveEnabled exposes the 2^|out|-1 outgoing subsets. The join waits
// until no token can still arrive on an empty incoming flow, decided by the
// reverse walk below.
func (e *Engine) inclusiveEnabled(el model.Element, sc scope) []bool {
	in := el.IncomingSequenceFlows()
	out := el.OutgoingSequenceFlows()
	bits := make([]bool, (1<<len(out))-1)

	if len(in) == 0 {
		if sc.sub.ElementTokens[el.LocalIndex()] >= 1 {
			for i := range bits {
				bits[i] = true
			}
		}
		return bits
	}

	hasToken := false
	for _, flow := range in {
		if sc.sub.SequenceFlowTokens[flow] >= 1 {
			hasToken = true
			break
		}
	}
	if !hasToken || e.tokenMayStillArrive(el, sc) {
		return bits
	}
	for i := range bits {
		bits[i] = true
	}
	return bits
}

// tokenMayStillArrive walks the container's sequence flows backwards from the
// gateway's empty incoming flows. Sequence flows connect siblings only, so
// the walk never leaves the gateway's container and the current sub-marking
// is the one to read. A token on a visited flow, a virtual token parked on a
// visited element, or a live instantiation of a visited sub-process all mean
// the join must keep waiting.
func (e *Engine) tokenMayStillArrive(gateway model.Element, sc scope) bool {
	flows := sc.container.SequenceFlows()
	children := sc.container.Children()

	var queue []int
	seen := make(map[int]bool)
	for _, flow := range gateway.IncomingSequenceFlows() {
		if sc.sub.SequenceFlowTokens[flow] == 0 {
			queue = append(queue, flow)
			seen[flow] = true
		}
	}

	for len(queue) > 0 {
		flow := queue[0]
		queue = queue[1:]

		if sc.sub.SequenceFlowTokens[flow] >= 1 {
			return true
		}

		source := children[flows[flow].SourceIndex]
		if sc.sub.ElementTokens[source.LocalIndex()] >= 1 {
			return true
		}
		if source.Kind() == model.KindExpandedSubProcess && len(sc.sub.ChildSubs[source.LocalIndex()]) > 0 {
			return true
		}

		for _, upstream := range source.IncomingSequenceFlows() {
			if !seen[upstream] {
				seen[upstream] = true
				queue = append(queue, upstream)
			}
		}
	}
	return false
}

// subProcessEnabled lays out a sub-process block: the xor-join start
// transitions, then per live instantiation one end transition (enabled when
// the instantiation has nothing left to do) followed by the instantiation's
// own transitions.
func (e *Engine) subProcessEnabled(sp *model.ExpandedSubProcess, sc scope) []bool {
	bits := e.xorJoin(sp, sc)

	instances := sc.sub.ChildSubs[sp.LocalIndex()]
	for i := range instances {
		inner := e.containerEnabled(scope{
			root:      sc.root,
			container: sp,
			sub:       &instances[i],
			topLevel:  false,
		})
		anyEnabled := false
		for _, b := range inner {
			if b {
				anyEnabled = true
				break
			}
		}
		bits = append(bits, !anyEnabled)
		bits = append(bits, inner...)
	}
	return bits
}
