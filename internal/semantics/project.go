package semantics

import (
	"fmt"

	"github.com/BPM-Research-Group/ebpmn/internal/activity"
	"github.com/BPM-Research-Group/ebpmn/internal/model"
)

// TransitionActivity returns the activity behind a transition, when it has
// one. Only task and collapsed sub-process transitions are labelled; every
// other transition, including sub-process start and end transitions, is
// silent.
func (e *Engine) TransitionActivity(mk *Marking, t int) (activity.ID, bool) {
	sc, local, err := e.resolveTopLevel(mk, t)
	if err != nil {
		return activity.None, false
	}
	return e.activityInContainer(sc, local)
}

func (e *Engine) activityInContainer(sc scope, local int) (activity.ID, bool) {
	for _, child := range sc.container.Children() {
		n := e.blockSize(child, sc.sub)
		if local >= n {
			local -= n
			continue
		}

		switch el := child.(type) {
		case *model.Task:
			return el.Activity, true
		case *model.CollapsedSubProcess:
			return el.Activity, true
		case *model.ExpandedSubProcess:
			return e.activityInSubProcess(el, sc, local)
		default:
			return activity.None, false
		}
	}
	return activity.None, false
}

func (e *Engine) activityInSubProcess(sp *model.ExpandedSubProcess, sc scope, local int) (activity.ID, bool) {
	startBlock := maxInt(1, len(sp.IncomingSequenceFlows()))
	if local < startBlock {
		return activity.None, false
	}
	local -= startBlock

	instances := sc.sub.ChildSubs[sp.LocalIndex()]
	for i := range instances {
		if local == 0 {
			return activity.None, false
		}
		local--

		instScope := scope{root: sc.root, container: sp, sub: &instances[i], topLevel: false}
		inner := e.containerBlockSize(sp, instScope.sub)
		if local < inner {
			return e.activityInContainer(instScope, local)
		}
		local -= inner
	}
	return activity.None, false
}

// TransitionDebug renders a human-readable description of a transition, or
// reports false when the index does not exist in the given marking.
func (e *Engine) TransitionDebug(mk *Marking, t int) (string, bool) {
	sc, local, err := e.resolveTopLevel(mk, t)
	if err != nil {
		return "", false
	}
	return e.debugInContainer(sc, local)
}

func (e *Engine) debugInContainer(sc scope, local int) (string, bool) {
	for _, child := range sc.container.Children() {
		n := e.blockSize(child, sc.sub)
		if local >= n {
			local -= n
			continue
		}

		if sp, ok := child.(*model.ExpandedSubProcess); ok {
			return e.debugInSubProcess(sp, sc, local)
		}
		return fmt.Sprintf("%s `%s`; internal transition %d", child.Kind(), child.ID(), local), true
	}
	return "", false
}

func (e *Engine) debugInSubProcess(sp *model.ExpandedSubProcess, sc scope, local int) (string, bool) {
	startBlock := maxInt(1, len(sp.IncomingSequenceFlows()))
	if local < startBlock {
		return fmt.Sprintf("expanded sub-process `%s`; start internal transition %d", sp.ID(), local), true
	}
	local -= startBlock

	instances := sc.sub.ChildSubs[sp.LocalIndex()]
	for i := range instances {
		if local == 0 {
			return fmt.Sprintf("expanded sub-process `%s`; instantiation %d, end transition", sp.ID(), i), true
		}
		local--

		instScope := scope{root: sc.root, container: sp, sub: &instances[i], topLevel: false}
		inner := e.containerBlockSize(sp, instScope.sub)
		if local < inner {
			return e.debugInContainer(instScope, local)
		}
		local -= inner
	}
	return "", false
}
