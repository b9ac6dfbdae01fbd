// Package semantics turns a validated BPMN model into a deterministic state
// machine: it computes initial markings, enumerates enabled transitions under
// a dense per-marking index layout, and derives successor markings.
package semantics

import (
	"slices"

	"github.com/BPM-Research-Group/ebpmn/internal/model"
)

// Marking is the total token state of a collaboration: the message-flow
// tokens, the root choice token, and one sub-marking per top-level element.
type Marking struct {
	MessageFlowTokens []uint64
	// RootChoiceToken is set while the collaboration is in
	// choice-between-start-events mode and no start event has fired yet.
	RootChoiceToken bool
	Subs            []SubMarking
}

// SubMarking is the token state of one container: a pool, or one live
// instantiation of an expanded sub-process.
type SubMarking struct {
	SequenceFlowTokens []uint64
	// ElementTokens carries the virtual tokens used by parallel-elements
	// initiation and by elements without incoming sequence flows.
	ElementTokens []uint64
	// ChoiceToken is the container-local "pick a start event" token. Only
	// sub-process instantiations use it; top-level pools share the root one.
	ChoiceToken bool
	// ChildSubs holds, per child, the currently live instantiations. It is
	// non-empty only for expanded sub-process children.
	ChildSubs [][]SubMarking
}

// Clone returns a deep copy of the marking.
func (m *Marking) Clone() *Marking {
	out := &Marking{
		MessageFlowTokens: slices.Clone(m.MessageFlowTokens),
		RootChoiceToken:   m.RootChoiceToken,
		Subs:              make([]SubMarking, len(m.Subs)),
	}
	for i := range m.Subs {
		out.Subs[i] = m.Subs[i].clone()
	}
	return out
}

func (s *SubMarking) clone() SubMarking {
	out := SubMarking{
		SequenceFlowTokens: slices.Clone(s.SequenceFlowTokens),
		ElementTokens:      slices.Clone(s.ElementTokens),
		ChoiceToken:        s.ChoiceToken,
	}
	if s.ChildSubs != nil {
		out.ChildSubs = make([][]SubMarking, len(s.ChildSubs))
		for i, instances := range s.ChildSubs {
			if instances == nil {
				continue
			}
			out.ChildSubs[i] = make([]SubMarking, len(instances))
			for j := range instances {
				out.ChildSubs[i][j] = instances[j].clone()
			}
		}
	}
	return out
}

// newSubMarking builds the birth state of a container instance. Top-level
// pools never hold the local choice token; they are governed by the root one.
func newSubMarking(c model.Container, mode model.InitiationMode, useLocalChoice bool) SubMarking {
	sub := SubMarking{
		SequenceFlowTokens: make([]uint64, len(c.SequenceFlows())),
		ElementTokens:      make([]uint64, len(c.Children())),
		ChildSubs:          make([][]SubMarking, len(c.Children())),
	}
	if mode.Choice {
		if useLocalChoice {
			sub.ChoiceToken = true
		}
		return sub
	}
	for _, starter := range mode.Starters {
		sub.ElementTokens[starter.LocalIndex()]++
	}
	return sub
}
