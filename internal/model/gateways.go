package model

// ExclusiveGateway routes one incoming token to exactly one outgoing flow.
type ExclusiveGateway struct {
	node
}

// NewExclusiveGateway constructs an exclusive gateway.
func NewExclusiveGateway(id string, global GlobalIndex, local int) *ExclusiveGateway {
	return &ExclusiveGateway{node{
		kind: KindExclusiveGateway, id: id, global: global, local: local,
		seqInCap: capMany, seqOutCap: capMany, msgInCap: capNone, msgOutCap: capNone,
	}}
}

// InclusiveGateway joins on the tokens that can still arrive and splits to a
// non-empty subset of its outgoing flows.
type InclusiveGateway struct {
	node
}

// NewInclusiveGateway constructs an inclusive gateway.
func NewInclusiveGateway(id string, global GlobalIndex, local int) *InclusiveGateway {
	return &InclusiveGateway{node{
		kind: KindInclusiveGateway, id: id, global: global, local: local,
		seqInCap: capMany, seqOutCap: capMany, msgInCap: capNone, msgOutCap: capNone,
	}}
}

// ParallelGateway synchronizes all incoming flows and forks to all outgoing.
type ParallelGateway struct {
	node
}

// NewParallelGateway constructs a parallel gateway.
func NewParallelGateway(id string, global GlobalIndex, local int) *ParallelGateway {
	return &ParallelGateway{node{
		kind: KindParallelGateway, id: id, global: global, local: local,
		seqInCap: capMany, seqOutCap: capMany, msgInCap: capNone, msgOutCap: capNone,
	}}
}

// EventBasedGateway defers the routing choice to whichever successor event
// occurs first.
type EventBasedGateway struct {
	node
}

// NewEventBasedGateway constructs an event-based gateway.
func NewEventBasedGateway(id string, global GlobalIndex, local int) *EventBasedGateway {
	return &EventBasedGateway{node{
		kind: KindEventBasedGateway, id: id, global: global, local: local,
		seqInCap: capMany, seqOutCap: capMany, msgInCap: capNone, msgOutCap: capNone,
	}}
}
