package model

import (
	"github.com/BPM-Research-Group/ebpmn/internal/activity"
)

// Task is an atomic unit of work. A task with an incoming message flow acts
// as a receive task; one with an outgoing message flow as a send task.
type Task struct {
	node
	Activity activity.ID
}

// NewTask constructs a task carrying an interned activity.
func NewTask(id string, global GlobalIndex, local int, act activity.ID) *Task {
	return &Task{node: node{
		kind: KindTask, id: id, global: global, local: local,
		seqInCap: capMany, seqOutCap: capMany, msgInCap: capOne, msgOutCap: capOne,
	}, Activity: act}
}

// CollapsedSubProcess is a sub-process whose contents are not part of the
// model; it behaves like a task and may exchange any number of messages.
type CollapsedSubProcess struct {
	node
	Activity activity.ID
}

// NewCollapsedSubProcess constructs a collapsed sub-process.
func NewCollapsedSubProcess(id string, global GlobalIndex, local int, act activity.ID) *CollapsedSubProcess {
	return &CollapsedSubProcess{node: node{
		kind: KindCollapsedSubProcess, id: id, global: global, local: local,
		seqInCap: capMany, seqOutCap: capMany, msgInCap: capMany, msgOutCap: capMany,
	}, Activity: act}
}
