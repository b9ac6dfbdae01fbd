// Package bpmnxml reads and writes the BPMN 2.0 XML interchange format. The
// importer is a SAX-style reader over encoding/xml tokens: recognized tags
// open frames on a stack, closing a frame resolves its buffered drafts and
// attaches the result to the parent frame. Unknown tags are tolerated; their
// ids are recorded to sharpen reference diagnostics.
package bpmnxml

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/BPM-Research-Group/ebpmn/internal/activity"
	"github.com/BPM-Research-Group/ebpmn/internal/model"
	"github.com/BPM-Research-Group/ebpmn/internal/ports"
	bpmnerrors "github.com/BPM-Research-Group/ebpmn/pkg/errors"
)

// Namespace is the BPMN 2.0 model namespace. Tags in this namespace or in no
// namespace are recognized.
const Namespace = "http://www.omg.org/spec/BPMN/20100524/MODEL"

// Importer turns a BPMN XML document into a validated model.
type Importer struct {
	logger ports.Logger
}

// NewImporter constructs an importer logging through the given logger.
func NewImporter(logger ports.Logger) *Importer {
	return &Importer{logger: logger}
}

// Import reads one document and returns the structurally verified model.
func (imp *Importer) Import(ctx context.Context, r io.Reader) (*model.Model, error) {
	p := &parser{
		key:          activity.NewKey(),
		ids:          make(map[string]model.GlobalIndex),
		unrecognized: make(map[string]string),
		logger:       imp.logger,
	}

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, bpmnerrors.NewParseError("", "cannot read XML event", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.open(t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if err := p.close(t); err != nil {
				return nil, err
			}
		}
	}

	return p.finish(ctx)
}

// ImportString parses a document held in memory.
func (imp *Importer) ImportString(ctx context.Context, s string) (*model.Model, error) {
	return imp.Import(ctx, strings.NewReader(s))
}

type parser struct {
	key          *activity.Key
	ids          map[string]model.GlobalIndex
	next         model.GlobalIndex
	unrecognized map[string]string
	stack        []frame
	definitions  []*defsFrame
	logger       ports.Logger
}

type frame interface{}

type unknownFrame struct {
	name string
}

type defsFrame struct {
	index model.GlobalIndex
	id    string

	hasCollaboration   bool
	collaborationIndex model.GlobalIndex
	collaborationID    string

	elements     []model.Element
	participants []model.Participant
	msgDrafts    []messageFlowDraft
}

type collabFrame struct {
	index model.GlobalIndex
	id    string

	pools        []poolDraft
	participants []model.Participant
	msgDrafts    []messageFlowDraft
}

type poolDraft struct {
	index model.GlobalIndex
	id    string
	name  string
}

type containerFrame struct {
	tag   string // process or subProcess
	index model.GlobalIndex
	id    string
	name  string

	elements   []model.Element
	flowDrafts []sequenceFlowDraft
}

type eventFrame struct {
	tag   string
	index model.GlobalIndex
	id    string

	messageID  string
	timerID    string
	sawMessage bool
	sawTimer   bool
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func inNamespace(se xml.StartElement) bool {
	return se.Name.Space == "" || se.Name.Space == Namespace
}

// readID enforces the model-wide id discipline and issues the global index.
func (p *parser) readID(se xml.StartElement) (model.GlobalIndex, string, error) {
	id := attr(se, "id")
	if id == "" {
		return 0, "", bpmnerrors.NewParseError(se.Name.Local, "element must have an id", nil)
	}
	if _, exists := p.ids[id]; exists {
		return 0, "", bpmnerrors.NewParseError(se.Name.Local, fmt.Sprintf("two elements have the id `%s`", id), nil)
	}
	index := p.next
	p.ids[id] = index
	p.next++
	return index, id, nil
}

func (p *parser) top() frame {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) pushUnknown(se xml.StartElement) {
	if id := attr(se, "id"); id != "" {
		if _, taken := p.ids[id]; !taken {
			p.unrecognized[id] = se.Name.Local
		}
	}
	p.stack = append(p.stack, &unknownFrame{name: se.Name.Local})
}

// open recognizes a start tag in its context, exactly like the per-tag
// recognizers of a SAX pipeline: the same tag name is unknown outside the
// container it belongs in.
func (p *parser) open(se xml.StartElement) error {
	if !inNamespace(se) {
		p.pushUnknown(se)
		return nil
	}

	name := se.Name.Local
	switch t := p.top().(type) {
	case nil:
		if name == "definitions" {
			index, id, err := p.readID(se)
			if err != nil {
				return err
			}
			p.stack = append(p.stack, &defsFrame{index: index, id: id, collaborationIndex: -1})
			return nil
		}

	case *defsFrame:
		switch name {
		case "collaboration":
			index, id, err := p.readID(se)
			if err != nil {
				return err
			}
			p.stack = append(p.stack, &collabFrame{index: index, id: id})
			return nil
		case "process":
			index, id, err := p.readID(se)
			if err != nil {
				return err
			}
			p.stack = append(p.stack, &containerFrame{tag: "process", index: index, id: id, name: attr(se, "name")})
			return nil
		}

	case *collabFrame:
		switch name {
		case "participant":
			index, id, err := p.readID(se)
			if err != nil {
				return err
			}
			if processRef := attr(se, "processRef"); processRef != "" {
				t.participants = append(t.participants, model.Participant{
					GlobalIndex: index, ID: id, Name: attr(se, "name"), ProcessID: processRef,
				})
			} else {
				t.pools = append(t.pools, poolDraft{index: index, id: id, name: attr(se, "name")})
			}
			p.stack = append(p.stack, &unknownFrame{name: name})
			return nil
		case "messageFlow":
			index, id, err := p.readID(se)
			if err != nil {
				return err
			}
			draft := messageFlowDraft{Index: index, ID: id, SourceRef: attr(se, "sourceRef"), TargetRef: attr(se, "targetRef")}
			if err := validateDraft(name, draft); err != nil {
				return err
			}
			t.msgDrafts = append(t.msgDrafts, draft)
			p.stack = append(p.stack, &unknownFrame{name: name})
			return nil
		}

	case *containerFrame:
		switch name {
		case "subProcess":
			index, id, err := p.readID(se)
			if err != nil {
				return err
			}
			p.stack = append(p.stack, &containerFrame{tag: "subProcess", index: index, id: id, name: attr(se, "name")})
			return nil
		case "sequenceFlow":
			index, id, err := p.readID(se)
			if err != nil {
				return err
			}
			draft := sequenceFlowDraft{Index: index, ID: id, SourceRef: attr(se, "sourceRef"), TargetRef: attr(se, "targetRef")}
			if err := validateDraft(name, draft); err != nil {
				return err
			}
			t.flowDrafts = append(t.flowDrafts, draft)
			p.stack = append(p.stack, &unknownFrame{name: name})
			return nil
		case "task":
			index, id, err := p.readID(se)
			if err != nil {
				return err
			}
			act := p.key.Intern(attr(se, "name"))
			t.elements = append(t.elements, model.NewTask(id, index, len(t.elements), act))
			p.stack = append(p.stack, &unknownFrame{name: name})
			return nil
		case "exclusiveGateway", "inclusiveGateway", "parallelGateway", "eventBasedGateway":
			index, id, err := p.readID(se)
			if err != nil {
				return err
			}
			local := len(t.elements)
			switch name {
			case "exclusiveGateway":
				t.elements = append(t.elements, model.NewExclusiveGateway(id, index, local))
			case "inclusiveGateway":
				t.elements = append(t.elements, model.NewInclusiveGateway(id, index, local))
			case "parallelGateway":
				t.elements = append(t.elements, model.NewParallelGateway(id, index, local))
			case "eventBasedGateway":
				t.elements = append(t.elements, model.NewEventBasedGateway(id, index, local))
			}
			p.stack = append(p.stack, &unknownFrame{name: name})
			return nil
		case "startEvent", "endEvent", "intermediateCatchEvent", "intermediateThrowEvent":
			index, id, err := p.readID(se)
			if err != nil {
				return err
			}
			p.stack = append(p.stack, &eventFrame{tag: name, index: index, id: id})
			return nil
		}

	case *eventFrame:
		switch name {
		case "messageEventDefinition":
			t.sawMessage = true
			t.messageID = attr(se, "id")
			p.stack = append(p.stack, &unknownFrame{name: name})
			return nil
		case "timerEventDefinition":
			t.sawTimer = true
			t.timerID = attr(se, "id")
			p.stack = append(p.stack, &unknownFrame{name: name})
			return nil
		}
	}

	p.pushUnknown(se)
	return nil
}

func (p *parser) close(ee xml.EndElement) error {
	if len(p.stack) == 0 {
		return bpmnerrors.NewParseError(ee.Name.Local, "attempted to close a tag that was not open", nil)
	}
	closed := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]

	switch t := closed.(type) {
	case *unknownFrame:
		return nil
	case *eventFrame:
		return p.closeEvent(t)
	case *containerFrame:
		return p.closeContainer(t)
	case *collabFrame:
		return p.closeCollaboration(t)
	case *defsFrame:
		p.definitions = append(p.definitions, t)
		return nil
	}
	return nil
}

// closeEvent decides the event variant from the collected markers and
// appends it to the enclosing container.
func (p *parser) closeEvent(f *eventFrame) error {
	parent, ok := p.top().(*containerFrame)
	if !ok {
		return bpmnerrors.NewParseError(f.tag, "event outside of a process", nil)
	}
	local := len(parent.elements)

	if f.sawMessage && f.sawTimer {
		return bpmnerrors.NewParseError(f.tag, fmt.Sprintf("event `%s` cannot carry both a message and a timer definition", f.id), nil)
	}

	var el model.Element
	switch f.tag {
	case "startEvent":
		switch {
		case f.sawMessage:
			el = model.NewMessageStartEvent(f.id, f.index, local, f.messageID)
		case f.sawTimer:
			el = model.NewTimerStartEvent(f.id, f.index, local, f.timerID)
		default:
			el = model.NewStartEvent(f.id, f.index, local)
		}
	case "endEvent":
		switch {
		case f.sawMessage:
			el = model.NewMessageEndEvent(f.id, f.index, local, f.messageID)
		case f.sawTimer:
			return bpmnerrors.NewParseError(f.tag, fmt.Sprintf("end event `%s` cannot carry a timer definition", f.id), nil)
		default:
			el = model.NewEndEvent(f.id, f.index, local)
		}
	case "intermediateCatchEvent":
		switch {
		case f.sawMessage:
			el = model.NewMessageIntermediateCatchEvent(f.id, f.index, local, f.messageID)
		case f.sawTimer:
			el = model.NewTimerIntermediateCatchEvent(f.id, f.index, local, f.timerID)
		default:
			el = model.NewIntermediateCatchEvent(f.id, f.index, local)
		}
	case "intermediateThrowEvent":
		switch {
		case f.sawMessage:
			el = model.NewMessageIntermediateThrowEvent(f.id, f.index, local, f.messageID)
		case f.sawTimer:
			return bpmnerrors.NewParseError(f.tag, fmt.Sprintf("intermediate throw event `%s` cannot carry a timer definition", f.id), nil)
		default:
			el = model.NewIntermediateThrowEvent(f.id, f.index, local)
		}
	}
	parent.elements = append(parent.elements, el)
	return nil
}

// closeContainer resolves the buffered sequence flows against the now
// complete sibling list, then attaches the container to its parent.
func (p *parser) closeContainer(f *containerFrame) error {
	var flows []model.SequenceFlow
	if f.tag == "subProcess" && len(f.elements) == 0 && len(f.flowDrafts) == 0 {
		// no contents: this is a collapsed sub-process
		parent, ok := p.top().(*containerFrame)
		if !ok {
			return bpmnerrors.NewParseError(f.tag, "sub-process outside of a process", nil)
		}
		act := p.key.Intern(f.name)
		parent.elements = append(parent.elements, model.NewCollapsedSubProcess(f.id, f.index, len(parent.elements), act))
		return nil
	}

	for _, draft := range f.flowDrafts {
		if err := model.ConnectSequenceFlow(f.elements, &flows, draft.Index, draft.ID, draft.SourceRef, draft.TargetRef, p.shadow); err != nil {
			return err
		}
	}

	switch f.tag {
	case "process":
		parent, ok := p.top().(*defsFrame)
		if !ok {
			return bpmnerrors.NewParseError(f.tag, "process outside of definitions", nil)
		}
		parent.elements = append(parent.elements, model.NewProcess(f.id, f.index, len(parent.elements), f.name, f.elements, flows))
	case "subProcess":
		parent, ok := p.top().(*containerFrame)
		if !ok {
			return bpmnerrors.NewParseError(f.tag, "sub-process outside of a process", nil)
		}
		parent.elements = append(parent.elements, model.NewExpandedSubProcess(f.id, f.index, len(parent.elements), f.name, f.elements, flows))
	}
	return nil
}

func (p *parser) closeCollaboration(f *collabFrame) error {
	parent, ok := p.top().(*defsFrame)
	if !ok {
		return bpmnerrors.NewParseError("collaboration", "collaboration outside of definitions", nil)
	}
	if parent.hasCollaboration {
		return bpmnerrors.NewParseError("collaboration", "second collaboration found", nil)
	}
	parent.hasCollaboration = true
	parent.collaborationIndex = f.index
	parent.collaborationID = f.id
	parent.participants = append(parent.participants, f.participants...)
	parent.msgDrafts = append(parent.msgDrafts, f.msgDrafts...)
	for _, pool := range f.pools {
		parent.elements = append(parent.elements, model.NewCollapsedPool(pool.id, pool.index, len(parent.elements), pool.name))
	}
	return nil
}

func (p *parser) shadow(id string) string {
	return p.unrecognized[id]
}

// finish resolves the collaboration-level message flows, assembles the model
// and runs the structural validator.
func (p *parser) finish(ctx context.Context) (*model.Model, error) {
	if len(p.stack) > 0 {
		return nil, bpmnerrors.NewParseError("", "file ended while tags were still open", nil)
	}
	if len(p.definitions) == 0 {
		return nil, bpmnerrors.NewParseError("", "no definitions found", nil)
	}
	if len(p.definitions) > 1 {
		return nil, bpmnerrors.NewParseError("", "multiple definitions found", nil)
	}
	defs := p.definitions[0]

	var messageFlows []model.MessageFlow
	for _, draft := range defs.msgDrafts {
		if err := model.ConnectMessageFlow(defs.elements, &messageFlows, draft.Index, draft.ID, draft.SourceRef, draft.TargetRef, p.shadow); err != nil {
			return nil, err
		}
	}

	m := &model.Model{
		Key:                p.key,
		DefinitionsIndex:   defs.index,
		DefinitionsID:      defs.id,
		CollaborationIndex: defs.collaborationIndex,
		CollaborationID:    defs.collaborationID,
		Participants:       defs.participants,
		Elements:           defs.elements,
		MessageFlows:       messageFlows,
	}

	if err := m.VerifyStructure(); err != nil {
		return nil, err
	}

	p.logger.Debug(ctx, "imported BPMN model",
		"elements", m.NumberOfElements(),
		"message_flows", len(m.MessageFlows))

	return m, nil
}
