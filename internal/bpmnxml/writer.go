package bpmnxml

import (
	"encoding/xml"
	"io"

	"github.com/BPM-Research-Group/ebpmn/internal/model"
)

// Export re-emits a model in the recognized BPMN schema with tab
// indentation. The output round-trips through Import into an equivalent
// model, up to index renumbering.
func Export(m *model.Model, w io.Writer) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")

	if err := enc.EncodeToken(xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="UTF-8"`)}); err != nil {
		return err
	}

	defs := start("definitions",
		attrPair("id", m.DefinitionsID),
		attrPair("xmlns", Namespace),
		attrPair("exporter", "ebpmn"))
	if err := enc.EncodeToken(defs); err != nil {
		return err
	}

	if m.CollaborationIndex >= 0 {
		if err := writeCollaboration(enc, m); err != nil {
			return err
		}
	}

	for _, el := range m.Elements {
		if p, ok := el.(*model.Process); ok {
			if err := writeProcess(enc, m, p); err != nil {
				return err
			}
		}
	}

	if err := enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "definitions"}}); err != nil {
		return err
	}
	return enc.Flush()
}

func writeCollaboration(enc *xml.Encoder, m *model.Model) error {
	if err := enc.EncodeToken(start("collaboration", attrPair("id", m.CollaborationID))); err != nil {
		return err
	}

	for _, p := range m.Participants {
		attrs := []xml.Attr{attrPair("id", p.ID)}
		if p.Name != "" {
			attrs = append(attrs, attrPair("name", p.Name))
		}
		attrs = append(attrs, attrPair("processRef", p.ProcessID))
		if err := emitEmpty(enc, "participant", attrs...); err != nil {
			return err
		}
	}

	for _, el := range m.Elements {
		pool, ok := el.(*model.CollapsedPool)
		if !ok {
			continue
		}
		attrs := []xml.Attr{attrPair("id", pool.ID())}
		if pool.Name != "" {
			attrs = append(attrs, attrPair("name", pool.Name))
		}
		if err := emitEmpty(enc, "participant", attrs...); err != nil {
			return err
		}
	}

	for _, flow := range m.MessageFlows {
		if err := emitEmpty(enc, "messageFlow",
			attrPair("id", flow.ID),
			attrPair("sourceRef", m.ElementID(flow.SourceElementIndex)),
			attrPair("targetRef", m.ElementID(flow.TargetElementIndex))); err != nil {
			return err
		}
	}

	return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "collaboration"}})
}

func writeProcess(enc *xml.Encoder, m *model.Model, p *model.Process) error {
	attrs := []xml.Attr{attrPair("id", p.ID())}
	if p.Name != "" {
		attrs = append(attrs, attrPair("name", p.Name))
	}
	if err := enc.EncodeToken(start("process", attrs...)); err != nil {
		return err
	}
	if err := writeContainerContents(enc, m, p); err != nil {
		return err
	}
	return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "process"}})
}

func writeContainerContents(enc *xml.Encoder, m *model.Model, c model.Container) error {
	for _, child := range c.Children() {
		if err := writeElement(enc, m, c, child); err != nil {
			return err
		}
	}
	for i := range c.SequenceFlows() {
		flow := &c.SequenceFlows()[i]
		if err := emitEmpty(enc, "sequenceFlow",
			attrPair("id", flow.ID),
			attrPair("sourceRef", c.Children()[flow.SourceIndex].ID()),
			attrPair("targetRef", c.Children()[flow.TargetIndex].ID())); err != nil {
			return err
		}
	}
	return nil
}

func writeElement(enc *xml.Encoder, m *model.Model, c model.Container, el model.Element) error {
	switch t := el.(type) {
	case *model.Task:
		attrs := []xml.Attr{attrPair("id", el.ID())}
		if label := m.Key.Label(t.Activity); label != "" {
			attrs = append(attrs, attrPair("name", label))
		}
		return emitWithBody(enc, "task", attrs, func() error {
			return writeFlowRefs(enc, c, el)
		})

	case *model.CollapsedSubProcess:
		attrs := []xml.Attr{attrPair("id", el.ID())}
		if label := m.Key.Label(t.Activity); label != "" {
			attrs = append(attrs, attrPair("name", label))
		}
		return emitWithBody(enc, "subProcess", attrs, func() error {
			return writeFlowRefs(enc, c, el)
		})

	case *model.ExpandedSubProcess:
		attrs := []xml.Attr{attrPair("id", el.ID())}
		if t.Name != "" {
			attrs = append(attrs, attrPair("name", t.Name))
		}
		return emitWithBody(enc, "subProcess", attrs, func() error {
			if err := writeFlowRefs(enc, c, el); err != nil {
				return err
			}
			return writeContainerContents(enc, m, t)
		})

	case *model.StartEvent:
		return writeEvent(enc, c, el, "startEvent", "", "")
	case *model.TimerStartEvent:
		return writeEvent(enc, c, el, "startEvent", "timerEventDefinition", t.TimerID)
	case *model.MessageStartEvent:
		return writeEvent(enc, c, el, "startEvent", "messageEventDefinition", t.MessageID)
	case *model.EndEvent:
		return writeEvent(enc, c, el, "endEvent", "", "")
	case *model.MessageEndEvent:
		return writeEvent(enc, c, el, "endEvent", "messageEventDefinition", t.MessageID)
	case *model.IntermediateCatchEvent:
		return writeEvent(enc, c, el, "intermediateCatchEvent", "", "")
	case *model.MessageIntermediateCatchEvent:
		return writeEvent(enc, c, el, "intermediateCatchEvent", "messageEventDefinition", t.MessageID)
	case *model.TimerIntermediateCatchEvent:
		return writeEvent(enc, c, el, "intermediateCatchEvent", "timerEventDefinition", t.TimerID)
	case *model.IntermediateThrowEvent:
		return writeEvent(enc, c, el, "intermediateThrowEvent", "", "")
	case *model.MessageIntermediateThrowEvent:
		return writeEvent(enc, c, el, "intermediateThrowEvent", "messageEventDefinition", t.MessageID)

	case *model.ExclusiveGateway:
		return writeGateway(enc, c, el, "exclusiveGateway")
	case *model.InclusiveGateway:
		return writeGateway(enc, c, el, "inclusiveGateway")
	case *model.ParallelGateway:
		return writeGateway(enc, c, el, "parallelGateway")
	case *model.EventBasedGateway:
		return writeGateway(enc, c, el, "eventBasedGateway")
	}
	return nil
}

func writeEvent(enc *xml.Encoder, c model.Container, el model.Element, tag, marker, markerID string) error {
	return emitWithBody(enc, tag, []xml.Attr{attrPair("id", el.ID())}, func() error {
		if marker != "" {
			var attrs []xml.Attr
			if markerID != "" {
				attrs = append(attrs, attrPair("id", markerID))
			}
			if err := emitEmpty(enc, marker, attrs...); err != nil {
				return err
			}
		}
		return writeFlowRefs(enc, c, el)
	})
}

func writeGateway(enc *xml.Encoder, c model.Container, el model.Element, tag string) error {
	return emitWithBody(enc, tag, []xml.Attr{attrPair("id", el.ID())}, func() error {
		return writeFlowRefs(enc, c, el)
	})
}

// writeFlowRefs emits the incoming/outgoing references elements carry in the
// interchange format. The importer tolerates and skips them.
func writeFlowRefs(enc *xml.Encoder, c model.Container, el model.Element) error {
	flows := c.SequenceFlows()
	for _, i := range el.IncomingSequenceFlows() {
		if err := emitText(enc, "incoming", flows[i].ID); err != nil {
			return err
		}
	}
	for _, i := range el.OutgoingSequenceFlows() {
		if err := emitText(enc, "outgoing", flows[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func start(name string, attrs ...xml.Attr) xml.StartElement {
	return xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
}

func attrPair(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func emitEmpty(enc *xml.Encoder, name string, attrs ...xml.Attr) error {
	if err := enc.EncodeToken(start(name, attrs...)); err != nil {
		return err
	}
	return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func emitText(enc *xml.Encoder, name, text string) error {
	if err := enc.EncodeToken(start(name)); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(text)); err != nil {
		return err
	}
	return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func emitWithBody(enc *xml.Encoder, name string, attrs []xml.Attr, body func() error) error {
	if err := enc.EncodeToken(start(name, attrs...)); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}
