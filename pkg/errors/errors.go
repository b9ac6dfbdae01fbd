package errors

import (
	"fmt"
)

// ParseError represents a malformed input document: broken XML, a duplicate
// id or a missing required attribute in a BPMN document, or an invalid
// scenario document.
type ParseError struct {
	Tag     string
	Message string
	Err     error
}

// NewParseError constructs a ParseError for the given tag.
func NewParseError(tag, message string, err error) error {
	if message == "" && err != nil {
		message = err.Error()
	}
	return &ParseError{Tag: tag, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Tag != "" {
		return fmt.Sprintf("parse error: tag `%s`: %s", e.Tag, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ReferenceError captures an unresolved sourceRef/targetRef. When the missing
// id belongs to a tag the importer did not recognize, ShadowTag names it so
// the diagnostic can point at the unsupported element.
type ReferenceError struct {
	Flow      string
	Ref       string
	ShadowTag string
}

// NewReferenceError constructs a ReferenceError for the flow that mentions the
// unresolved id.
func NewReferenceError(flow, ref, shadowTag string) error {
	return &ReferenceError{Flow: flow, Ref: ref, ShadowTag: shadowTag}
}

func (e *ReferenceError) Error() string {
	if e == nil {
		return ""
	}
	if e.ShadowTag != "" {
		return fmt.Sprintf("reference error: flow `%s` mentions id `%s`, which belongs to an unrecognized `%s` tag", e.Flow, e.Ref, e.ShadowTag)
	}
	return fmt.Sprintf("reference error: flow `%s` mentions id `%s`, which was not declared", e.Flow, e.Ref)
}

// StructuralError reports a violation of BPMN well-formedness found after
// import: intra-pool message flows, missing end events, dangling connectors,
// or an invalid event-based gateway configuration.
type StructuralError struct {
	ElementID string
	Message   string
}

// NewStructuralError constructs a StructuralError anchored to an element.
func NewStructuralError(elementID, message string) error {
	return &StructuralError{ElementID: elementID, Message: message}
}

func (e *StructuralError) Error() string {
	if e == nil {
		return ""
	}
	if e.ElementID != "" {
		return fmt.Sprintf("structural error: element `%s`: %s", e.ElementID, e.Message)
	}
	return fmt.Sprintf("structural error: %s", e.Message)
}

// SemanticError reports a failed semantics query: firing an index beyond the
// current transition count, an index whose element cannot be located, or an
// index that is not enabled in the current marking.
type SemanticError struct {
	Transition int
	Message    string
}

// NewSemanticError constructs a SemanticError for the given transition index.
func NewSemanticError(transition int, message string) error {
	return &SemanticError{Transition: transition, Message: message}
}

func (e *SemanticError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("semantic error: transition %d: %s", e.Transition, e.Message)
}
