package bpmnxml

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/BPM-Research-Group/ebpmn/internal/model"
	bpmnerrors "github.com/BPM-Research-Group/ebpmn/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance returns the shared validator used for flow drafts.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// sequenceFlowDraft buffers a sequenceFlow until all siblings of its
// container have been declared.
type sequenceFlowDraft struct {
	Index     model.GlobalIndex
	ID        string `validate:"required"`
	SourceRef string `validate:"required"`
	TargetRef string `validate:"required"`
}

// messageFlowDraft buffers a messageFlow until the definitions close.
type messageFlowDraft struct {
	Index     model.GlobalIndex
	ID        string `validate:"required"`
	SourceRef string `validate:"required"`
	TargetRef string `validate:"required"`
}

func validateDraft(tag string, draft any) error {
	if err := validatorInstance().Struct(draft); err != nil {
		return bpmnerrors.NewParseError(tag, "missing required attribute", err)
	}
	return nil
}
