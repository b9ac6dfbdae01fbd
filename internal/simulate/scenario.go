// Package simulate replays YAML-described runs against the transition
// engine: a scenario is a sequence of steps naming either a transition index
// or an activity label to fire.
package simulate

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	bpmnerrors "github.com/BPM-Research-Group/ebpmn/pkg/errors"
)

// Scenario is a replayable run description.
type Scenario struct {
	Name  string `yaml:"name,omitempty"`
	Steps []Step `yaml:"steps" validate:"required,min=1,dive"`
}

// Step fires one transition: either by its dense index in the marking that
// precedes it, or by the label of the activity it carries.
type Step struct {
	Transition *int   `yaml:"transition,omitempty" validate:"omitempty,min=0"`
	Activity   string `yaml:"activity,omitempty"`
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// ParseScenario loads and validates a scenario document.
func ParseScenario(r io.Reader) (*Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, bpmnerrors.NewParseError("scenario", "", err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, bpmnerrors.NewParseError("scenario", "", err)
	}
	if err := validatorInstance().Struct(&scenario); err != nil {
		return nil, bpmnerrors.NewParseError("scenario", "invalid scenario document", err)
	}
	for i, step := range scenario.Steps {
		if step.Transition == nil && step.Activity == "" {
			return nil, bpmnerrors.NewParseError("scenario",
				fmt.Sprintf("step %d must name a transition or an activity", i), nil)
		}
		if step.Transition != nil && step.Activity != "" {
			return nil, bpmnerrors.NewParseError("scenario",
				fmt.Sprintf("step %d cannot name both a transition and an activity", i), nil)
		}
	}
	return &scenario, nil
}
