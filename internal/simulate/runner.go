package simulate

import (
	"context"
	"fmt"

	"github.com/BPM-Research-Group/ebpmn/internal/ports"
	"github.com/BPM-Research-Group/ebpmn/internal/semantics"
	bpmnerrors "github.com/BPM-Research-Group/ebpmn/pkg/errors"
)

// FiredStep records one executed scenario step.
type FiredStep struct {
	Transition int
	Debug      string
	Activity   string
}

// Runner drives the engine through a scenario.
type Runner struct {
	engine *semantics.Engine
	logger ports.Logger
}

// NewRunner wraps an engine.
func NewRunner(engine *semantics.Engine, logger ports.Logger) *Runner {
	return &Runner{engine: engine, logger: logger}
}

// Run fires the scenario steps from the initial marking. It returns the
// fired steps and the resulting marking. A step that is not enabled fails the
// run: the error is returned together with the steps fired before it and the
// marking they left.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) ([]FiredStep, *semantics.Marking, error) {
	marking, err := r.engine.InitialState()
	if err != nil {
		return nil, nil, err
	}

	var fired []FiredStep
	for i, step := range scenario.Steps {
		transition, err := r.resolve(marking, step)
		if err != nil {
			return fired, marking, fmt.Errorf("step %d: %w", i, err)
		}

		debug, _ := r.engine.TransitionDebug(marking, transition)
		var label string
		if act, ok := r.engine.TransitionActivity(marking, transition); ok {
			label = r.engine.Model().Key.Label(act)
		}

		if err := r.engine.Fire(marking, transition); err != nil {
			return fired, marking, fmt.Errorf("step %d: %w", i, err)
		}

		r.logger.Debug(ctx, "fired", "transition", transition, "detail", debug)
		fired = append(fired, FiredStep{Transition: transition, Debug: debug, Activity: label})
	}

	return fired, marking, nil
}

// resolve maps a step to a transition index enabled in the given marking.
func (r *Runner) resolve(marking *semantics.Marking, step Step) (int, error) {
	enabled := r.engine.EnabledTransitions(marking)

	if step.Transition != nil {
		for _, t := range enabled {
			if t == *step.Transition {
				return t, nil
			}
		}
		return 0, bpmnerrors.NewSemanticError(*step.Transition, "transition is not enabled")
	}

	for _, t := range enabled {
		act, ok := r.engine.TransitionActivity(marking, t)
		if !ok {
			continue
		}
		if r.engine.Model().Key.Label(act) == step.Activity {
			return t, nil
		}
	}
	return 0, fmt.Errorf("no enabled transition carries activity `%s`", step.Activity)
}
