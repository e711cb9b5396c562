package chain

import (
	"context"
	"fmt"

	"filter-workbench/internal/opencv/safe"
)

type ProcessingStep interface {
	Apply(ctx context.Context, input *safe.Mat) (*safe.Mat, error)
	Name() string
}

// ProcessingChain feeds each step's output into the next one. Intermediate
// Mats are closed as soon as the following step has consumed them; the input
// is never closed and the final result belongs to the caller.
type ProcessingChain struct {
	steps []ProcessingStep
}

func NewProcessingChain(steps []ProcessingStep) *ProcessingChain {
	return &ProcessingChain{
		steps: steps,
	}
}

func (pc *ProcessingChain) Execute(ctx context.Context, input *safe.Mat) (*safe.Mat, error) {
	if len(pc.steps) == 0 {
		if err := safe.ValidateMatForOperation(input, "empty chain"); err != nil {
			return nil, err
		}
		return input.Clone()
	}

	current := input
	release := func() {
		if current != input {
			current.Close()
		}
	}

	for _, step := range pc.steps {
		select {
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		default:
		}

		result, err := step.Apply(ctx, current)
		if err != nil {
			release()
			return nil, fmt.Errorf("step %s failed: %w", step.Name(), err)
		}

		release()
		current = result
	}

	return current, nil
}
