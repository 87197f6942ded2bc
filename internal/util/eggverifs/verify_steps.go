package eggverifs

import (
	"context"
	"fmt"

	"zmbs.dev/eggseed/internal/catalog"
	"zmbs.dev/eggseed/internal/pkg/seederr"
)

type StepOrderVerifier struct{}

// ensure StepOrderVerifier conforms to Verifier
var _ Verifier = (*StepOrderVerifier)(nil)

func NewStepOrderVerifier() *StepOrderVerifier {
	return &StepOrderVerifier{}
}

func (s *StepOrderVerifier) Name() string {
	return "step_order"
}

// Verify checks steps[i].order == i+1 for every step, reporting each gap or
// swap on its own.
func (s *StepOrderVerifier) Verify(ctx context.Context, entries []*catalog.Entry) []*Violation {
	var violations []*Violation

	for _, entry := range entries {
		for i, step := range entry.Egg.Steps {
			if step.Order != i+1 {
				violations = append(violations, newViolation(entry,
					fmt.Sprintf("steps[%d].order", i),
					seederr.ErrSchema.Msg("step at position %d must have order %d, but got %d", i+1, i+1, step.Order),
				))
			}
		}
	}

	return violations
}
