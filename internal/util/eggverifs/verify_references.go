package eggverifs

import (
	"context"
	"fmt"

	"zmbs.dev/eggseed/internal/catalog"
	"zmbs.dev/eggseed/internal/model"
	"zmbs.dev/eggseed/internal/pkg/seederr"
)

type ReferenceVerifier struct{}

// ensure ReferenceVerifier conforms to Verifier
var _ Verifier = (*ReferenceVerifier)(nil)

func NewReferenceVerifier() *ReferenceVerifier {
	return &ReferenceVerifier{}
}

func (r *ReferenceVerifier) Name() string {
	return "reference"
}

// Verify resolves every buildableReferenceSlug inside its own (game, map).
// Unresolved references are warnings: they only degrade a cross-link.
func (r *ReferenceVerifier) Verify(ctx context.Context, entries []*catalog.Entry) []*Violation {
	index := make(map[model.Key]*model.EasterEgg, len(entries))
	for _, entry := range entries {
		index[entry.Egg.Key()] = entry.Egg
	}

	var violations []*Violation

	for _, entry := range entries {
		egg := entry.Egg
		for i, step := range egg.Steps {
			if !step.BuildableReferenceSlug.Valid {
				continue
			}

			ref := egg.MapKey().Ref(step.BuildableReferenceSlug.String)
			field := fmt.Sprintf("steps[%d].buildableReferenceSlug", i)

			target, ok := index[ref]
			switch {
			case !ok:
				violations = append(violations, newViolation(entry, field,
					seederr.ErrDanglingReference.Msg("step %d references %q, which is not defined in %s/%s", step.Order, ref.Slug, ref.GameShortName, ref.MapSlug),
				))
			case target.Type != model.EggTypeBuildable:
				violations = append(violations, newViolation(entry, field,
					seederr.ErrDanglingReference.Msg("step %d references %q, which is a %s, not a %s", step.Order, ref.Slug, target.Type, model.EggTypeBuildable),
				))
			}
		}
	}

	return violations
}
