package eggverifs

import (
	"context"

	"zmbs.dev/eggseed/internal/catalog"
	"zmbs.dev/eggseed/internal/model"
	"zmbs.dev/eggseed/internal/pkg/seederr"
)

type DuplicateVerifier struct{}

// ensure DuplicateVerifier conforms to Verifier
var (
	_ Verifier      = (*DuplicateVerifier)(nil)
	_ catalogueWide = (*DuplicateVerifier)(nil)
)

func NewDuplicateVerifier() *DuplicateVerifier {
	return &DuplicateVerifier{}
}

func (d *DuplicateVerifier) Name() string {
	return "duplicate"
}

func (d *DuplicateVerifier) catalogueWide() {}

// Verify keeps the first record of every (gameShortName, mapSlug, slug) and
// rejects the later ones. A first record that fails another check still
// claims its key. Entries with an incomplete key cannot collide.
func (d *DuplicateVerifier) Verify(ctx context.Context, entries []*catalog.Entry) []*Violation {
	var violations []*Violation

	firstSeen := make(map[model.Key]int, len(entries))
	for _, entry := range entries {
		key := entry.Key
		if key.GameShortName == "" || key.MapSlug == "" || key.Slug == "" {
			continue
		}
		if first, ok := firstSeen[key]; ok {
			violations = append(violations, newViolation(entry, "slug",
				seederr.ErrDuplicateSlug.
					Msg("%s is already defined by record #%d", key, first).
					WithExtras(seederr.Extras{"firstIndex": first}),
			))
			continue
		}
		firstSeen[key] = entry.Index
	}

	return violations
}
