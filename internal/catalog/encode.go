package catalog

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"

	"zmbs.dev/eggseed/internal/model"
)

// Encode writes eggs in the canonical authoring format.
func Encode(w io.Writer, eggs []*model.EasterEgg) error {
	if eggs == nil {
		eggs = []*model.EasterEgg{}
	}

	b, err := json.MarshalIndent(eggs, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode easter eggs")
	}

	if _, err := w.Write(append(b, '\n')); err != nil {
		return errors.Wrap(err, "failed to write encoded easter eggs")
	}
	return nil
}

// ContentHash digests the canonical JSON form of a record. Storage-only fields
// are excluded by their json:"-" tags, so the hash only moves when the
// authored content does.
func ContentHash(egg *model.EasterEgg) (string, error) {
	b, err := json.Marshal(egg)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal easter egg for hashing")
	}
	return fmt.Sprintf("%016x", xxh3.Hash(b)), nil
}
