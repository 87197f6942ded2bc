// Package catalog reads the Easter egg dataset. Records are decoded one at a
// time so a malformed record never hides the rest of the catalogue from
// validation.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"zmbs.dev/eggseed/internal/constant"
	"zmbs.dev/eggseed/internal/model"
)

var (
	ErrInvalidJSON = errors.New("dataset is not valid JSON")
	ErrNotArray    = errors.New("dataset must be a JSON array of easter eggs")
)

// Entry is one element of the dataset array. Key is the decoded record's key
// whenever Egg is set. Egg is nil when the element could not be decoded; Err
// then carries the reason and Key whatever identity could still be read from
// the raw element.
type Entry struct {
	Index int
	Key   model.Key
	Egg   *model.EasterEgg
	Raw   []byte
	Err   error
}

type Catalog struct {
	Source  string
	Entries []*Entry
}

// Eggs returns every decoded record in dataset order.
func (c *Catalog) Eggs() []*model.EasterEgg {
	eggs := make([]*model.EasterEgg, 0, len(c.Entries))
	for _, e := range c.Entries {
		if e.Egg != nil {
			eggs = append(eggs, e.Egg)
		}
	}
	return eggs
}

func (c *Catalog) Len() int {
	return len(c.Entries)
}

func Parse(data []byte, source string) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrInvalidJSON, source)
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, errors.Wrap(ErrNotArray, source)
	}

	c := &Catalog{Source: source}
	root.ForEach(func(_, value gjson.Result) bool {
		c.Entries = append(c.Entries, decodeEntry(len(c.Entries), value))
		return true
	})

	return c, nil
}

func decodeEntry(index int, value gjson.Result) *Entry {
	entry := &Entry{
		Index: index,
		Raw:   []byte(value.Raw),
		Key: model.Key{
			GameShortName: value.Get("gameShortName").String(),
			MapSlug:       value.Get("mapSlug").String(),
			Slug:          value.Get("slug").String(),
		},
	}

	if !value.IsObject() {
		entry.Err = fmt.Errorf("record is a JSON %s, not an object", strings.ToLower(value.Type.String()))
		return entry
	}

	var egg model.EasterEgg
	if err := json.Unmarshal(entry.Raw, &egg); err != nil {
		entry.Err = err
		return entry
	}

	// Key follows the decoded record once there is one, so it always matches
	// the key the record is stored under.
	entry.Egg = &egg
	entry.Key = egg.Key()
	return entry
}

func ReadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read dataset file")
	}

	return Parse(data, path)
}

// Open resolves a dataset source: "embedded", "file:<path>", or a bare path.
func Open(source string) (*Catalog, error) {
	switch {
	case source == "" || source == constant.DatasetSourceEmbedded:
		return Embedded()
	case strings.HasPrefix(source, constant.DatasetSourceFilePrefix):
		return ReadFile(strings.TrimPrefix(source, constant.DatasetSourceFilePrefix))
	default:
		return ReadFile(source)
	}
}
