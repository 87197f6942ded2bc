package model

import (
	"strings"

	"github.com/pkg/errors"
)

// Key identifies an easter egg. Slugs repeat across maps ("main-quest"), so
// all three parts are needed.
type Key struct {
	GameShortName string `json:"gameShortName,omitempty"`
	MapSlug       string `json:"mapSlug,omitempty"`
	Slug          string `json:"slug,omitempty"`
}

func (k Key) MapKey() MapKey {
	return MapKey{GameShortName: k.GameShortName, MapSlug: k.MapSlug}
}

func (k Key) String() string {
	parts := []string{k.GameShortName, k.MapSlug, k.Slug}
	for i, p := range parts {
		if p == "" {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, "/")
}

type MapKey struct {
	GameShortName string
	MapSlug       string
}

// Ref builds the key a buildable reference in this map points to.
func (m MapKey) Ref(slug string) Key {
	return Key{GameShortName: m.GameShortName, MapSlug: m.MapSlug, Slug: slug}
}

// ParseKey reads a key written as "GAME/map-slug/slug", the form String
// produces.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Key{}, errors.Errorf("invalid easter egg key %q: want GAME/map-slug/slug", s)
	}
	return Key{GameShortName: parts[0], MapSlug: parts[1], Slug: parts[2]}, nil
}
