package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyReadsString(t *testing.T) {
	key := Key{GameShortName: "BO1", MapSlug: "ascension", Slug: "main-quest"}

	parsed, err := ParseKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, key, parsed)
}

func TestParseKeyRejectsIncompleteKeys(t *testing.T) {
	for _, s := range []string{"", "BO1", "BO1/ascension", "BO1//main-quest", "BO1/ascension/main-quest/extra"} {
		_, err := ParseKey(s)
		assert.Error(t, err, s)
	}
}
