package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zmbs.dev/eggseed/internal/model"
)

func TestParseRejectsNonArrayDocuments(t *testing.T) {
	_, err := Parse([]byte(`{"slug":"music-radio"}`), "object")
	assert.ErrorIs(t, err, ErrNotArray)

	_, err = Parse([]byte(`[{"slug":`), "broken")
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestParseKeepsMalformedRecords(t *testing.T) {
	c, err := Parse([]byte(`[
		{"gameShortName":"WAW","mapSlug":"verruckt","slug":"lullaby","xpReward":"lots"},
		42,
		{"gameShortName":"WAW","mapSlug":"nacht-der-untoten","name":"Music Radio","slug":"music-radio","type":"MUSICAL","xpReward":0,"description":"","steps":[{"order":1,"label":"Go"}]}
	]`), "mixed")
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	bad := c.Entries[0]
	assert.Nil(t, bad.Egg)
	assert.Error(t, bad.Err)
	assert.Equal(t, model.Key{GameShortName: "WAW", MapSlug: "verruckt", Slug: "lullaby"}, bad.Key)

	assert.Nil(t, c.Entries[1].Egg)
	assert.EqualError(t, c.Entries[1].Err, "record is a JSON number, not an object")

	good := c.Entries[2]
	require.NoError(t, good.Err, spew.Sdump(good))
	assert.Equal(t, "Music Radio", good.Egg.Name)
	assert.Equal(t, 2, good.Index)

	assert.Len(t, c.Eggs(), 1)
}

func TestParseKeyFollowsDecodedRecord(t *testing.T) {
	c, err := Parse([]byte(`[
		{"gameShortName":"BO2","MapSlug":"tranzit","slug":"turbine","name":"Turbine","type":"BUILDABLE","xpReward":0,"description":"","steps":[{"order":1,"label":"Build"}]},
		{"gameShortName":"BO2","mapSlug":"tranzit","slug":"turbine","slug":"jet-gun","name":"Jet Gun","type":"BUILDABLE","xpReward":0,"description":"","steps":[{"order":1,"label":"Build"}]}
	]`), "aliased")
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	for _, entry := range c.Entries {
		require.NoError(t, entry.Err, spew.Sdump(entry))
		assert.Equal(t, entry.Egg.Key(), entry.Key)
	}

	assert.Equal(t, model.Key{GameShortName: "BO2", MapSlug: "tranzit", Slug: "turbine"}, c.Entries[0].Key)
	assert.Equal(t, model.Key{GameShortName: "BO2", MapSlug: "tranzit", Slug: "jet-gun"}, c.Entries[1].Key)
}

func TestEncodeRoundTripsEmbedded(t *testing.T) {
	c, err := Embedded()
	require.NoError(t, err)
	assert.Equal(t, EmbeddedSourceName, c.Source)
	assert.Greater(t, c.Len(), 250)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, c.Eggs()))

	again, err := Parse(buf.Bytes(), "roundtrip")
	require.NoError(t, err)
	assert.Equal(t, c.Eggs(), again.Eggs())

	var second bytes.Buffer
	require.NoError(t, Encode(&second, again.Eggs()))
	assert.Equal(t, buf.String(), second.String())
}

func TestEncodeEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestContentHashFollowsAuthoredContent(t *testing.T) {
	c, err := Embedded()
	require.NoError(t, err)
	egg := c.Eggs()[0]

	h1, err := ContentHash(egg)
	require.NoError(t, err)
	assert.Len(t, h1, 16)

	egg.EggID = 99
	egg.ContentHash = h1
	h2, err := ContentHash(egg)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	egg.Steps[0].Label += "!"
	h3, err := ContentHash(egg)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestOpenResolvesSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eggs.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))

	for _, source := range []string{"file:" + path, path} {
		c, err := Open(source)
		require.NoError(t, err, source)
		assert.Equal(t, path, c.Source)
		assert.Equal(t, 0, c.Len())
	}

	c, err := Open("embedded")
	require.NoError(t, err)
	assert.Equal(t, EmbeddedSourceName, c.Source)

	_, err = Open("file:" + filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
