package eggverifs

import (
	"context"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zmbs.dev/eggseed/internal/catalog"
	"zmbs.dev/eggseed/internal/model"
	"zmbs.dev/eggseed/internal/pkg/seederr"
)

func parse(t *testing.T, doc string) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(doc), t.Name())
	require.NoError(t, err)
	return c
}

func embedded(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Embedded()
	require.NoError(t, err)
	return c
}

func findEntry(t *testing.T, c *catalog.Catalog, key model.Key) *catalog.Entry {
	t.Helper()
	for _, e := range c.Entries {
		if e.Key == key {
			return e
		}
	}
	t.Fatalf("no entry %s in catalogue", key)
	return nil
}

const musicRadio = `[
  {
    "gameShortName": "WAW",
    "mapSlug": "nacht-der-untoten",
    "name": "Music Radio",
    "slug": "music-radio",
    "type": "MUSICAL",
    "xpReward": 0,
    "description": "...",
    "steps": [
      { "order": 1, "label": "Go to the room..." }
    ]
  }
]`

func TestMusicRadioValidatesClean(t *testing.T) {
	c := parse(t, musicRadio)
	report := Default().Verify(context.Background(), c)

	assert.Empty(t, report.Violations, "expect no violations\n%s", spew.Sdump(report.Violations))
	assert.NoError(t, report.Err())
	assert.NoError(t, report.StrictErr())

	accepted := report.Accepted(c)
	require.Len(t, accepted, 1)
	assert.Equal(t, model.EggTypeMusical, accepted[0].Type)
	assert.Len(t, accepted[0].Steps, 1)
}

func TestEmbeddedCatalogueHoldsInvariants(t *testing.T) {
	c := embedded(t)
	report := Default().Verify(context.Background(), c)

	assert.Empty(t, report.Violations, "expect the shipped catalogue to be clean\n%s", spew.Sdump(report.Violations))

	seen := map[model.Key]bool{}
	buildables := map[model.Key]bool{}
	for _, egg := range c.Eggs() {
		if egg.Type == model.EggTypeBuildable {
			buildables[egg.Key()] = true
		}
	}

	for _, egg := range c.Eggs() {
		assert.GreaterOrEqual(t, len(egg.Steps), 1, "record %s has no steps", egg.Key())
		for i, step := range egg.Steps {
			assert.Equal(t, i+1, step.Order, "record %s step %d", egg.Key(), i)
			if step.BuildableReferenceSlug.Valid {
				ref := egg.MapKey().Ref(step.BuildableReferenceSlug.String)
				assert.True(t, buildables[ref], "record %s references missing buildable %s", egg.Key(), ref)
			}
		}
		assert.False(t, seen[egg.Key()], "duplicate key %s", egg.Key())
		seen[egg.Key()] = true
	}
}

func TestApocalypseAvertedResolvesApothiconServant(t *testing.T) {
	c := embedded(t)
	entry := findEntry(t, c, model.Key{GameShortName: "BO3", MapSlug: "shadows-of-evil", Slug: "apocalypse-averted"})

	step := entry.Egg.Steps[2]
	require.True(t, step.BuildableReferenceSlug.Valid)
	assert.Equal(t, "apothicon-servant", step.BuildableReferenceSlug.String)

	violations := NewReferenceVerifier().Verify(context.Background(), c.Entries)
	assert.Empty(t, violations)
}

func TestSameSlugOnDifferentMapsIsNotDuplicate(t *testing.T) {
	c := embedded(t)
	findEntry(t, c, model.Key{GameShortName: "BO1", MapSlug: "bo1-ascension", Slug: "main-quest"})
	findEntry(t, c, model.Key{GameShortName: "BO1", MapSlug: "ascension", Slug: "main-quest"})
	findEntry(t, c, model.Key{GameShortName: "BO1", MapSlug: "shangri-la", Slug: "main-quest"})

	violations := NewDuplicateVerifier().Verify(context.Background(), c.Entries)
	assert.Empty(t, violations)
}

func TestDuplicateKeyRejectsLaterRecord(t *testing.T) {
	c := parse(t, `[
		{"gameShortName":"BO2","mapSlug":"buried","name":"Nav Table","slug":"nav-table","type":"BUILDABLE","steps":[{"order":1,"label":"a"}]},
		{"gameShortName":"BO2","mapSlug":"tranzit","name":"Nav Table","slug":"nav-table","type":"BUILDABLE","steps":[{"order":1,"label":"b"}]},
		{"gameShortName":"BO2","mapSlug":"buried","name":"Nav Table Again","slug":"nav-table","type":"BUILDABLE","steps":[{"order":1,"label":"c"}]}
	]`)
	report := Default().Verify(context.Background(), c)

	require.Len(t, report.Violations, 1)
	v := report.Violations[0]
	assert.Equal(t, 2, v.Index)
	assert.Equal(t, "duplicate", v.Verifier)
	assert.True(t, errors.Is(v.Err, seederr.ErrDuplicateSlug))
	assert.Equal(t, 0, (*v.Err.Extras)["firstIndex"])

	assert.False(t, report.Rejected(0))
	assert.False(t, report.Rejected(1))
	assert.True(t, report.Rejected(2))
	assert.Len(t, report.Accepted(c), 2)
	assert.True(t, errors.Is(report.Err(), seederr.ErrDuplicateSlug))
}

func TestDuplicateOfSchemaRejectedRecordIsReported(t *testing.T) {
	c := parse(t, `[
		{"gameShortName":"BO2","mapSlug":"tranzit","name":"","slug":"turbine","type":"BUILDABLE","steps":[{"order":1,"label":"a"}]},
		{"gameShortName":"BO2","mapSlug":"tranzit","name":"Turbine","slug":"turbine","type":"BUILDABLE","steps":[{"order":1,"label":"b"}]}
	]`)
	report := Default().Verify(context.Background(), c)

	require.Len(t, report.Violations, 2, spew.Sdump(report.Violations))
	assert.Equal(t, 0, report.Violations[0].Index)
	assert.True(t, errors.Is(report.Violations[0].Err, seederr.ErrSchema))

	dup := report.Violations[1]
	assert.Equal(t, 1, dup.Index)
	assert.Equal(t, "duplicate", dup.Verifier)
	assert.True(t, errors.Is(dup.Err, seederr.ErrDuplicateSlug))
	assert.Equal(t, 0, (*dup.Err.Extras)["firstIndex"])

	assert.True(t, report.Rejected(0))
	assert.True(t, report.Rejected(1))
	assert.Empty(t, report.Accepted(c))
}

func TestMissingStepsIsSchemaErrorAndOthersStillAccepted(t *testing.T) {
	c := embedded(t)
	total := c.Len()

	victim := findEntry(t, c, model.Key{GameShortName: "WAW", MapSlug: "nacht-der-untoten", Slug: "music-radio"})
	victim.Egg.Steps = nil

	report := Default().Verify(context.Background(), c)

	require.Len(t, report.Errors(), 1, spew.Sdump(report.Violations))
	v := report.Errors()[0]
	assert.Equal(t, victim.Index, v.Index)
	assert.Equal(t, "steps", v.Field)
	assert.True(t, errors.Is(v.Err, seederr.ErrSchema))

	assert.True(t, report.Rejected(victim.Index))
	assert.Len(t, report.Accepted(c), total-1)

	var ve *ValidationError
	require.True(t, errors.As(report.Err(), &ve))
	assert.Len(t, ve.Violations, 1)
}

func TestDanglingReferenceIsWarningAndRecordStaysAccepted(t *testing.T) {
	c := embedded(t)
	entry := findEntry(t, c, model.Key{GameShortName: "BO3", MapSlug: "shadows-of-evil", Slug: "apocalypse-averted"})
	entry.Egg.Steps[3].BuildableReferenceSlug.SetValid("rocket-shield-typo")

	report := Default().Verify(context.Background(), c)

	require.Len(t, report.Violations, 1)
	v := report.Violations[0]
	assert.Equal(t, "steps[3].buildableReferenceSlug", v.Field)
	assert.True(t, errors.Is(v.Err, seederr.ErrDanglingReference))
	assert.Equal(t, seederr.SeverityWarning, v.Err.Severity)

	assert.False(t, report.Rejected(entry.Index))
	assert.NoError(t, report.Err())
	assert.Error(t, report.StrictErr())
	assert.Len(t, report.Accepted(c), c.Len())
}

func TestReferenceToNonBuildableIsReported(t *testing.T) {
	c := parse(t, `[
		{"gameShortName":"BO3","mapSlug":"shadows-of-evil","name":"Snakeskin Boots","slug":"snakeskin-boots","type":"MUSICAL","steps":[{"order":1,"label":"records"}]},
		{"gameShortName":"BO3","mapSlug":"shadows-of-evil","name":"Quest","slug":"quest","type":"SIDE_QUEST","steps":[{"order":1,"label":"x","buildableReferenceSlug":"snakeskin-boots"}]},
		{"gameShortName":"BO3","mapSlug":"der-eisendrache","name":"Quest","slug":"quest","type":"SIDE_QUEST","steps":[{"order":1,"label":"x","buildableReferenceSlug":"snakeskin-boots"}]}
	]`)
	violations := NewReferenceVerifier().Verify(context.Background(), c.Entries)

	require.Len(t, violations, 2)
	assert.Contains(t, violations[0].Err.Message, "not a BUILDABLE")
	assert.Contains(t, violations[1].Err.Message, "not defined in BO3/der-eisendrache")
}

func TestSchemaCollectsEveryViolation(t *testing.T) {
	c := parse(t, `[
		{"gameShortName":"MW2","mapSlug":"Bad Slug","name":"","slug":"ok","type":"EASTER","xpReward":-5,
		 "videoEmbedUrl":"not a url","playerCountRequirement":"TRIO","steps":[{"order":1,"label":""}]},
		{"gameShortName":"BO1","mapSlug":"moon","name":"Typed wrong","slug":"typed-wrong","type":"MAIN_QUEST","xpReward":"lots","steps":[{"order":1,"label":"x"}]},
		"not an object",
		{"gameShortName":"BO1","mapSlug":"moon","name":"Fine","slug":"fine","type":"SIDE_QUEST","steps":[{"order":1,"label":"x"}]}
	]`)
	report := Default().Verify(context.Background(), c)

	fields := map[string]bool{}
	for _, v := range report.Violations {
		if v.Index == 0 {
			fields[v.Field] = true
		}
		assert.True(t, errors.Is(v.Err, seederr.ErrSchema))
	}
	for _, f := range []string{"gameShortName", "mapSlug", "name", "type", "xpReward", "videoEmbedUrl", "playerCountRequirement", "steps[0].label"} {
		assert.True(t, fields[f], "expect a violation on %s, got %v", f, fields)
	}

	assert.True(t, report.Rejected(0))
	assert.True(t, report.Rejected(1))
	assert.True(t, report.Rejected(2))
	assert.False(t, report.Rejected(3))
	assert.Equal(t, "BO1/moon/typed-wrong", c.Entries[1].Key.String())

	accepted := report.Accepted(c)
	require.Len(t, accepted, 1)
	assert.Equal(t, "fine", accepted[0].Slug)
}

func TestStepOrderReportsEachMismatch(t *testing.T) {
	c := parse(t, `[
		{"gameShortName":"BO1","mapSlug":"moon","name":"Gaps","slug":"gaps","type":"SIDE_QUEST",
		 "steps":[{"order":1,"label":"a"},{"order":3,"label":"b"},{"order":2,"label":"c"}]}
	]`)
	report := Default().Verify(context.Background(), c)

	require.Len(t, report.Violations, 2)
	assert.Equal(t, "steps[1].order", report.Violations[0].Field)
	assert.Equal(t, "steps[2].order", report.Violations[1].Field)
	assert.Equal(t, "step_order", report.Violations[0].Verifier)
	assert.True(t, report.Rejected(0))
}
