package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zmbs.dev/eggseed/internal/catalog"
	"zmbs.dev/eggseed/internal/model"
	"zmbs.dev/eggseed/internal/pkg/seederr"
	"zmbs.dev/eggseed/internal/pkg/testentry"
	"zmbs.dev/eggseed/internal/repo/memstore"
	"zmbs.dev/eggseed/internal/service"
)

func TestSnapshotRoundTripsEmbeddedCatalogue(t *testing.T) {
	ctx := context.Background()
	var validation *service.Validation
	testentry.Populate(t, &validation)
	export := service.NewExport(validation, nil)

	c := embedded(t)
	data, report, err := export.Snapshot(ctx, c)
	require.NoError(t, err)
	require.NoError(t, report.Err())

	again, err := catalog.Parse(data, "snapshot")
	require.NoError(t, err)
	assert.Equal(t, c.Eggs(), again.Eggs())
}

func TestStoreSnapshotMatchesLoadedCatalogue(t *testing.T) {
	ctx := context.Background()
	var validation *service.Validation
	var seed *service.Seed
	testentry.Populate(t, &validation, &seed)
	export := service.NewExport(validation, nil)
	store := memstore.New()

	_, err := seed.Load(ctx, embedded(t), store, service.LoadOptions{})
	require.NoError(t, err)

	data, err := export.StoreSnapshot(ctx, store)
	require.NoError(t, err)

	stored, err := catalog.Parse(data, "store")
	require.NoError(t, err)
	assert.Len(t, stored.Entries, embedded(t).Len())
	for _, e := range stored.Entries {
		require.NoError(t, e.Err)
	}
}

func TestStoreSnapshotSelectsKeys(t *testing.T) {
	ctx := context.Background()
	var validation *service.Validation
	var seed *service.Seed
	testentry.Populate(t, &validation, &seed)
	export := service.NewExport(validation, nil)
	store := memstore.New()

	_, err := seed.Load(ctx, embedded(t), store, service.LoadOptions{})
	require.NoError(t, err)

	keys := []model.Key{
		{GameShortName: "BO1", MapSlug: "ascension", Slug: "main-quest"},
		{GameShortName: "BO1", MapSlug: "bo1-ascension", Slug: "main-quest"},
	}
	data, err := export.StoreSnapshot(ctx, store, keys...)
	require.NoError(t, err)

	stored, err := catalog.Parse(data, "store")
	require.NoError(t, err)
	require.Equal(t, 2, stored.Len())
	assert.Equal(t, keys[0], stored.Entries[0].Key)
	assert.Equal(t, keys[1], stored.Entries[1].Key)

	_, err = export.StoreSnapshot(ctx, store, tranzit("no-such-egg"))
	assert.ErrorIs(t, err, seederr.ErrNotFound)
}
