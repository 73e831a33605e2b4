package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/treekeeper/internal/client/storage"
	"github.com/iudanet/treekeeper/internal/models"
)

func TestTrees_PutGet(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	tree := testTree("t1", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	tree.Notes = models.StringPtr("north row")
	require.NoError(t, store.PutTree(ctx, tree))

	got, err := store.GetTree(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)
	assert.Equal(t, "Aodamo", got.Species.Name)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "north row", *got.Notes)
	assert.True(t, tree.CreatedAt.Equal(got.CreatedAt))

	_, err = store.GetTree(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrTreeNotFound)
}

func TestTrees_ListOrder(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.PutTree(ctx, testTree("old", base)))
	require.NoError(t, store.PutTree(ctx, testTree("new", base.Add(time.Hour))))
	require.NoError(t, store.PutTree(ctx, testTree("b-tie", base.Add(30*time.Minute))))
	require.NoError(t, store.PutTree(ctx, testTree("a-tie", base.Add(30*time.Minute))))

	trees, err := store.ListTrees(ctx)
	require.NoError(t, err)
	require.Len(t, trees, 4)

	ids := make([]string, 0, len(trees))
	for _, tree := range trees {
		ids = append(ids, tree.ID)
	}
	assert.Equal(t, []string{"new", "a-tie", "b-tie", "old"}, ids)
}

func TestTrees_ListEmpty(t *testing.T) {
	store := createTestStorage(t)

	trees, err := store.ListTrees(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, trees)
	assert.Empty(t, trees)
}

func TestTrees_Patch(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	require.NoError(t, store.PutTree(ctx, testTree("t1", time.Now())))

	found, err := store.PatchTree(ctx, "t1", models.FieldUpdates{
		models.FieldHeight: 3.5,
		models.FieldStatus: "reserved",
		models.FieldNotes:  "tagged",
	})
	require.NoError(t, err)
	assert.True(t, found)

	got, err := store.GetTree(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 3.5, got.Height)
	assert.Equal(t, models.TreeStatusReserved, got.Status)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "tagged", *got.Notes)
	// Непатченные поля остаются прежними
	assert.Equal(t, 10000, got.Price)

	found, err = store.PatchTree(ctx, "missing", models.FieldUpdates{models.FieldHeight: 1.0})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTrees_ReplaceKeepsTempRows(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	now := time.Now()

	require.NoError(t, store.PutTree(ctx, testTree("stale", now)))
	require.NoError(t, store.PutTree(ctx, testTree("kept", now)))
	tempID := models.NewTempID()
	require.NoError(t, store.PutTree(ctx, testTree(tempID, now)))

	fresh := testTree("kept", now)
	fresh.Height = 6
	require.NoError(t, store.ReplaceTrees(ctx, []*models.Tree{fresh, testTree("added", now)}))

	_, err := store.GetTree(ctx, "stale")
	assert.ErrorIs(t, err, storage.ErrTreeNotFound)

	got, err := store.GetTree(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, 6.0, got.Height)

	_, err = store.GetTree(ctx, "added")
	assert.NoError(t, err)

	_, err = store.GetTree(ctx, tempID)
	assert.NoError(t, err)

	trees, err := store.ListTrees(ctx)
	require.NoError(t, err)
	assert.Len(t, trees, 3)
}

func TestTrees_Delete(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	require.NoError(t, store.PutTree(ctx, testTree("t1", time.Now())))
	require.NoError(t, store.DeleteTree(ctx, "t1"))
	require.NoError(t, store.DeleteTree(ctx, "t1"))

	_, err := store.GetTree(ctx, "t1")
	assert.ErrorIs(t, err, storage.ErrTreeNotFound)
}

func TestSpecies_ReplaceAndList(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	require.NoError(t, store.ReplaceSpecies(ctx, []*models.Species{
		{ID: "sp-old", Name: "Old"},
	}))

	require.NoError(t, store.ReplaceSpecies(ctx, []*models.Species{
		{ID: "sp-mo", Name: "Momiji", NameKana: models.StringPtr("momiji"), Code: models.StringPtr("MO")},
		{ID: "sp-ao", Name: "Aodamo", NameKana: models.StringPtr("aodamo"), Code: models.StringPtr("AO")},
		{ID: "sp-ky", Name: "Kyara"},
	}))

	species, err := store.ListSpecies(ctx)
	require.NoError(t, err)
	require.Len(t, species, 3)
	// Виды без чтения идут последними
	assert.Equal(t, "sp-ao", species[0].ID)
	assert.Equal(t, "sp-mo", species[1].ID)
	assert.Equal(t, "sp-ky", species[2].ID)

	sp, err := store.GetSpecies(ctx, "sp-mo")
	require.NoError(t, err)
	require.NotNil(t, sp.Code)
	assert.Equal(t, "MO", *sp.Code)

	_, err = store.GetSpecies(ctx, "sp-old")
	assert.ErrorIs(t, err, storage.ErrSpeciesNotFound)
}
