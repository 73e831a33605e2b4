package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/treekeeper/internal/client/remote"
	"github.com/iudanet/treekeeper/internal/models"
)

func TestCli_runTrees_Offline(t *testing.T) {
	env := createTestCli(t, false)
	ctx := context.Background()

	require.NoError(t, env.store.ReplaceTrees(ctx, []*models.Tree{
		testTree("t1", 3.0, "A-1"),
		testTree("t2", 2.0, "B-2"),
	}))
	require.NoError(t, env.store.AddEdits(ctx, []*models.PendingEdit{
		{TreeID: "t1", Field: models.FieldHeight, Value: 4.0, CreatedAt: time.Now()},
	}))

	require.NoError(t, env.cli.runTrees(ctx, TreesOptions{}))

	out := env.out.String()
	assert.Contains(t, out, "=== Trees (offline) ===")
	assert.Contains(t, out, "Found 2 tree(s):")
	assert.Contains(t, out, "Height:   4.0 m")
	assert.Contains(t, out, "Locations: [A-1 B-2]")
	assert.Empty(t, env.gateway.SelectCalls())
}

func TestCli_runTrees_Filters(t *testing.T) {
	env := createTestCli(t, false)
	ctx := context.Background()

	shipped := testTree("t2", 2.0, "B-2")
	shipped.Status = models.TreeStatusShipped
	require.NoError(t, env.store.ReplaceTrees(ctx, []*models.Tree{testTree("t1", 3.0, "A-1"), shipped}))

	require.NoError(t, env.cli.runTrees(ctx, TreesOptions{Status: "shipped"}))
	assert.Contains(t, env.out.String(), "Found 1 tree(s):")
	assert.Contains(t, env.out.String(), "ID:       t2")

	assert.Error(t, env.cli.runTrees(ctx, TreesOptions{Status: "sold"}))
}

func TestCli_runTrees_Empty(t *testing.T) {
	env := createTestCli(t, false)
	require.NoError(t, env.cli.runTrees(context.Background(), TreesOptions{Location: "Z-9"}))
	assert.Contains(t, env.out.String(), "No trees found.")
}

func TestCli_runTree(t *testing.T) {
	env := createTestCli(t, true)
	ctx := context.Background()

	env.gateway.SelectOneFunc = func(ctx context.Context, entity remote.Entity, id string, dest any) error {
		if id != "t1" {
			return remote.ErrNotFound
		}
		fill(t, dest, testTree("t1", 3.0, "A-1"))
		return nil
	}

	require.NoError(t, env.cli.runTree(ctx, "t1"))
	out := env.out.String()
	assert.Contains(t, out, "=== Tree Details ===")
	assert.Contains(t, out, "Management number: 26-AO-0001")
	assert.Contains(t, out, "Location:          A-1")

	err := env.cli.runTree(ctx, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tree not found")
}

func TestCli_runTree_RegisteredOffline(t *testing.T) {
	env := createTestCli(t, false)
	seedSpecies(t, env)
	ctx := context.Background()

	tempID, err := env.cli.repo.RegisterTreeOffline(ctx, &models.TreeDraft{
		SpeciesID:  "sp-ao",
		Height:     2.0,
		TrunkCount: 1,
	})
	require.NoError(t, err)

	require.NoError(t, env.cli.runTree(ctx, tempID))
	out := env.out.String()
	assert.Contains(t, out, "Management number: -")
	assert.Contains(t, out, "Registered offline, waiting for sync")
}

func TestCli_runSpecies(t *testing.T) {
	env := createTestCli(t, false)
	seedSpecies(t, env)

	require.NoError(t, env.cli.runSpecies(context.Background()))
	out := env.out.String()
	assert.Contains(t, out, "AO     Aodamo")
	assert.Contains(t, out, "MO     Momiji")
}
