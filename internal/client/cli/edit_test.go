package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/treekeeper/internal/client/remote"
	"github.com/iudanet/treekeeper/internal/models"
)

func TestCli_runEdit_Online(t *testing.T) {
	env := createTestCli(t, true)
	ctx := context.Background()
	require.NoError(t, env.store.PutTree(ctx, testTree("t1", 3.0, "A-1")))

	env.gateway.UpdateFunc = func(ctx context.Context, entity remote.Entity, id string, fields models.FieldUpdates) error {
		return nil
	}

	require.NoError(t, env.cli.runEdit(ctx, "t1", []string{"height=3.5", "notes=null"}))

	calls := env.gateway.UpdateCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, models.FieldUpdates{"height": 3.5, "notes": nil}, calls[0].Fields)
	assert.Contains(t, env.out.String(), "✓ Saved\n")
	assert.Contains(t, env.out.String(), "Updated fields: [height notes]")

	count, err := env.store.CountUnsyncedEdits(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCli_runEdit_Offline(t *testing.T) {
	env := createTestCli(t, false)
	ctx := context.Background()
	require.NoError(t, env.store.PutTree(ctx, testTree("t1", 3.0, "A-1")))

	require.NoError(t, env.cli.runEdit(ctx, "t1", []string{"height=4", "location=C-3"}))
	assert.Contains(t, env.out.String(), "Saved locally, will sync (offline)")

	count, err := env.store.CountUnsyncedEdits(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCli_runEdit_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no assignments", args: nil},
		{name: "read-only field", args: []string{"management_number=26-AO-0002"}},
		{name: "not a number", args: []string{"height=tall"}},
		{name: "out of range", args: []string{"height=40"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := createTestCli(t, false)
			assert.Error(t, env.cli.runEdit(context.Background(), "t1", tt.args))

			count, err := env.store.CountUnsyncedEdits(context.Background())
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}
