package cli

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/treekeeper/internal/client/iocli"
	"github.com/iudanet/treekeeper/internal/config"
)

func TestRootCommand_FlagsOverrideConfig(t *testing.T) {
	env := createTestCli(t, false)
	dbPath := filepath.Join(t.TempDir(), "flags.db")

	var got *config.Config
	opener := func(ctx context.Context, cfg *config.Config, io iocli.IO, logger *slog.Logger) (*Cli, error) {
		got = cfg
		return env.cli, nil
	}

	root := NewRootCommand(env.cli.io, BuildInfo{Version: "test"}, opener)
	root.SetArgs([]string{"--db", dbPath, "--server", "http://nursery.local", "--timeout", "2s", "pending"})
	require.NoError(t, root.Execute())

	require.NotNil(t, got)
	assert.Equal(t, dbPath, got.Store.Path)
	assert.Equal(t, "http://nursery.local", got.Remote.URL)
	assert.Equal(t, 2*time.Second, got.Remote.Timeout)
	assert.Equal(t, config.DriverREST, got.Remote.Driver)
	assert.Contains(t, env.out.String(), "Pending edits:")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	env := createTestCli(t, false)
	opened := false
	opener := func(ctx context.Context, cfg *config.Config, io iocli.IO, logger *slog.Logger) (*Cli, error) {
		opened = true
		return env.cli, nil
	}

	root := NewRootCommand(env.cli.io, BuildInfo{}, opener)
	root.SetArgs([]string{"--driver", "postgres", "status"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote.dsn is required")
	assert.False(t, opened)
}

func TestRootCommand_Args(t *testing.T) {
	env := createTestCli(t, false)
	opener := func(ctx context.Context, cfg *config.Config, io iocli.IO, logger *slog.Logger) (*Cli, error) {
		return env.cli, nil
	}

	root := NewRootCommand(env.cli.io, BuildInfo{}, opener)
	root.SetArgs([]string{"edit", "t1"})
	assert.Error(t, root.Execute())
}

func TestRootCommand_Version(t *testing.T) {
	var buf bytes.Buffer
	root := NewRootCommand(&iocli.IOMock{}, BuildInfo{Version: "1.2.0", BuildDate: "2026-10-01", GitCommit: "abc123"}, nil)
	root.SetOut(&buf)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "Version:    1.2.0")
	assert.Contains(t, buf.String(), "Git Commit: abc123")
}
