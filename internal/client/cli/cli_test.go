package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/treekeeper/internal/client/connectivity"
	"github.com/iudanet/treekeeper/internal/client/iocli"
	"github.com/iudanet/treekeeper/internal/client/remote"
	"github.com/iudanet/treekeeper/internal/client/repository"
	"github.com/iudanet/treekeeper/internal/client/storage/boltdb"
	"github.com/iudanet/treekeeper/internal/client/sync"
	"github.com/iudanet/treekeeper/internal/models"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// output собирает все, что команда напечатала через IO
type output struct {
	lines []string
	mu    stdsync.Mutex
}

func (o *output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return strings.Join(o.lines, "")
}

func (o *output) add(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = append(o.lines, s)
}

func newTestIO(inputs ...string) (*iocli.IOMock, *output) {
	out := &output{}
	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			out.add(fmt.Sprintln(a...))
		},
		PrintfFunc: func(format string, a ...any) {
			out.add(fmt.Sprintf(format, a...))
		},
		WriteFunc: func(p []byte) (int, error) {
			out.add(string(p))
			return len(p), nil
		},
		IsInteractiveFunc: func() bool {
			return len(inputs) > 0
		},
		ReadInputFunc: func(prompt string) (string, error) {
			out.add(prompt)
			if len(inputs) == 0 {
				return "", fmt.Errorf("unexpected prompt %q", prompt)
			}
			next := inputs[0]
			inputs = inputs[1:]
			return next, nil
		},
	}, out
}

type testEnv struct {
	cli     *Cli
	store   *boltdb.Storage
	gateway *remote.GatewayMock
	syncer  *sync.ServiceMock
	watcher *connectivity.Watcher
	out     *output
}

// createTestCli собирает Cli поверх временного BoltDB; шлюз и сервис
// синхронизации замоканы
func createTestCli(t *testing.T, online bool, inputs ...string) *testEnv {
	t.Helper()

	ctx := context.Background()
	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "cli_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	watcher := connectivity.NewWatcher(ctx, nil, setupTestLogger())
	watcher.Set(online)
	t.Cleanup(watcher.Close)

	gateway := &remote.GatewayMock{}
	syncer := &sync.ServiceMock{}
	repo := repository.New(store, gateway, watcher, setupTestLogger(), repository.WithTimeout(time.Second))
	io, out := newTestIO(inputs...)

	return &testEnv{
		cli:     New(io, repo, syncer, store, watcher, setupTestLogger()),
		store:   store,
		gateway: gateway,
		syncer:  syncer,
		watcher: watcher,
		out:     out,
	}
}

func fill(t *testing.T, dest, value any) {
	t.Helper()
	data, err := json.Marshal(value)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, dest))
}

func testTree(id string, height float64, location string) *models.Tree {
	created := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	return &models.Tree{
		ID:               id,
		SpeciesID:        "sp-ao",
		Species:          models.SpeciesRef{ID: "sp-ao", Name: "Aodamo"},
		Height:           height,
		TrunkCount:       1,
		Price:            10000,
		Status:           models.TreeStatusInStock,
		Location:         models.StringPtr(location),
		ManagementNumber: models.StringPtr("26-AO-0001"),
		CreatedAt:        created,
		UpdatedAt:        created,
	}
}

func seedSpecies(t *testing.T, env *testEnv) {
	t.Helper()
	require.NoError(t, env.store.ReplaceSpecies(context.Background(), []*models.Species{
		{ID: "sp-ao", Name: "Aodamo", Code: models.StringPtr("AO")},
		{ID: "sp-mo", Name: "Momiji", Code: models.StringPtr("MO")},
	}))
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"height=3.5", "notes=a=b", "location="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"height": "3.5", "notes": "a=b", "location": ""}, got)

	_, err = parseAssignments([]string{"height"})
	assert.Error(t, err)

	_, err = parseAssignments([]string{"=3"})
	assert.Error(t, err)

	_, err = parseAssignments([]string{"height=1", "height=2"})
	assert.Error(t, err)
}

func TestCli_Close(t *testing.T) {
	var order []string
	c := &Cli{closers: []func() error{
		func() error { order = append(order, "store"); return nil },
		func() error { order = append(order, "gateway"); return fmt.Errorf("boom") },
	}}

	err := c.Close()
	require.Error(t, err)
	assert.Equal(t, []string{"gateway", "store"}, order)
	assert.NoError(t, c.Close())
}
