package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/treekeeper/internal/client/connectivity"
	"github.com/iudanet/treekeeper/internal/client/remote"
	"github.com/iudanet/treekeeper/internal/client/storage/boltdb"
	"github.com/iudanet/treekeeper/internal/client/sync"
	"github.com/iudanet/treekeeper/internal/models"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testEnv struct {
	store   *boltdb.Storage
	gateway *remote.GatewayMock
	watcher *connectivity.Watcher
	repo    *Repository
	now     time.Time
}

// createTestEnv создает репозиторий поверх временного BoltDB и мока шлюза.
// Методы шлюза не заданы: неожиданный удаленный вызов роняет тест.
func createTestEnv(t *testing.T, online bool) *testEnv {
	t.Helper()

	ctx := context.Background()
	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "repo_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	watcher := connectivity.NewWatcher(ctx, nil, setupTestLogger())
	watcher.Set(online)

	env := &testEnv{
		store:   store,
		gateway: &remote.GatewayMock{},
		watcher: watcher,
		now:     time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
	}
	env.repo = New(store, env.gateway, watcher, setupTestLogger(),
		WithTimeout(time.Second),
		WithClock(func() time.Time { return env.now }),
	)
	return env
}

// fill копирует value в dest через JSON, как это делает настоящий шлюз
func fill(t *testing.T, dest, value any) {
	t.Helper()
	data, err := json.Marshal(value)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, dest))
}

func testTree(id string, height float64, created time.Time) *models.Tree {
	return &models.Tree{
		ID:         id,
		SpeciesID:  "sp-ao",
		Species:    models.SpeciesRef{ID: "sp-ao", Name: "Aodamo"},
		Height:     height,
		TrunkCount: 1,
		Price:      10000,
		Status:     models.TreeStatusInStock,
		ArrivedAt:  created.Format(time.DateOnly),
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

func testDraft() *models.TreeDraft {
	return &models.TreeDraft{
		SpeciesID:  "sp-ao",
		Height:     2.0,
		TrunkCount: 1,
		Price:      10000,
	}
}

func TestGetAllTrees_OnlineReplacesCacheAndOverlays(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, true)
	base := env.now.Add(-time.Hour)

	require.NoError(t, env.store.PutTree(ctx, testTree("stale", 1.0, base)))
	require.NoError(t, env.store.AddEdits(ctx, []*models.PendingEdit{
		{TreeID: "t1", Field: models.FieldHeight, Value: 3.5, CreatedAt: base},
	}))

	env.gateway.SelectFunc = func(ctx context.Context, entity remote.Entity, q remote.Query, dest any) error {
		assert.Equal(t, remote.EntityTrees, entity)
		fill(t, dest, []*models.Tree{testTree("t2", 5.0, base.Add(time.Minute)), testTree("t1", 3.0, base)})
		return nil
	}

	trees, err := env.repo.GetAllTrees(ctx)
	require.NoError(t, err)
	require.Len(t, trees, 2)
	assert.Equal(t, "t2", trees[0].ID)
	assert.Equal(t, "t1", trees[1].ID)
	assert.Equal(t, 3.5, trees[1].Height)

	// Кэш хранит удаленное состояние без локальных правок
	cached, err := env.store.GetTree(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, cached.Height)

	_, err = env.store.GetTree(ctx, "stale")
	assert.Error(t, err)
}

func TestGetAllTrees_OfflineUsesCacheAndRegistrations(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, false)
	base := env.now.Add(-24 * time.Hour)

	require.NoError(t, env.store.PutTree(ctx, testTree("t1", 3.0, base)))
	require.NoError(t, env.store.AddEdits(ctx, []*models.PendingEdit{
		{TreeID: "t1", Field: models.FieldPrice, Value: 25000, CreatedAt: base},
	}))

	tempID, err := env.repo.RegisterTreeOffline(ctx, testDraft())
	require.NoError(t, err)

	trees, err := env.repo.GetAllTrees(ctx)
	require.NoError(t, err)
	require.Len(t, trees, 2)
	assert.Equal(t, tempID, trees[0].ID)
	assert.Nil(t, trees[0].ManagementNumber)
	assert.Equal(t, "t1", trees[1].ID)
	assert.Equal(t, 25000, trees[1].Price)

	assert.Empty(t, env.gateway.SelectCalls())
}

func TestGetAllTrees_OnlinePrependsRegistrations(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, false)

	tempID, err := env.repo.RegisterTreeOffline(ctx, testDraft())
	require.NoError(t, err)

	env.watcher.Set(true)
	env.gateway.SelectFunc = func(ctx context.Context, entity remote.Entity, q remote.Query, dest any) error {
		fill(t, dest, []*models.Tree{testTree("t1", 3.0, env.now.Add(time.Hour))})
		return nil
	}

	trees, err := env.repo.GetAllTrees(ctx)
	require.NoError(t, err)
	require.Len(t, trees, 2)
	assert.Equal(t, tempID, trees[0].ID)
	assert.Equal(t, "t1", trees[1].ID)

	// Зеркало регистрации переживает замену кэша
	_, err = env.store.GetTree(ctx, tempID)
	assert.NoError(t, err)
}

func TestGetAllTrees_RemoteFailureFallsBack(t *testing.T) {
	tests := []struct {
		selectFn func(ctx context.Context, entity remote.Entity, q remote.Query, dest any) error
		name     string
	}{
		{
			name: "remote error",
			selectFn: func(ctx context.Context, entity remote.Entity, q remote.Query, dest any) error {
				return remote.ErrUnavailable
			},
		},
		{
			name: "timeout",
			selectFn: func(ctx context.Context, entity remote.Entity, q remote.Query, dest any) error {
				<-ctx.Done()
				return ctx.Err()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := createTestEnv(t, true)
			env.repo.timeout = 20 * time.Millisecond
			require.NoError(t, env.store.PutTree(ctx, testTree("t1", 3.0, env.now)))

			env.gateway.SelectFunc = tt.selectFn

			trees, err := env.repo.GetAllTrees(ctx)
			require.NoError(t, err)
			require.Len(t, trees, 1)
			assert.Equal(t, "t1", trees[0].ID)
		})
	}
}

func TestGetTree_Online(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, true)

	env.gateway.SelectOneFunc = func(ctx context.Context, entity remote.Entity, id string, dest any) error {
		fill(t, dest, testTree(id, 6.0, env.now))
		return nil
	}
	require.NoError(t, env.store.AddEdits(ctx, []*models.PendingEdit{
		{TreeID: "t1", Field: models.FieldNotes, Value: "pruned", CreatedAt: env.now},
	}))

	tree, err := env.repo.GetTree(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, 6.0, tree.Height)
	require.NotNil(t, tree.Notes)
	assert.Equal(t, "pruned", *tree.Notes)

	cached, err := env.store.GetTree(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 6.0, cached.Height)
	assert.Nil(t, cached.Notes)
}

func TestGetTree_NotFoundAnywhere(t *testing.T) {
	ctx := context.Background()

	env := createTestEnv(t, false)
	tree, err := env.repo.GetTree(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, tree)

	env = createTestEnv(t, true)
	env.gateway.SelectOneFunc = func(ctx context.Context, entity remote.Entity, id string, dest any) error {
		return remote.ErrNotFound
	}
	tree, err = env.repo.GetTree(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, tree)
}

func TestGetTree_TempIDStaysLocal(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, false)

	tempID, err := env.repo.RegisterTreeOffline(ctx, testDraft())
	require.NoError(t, err)

	env.watcher.Set(true)

	tree, err := env.repo.GetTree(ctx, tempID)
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, tempID, tree.ID)
	assert.Empty(t, env.gateway.SelectOneCalls())
}

func TestGetTree_ResolvesSyncedTempID(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, false)

	tempID, err := env.repo.RegisterTreeOffline(ctx, testDraft())
	require.NoError(t, err)

	reg, err := env.store.GetRegistrationByTempID(ctx, tempID)
	require.NoError(t, err)
	canonical := reg.Mirror()
	canonical.ID = "uuid-1"
	require.NoError(t, env.store.CompleteRegistration(ctx, reg.ID, canonical))

	tree, err := env.repo.GetTree(ctx, tempID)
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, "uuid-1", tree.ID)
}

func TestSaveEdit_Online(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, true)
	require.NoError(t, env.store.PutTree(ctx, testTree("t1", 3.0, env.now)))

	env.gateway.UpdateFunc = func(ctx context.Context, entity remote.Entity, id string, fields models.FieldUpdates) error {
		return nil
	}

	res, err := env.repo.SaveEdit(ctx, "t1", models.FieldUpdates{
		models.FieldHeight: 3.5,
		models.FieldPrice:  30000,
	})
	require.NoError(t, err)
	assert.False(t, res.Offline)
	assert.Equal(t, remote.ReasonNone, res.Reason)

	calls := env.gateway.UpdateCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "t1", calls[0].ID)
	assert.Equal(t, models.FieldUpdates{models.FieldHeight: 3.5, models.FieldPrice: 30000}, calls[0].Fields)

	cached, err := env.store.GetTree(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 3.5, cached.Height)
	assert.Equal(t, 30000, cached.Price)

	count, err := env.repo.GetPendingEditCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSaveEdit_QueuesWhenRemoteUnavailable(t *testing.T) {
	tests := []struct {
		update     func(ctx context.Context, entity remote.Entity, id string, fields models.FieldUpdates) error
		name       string
		wantReason remote.FallbackReason
		online     bool
	}{
		{name: "offline", online: false, wantReason: remote.ReasonOffline},
		{
			name:       "remote error",
			online:     true,
			wantReason: remote.ReasonRemoteError,
			update: func(ctx context.Context, entity remote.Entity, id string, fields models.FieldUpdates) error {
				return errors.New("connection reset")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := createTestEnv(t, tt.online)
			env.gateway.UpdateFunc = tt.update
			require.NoError(t, env.store.PutTree(ctx, testTree("t1", 3.0, env.now)))

			res, err := env.repo.SaveEdit(ctx, "t1", models.FieldUpdates{
				models.FieldHeight: 3.5,
				models.FieldNotes:  "leaning",
			})
			require.NoError(t, err)
			assert.True(t, res.Offline)
			assert.Equal(t, tt.wantReason, res.Reason)

			edits, err := env.store.ListUnsyncedEdits(ctx)
			require.NoError(t, err)
			require.Len(t, edits, 2)
			assert.True(t, edits[0].CreatedAt.Equal(edits[1].CreatedAt))

			// Оптимистичное обновление кэша
			cached, err := env.store.GetTree(ctx, "t1")
			require.NoError(t, err)
			assert.Equal(t, 3.5, cached.Height)

			// read-your-writes
			env.watcher.Set(false)
			tree, err := env.repo.GetTree(ctx, "t1")
			require.NoError(t, err)
			assert.Equal(t, 3.5, tree.Height)
			require.NotNil(t, tree.Notes)
			assert.Equal(t, "leaning", *tree.Notes)
		})
	}
}

func TestSaveEdit_ReadYourWritesOnline(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, true)

	// Сервер еще возвращает старое значение, правка стоит в очереди
	env.gateway.UpdateFunc = func(ctx context.Context, entity remote.Entity, id string, fields models.FieldUpdates) error {
		return remote.ErrUnavailable
	}
	env.gateway.SelectOneFunc = func(ctx context.Context, entity remote.Entity, id string, dest any) error {
		fill(t, dest, testTree(id, 3.0, env.now))
		return nil
	}

	_, err := env.repo.SaveEdit(ctx, "t1", models.FieldUpdates{models.FieldHeight: 3.5})
	require.NoError(t, err)

	tree, err := env.repo.GetTree(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 3.5, tree.Height)
}

func TestSaveEdit_OverlayLatestWins(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, false)
	require.NoError(t, env.store.PutTree(ctx, testTree("T1", 3.0, env.now)))

	_, err := env.repo.SaveEdit(ctx, "T1", models.FieldUpdates{models.FieldHeight: 3.5})
	require.NoError(t, err)

	env.now = env.now.Add(time.Minute)
	_, err = env.repo.SaveEdit(ctx, "T1", models.FieldUpdates{models.FieldHeight: 4.0, models.FieldPrice: 12000})
	require.NoError(t, err)

	// Та же метка времени: побеждает более поздняя запись в очереди
	_, err = env.repo.SaveEdit(ctx, "T1", models.FieldUpdates{models.FieldPrice: 15000})
	require.NoError(t, err)

	// Кэш откатываем к удаленному состоянию, чтобы проверить именно наложение
	require.NoError(t, env.store.PutTree(ctx, testTree("T1", 3.0, env.now)))

	tree, err := env.repo.GetTree(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, tree.Height)
	assert.Equal(t, 15000, tree.Price)

	trees, err := env.repo.GetAllTrees(ctx)
	require.NoError(t, err)
	require.Len(t, trees, 1)
	assert.Equal(t, 4.0, trees[0].Height)
	assert.Equal(t, 15000, trees[0].Price)

	count, err := env.repo.GetPendingEditCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestSaveEdit_QueuedFieldWinsOverLaterOnlineSave(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, false)
	require.NoError(t, env.store.PutTree(ctx, testTree("t1", 3.0, env.now)))

	res, err := env.repo.SaveEdit(ctx, "t1", models.FieldUpdates{models.FieldHeight: 3.5})
	require.NoError(t, err)
	assert.Equal(t, remote.ReasonOffline, res.Reason)

	// Связь вернулась, но правка высоты еще в очереди
	env.watcher.Set(true)
	env.now = env.now.Add(time.Minute)
	res, err = env.repo.SaveEdit(ctx, "t1", models.FieldUpdates{models.FieldHeight: 4.0})
	require.NoError(t, err)
	assert.True(t, res.Offline)
	assert.Equal(t, remote.ReasonPending, res.Reason)
	assert.Empty(t, env.gateway.UpdateCalls())

	env.gateway.SelectOneFunc = func(ctx context.Context, entity remote.Entity, id string, dest any) error {
		fill(t, dest, testTree(id, 3.0, env.now))
		return nil
	}
	tree, err := env.repo.GetTree(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, tree.Height)

	env.gateway.UpdateFunc = func(ctx context.Context, entity remote.Entity, id string, fields models.FieldUpdates) error {
		return nil
	}
	result := sync.NewService(env.gateway, env.store, setupTestLogger()).Sync(ctx)
	assert.Equal(t, 2, result.EditsCleared)

	calls := env.gateway.UpdateCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "t1", calls[0].ID)
	assert.Equal(t, models.FieldUpdates{models.FieldHeight: 4.0}, calls[0].Fields)

	count, err := env.repo.GetPendingEditCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSaveEdit_OtherFieldsGoRemoteWithQueuedEdits(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, false)
	require.NoError(t, env.store.PutTree(ctx, testTree("t1", 3.0, env.now)))

	_, err := env.repo.SaveEdit(ctx, "t1", models.FieldUpdates{models.FieldHeight: 3.5})
	require.NoError(t, err)

	env.watcher.Set(true)
	env.gateway.UpdateFunc = func(ctx context.Context, entity remote.Entity, id string, fields models.FieldUpdates) error {
		return nil
	}
	res, err := env.repo.SaveEdit(ctx, "t1", models.FieldUpdates{models.FieldPrice: 12000})
	require.NoError(t, err)
	assert.False(t, res.Offline)
	assert.Equal(t, remote.ReasonNone, res.Reason)
	require.Len(t, env.gateway.UpdateCalls(), 1)

	count, err := env.repo.GetPendingEditCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSaveEdit_SpeciesChangeRefreshesRelation(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, false)
	require.NoError(t, env.store.ReplaceSpecies(ctx, []*models.Species{
		{ID: "sp-ao", Name: "Aodamo"},
		{ID: "sp-ky", Name: "Keyaki"},
	}))
	require.NoError(t, env.store.PutTree(ctx, testTree("t1", 3.0, env.now)))
	require.NoError(t, env.store.PutTree(ctx, testTree("t2", 3.0, env.now)))

	_, err := env.repo.SaveEdit(ctx, "t1", models.FieldUpdates{models.FieldSpeciesID: "sp-ky"})
	require.NoError(t, err)

	cached, err := env.store.GetTree(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "sp-ky", cached.SpeciesID)
	assert.Equal(t, models.SpeciesRef{ID: "sp-ky", Name: "Keyaki"}, cached.Species)

	// Наложение на удаленное состояние тоже подставляет новый вид
	require.NoError(t, env.store.PutTree(ctx, testTree("t1", 3.0, env.now)))
	tree, err := env.repo.GetTree(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.SpeciesRef{ID: "sp-ky", Name: "Keyaki"}, tree.Species)

	// Вида нет в кэше: старое имя не показываем
	_, err = env.repo.SaveEdit(ctx, "t2", models.FieldUpdates{models.FieldSpeciesID: "sp-zz"})
	require.NoError(t, err)

	trees, err := env.repo.GetAllTrees(ctx)
	require.NoError(t, err)
	require.Len(t, trees, 2)
	for _, tree := range trees {
		if tree.ID == "t2" {
			assert.Equal(t, models.SpeciesRef{ID: "sp-zz"}, tree.Species)
		}
	}
}

func TestSaveEdit_TempIDIsQueuedEvenOnline(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, false)

	tempID, err := env.repo.RegisterTreeOffline(ctx, testDraft())
	require.NoError(t, err)

	env.watcher.Set(true)
	res, err := env.repo.SaveEdit(ctx, tempID, models.FieldUpdates{models.FieldLocation: "B-3"})
	require.NoError(t, err)
	assert.True(t, res.Offline)
	assert.Equal(t, remote.ReasonUnsynced, res.Reason)
	assert.Empty(t, env.gateway.UpdateCalls())

	tree, err := env.repo.GetTree(ctx, tempID)
	require.NoError(t, err)
	require.NotNil(t, tree.Location)
	assert.Equal(t, "B-3", *tree.Location)
}

func TestSaveEdit_Invalid(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, false)

	_, err := env.repo.SaveEdit(ctx, "t1", models.FieldUpdates{"management_number": "26-AO-0001"})
	assert.Error(t, err)

	_, err = env.repo.SaveEdit(ctx, "t1", models.FieldUpdates{})
	assert.Error(t, err)

	count, err := env.repo.GetPendingEditCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRegisterTreeOffline(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, false)

	require.NoError(t, env.store.ReplaceSpecies(ctx, []*models.Species{
		{ID: "sp-ao", Name: "Aodamo", Code: models.StringPtr("AO")},
	}))

	tempID, err := env.repo.RegisterTreeOffline(ctx, testDraft())
	require.NoError(t, err)
	assert.True(t, models.IsTempID(tempID))

	reg, err := env.store.GetRegistrationByTempID(ctx, tempID)
	require.NoError(t, err)
	assert.Equal(t, "Aodamo", reg.SpeciesName)
	require.NotNil(t, reg.SpeciesCode)
	assert.Equal(t, "AO", *reg.SpeciesCode)
	assert.True(t, env.now.Equal(reg.CreatedAt))

	mirror, err := env.store.GetTree(ctx, tempID)
	require.NoError(t, err)
	assert.Nil(t, mirror.ManagementNumber)
	assert.Equal(t, models.TreeStatusInStock, mirror.Status)
	assert.Equal(t, "Aodamo", mirror.Species.Name)

	regs, err := env.repo.GetPendingRegistrationCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, regs)

	total, err := env.repo.GetPendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, err = env.repo.RegisterTreeOffline(ctx, &models.TreeDraft{SpeciesID: "sp-ao"})
	assert.Error(t, err)
}

func TestGetAllSpecies(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t, true)

	env.gateway.SelectFunc = func(ctx context.Context, entity remote.Entity, q remote.Query, dest any) error {
		assert.Equal(t, remote.EntitySpecies, entity)
		fill(t, dest, []*models.Species{
			{ID: "sp-mo", Name: "Momiji", NameKana: models.StringPtr("momiji")},
			{ID: "sp-ao", Name: "Aodamo", NameKana: models.StringPtr("aodamo")},
		})
		return nil
	}

	species, err := env.repo.GetAllSpecies(ctx)
	require.NoError(t, err)
	require.Len(t, species, 2)
	assert.Equal(t, "sp-ao", species[0].ID)

	env.watcher.Set(false)
	species, err = env.repo.GetAllSpecies(ctx)
	require.NoError(t, err)
	require.Len(t, species, 2)
	assert.Len(t, env.gateway.SelectCalls(), 1)
}

func TestWarmCache(t *testing.T) {
	ctx := context.Background()

	env := createTestEnv(t, false)
	_, err := env.repo.WarmCache(ctx)
	assert.ErrorIs(t, err, ErrOffline)

	env = createTestEnv(t, true)
	env.gateway.SelectFunc = func(ctx context.Context, entity remote.Entity, q remote.Query, dest any) error {
		switch entity {
		case remote.EntityTrees:
			fill(t, dest, []*models.Tree{testTree("t1", 1, env.now), testTree("t2", 2, env.now)})
		case remote.EntitySpecies:
			fill(t, dest, []*models.Species{{ID: "sp-ao", Name: "Aodamo"}})
		}
		return nil
	}

	res, err := env.repo.WarmCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, WarmResult{Trees: 2, Species: 1}, res)

	trees, err := env.store.ListTrees(ctx)
	require.NoError(t, err)
	assert.Len(t, trees, 2)
}
