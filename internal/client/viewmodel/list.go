package viewmodel

import (
	"context"
	"fmt"
	"log/slog"
	stdsync "sync"

	"github.com/iudanet/treekeeper/internal/client/connectivity"
	"github.com/iudanet/treekeeper/internal/client/sync"
	"github.com/iudanet/treekeeper/internal/models"
)

// ListState is a snapshot of the inventory list screen.
type ListState struct {
	Err          error             // ошибка последней загрузки
	Message      string            // статус последнего сохранения
	Trees        []*models.Tree    // деревья с учетом офлайн-правок
	Species      []*models.Species // справочник видов
	Locations    []string          // места на участке для фильтра
	PendingCount int               // записи, ожидающие синхронизации
}

// TreeListView holds the state of the tree collection.
type TreeListView struct {
	onChange func(ListState)
	deps
	msg   message
	state ListState
	mu    stdsync.Mutex
}

// NewTreeListView creates the list view. onChange may be nil.
func NewTreeListView(repo Repository, syncer sync.Service, monitor connectivity.Monitor, logger *slog.Logger, onChange func(ListState), opts ...Option) *TreeListView {
	return &TreeListView{
		deps:     newDeps(repo, syncer, monitor, logger.With("view", "tree_list"), opts),
		onChange: onChange,
	}
}

// State returns the current snapshot.
func (v *TreeListView) State() ListState {
	v.mu.Lock()
	state := v.state
	v.mu.Unlock()
	state.Message = v.msg.get()
	return state
}

// Load refetches trees, species and the pending count.
func (v *TreeListView) Load(ctx context.Context) error {
	trees, err := v.repo.GetAllTrees(ctx)
	if err != nil {
		err = fmt.Errorf("failed to load trees: %w", err)
		v.update(func(s *ListState) { s.Err = err })
		return err
	}

	species, err := v.repo.GetAllSpecies(ctx)
	if err != nil {
		err = fmt.Errorf("failed to load species: %w", err)
		v.update(func(s *ListState) { s.Err = err })
		return err
	}

	pending, countErr := v.repo.GetPendingCount(ctx)
	if countErr != nil {
		v.logger.Warn("Failed to count pending changes", "error", countErr)
	}

	v.update(func(s *ListState) {
		s.Trees = trees
		s.Species = species
		s.Locations = models.Locations(trees)
		s.Err = nil
		if countErr == nil {
			s.PendingCount = pending
		}
	})
	return nil
}

// SaveEdit saves updates for one tree, reloads the list and shows the outcome.
func (v *TreeListView) SaveEdit(ctx context.Context, id string, updates models.FieldUpdates) error {
	result, err := v.repo.SaveEdit(ctx, id, updates)
	if err != nil {
		return fmt.Errorf("failed to save tree %s: %w", id, err)
	}

	v.msg.set(saveMessage(result), v.ttl, v.notify)
	return v.Load(ctx)
}

// Run syncs and reloads on every became-online transition. It blocks
// until ctx is done.
func (v *TreeListView) Run(ctx context.Context) error {
	return v.watch(ctx, func(ctx context.Context) {
		v.syncIfPending(ctx)
		if err := v.Load(ctx); err != nil {
			v.logger.Warn("Failed to reload after reconnect", "error", err)
		}
	})
}

// Close stops the message timer.
func (v *TreeListView) Close() {
	v.msg.stop()
}

func (v *TreeListView) update(fn func(s *ListState)) {
	v.mu.Lock()
	fn(&v.state)
	v.mu.Unlock()
	v.notify()
}

func (v *TreeListView) notify() {
	if v.onChange != nil {
		v.onChange(v.State())
	}
}
