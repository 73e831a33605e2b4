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

// TreeState is a snapshot of a single tree screen.
type TreeState struct {
	Err          error        // ошибка последней загрузки
	Tree         *models.Tree // nil, если дерево не найдено
	Message      string       // статус последнего сохранения
	PendingCount int          // записи, ожидающие синхронизации
}

// TreeView holds the state of one tree.
type TreeView struct {
	onChange func(TreeState)
	deps
	msg   message
	id    string
	state TreeState
	mu    stdsync.Mutex
}

// NewTreeView creates a view for the tree with the given id.
// onChange may be nil.
func NewTreeView(id string, repo Repository, syncer sync.Service, monitor connectivity.Monitor, logger *slog.Logger, onChange func(TreeState), opts ...Option) *TreeView {
	return &TreeView{
		id:       id,
		deps:     newDeps(repo, syncer, monitor, logger.With("view", "tree", "tree_id", id), opts),
		onChange: onChange,
	}
}

// State returns the current snapshot.
func (v *TreeView) State() TreeState {
	v.mu.Lock()
	state := v.state
	v.mu.Unlock()
	state.Message = v.msg.get()
	return state
}

// Load refetches the tree and the pending count.
func (v *TreeView) Load(ctx context.Context) error {
	tree, err := v.repo.GetTree(ctx, v.id)
	if err != nil {
		err = fmt.Errorf("failed to load tree %s: %w", v.id, err)
		v.update(func(s *TreeState) { s.Err = err })
		return err
	}

	pending, err := v.repo.GetPendingCount(ctx)
	if err != nil {
		// Счетчик не критичен для экрана
		v.logger.Warn("Failed to count pending changes", "error", err)
	}

	v.update(func(s *TreeState) {
		s.Tree = tree
		s.Err = nil
		if err == nil {
			s.PendingCount = pending
		}
	})
	return nil
}

// SaveEdit saves updates, reloads the tree and shows the outcome.
func (v *TreeView) SaveEdit(ctx context.Context, updates models.FieldUpdates) error {
	result, err := v.repo.SaveEdit(ctx, v.id, updates)
	if err != nil {
		return fmt.Errorf("failed to save tree %s: %w", v.id, err)
	}

	v.msg.set(saveMessage(result), v.ttl, v.notify)
	return v.Load(ctx)
}

// Run syncs and reloads on every became-online transition. It blocks
// until ctx is done.
func (v *TreeView) Run(ctx context.Context) error {
	return v.watch(ctx, func(ctx context.Context) {
		v.syncIfPending(ctx)
		if err := v.Load(ctx); err != nil {
			v.logger.Warn("Failed to reload after reconnect", "error", err)
		}
	})
}

// Close stops the message timer.
func (v *TreeView) Close() {
	v.msg.stop()
}

func (v *TreeView) update(fn func(s *TreeState)) {
	v.mu.Lock()
	fn(&v.state)
	v.mu.Unlock()
	v.notify()
}

func (v *TreeView) notify() {
	if v.onChange != nil {
		v.onChange(v.State())
	}
}
