// Package repository is the offline-first facade over the remote gateway
// and the local store. Every read prefers the remote system while it is
// reachable and falls back to the local cache; every write that cannot
// reach the remote system is queued. Returned views always carry the
// caller's unsynced edits.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/iudanet/treekeeper/internal/client/connectivity"
	"github.com/iudanet/treekeeper/internal/client/remote"
	"github.com/iudanet/treekeeper/internal/client/storage"
	"github.com/iudanet/treekeeper/internal/models"
	"github.com/iudanet/treekeeper/internal/validation"
	"github.com/iudanet/treekeeper/pkg/api"
)

// ErrOffline is returned by operations that require the remote system.
var ErrOffline = errors.New("remote system is not reachable")

// SaveResult reports where an edit landed.
type SaveResult struct {
	Reason  remote.FallbackReason // почему правка ушла в очередь
	Offline bool                  // true, если правка сохранена только локально
}

// WarmResult reports how many rows were cached by WarmCache.
type WarmResult struct {
	Trees   int
	Species int
}

// Repository is the offline-first facade.
type Repository struct {
	store   storage.Store
	gateway remote.Gateway
	monitor connectivity.Monitor
	logger  *slog.Logger
	nowFunc func() time.Time
	timeout time.Duration
}

// Option configures a Repository.
type Option func(*Repository)

// WithTimeout bounds every remote call made by the repository.
func WithTimeout(d time.Duration) Option {
	return func(r *Repository) {
		r.timeout = d
	}
}

// WithClock overrides time.Now for queued edits and registrations.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.nowFunc = now
	}
}

// New creates a repository.
func New(store storage.Store, gateway remote.Gateway, monitor connectivity.Monitor, logger *slog.Logger, opts ...Option) *Repository {
	r := &Repository{
		store:   store,
		gateway: gateway,
		monitor: monitor,
		logger:  logger,
		nowFunc: time.Now,
		timeout: remote.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetAllTrees returns every tree, newest first, with unsynced edits
// overlaid and unsynced registrations prepended.
func (r *Repository) GetAllTrees(ctx context.Context) ([]*models.Tree, error) {
	res := remote.Offline[[]*models.Tree]()
	if r.monitor.Online() {
		res = remote.Call(ctx, r.timeout, r.fetchTrees)
	}

	var base []*models.Tree
	if res.OK() {
		if err := r.store.ReplaceTrees(ctx, res.Value); err != nil {
			return nil, fmt.Errorf("failed to cache trees: %w", err)
		}
		base = res.Value
	} else {
		r.logFallback("get_all_trees", "", res.Reason, res.Err)

		cached, err := r.store.ListTrees(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read cached trees: %w", err)
		}
		// Зеркала регистраций добавляются ниже единым способом
		base = make([]*models.Tree, 0, len(cached))
		for _, tree := range cached {
			if !models.IsTempID(tree.ID) {
				base = append(base, tree)
			}
		}
	}

	trees, err := r.withRegistrations(ctx, base)
	if err != nil {
		return nil, err
	}

	return r.overlay(ctx, trees)
}

// GetTree returns one tree with its unsynced edits overlaid, or nil if it
// is known neither remotely nor locally. Temp ids of already synced
// registrations resolve to the canonical tree.
func (r *Repository) GetTree(ctx context.Context, id string) (*models.Tree, error) {
	id, err := r.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := remote.Result[*models.Tree]{Reason: remote.ReasonUnsynced}
	if !models.IsTempID(id) {
		res = remote.Offline[*models.Tree]()
		if r.monitor.Online() {
			res = remote.Call(ctx, r.timeout, func(ctx context.Context) (*models.Tree, error) {
				var tree models.Tree
				if err := r.gateway.SelectOne(ctx, remote.EntityTrees, id, &tree); err != nil {
					return nil, err
				}
				return &tree, nil
			})
		}
	}

	var base *models.Tree
	if res.OK() {
		if err := r.store.PutTree(ctx, res.Value); err != nil {
			return nil, fmt.Errorf("failed to cache tree %s: %w", id, err)
		}
		base = res.Value
	} else {
		r.logFallback("get_tree", id, res.Reason, res.Err)

		cached, err := r.store.GetTree(ctx, id)
		if errors.Is(err, storage.ErrTreeNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read cached tree %s: %w", id, err)
		}
		base = cached
	}

	edits, err := r.store.ListUnsyncedEditsForTree(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending edits: %w", err)
	}

	return r.applyEdits(ctx, base, edits), nil
}

// GetAllSpecies returns the species list ordered by name_kana.
func (r *Repository) GetAllSpecies(ctx context.Context) ([]*models.Species, error) {
	res := remote.Offline[[]*models.Species]()
	if r.monitor.Online() {
		res = remote.Call(ctx, r.timeout, r.fetchSpecies)
	}

	if res.OK() {
		if err := r.store.ReplaceSpecies(ctx, res.Value); err != nil {
			return nil, fmt.Errorf("failed to cache species: %w", err)
		}
		return res.Value, nil
	}

	r.logFallback("get_all_species", "", res.Reason, res.Err)

	species, err := r.store.ListSpecies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached species: %w", err)
	}
	return species, nil
}

// SaveEdit writes updates to the remote system or, failing that, queues
// them. Either way the cached row is patched so reads see the new values.
func (r *Repository) SaveEdit(ctx context.Context, id string, updates models.FieldUpdates) (SaveResult, error) {
	if err := validation.ValidateFieldUpdates(updates); err != nil {
		return SaveResult{}, fmt.Errorf("invalid updates for tree %s: %w", id, err)
	}
	updates = updates.Clone()

	id, err := r.resolveID(ctx, id)
	if err != nil {
		return SaveResult{}, err
	}

	// Более ранние правки тех же полей еще в очереди: новая правка тоже идет
	// в очередь, чтобы победить их по времени и при отображении, и при синхронизации
	queued, err := r.queuedFields(ctx, id, updates)
	if err != nil {
		return SaveResult{}, err
	}

	res := remote.Result[struct{}]{Reason: remote.ReasonUnsynced}
	switch {
	case models.IsTempID(id):
	case queued:
		res = remote.Result[struct{}]{Reason: remote.ReasonPending}
	case !r.monitor.Online():
		res = remote.Offline[struct{}]()
	default:
		res = remote.Call(ctx, r.timeout, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, r.gateway.Update(ctx, remote.EntityTrees, id, updates)
		})
	}

	cached := r.cacheUpdates(ctx, updates)

	if res.OK() {
		if _, err := r.store.PatchTree(ctx, id, cached); err != nil {
			return SaveResult{}, fmt.Errorf("failed to update cached tree %s: %w", id, err)
		}
		r.logger.Debug("Edit saved remotely", "tree_id", id, "fields", len(updates))
		return SaveResult{Reason: remote.ReasonNone}, nil
	}

	r.logFallback("save_edit", id, res.Reason, res.Err)

	if err := r.store.AddEdits(ctx, newEdits(id, updates, r.nowFunc())); err != nil {
		return SaveResult{}, fmt.Errorf("failed to queue edits for tree %s: %w", id, err)
	}

	found, err := r.store.PatchTree(ctx, id, cached)
	if err != nil {
		return SaveResult{}, fmt.Errorf("failed to update cached tree %s: %w", id, err)
	}
	if !found {
		r.logger.Warn("Queued edit for a tree that is not cached", "tree_id", id)
	}

	return SaveResult{Offline: true, Reason: res.Reason}, nil
}

// RegisterTreeOffline stages a new tree under a fresh temp id and mirrors
// it into the cache so it is visible right away.
func (r *Repository) RegisterTreeOffline(ctx context.Context, draft *models.TreeDraft) (string, error) {
	if err := validation.ValidateDraft(draft); err != nil {
		return "", fmt.Errorf("invalid draft: %w", err)
	}

	d := *draft
	// Имя и код вида берем из кэша справочника, если они не заданы
	if d.SpeciesName == "" || d.SpeciesCode == nil {
		sp, err := r.store.GetSpecies(ctx, d.SpeciesID)
		switch {
		case err == nil:
			if d.SpeciesName == "" {
				d.SpeciesName = sp.Name
			}
			if d.SpeciesCode == nil && sp.Code != nil {
				code := *sp.Code
				d.SpeciesCode = &code
			}
		case errors.Is(err, storage.ErrSpeciesNotFound):
			r.logger.Warn("Species is not cached", "species_id", d.SpeciesID)
		default:
			return "", fmt.Errorf("failed to read species %s: %w", d.SpeciesID, err)
		}
	}

	reg := &models.PendingRegistration{
		TempID:    models.NewTempID(),
		CreatedAt: r.nowFunc(),
		TreeDraft: d,
	}

	if err := r.store.AddRegistration(ctx, reg, reg.Mirror()); err != nil {
		return "", fmt.Errorf("failed to stage registration: %w", err)
	}

	r.logger.Info("Tree registered offline", "temp_id", reg.TempID, "species_id", d.SpeciesID)
	return reg.TempID, nil
}

// GetPendingEditCount returns the number of unsynced edits.
func (r *Repository) GetPendingEditCount(ctx context.Context) (int, error) {
	count, err := r.store.CountUnsyncedEdits(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending edits: %w", err)
	}
	return count, nil
}

// GetPendingRegistrationCount returns the number of unsynced registrations.
func (r *Repository) GetPendingRegistrationCount(ctx context.Context) (int, error) {
	count, err := r.store.CountUnsyncedRegistrations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending registrations: %w", err)
	}
	return count, nil
}

// GetPendingCount returns unsynced edits plus unsynced registrations.
func (r *Repository) GetPendingCount(ctx context.Context) (int, error) {
	edits, err := r.GetPendingEditCount(ctx)
	if err != nil {
		return 0, err
	}
	regs, err := r.GetPendingRegistrationCount(ctx)
	if err != nil {
		return 0, err
	}
	return edits + regs, nil
}

// WarmCache fetches trees and species so the device can work offline later.
func (r *Repository) WarmCache(ctx context.Context) (WarmResult, error) {
	if !r.monitor.Online() {
		return WarmResult{}, ErrOffline
	}

	trees := remote.Call(ctx, r.timeout, r.fetchTrees)
	if !trees.OK() {
		return WarmResult{}, fmt.Errorf("failed to fetch trees (%s): %w", trees.Reason, trees.Err)
	}
	if err := r.store.ReplaceTrees(ctx, trees.Value); err != nil {
		return WarmResult{}, fmt.Errorf("failed to cache trees: %w", err)
	}

	species := remote.Call(ctx, r.timeout, r.fetchSpecies)
	if !species.OK() {
		return WarmResult{Trees: len(trees.Value)}, fmt.Errorf("failed to fetch species (%s): %w", species.Reason, species.Err)
	}
	if err := r.store.ReplaceSpecies(ctx, species.Value); err != nil {
		return WarmResult{Trees: len(trees.Value)}, fmt.Errorf("failed to cache species: %w", err)
	}

	r.logger.Info("Cache warmed", "trees", len(trees.Value), "species", len(species.Value))
	return WarmResult{Trees: len(trees.Value), Species: len(species.Value)}, nil
}

func (r *Repository) fetchTrees(ctx context.Context) ([]*models.Tree, error) {
	trees := make([]*models.Tree, 0)
	q := remote.Query{Order: []api.Order{{Column: "created_at", Desc: true}}}
	if err := r.gateway.Select(ctx, remote.EntityTrees, q, &trees); err != nil {
		return nil, err
	}
	return trees, nil
}

func (r *Repository) fetchSpecies(ctx context.Context) ([]*models.Species, error) {
	species := make([]*models.Species, 0)
	q := remote.Query{Order: []api.Order{{Column: "name_kana"}}}
	if err := r.gateway.Select(ctx, remote.EntitySpecies, q, &species); err != nil {
		return nil, err
	}
	models.SortSpecies(species)
	return species, nil
}

// resolveID заменяет временный id синхронизированной регистрации на канонический
func (r *Repository) resolveID(ctx context.Context, id string) (string, error) {
	if !models.IsTempID(id) {
		return id, nil
	}

	reg, err := r.store.GetRegistrationByTempID(ctx, id)
	if errors.Is(err, storage.ErrRegistrationNotFound) {
		return id, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve temp id %s: %w", id, err)
	}

	if reg.Synced && reg.CanonicalID != "" {
		return reg.CanonicalID, nil
	}
	return id, nil
}

func (r *Repository) logFallback(op, id string, reason remote.FallbackReason, err error) {
	attrs := []any{"op", op, "reason", reason}
	if id != "" {
		attrs = append(attrs, "tree_id", id)
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	r.logger.Info("Using local data", attrs...)
}

func newEdits(treeID string, updates models.FieldUpdates, at time.Time) []*models.PendingEdit {
	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	edits := make([]*models.PendingEdit, 0, len(fields))
	for _, field := range fields {
		edits = append(edits, &models.PendingEdit{
			TreeID:    treeID,
			Field:     field,
			Value:     updates[field],
			CreatedAt: at,
		})
	}
	return edits
}
