package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudanet/treekeeper/internal/crdt"
	"github.com/iudanet/treekeeper/internal/models"
)

// fieldSpecies is the JSON key of the embedded species relation
const fieldSpecies = "species"

// overlay накладывает несинхронизированные правки на список деревьев
func (r *Repository) overlay(ctx context.Context, trees []*models.Tree) ([]*models.Tree, error) {
	edits, err := r.store.ListUnsyncedEdits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending edits: %w", err)
	}
	if len(edits) == 0 {
		return trees, nil
	}

	set := crdt.Collapse(edits)
	result := make([]*models.Tree, 0, len(trees))
	for _, tree := range trees {
		result = append(result, r.refreshSpecies(ctx, overlayOne(tree, set, r.logger)))
	}
	return result, nil
}

// refreshSpecies подставляет связанный вид из кэша справочника, если
// species_id дерева изменен локальной правкой
func (r *Repository) refreshSpecies(ctx context.Context, tree *models.Tree) *models.Tree {
	if tree.Species.ID == tree.SpeciesID {
		return tree
	}

	patched := tree.Clone()
	patched.Species = r.speciesRef(ctx, tree.SpeciesID)
	return patched
}

// speciesRef returns the embedded relation for speciesID. The name stays
// empty when the species is not cached.
func (r *Repository) speciesRef(ctx context.Context, speciesID string) models.SpeciesRef {
	ref := models.SpeciesRef{ID: speciesID}

	sp, err := r.store.GetSpecies(ctx, speciesID)
	if err != nil {
		r.logger.Debug("Species not cached", "species_id", speciesID, "error", err)
		return ref
	}
	ref.Name = sp.Name
	return ref
}

// cacheUpdates adds the embedded species relation to updates that change
// species_id, so the cached row does not keep the old species name.
func (r *Repository) cacheUpdates(ctx context.Context, updates models.FieldUpdates) models.FieldUpdates {
	speciesID, ok := updates[models.FieldSpeciesID].(string)
	if !ok {
		return updates
	}

	patched := updates.Clone()
	patched[fieldSpecies] = r.speciesRef(ctx, speciesID)
	return patched
}

// withRegistrations добавляет в начало списка зеркала несинхронизированных регистраций
func (r *Repository) withRegistrations(ctx context.Context, trees []*models.Tree) ([]*models.Tree, error) {
	regs, err := r.store.ListUnsyncedRegistrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending registrations: %w", err)
	}
	if len(regs) == 0 {
		return trees, nil
	}

	present := make(map[string]struct{}, len(trees))
	for _, tree := range trees {
		present[tree.ID] = struct{}{}
	}

	result := make([]*models.Tree, 0, len(trees)+len(regs))
	// Новые регистрации первыми, как и в остальном списке
	for i := len(regs) - 1; i >= 0; i-- {
		reg := regs[i]
		if _, ok := present[reg.TempID]; ok {
			continue
		}

		mirror, err := r.store.GetTree(ctx, reg.TempID)
		if err != nil {
			r.logger.Debug("Mirror row missing, rebuilding from registration", "temp_id", reg.TempID, "error", err)
			mirror = reg.Mirror()
		}
		result = append(result, mirror)
	}

	return append(result, trees...), nil
}

func overlayOne(tree *models.Tree, set *crdt.FieldSet, logger *slog.Logger) *models.Tree {
	updates := set.Updates(tree.ID)
	if updates == nil {
		return tree
	}

	patched, err := tree.Apply(updates)
	if err != nil {
		logger.Warn("Failed to overlay pending edits", "tree_id", tree.ID, "error", err)
		return tree
	}
	return patched
}

func (r *Repository) applyEdits(ctx context.Context, tree *models.Tree, edits []*models.PendingEdit) *models.Tree {
	if len(edits) == 0 {
		return tree
	}
	return r.refreshSpecies(ctx, overlayOne(tree, crdt.Collapse(edits), r.logger))
}

// queuedFields reports whether any of the fields in updates still waits in
// the queue for tree id.
func (r *Repository) queuedFields(ctx context.Context, id string, updates models.FieldUpdates) (bool, error) {
	edits, err := r.store.ListUnsyncedEditsForTree(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to read pending edits for tree %s: %w", id, err)
	}
	for _, edit := range edits {
		if _, ok := updates[edit.Field]; ok {
			return true, nil
		}
	}
	return false, nil
}
