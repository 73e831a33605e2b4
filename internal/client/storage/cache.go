package storage

import (
	"context"

	"github.com/iudanet/treekeeper/internal/models"
)

// TreeCache stores the last known remote state of trees on the device.
// Rows keyed by a temp id mirror pending registrations.
type TreeCache interface {
	// GetTree returns a cached tree by id
	// Returns ErrTreeNotFound if the tree is not cached
	GetTree(ctx context.Context, id string) (*models.Tree, error)

	// ListTrees returns all cached trees, newest created_at first
	ListTrees(ctx context.Context) ([]*models.Tree, error)

	// PutTree inserts or fully replaces a cached tree
	PutTree(ctx context.Context, tree *models.Tree) error

	// PatchTree overlays updates onto the cached row.
	// Returns false without error when the tree is not cached.
	PatchTree(ctx context.Context, id string, updates models.FieldUpdates) (bool, error)

	// ReplaceTrees atomically swaps the cached set for trees.
	// Rows keyed by temp ids are kept.
	ReplaceTrees(ctx context.Context, trees []*models.Tree) error

	// DeleteTree removes a cached tree; missing ids are not an error
	DeleteTree(ctx context.Context, id string) error
}

// SpeciesCache stores the species master list.
type SpeciesCache interface {
	// ListSpecies returns cached species ordered by name_kana, unset kana last
	ListSpecies(ctx context.Context) ([]*models.Species, error)

	// GetSpecies returns a cached species by id
	// Returns ErrSpeciesNotFound if it is not cached
	GetSpecies(ctx context.Context, id string) (*models.Species, error)

	// ReplaceSpecies atomically swaps the cached species list
	ReplaceSpecies(ctx context.Context, species []*models.Species) error
}
