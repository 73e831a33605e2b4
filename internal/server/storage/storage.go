package storage

import (
	"context"

	"github.com/iudanet/treekeeper/internal/models"
	"github.com/iudanet/treekeeper/pkg/api"
)

// TreeStorage defines interface for trees persistence
type TreeStorage interface {
	// ListTrees returns trees with embedded species and client matching q.
	// Without an explicit order rows are sorted by created_at desc.
	ListTrees(ctx context.Context, q api.Query) ([]*models.Tree, error)

	// CreateTree inserts a tree. The id, timestamps and defaults are assigned
	// by the storage. Returns ErrConflict if management_number is taken.
	CreateTree(ctx context.Context, fields models.FieldUpdates) (*models.Tree, error)

	// UpdateTrees sets fields on every tree matching q and returns the
	// updated rows. q must contain at least one filter.
	UpdateTrees(ctx context.Context, q api.Query, fields models.FieldUpdates) ([]*models.Tree, error)

	// CountTrees returns the number of trees
	CountTrees(ctx context.Context) (int, error)
}

// SpeciesStorage defines interface for the species master
type SpeciesStorage interface {
	// ListSpecies returns species matching q, by default ordered by name_kana
	ListSpecies(ctx context.Context, q api.Query) ([]*models.Species, error)

	// CreateSpecies inserts a species. Returns ErrConflict if the code is taken.
	CreateSpecies(ctx context.Context, species *models.Species) (*models.Species, error)
}

// ClientStorage defines interface for clients
type ClientStorage interface {
	// ListClients returns clients matching q, by default ordered by name
	ListClients(ctx context.Context, q api.Query) ([]*models.Client, error)

	// CreateClient inserts a client
	CreateClient(ctx context.Context, client *models.Client) (*models.Client, error)
}

// Storage объединяет все хранилища сервера
type Storage interface {
	TreeStorage
	SpeciesStorage
	ClientStorage
	Ping(ctx context.Context) error
}
