package remote

import (
	"context"

	"github.com/iudanet/treekeeper/internal/models"
	"github.com/iudanet/treekeeper/pkg/api"
)

//go:generate moq -out gateway_mock.go . Gateway

// Entity names a remote table.
type Entity string

const (
	EntityTrees   Entity = api.TableTrees
	EntitySpecies Entity = api.TableSpecies
	EntityClients Entity = api.TableClients
)

// Query filters, orders and limits a Select.
type Query = api.Query

// Gateway is the capability exposed by the remote system of record.
// Rows are decoded into dest, which must be a pointer.
type Gateway interface {
	// Select returns the rows of entity matching q
	Select(ctx context.Context, entity Entity, q Query, dest any) error

	// SelectOne returns one row by id
	// Returns ErrNotFound if the row does not exist
	SelectOne(ctx context.Context, entity Entity, id string, dest any) error

	// Insert creates a row and decodes the created row into dest (if not nil)
	// Returns ErrConflict on a unique constraint violation
	Insert(ctx context.Context, entity Entity, fields models.FieldUpdates, dest any) error

	// Update overwrites fields of one row
	// Returns ErrNotFound if the row does not exist
	Update(ctx context.Context, entity Entity, id string, fields models.FieldUpdates) error
}
