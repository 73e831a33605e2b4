package storage

import (
	"context"

	"github.com/iudanet/treekeeper/internal/models"
)

// EditQueue is the append-only queue of field edits awaiting sync.
type EditQueue interface {
	// AddEdits appends edits in one transaction and assigns their ids
	AddEdits(ctx context.Context, edits []*models.PendingEdit) error

	// ListUnsyncedEdits returns unsynced edits in queue order
	ListUnsyncedEdits(ctx context.Context) ([]*models.PendingEdit, error)

	// ListUnsyncedEditsForTree returns unsynced edits of one tree in queue order
	ListUnsyncedEditsForTree(ctx context.Context, treeID string) ([]*models.PendingEdit, error)

	// CountUnsyncedEdits returns the number of unsynced edits
	CountUnsyncedEdits(ctx context.Context) (int, error)

	// DeleteEdits removes edits by id in one transaction; unknown ids are skipped
	DeleteEdits(ctx context.Context, ids []int64) error
}

// RegistrationQueue is the queue of trees created offline.
type RegistrationQueue interface {
	// AddRegistration stores reg together with its mirrored tree (keyed by
	// reg.TempID) in one transaction and assigns reg.ID
	AddRegistration(ctx context.Context, reg *models.PendingRegistration, mirror *models.Tree) error

	// GetRegistrationByTempID returns the registration staged under tempID
	// Returns ErrRegistrationNotFound if there is none
	GetRegistrationByTempID(ctx context.Context, tempID string) (*models.PendingRegistration, error)

	// ListUnsyncedRegistrations returns unsynced registrations in creation order
	ListUnsyncedRegistrations(ctx context.Context) ([]*models.PendingRegistration, error)

	// CountUnsyncedRegistrations returns the number of unsynced registrations
	CountUnsyncedRegistrations(ctx context.Context) (int, error)

	// CompleteRegistration records the canonical tree for registration id in
	// one transaction: the canonical row is written, the temp row removed,
	// the registration marked synced and queued edits re-targeted from the
	// temp id to the canonical id.
	CompleteRegistration(ctx context.Context, id int64, canonical *models.Tree) error
}
