package storage

import (
	"context"
	"time"
)

// SyncStatus describes the outcome of the last sync pass.
type SyncStatus struct {
	At     time.Time `json:"at"`     // время окончания прохода
	Synced int       `json:"synced"` // сколько элементов синхронизировано
	Failed int       `json:"failed"` // сколько элементов осталось в очереди из-за ошибок
}

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SaveLastSync saves the status of the last completed sync pass
	SaveLastSync(ctx context.Context, status SyncStatus) error

	// GetLastSync retrieves the status of the last completed sync pass
	// Returns a zero status if no sync has been performed yet
	GetLastSync(ctx context.Context) (SyncStatus, error)
}
