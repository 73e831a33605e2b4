package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/treekeeper/internal/client/storage"
)

const (
	keyLastSync = "last_sync"
)

// SaveLastSync saves the status of the last completed sync pass
func (s *Storage) SaveLastSync(ctx context.Context, status storage.SyncStatus) error {
	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if err := putJSON(bucket, []byte(keyLastSync), status); err != nil {
			return fmt.Errorf("failed to save last sync: %w", err)
		}

		return nil
	})
}

// GetLastSync retrieves the status of the last completed sync pass
// Returns a zero status if no sync has been performed yet
func (s *Storage) GetLastSync(ctx context.Context) (storage.SyncStatus, error) {
	var status storage.SyncStatus

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		data := bucket.Get([]byte(keyLastSync))
		if data == nil {
			// Синхронизации еще не было
			return nil
		}

		return json.Unmarshal(data, &status)
	})

	if err != nil {
		return storage.SyncStatus{}, fmt.Errorf("failed to get last sync: %w", err)
	}

	return status, nil
}
