package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/treekeeper/internal/models"
)

// editTreeKey строит ключ индекса tree_id -> edit: "<tree_id>\x00<id>"
func editTreeKey(treeID string, id int64) []byte {
	key := make([]byte, 0, len(treeID)+9)
	key = append(key, treeID...)
	key = append(key, 0)
	return append(key, itob(id)...)
}

func editTreePrefix(treeID string) []byte {
	return append([]byte(treeID), 0)
}

// AddEdits appends edits to the queue in one transaction
func (s *Storage) AddEdits(ctx context.Context, edits []*models.PendingEdit) error {
	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketEdits)
		byTree := tx.Bucket(bucketEditsByTree)
		unsynced := tx.Bucket(bucketEditsUnsynced)

		for _, edit := range edits {
			seq, err := bucket.NextSequence()
			if err != nil {
				return fmt.Errorf("failed to allocate edit id: %w", err)
			}
			edit.ID = int64(seq)

			if err := putJSON(bucket, itob(edit.ID), edit); err != nil {
				return err
			}
			if err := byTree.Put(editTreeKey(edit.TreeID, edit.ID), nil); err != nil {
				return fmt.Errorf("failed to index edit: %w", err)
			}
			if !edit.Synced {
				if err := unsynced.Put(itob(edit.ID), nil); err != nil {
					return fmt.Errorf("failed to index edit: %w", err)
				}
			}
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("add edits transaction failed: %w", err)
	}
	return nil
}

// ListUnsyncedEdits returns unsynced edits in queue order
func (s *Storage) ListUnsyncedEdits(ctx context.Context) ([]*models.PendingEdit, error) {
	edits := make([]*models.PendingEdit, 0)

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketEdits)
		return tx.Bucket(bucketEditsUnsynced).ForEach(func(k, _ []byte) error {
			edit, err := loadEdit(bucket, k)
			if err != nil {
				return err
			}
			if edit != nil {
				edits = append(edits, edit)
			}
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list unsynced edits: %w", err)
	}
	return edits, nil
}

// ListUnsyncedEditsForTree returns unsynced edits of a tree in queue order
func (s *Storage) ListUnsyncedEditsForTree(ctx context.Context, treeID string) ([]*models.PendingEdit, error) {
	edits := make([]*models.PendingEdit, 0)
	prefix := editTreePrefix(treeID)

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketEdits)
		c := tx.Bucket(bucketEditsByTree).Cursor()

		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			edit, err := loadEdit(bucket, k[len(prefix):])
			if err != nil {
				return err
			}
			if edit != nil && !edit.Synced {
				edits = append(edits, edit)
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list edits for tree %s: %w", treeID, err)
	}
	return edits, nil
}

// CountUnsyncedEdits returns the number of unsynced edits
func (s *Storage) CountUnsyncedEdits(ctx context.Context) (int, error) {
	var count int
	err := s.view(func(tx *bbolt.Tx) error {
		count = tx.Bucket(bucketEditsUnsynced).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count unsynced edits: %w", err)
	}
	return count, nil
}

// DeleteEdits removes edits and their index entries
func (s *Storage) DeleteEdits(ctx context.Context, ids []int64) error {
	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketEdits)
		byTree := tx.Bucket(bucketEditsByTree)
		unsynced := tx.Bucket(bucketEditsUnsynced)

		for _, id := range ids {
			edit, err := loadEdit(bucket, itob(id))
			if err != nil {
				return err
			}
			if edit == nil {
				continue
			}
			if err := byTree.Delete(editTreeKey(edit.TreeID, id)); err != nil {
				return fmt.Errorf("failed to delete edit index: %w", err)
			}
			if err := unsynced.Delete(itob(id)); err != nil {
				return fmt.Errorf("failed to delete edit index: %w", err)
			}
			if err := bucket.Delete(itob(id)); err != nil {
				return fmt.Errorf("failed to delete edit %d: %w", id, err)
			}
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("delete edits transaction failed: %w", err)
	}
	return nil
}

// retargetEdits переносит правки с oldID на newID внутри открытой транзакции
func retargetEdits(tx *bbolt.Tx, oldID, newID string) error {
	bucket := tx.Bucket(bucketEdits)
	byTree := tx.Bucket(bucketEditsByTree)
	prefix := editTreePrefix(oldID)

	var ids []int64
	c := byTree.Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		ids = append(ids, btoi(k[len(prefix):]))
	}

	for _, id := range ids {
		edit, err := loadEdit(bucket, itob(id))
		if err != nil {
			return err
		}
		if edit == nil {
			continue
		}
		edit.TreeID = newID
		if err := putJSON(bucket, itob(id), edit); err != nil {
			return err
		}
		if err := byTree.Delete(editTreeKey(oldID, id)); err != nil {
			return fmt.Errorf("failed to delete edit index: %w", err)
		}
		if err := byTree.Put(editTreeKey(newID, id), nil); err != nil {
			return fmt.Errorf("failed to index edit: %w", err)
		}
	}
	return nil
}

func loadEdit(bucket *bbolt.Bucket, key []byte) (*models.PendingEdit, error) {
	data := bucket.Get(key)
	if data == nil {
		return nil, nil
	}
	var edit models.PendingEdit
	if err := json.Unmarshal(data, &edit); err != nil {
		return nil, fmt.Errorf("failed to unmarshal edit %d: %w", btoi(key), err)
	}
	return &edit, nil
}
