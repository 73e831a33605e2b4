package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/iudanet/treekeeper/internal/client/storage"
	"github.com/iudanet/treekeeper/internal/models"
)

// GetTree retrieves a cached tree by ID
func (s *Storage) GetTree(ctx context.Context, id string) (*models.Tree, error) {
	var tree *models.Tree

	err := s.view(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketTrees).Get([]byte(id))
		if data == nil {
			return storage.ErrTreeNotFound
		}

		tree = &models.Tree{}
		if err := json.Unmarshal(data, tree); err != nil {
			return fmt.Errorf("failed to unmarshal tree: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return tree, nil
}

// ListTrees returns all cached trees, newest first
func (s *Storage) ListTrees(ctx context.Context) ([]*models.Tree, error) {
	trees := make([]*models.Tree, 0)

	err := s.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTrees).ForEach(func(k, v []byte) error {
			var tree models.Tree
			if err := json.Unmarshal(v, &tree); err != nil {
				return fmt.Errorf("failed to unmarshal tree %s: %w", k, err)
			}
			trees = append(trees, &tree)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list trees: %w", err)
	}

	SortTrees(trees)
	return trees, nil
}

// SortTrees orders trees by created_at descending, id ascending on ties.
func SortTrees(trees []*models.Tree) {
	sort.SliceStable(trees, func(i, j int) bool {
		if !trees[i].CreatedAt.Equal(trees[j].CreatedAt) {
			return trees[i].CreatedAt.After(trees[j].CreatedAt)
		}
		return trees[i].ID < trees[j].ID
	})
}

// PutTree stores or replaces a cached tree
func (s *Storage) PutTree(ctx context.Context, tree *models.Tree) error {
	err := s.update(func(tx *bbolt.Tx) error {
		return putJSON(tx.Bucket(bucketTrees), []byte(tree.ID), tree)
	})
	if err != nil {
		return fmt.Errorf("put tree transaction failed: %w", err)
	}
	return nil
}

// PatchTree overlays updates onto a cached row
func (s *Storage) PatchTree(ctx context.Context, id string, updates models.FieldUpdates) (bool, error) {
	found := false

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTrees)
		data := bucket.Get([]byte(id))
		if data == nil {
			return nil
		}

		var tree models.Tree
		if err := json.Unmarshal(data, &tree); err != nil {
			return fmt.Errorf("failed to unmarshal tree: %w", err)
		}

		patched, err := tree.Apply(updates)
		if err != nil {
			return err
		}

		found = true
		return putJSON(bucket, []byte(id), patched)
	})

	if err != nil {
		return false, fmt.Errorf("patch tree transaction failed: %w", err)
	}

	return found, nil
}

// ReplaceTrees swaps the cached set in one transaction, keeping temp rows
func (s *Storage) ReplaceTrees(ctx context.Context, trees []*models.Tree) error {
	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTrees)

		// Нельзя удалять ключи внутри ForEach, поэтому сначала собираем их
		var stale [][]byte
		if err := bucket.ForEach(func(k, _ []byte) error {
			if !models.IsTempID(string(k)) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}

		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return fmt.Errorf("failed to delete tree %s: %w", k, err)
			}
		}

		for _, tree := range trees {
			if err := putJSON(bucket, []byte(tree.ID), tree); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("replace trees transaction failed: %w", err)
	}
	return nil
}

// DeleteTree removes a cached tree
func (s *Storage) DeleteTree(ctx context.Context, id string) error {
	err := s.update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTrees).Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("delete tree transaction failed: %w", err)
	}
	return nil
}
