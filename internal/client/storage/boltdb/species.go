package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/treekeeper/internal/client/storage"
	"github.com/iudanet/treekeeper/internal/models"
)

// ListSpecies returns cached species ordered by name_kana
func (s *Storage) ListSpecies(ctx context.Context) ([]*models.Species, error) {
	species := make([]*models.Species, 0)

	err := s.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSpecies).ForEach(func(k, v []byte) error {
			var sp models.Species
			if err := json.Unmarshal(v, &sp); err != nil {
				return fmt.Errorf("failed to unmarshal species %s: %w", k, err)
			}
			species = append(species, &sp)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list species: %w", err)
	}

	models.SortSpecies(species)
	return species, nil
}

// GetSpecies returns a cached species by ID
func (s *Storage) GetSpecies(ctx context.Context, id string) (*models.Species, error) {
	var sp *models.Species

	err := s.view(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSpecies).Get([]byte(id))
		if data == nil {
			return storage.ErrSpeciesNotFound
		}
		sp = &models.Species{}
		return json.Unmarshal(data, sp)
	})

	if err != nil {
		return nil, err
	}
	return sp, nil
}

// ReplaceSpecies swaps the species list in one transaction
func (s *Storage) ReplaceSpecies(ctx context.Context, species []*models.Species) error {
	err := s.update(func(tx *bbolt.Tx) error {
		// Удаляем bucket полностью и создаем заново
		if err := tx.DeleteBucket(bucketSpecies); err != nil && err != bbolt.ErrBucketNotFound {
			return fmt.Errorf("failed to delete bucket: %w", err)
		}
		bucket, err := tx.CreateBucket(bucketSpecies)
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}

		for _, sp := range species {
			if err := putJSON(bucket, []byte(sp.ID), sp); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("replace species transaction failed: %w", err)
	}
	return nil
}
