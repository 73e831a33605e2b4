package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/treekeeper/internal/client/storage"
	"github.com/iudanet/treekeeper/internal/models"
)

// AddRegistration stores a registration and its mirrored tree together
func (s *Storage) AddRegistration(ctx context.Context, reg *models.PendingRegistration, mirror *models.Tree) error {
	if mirror.ID != reg.TempID {
		return fmt.Errorf("mirror id %q does not match temp id %q", mirror.ID, reg.TempID)
	}

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRegistrations)
		byTemp := tx.Bucket(bucketRegistrationsByTemp)

		if byTemp.Get([]byte(reg.TempID)) != nil {
			return fmt.Errorf("temp id %s already registered", reg.TempID)
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate registration id: %w", err)
		}
		reg.ID = int64(seq)

		if err := putJSON(bucket, itob(reg.ID), reg); err != nil {
			return err
		}
		if err := byTemp.Put([]byte(reg.TempID), itob(reg.ID)); err != nil {
			return fmt.Errorf("failed to index registration: %w", err)
		}
		if !reg.Synced {
			if err := tx.Bucket(bucketRegistrationsPending).Put(itob(reg.ID), nil); err != nil {
				return fmt.Errorf("failed to index registration: %w", err)
			}
		}

		// Зеркальная запись в кэше деревьев создается в той же транзакции
		return putJSON(tx.Bucket(bucketTrees), []byte(mirror.ID), mirror)
	})

	if err != nil {
		return fmt.Errorf("add registration transaction failed: %w", err)
	}
	return nil
}

// GetRegistrationByTempID returns the registration staged under tempID
func (s *Storage) GetRegistrationByTempID(ctx context.Context, tempID string) (*models.PendingRegistration, error) {
	var reg *models.PendingRegistration

	err := s.view(func(tx *bbolt.Tx) error {
		key := tx.Bucket(bucketRegistrationsByTemp).Get([]byte(tempID))
		if key == nil {
			return storage.ErrRegistrationNotFound
		}
		var err error
		reg, err = loadRegistration(tx.Bucket(bucketRegistrations), key)
		if err != nil {
			return err
		}
		if reg == nil {
			return storage.ErrRegistrationNotFound
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return reg, nil
}

// ListUnsyncedRegistrations returns unsynced registrations in creation order
func (s *Storage) ListUnsyncedRegistrations(ctx context.Context) ([]*models.PendingRegistration, error) {
	regs := make([]*models.PendingRegistration, 0)

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRegistrations)
		return tx.Bucket(bucketRegistrationsPending).ForEach(func(k, _ []byte) error {
			reg, err := loadRegistration(bucket, k)
			if err != nil {
				return err
			}
			if reg != nil && !reg.Synced {
				regs = append(regs, reg)
			}
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list unsynced registrations: %w", err)
	}
	return regs, nil
}

// CountUnsyncedRegistrations returns the number of unsynced registrations
func (s *Storage) CountUnsyncedRegistrations(ctx context.Context) (int, error) {
	var count int
	err := s.view(func(tx *bbolt.Tx) error {
		count = tx.Bucket(bucketRegistrationsPending).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count unsynced registrations: %w", err)
	}
	return count, nil
}

// CompleteRegistration swaps the temp row for the canonical one in one transaction
func (s *Storage) CompleteRegistration(ctx context.Context, id int64, canonical *models.Tree) error {
	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRegistrations)
		reg, err := loadRegistration(bucket, itob(id))
		if err != nil {
			return err
		}
		if reg == nil {
			return storage.ErrRegistrationNotFound
		}

		trees := tx.Bucket(bucketTrees)
		// Сначала пишем каноническую строку, затем удаляем временную:
		// читатели вне транзакции видят либо старое, либо новое состояние
		if err := putJSON(trees, []byte(canonical.ID), canonical); err != nil {
			return err
		}
		if canonical.ID != reg.TempID {
			if err := trees.Delete([]byte(reg.TempID)); err != nil {
				return fmt.Errorf("failed to delete temp tree: %w", err)
			}
			if err := retargetEdits(tx, reg.TempID, canonical.ID); err != nil {
				return err
			}
		}

		reg.Synced = true
		reg.CanonicalID = canonical.ID
		if err := putJSON(bucket, itob(id), reg); err != nil {
			return err
		}
		return tx.Bucket(bucketRegistrationsPending).Delete(itob(id))
	})

	if err != nil {
		return fmt.Errorf("complete registration transaction failed: %w", err)
	}
	return nil
}

func loadRegistration(bucket *bbolt.Bucket, key []byte) (*models.PendingRegistration, error) {
	data := bucket.Get(key)
	if data == nil {
		return nil, nil
	}
	var reg models.PendingRegistration
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registration %d: %w", btoi(key), err)
	}
	return &reg, nil
}
