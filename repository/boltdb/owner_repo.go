package boltdb

import (
	"context"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fitgoals/backend/domain"
	"github.com/fitgoals/backend/repository"
)

var bucketOwners = []byte("owners")

// OwnerStore is the embedded counterpart of the Postgres owner repository.
type OwnerStore struct {
	db *bolt.DB
}

// Owners exposes the owner repository backed by the same Bolt file.
func (s *Store) Owners() (*OwnerStore, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketOwners)
		return err
	}); err != nil {
		return nil, err
	}
	return &OwnerStore{db: s.db}, nil
}

var _ repository.OwnerRepository = (*OwnerStore)(nil)

func (s *OwnerStore) GetByID(ctx context.Context, id string) (*domain.Owner, error) {
	var owner domain.Owner
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketOwners).Get([]byte(id))
		if raw == nil {
			return domain.ErrOwnerNotFound
		}
		return json.Unmarshal(raw, &owner)
	})
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (s *OwnerStore) Upsert(ctx context.Context, owner *domain.Owner) error {
	if owner == nil || owner.ID == "" {
		return domain.ErrInvalidPayload
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketOwners)
		now := time.Now()
		if raw := bucket.Get([]byte(owner.ID)); raw != nil {
			var current domain.Owner
			if err := json.Unmarshal(raw, &current); err == nil {
				owner.CreatedAt = current.CreatedAt
			}
		} else {
			owner.CreatedAt = now
		}
		owner.UpdatedAt = now

		payload, err := json.Marshal(owner)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(owner.ID), payload)
	})
}
