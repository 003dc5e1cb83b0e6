package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fitgoals/backend/domain"
	"github.com/fitgoals/backend/repository"
)

var (
	bucketGoals = []byte("goals")
	bucketIndex = []byte("goals_by_id")
)

// Store is an embedded, file-backed GoalRepository. Goals are stored under a
// monotonic sequence key so cursor order equals insertion order; a secondary
// bucket maps goal id to that key.
type Store struct {
	db *bolt.DB
}

// Open initializes the Bolt file and ensures both buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketGoals); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketIndex)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Size returns the number of stored goals, for health reporting.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(bucketGoals).Stats().KeyN
		return nil
	})
	return count, err
}

var _ repository.GoalRepository = (*Store)(nil)

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var goal *domain.Goal
	err := s.db.View(func(tx *bolt.Tx) error {
		found, err := getByID(tx, id)
		if err != nil {
			return err
		}
		goal = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *Store) ListByOwner(ctx context.Context, filter repository.GoalFilter) ([]domain.Goal, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var goals []domain.Goal
	skipped := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketGoals).Cursor()
		for k, v := c.First(); k != nil && len(goals) < limit; k, v = c.Next() {
			var goal domain.Goal
			if err := json.Unmarshal(v, &goal); err != nil {
				continue
			}
			if filter.OwnerID != "" && goal.OwnerID != filter.OwnerID {
				continue
			}
			if filter.Status != "" && string(goal.Status) != filter.Status {
				continue
			}
			if skipped < filter.Offset {
				skipped++
				continue
			}
			goals = append(goals, goal)
		}
		return nil
	})
	return goals, err
}

func (s *Store) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if goal == nil {
		return nil, domain.ErrInvalidPayload
	}
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	now := time.Now()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	err := s.db.Update(func(tx *bolt.Tx) error {
		goals := tx.Bucket(bucketGoals)
		seq, err := goals.NextSequence()
		if err != nil {
			return err
		}
		key := []byte(fmt.Sprintf("%020d", seq))

		payload, err := json.Marshal(goal)
		if err != nil {
			return err
		}
		if err := goals.Put(key, payload); err != nil {
			return err
		}
		return tx.Bucket(bucketIndex).Put([]byte(goal.ID), key)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *Store) Update(ctx context.Context, goal *domain.Goal) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if goal == nil {
		return domain.ErrInvalidPayload
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		current, err := getByID(tx, goal.ID)
		if err != nil {
			return err
		}
		goal.CreatedAt = current.CreatedAt
		goal.Activities = current.Activities
		goal.UpdatedAt = time.Now()
		return put(tx, goal)
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		index := tx.Bucket(bucketIndex)
		key := index.Get([]byte(id))
		if key == nil {
			return domain.ErrGoalNotFound
		}
		if err := tx.Bucket(bucketGoals).Delete(key); err != nil {
			return err
		}
		return index.Delete([]byte(id))
	})
}

func (s *Store) AppendActivity(ctx context.Context, goalID string, activity domain.Activity) (*domain.Goal, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var updated *domain.Goal
	err := s.db.Update(func(tx *bolt.Tx) error {
		goal, err := getByID(tx, goalID)
		if err != nil {
			return err
		}
		next := goal.WithActivity(activity, time.Now())
		if err := put(tx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func getByID(tx *bolt.Tx, id string) (*domain.Goal, error) {
	key := tx.Bucket(bucketIndex).Get([]byte(id))
	if key == nil {
		return nil, domain.ErrGoalNotFound
	}
	raw := tx.Bucket(bucketGoals).Get(key)
	if raw == nil {
		return nil, domain.ErrGoalNotFound
	}
	var goal domain.Goal
	if err := json.Unmarshal(raw, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

func put(tx *bolt.Tx, goal *domain.Goal) error {
	key := tx.Bucket(bucketIndex).Get([]byte(goal.ID))
	if key == nil {
		return domain.ErrGoalNotFound
	}
	payload, err := json.Marshal(goal)
	if err != nil {
		return err
	}
	return tx.Bucket(bucketGoals).Put(key, payload)
}
