// Package store keeps an in-memory goal collection consistent with a remote
// repository through a start/success/failure lifecycle per operation.
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fitgoals/backend/domain"
	"github.com/fitgoals/backend/repository"
)

// Store is a session-scoped state container over a GoalRepository. Construct
// one per session and pass it explicitly; there is no package-level instance.
//
// Each operation dispatches a start action, performs the repository call, and
// dispatches exactly one terminal action. Dispatches are serialized by a
// mutex; the repository call itself runs outside the lock, so two in-flight
// operations race and the last terminal action to arrive wins.
type Store struct {
	repo    repository.GoalRepository
	ownerID string
	logger  *zap.Logger
	now     func() time.Time

	mu    sync.RWMutex
	state State
}

func New(repo repository.GoalRepository, ownerID string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		repo:    repo,
		ownerID: ownerID,
		logger:  logger,
		now:     time.Now,
		state:   State{Goals: []domain.Goal{}},
	}
}

// Snapshot returns a copy of the current state. The goals slice and each
// goal's activities are copied so consumers cannot alias the store's
// collection.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := s.state
	snapshot.Goals = make([]domain.Goal, len(s.state.Goals))
	for i, g := range s.state.Goals {
		g.Activities = append([]domain.Activity(nil), g.Activities...)
		snapshot.Goals[i] = g
	}
	return snapshot
}

// FetchGoals replaces the collection with the owner's goals.
func (s *Store) FetchGoals(ctx context.Context) error {
	s.dispatch(action{kind: opFetch, phase: phaseStart})

	goals, err := s.repo.ListByOwner(ctx, repository.GoalFilter{OwnerID: s.ownerID})
	if err != nil {
		s.fail(opFetch, err)
		return err
	}

	s.dispatch(action{kind: opFetch, phase: phaseSuccess, goals: goals})
	return nil
}

// CreateGoal validates the payload, persists the goal and appends it to the
// collection. Validation errors surface directly and never transition the
// store into its failure state.
func (s *Store) CreateGoal(ctx context.Context, payload domain.GoalPayload) (*domain.Goal, error) {
	if err := payload.Validate(s.now(), true); err != nil {
		return nil, err
	}

	s.dispatch(action{kind: opCreate, phase: phaseStart})

	goal := domain.NewGoal(s.ownerID, payload, s.now())
	created, err := s.repo.Create(ctx, &goal)
	if err != nil {
		s.fail(opCreate, err)
		return nil, err
	}

	s.dispatch(action{kind: opCreate, phase: phaseSuccess, goal: created})
	return created, nil
}

// UpdateGoal merges the payload into the identified goal and replaces the
// matching collection entry on success.
func (s *Store) UpdateGoal(ctx context.Context, goalID string, payload domain.GoalPayload) (*domain.Goal, error) {
	if err := payload.Validate(s.now(), false); err != nil {
		return nil, err
	}

	s.dispatch(action{kind: opUpdate, phase: phaseStart})

	current, err := s.repo.GetByID(ctx, goalID)
	if err != nil {
		s.fail(opUpdate, err)
		return nil, err
	}

	updated := current.ApplyUpdate(payload, s.now())
	if err := s.repo.Update(ctx, &updated); err != nil {
		s.fail(opUpdate, err)
		return nil, err
	}

	s.dispatch(action{kind: opUpdate, phase: phaseSuccess, goal: &updated})
	return &updated, nil
}

// DeleteGoal removes the goal remotely and then from the collection.
func (s *Store) DeleteGoal(ctx context.Context, goalID string) error {
	s.dispatch(action{kind: opDelete, phase: phaseStart})

	if err := s.repo.Delete(ctx, goalID); err != nil {
		s.fail(opDelete, err)
		return err
	}

	s.dispatch(action{kind: opDelete, phase: phaseSuccess, goalID: goalID})
	return nil
}

// LogActivity appends a validated activity to the goal and replaces the
// matching collection entry with the repository's updated goal.
func (s *Store) LogActivity(ctx context.Context, goalID string, payload domain.ActivityPayload) (*domain.Goal, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	s.dispatch(action{kind: opLogActivity, phase: phaseStart})

	updated, err := s.repo.AppendActivity(ctx, goalID, payload.Activity())
	if err != nil {
		s.fail(opLogActivity, err)
		return nil, err
	}

	s.dispatch(action{kind: opLogActivity, phase: phaseSuccess, goal: updated})
	return updated, nil
}

func (s *Store) dispatch(a action) {
	s.mu.Lock()
	s.state = reduce(s.state, a)
	s.mu.Unlock()
}

func (s *Store) fail(kind opKind, err error) {
	s.logger.Error("goal store operation failed",
		zap.String("message", failureMessages[kind]),
		zap.Error(err))
	s.dispatch(action{kind: kind, phase: phaseFailure})
}
