package goal

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fitgoals/backend/domain"
	"github.com/fitgoals/backend/repository"
)

type UseCase struct {
	goals  repository.GoalRepository
	owners repository.OwnerRepository
	logger *zap.Logger
	now    func() time.Time
}

func New(goals repository.GoalRepository, owners repository.OwnerRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		goals:  goals,
		owners: owners,
		logger: logger,
		now:    time.Now,
	}
}

func (uc *UseCase) ListGoals(ctx context.Context, filter repository.GoalFilter) ([]domain.Goal, error) {
	return uc.goals.ListByOwner(ctx, filter)
}

func (uc *UseCase) GetGoal(ctx context.Context, id string) (*domain.Goal, error) {
	return uc.goals.GetByID(ctx, id)
}

func (uc *UseCase) CreateGoal(ctx context.Context, ownerID string, payload domain.GoalPayload) (*domain.Goal, error) {
	now := uc.now()
	if err := payload.Validate(now, true); err != nil {
		return nil, err
	}
	if uc.owners != nil {
		if _, err := uc.owners.GetByID(ctx, ownerID); err != nil {
			return nil, err
		}
	}

	goal := domain.NewGoal(ownerID, payload, now)
	return uc.goals.Create(ctx, &goal)
}

func (uc *UseCase) UpdateGoal(ctx context.Context, id string, payload domain.GoalPayload) (*domain.Goal, error) {
	now := uc.now()
	if err := payload.Validate(now, false); err != nil {
		return nil, err
	}

	current, err := uc.goals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := current.ApplyUpdate(payload, now)
	if err := uc.goals.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *UseCase) UpdateProgress(ctx context.Context, id string, value int) (*domain.Goal, error) {
	current, err := uc.goals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := current.WithProgress(value, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.goals.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *UseCase) UpdateStatus(ctx context.Context, id string, value domain.Status) (*domain.Goal, error) {
	current, err := uc.goals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := current.WithStatus(value, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.goals.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *UseCase) DeleteGoal(ctx context.Context, id string) error {
	return uc.goals.Delete(ctx, id)
}

func (uc *UseCase) LogActivity(ctx context.Context, goalID string, payload domain.ActivityPayload) (*domain.Goal, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return uc.goals.AppendActivity(ctx, goalID, payload.Activity())
}

// Stats summarizes an owner's goals for dashboard consumption.
type Stats struct {
	Total                int            `json:"total"`
	ByStatus             map[string]int `json:"by_status"`
	TotalActivityMinutes float64        `json:"total_activity_minutes"`
}

func (uc *UseCase) GetStats(ctx context.Context, ownerID string) (*Stats, error) {
	goals, err := uc.goals.ListByOwner(ctx, repository.GoalFilter{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}

	stats := &Stats{ByStatus: map[string]int{}}
	for _, g := range goals {
		stats.Total++
		stats.ByStatus[string(g.Status)]++
		stats.TotalActivityMinutes += g.TotalActivityMinutes()
	}
	return stats, nil
}
