package repository

import (
	"context"

	"github.com/fitgoals/backend/domain"
)

// GoalFilter narrows goal listings. Results keep insertion order.
type GoalFilter struct {
	OwnerID string
	Status  string
	Limit   int
	Offset  int
}

// GoalRepository is the persistence seam for goals. Implementations perform
// no validation; callers validate before invoking any mutation.
type GoalRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	ListByOwner(ctx context.Context, filter GoalFilter) ([]domain.Goal, error)
	Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error)
	Update(ctx context.Context, goal *domain.Goal) error
	Delete(ctx context.Context, id string) error
	AppendActivity(ctx context.Context, goalID string, activity domain.Activity) (*domain.Goal, error)
}
