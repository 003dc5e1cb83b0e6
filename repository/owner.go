package repository

import (
	"context"

	"github.com/fitgoals/backend/domain"
)

type OwnerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Owner, error)
	Upsert(ctx context.Context, owner *domain.Owner) error
}
