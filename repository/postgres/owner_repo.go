package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitgoals/backend/domain"
	"github.com/fitgoals/backend/repository"
)

type ownerRepository struct {
	pool *pgxpool.Pool
}

// NewOwnerRepository instantiates a Postgres-backed owner repository.
func NewOwnerRepository(pool *pgxpool.Pool) repository.OwnerRepository {
	return &ownerRepository{pool: pool}
}

func (r *ownerRepository) GetByID(ctx context.Context, id string) (*domain.Owner, error) {
	const query = `
		SELECT id, email, name, metadata, created_at, updated_at
		FROM owners
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var owner domain.Owner
	var metadata []byte

	if err := row.Scan(&owner.ID, &owner.Email, &owner.Name, &metadata, &owner.CreatedAt, &owner.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, err
	}

	if len(metadata) > 0 {
		_ = json.Unmarshal(metadata, &owner.Metadata)
	}

	return &owner, nil
}

func (r *ownerRepository) Upsert(ctx context.Context, owner *domain.Owner) error {
	if owner == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
		INSERT INTO owners (id, email, name, metadata)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
			name = EXCLUDED.name,
			metadata = EXCLUDED.metadata,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	return r.pool.QueryRow(ctx, query,
		owner.ID,
		owner.Email,
		owner.Name,
		marshalMap(owner.Metadata),
	).Scan(&owner.CreatedAt, &owner.UpdatedAt)
}
