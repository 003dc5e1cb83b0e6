package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitgoals/backend/domain"
	"github.com/fitgoals/backend/repository"
)

type goalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository returns a Postgres-backed implementation of GoalRepository.
// Activities live in a JSONB column on the goal row and are append-only.
func NewGoalRepository(pool *pgxpool.Pool) repository.GoalRepository {
	return &goalRepository{pool: pool}
}

const goalColumns = `id, owner_id, title, description, target_date, progress, status, activities, created_at, updated_at`

func (r *goalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	const query = `
	SELECT ` + goalColumns + `
	FROM goals
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanGoal(row)
}

func (r *goalRepository) ListByOwner(ctx context.Context, filter repository.GoalFilter) ([]domain.Goal, error) {
	const query = `
	SELECT ` + goalColumns + `
	FROM goals
	WHERE ($1 = '' OR owner_id = $1)
	  AND ($2 = '' OR status = $2)
	ORDER BY created_at ASC
	LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, filter.OwnerID, filter.Status, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}
	return goals, rows.Err()
}

func (r *goalRepository) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	if goal == nil {
		return nil, domain.ErrInvalidPayload
	}
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO goals (id, owner_id, title, description, target_date, progress, status, activities)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		goal.ID,
		goal.OwnerID,
		goal.Title,
		goal.Description,
		goal.TargetDate,
		goal.Progress,
		string(goal.Status),
		marshalActivities(goal.Activities),
	).Scan(&goal.CreatedAt, &goal.UpdatedAt); err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	if goal == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE goals
	SET title = $2,
		description = $3,
		target_date = $4,
		progress = $5,
		status = $6,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		goal.ID,
		goal.Title,
		goal.Description,
		goal.TargetDate,
		goal.Progress,
		string(goal.Status),
	).Scan(&goal.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrGoalNotFound
		}
		return err
	}

	return nil
}

func (r *goalRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM goals WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func (r *goalRepository) AppendActivity(ctx context.Context, goalID string, activity domain.Activity) (*domain.Goal, error) {
	payload, err := json.Marshal(activity)
	if err != nil {
		return nil, err
	}

	const query = `
	UPDATE goals
	SET activities = activities || $2::jsonb,
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + goalColumns + `
	`
	row := r.pool.QueryRow(ctx, query, goalID, payload)
	return scanGoal(row)
}

func scanGoal(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Goal, error) {
	var goal domain.Goal
	var (
		status     string
		activities []byte
	)

	if err := row.Scan(
		&goal.ID,
		&goal.OwnerID,
		&goal.Title,
		&goal.Description,
		&goal.TargetDate,
		&goal.Progress,
		&status,
		&activities,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}

	goal.Status = domain.Status(status)
	parsed, err := unmarshalActivities(activities)
	if err != nil {
		return nil, err
	}
	goal.Activities = parsed

	return &goal, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
