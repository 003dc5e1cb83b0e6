package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGoal(now time.Time) Goal {
	return NewGoal("owner-1", GoalPayload{
		Title:      strPtr("Run 5k"),
		TargetDate: timePtr(now.Add(72 * time.Hour)),
	}, now)
}

func TestNewGoalDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	goal := newTestGoal(now)

	assert.Equal(t, "owner-1", goal.OwnerID)
	assert.Equal(t, StatusActive, goal.Status)
	assert.Equal(t, 0, goal.Progress)
	assert.NotNil(t, goal.Activities)
	assert.Empty(t, goal.Activities)
	assert.Equal(t, now, goal.CreatedAt)
	assert.Equal(t, now, goal.UpdatedAt)
}

func TestNewGoalExplicitFields(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	goal := NewGoal("owner-1", GoalPayload{
		Title:      strPtr("Run 5k"),
		TargetDate: timePtr(now.Add(72 * time.Hour)),
		Progress:   intPtr(25),
		Status:     statusPtr(StatusCompleted),
	}, now)

	assert.Equal(t, 25, goal.Progress)
	assert.Equal(t, StatusCompleted, goal.Status)
}

func TestApplyUpdatePartialMerge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	goal := newTestGoal(now)
	goal.Description = "original description"

	later := now.Add(time.Hour)
	updated := goal.ApplyUpdate(GoalPayload{Progress: intPtr(60)}, later)

	assert.Equal(t, 60, updated.Progress)
	assert.Equal(t, "Run 5k", updated.Title, "omitted title must be preserved")
	assert.Equal(t, "original description", updated.Description, "omitted description must be preserved")
	assert.Equal(t, goal.TargetDate, updated.TargetDate)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.Equal(t, goal.CreatedAt, updated.CreatedAt)

	// original value untouched
	assert.Equal(t, 0, goal.Progress)
}

func TestWithProgress(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	goal := newTestGoal(now)

	t.Run("valid value", func(t *testing.T) {
		later := now.Add(time.Minute)
		updated, err := goal.WithProgress(40, later)
		require.NoError(t, err)
		assert.Equal(t, 40, updated.Progress)
		assert.Equal(t, later, updated.UpdatedAt)
		assert.True(t, !updated.UpdatedAt.Before(updated.CreatedAt))
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := goal.WithProgress(101, now)
		require.Error(t, err)
		assert.True(t, IsDomainError(err, ErrCodeInvalid))

		_, err = goal.WithProgress(-1, now)
		assert.Error(t, err)
	})

	t.Run("reaching 100 does not complete the goal", func(t *testing.T) {
		updated, err := goal.WithProgress(100, now.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, StatusActive, updated.Status)
	})
}

func TestWithStatusTransitions(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	goal := newTestGoal(now)

	// every transition between valid statuses is permitted, including reversals
	transitions := []Status{StatusCompleted, StatusActive, StatusAbandoned, StatusActive, StatusCompleted, StatusAbandoned}
	current := goal
	for _, next := range transitions {
		updated, err := current.WithStatus(next, now.Add(time.Minute))
		require.NoError(t, err, "transition %s -> %s", current.Status, next)
		assert.Equal(t, next, updated.Status)
		current = updated
	}

	_, err := goal.WithStatus(Status("paused"), now)
	assert.Error(t, err)
}

func TestWithActivityAppendOnly(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	goal := newTestGoal(now)

	first := Activity{Type: "walk", DurationMinutes: 20, Date: now}
	second := Activity{Type: "run", DurationMinutes: 30, Date: now.Add(24 * time.Hour)}

	withOne := goal.WithActivity(first, now.Add(time.Minute))
	withTwo := withOne.WithActivity(second, now.Add(2*time.Minute))

	require.Len(t, withTwo.Activities, 2)
	assert.Equal(t, first, withTwo.Activities[0], "insertion order preserved")
	assert.Equal(t, second, withTwo.Activities[1])

	// prior values never mutated
	assert.Empty(t, goal.Activities)
	assert.Len(t, withOne.Activities, 1)

	assert.Equal(t, float64(50), withTwo.TotalActivityMinutes())
}

func TestTotalActivityMinutesEmpty(t *testing.T) {
	goal := newTestGoal(time.Now())
	assert.Zero(t, goal.TotalActivityMinutes())
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusActive.IsValid())
	assert.True(t, StatusCompleted.IsValid())
	assert.True(t, StatusAbandoned.IsValid())
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("done").IsValid())
}
