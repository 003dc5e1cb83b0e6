package domain

import "time"

// Status classifies the lifecycle of a goal.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// IsValid reports whether the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

// Activity is a single logged exercise event. Activities are immutable once
// appended to a goal.
type Activity struct {
	Type            string    `json:"type"`
	DurationMinutes float64   `json:"duration_minutes"`
	Date            time.Time `json:"date"`
}

// Goal represents a user-owned fitness target with progress and status tracking.
type Goal struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	TargetDate  time.Time  `json:"target_date"`
	Progress    int        `json:"progress"`
	Status      Status     `json:"status"`
	Activities  []Activity `json:"activities"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewGoal builds a goal from a validated payload. Status defaults to active,
// progress to zero, and both timestamps are set to now.
func NewGoal(ownerID string, payload GoalPayload, now time.Time) Goal {
	goal := Goal{
		OwnerID:    ownerID,
		Progress:   0,
		Status:     StatusActive,
		Activities: []Activity{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if payload.Title != nil {
		goal.Title = *payload.Title
	}
	if payload.Description != nil {
		goal.Description = *payload.Description
	}
	if payload.TargetDate != nil {
		goal.TargetDate = *payload.TargetDate
	}
	if payload.Progress != nil {
		goal.Progress = *payload.Progress
	}
	if payload.Status != nil {
		goal.Status = *payload.Status
	}
	return goal
}

// ApplyUpdate returns a copy of the goal with the payload's set fields
// replaced. Nil fields leave the current value untouched.
func (g Goal) ApplyUpdate(payload GoalPayload, now time.Time) Goal {
	updated := g
	if payload.Title != nil {
		updated.Title = *payload.Title
	}
	if payload.Description != nil {
		updated.Description = *payload.Description
	}
	if payload.TargetDate != nil {
		updated.TargetDate = *payload.TargetDate
	}
	if payload.Progress != nil {
		updated.Progress = *payload.Progress
	}
	if payload.Status != nil {
		updated.Status = *payload.Status
	}
	updated.UpdatedAt = now
	return updated
}

// WithProgress returns a copy with the progress replaced. Progress and status
// are independent fields; reaching 100 does not complete the goal.
func (g Goal) WithProgress(value int, now time.Time) (Goal, error) {
	if value < 0 || value > 100 {
		return g, NewError(ErrCodeInvalid, "progress must be between 0 and 100")
	}
	updated := g
	updated.Progress = value
	updated.UpdatedAt = now
	return updated, nil
}

// WithStatus returns a copy with the status replaced. Any transition between
// valid statuses is permitted.
func (g Goal) WithStatus(value Status, now time.Time) (Goal, error) {
	if !value.IsValid() {
		return g, NewError(ErrCodeInvalid, "status must be active, completed or abandoned")
	}
	updated := g
	updated.Status = value
	updated.UpdatedAt = now
	return updated, nil
}

// WithActivity returns a copy with the activity appended. The existing
// sequence is never modified in place.
func (g Goal) WithActivity(activity Activity, now time.Time) Goal {
	updated := g
	updated.Activities = make([]Activity, 0, len(g.Activities)+1)
	updated.Activities = append(updated.Activities, g.Activities...)
	updated.Activities = append(updated.Activities, activity)
	updated.UpdatedAt = now
	return updated
}

// TotalActivityMinutes sums the logged activity durations. The total is
// derived on read and never stored.
func (g Goal) TotalActivityMinutes() float64 {
	var total float64
	for _, a := range g.Activities {
		total += a.DurationMinutes
	}
	return total
}
