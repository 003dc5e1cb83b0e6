package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxTitleLen        = 100
	maxDescriptionLen  = 500
	maxActivityTypeLen = 50
)

// GoalPayload carries caller-supplied goal fields. Nil fields are treated as
// "not supplied" so the same type serves create and partial update.
type GoalPayload struct {
	Title       *string
	Description *string
	TargetDate  *time.Time
	Progress    *int
	Status      *Status
}

// Validate normalizes the payload in place (trimming strings) and checks every
// supplied field. When requireAll is set, fields mandatory at creation time
// (title, target date) must be present. The reference time anchors the
// target-date check.
func (p *GoalPayload) Validate(now time.Time, requireAll bool) error {
	if p == nil {
		return ErrInvalidPayload
	}

	if p.Title != nil {
		trimmed := strings.TrimSpace(*p.Title)
		if trimmed == "" {
			return NewError(ErrCodeInvalid, "title must not be empty")
		}
		if utf8.RuneCountInString(trimmed) > maxTitleLen {
			return NewError(ErrCodeInvalid, fmt.Sprintf("title must be at most %d characters", maxTitleLen))
		}
		*p.Title = trimmed
	} else if requireAll {
		return NewError(ErrCodeInvalid, "title is required")
	}

	if p.Description != nil {
		trimmed := strings.TrimSpace(*p.Description)
		if utf8.RuneCountInString(trimmed) > maxDescriptionLen {
			return NewError(ErrCodeInvalid, fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
		}
		*p.Description = trimmed
	}

	if p.TargetDate != nil {
		if p.TargetDate.IsZero() {
			return NewError(ErrCodeInvalid, "target date must be a valid date")
		}
		if p.TargetDate.Before(now) {
			return NewError(ErrCodeInvalid, "target date must not be in the past")
		}
	} else if requireAll {
		return NewError(ErrCodeInvalid, "target date is required")
	}

	if p.Progress != nil {
		if *p.Progress < 0 || *p.Progress > 100 {
			return NewError(ErrCodeInvalid, "progress must be between 0 and 100")
		}
	}

	if p.Status != nil && !p.Status.IsValid() {
		return NewError(ErrCodeInvalid, "status must be active, completed or abandoned")
	}

	return nil
}

// ActivityPayload carries caller-supplied activity fields.
type ActivityPayload struct {
	Type            string
	DurationMinutes float64
	Date            time.Time
}

// Validate normalizes and checks the payload. Activity dates carry no
// past/future restriction.
func (p *ActivityPayload) Validate() error {
	if p == nil {
		return ErrInvalidPayload
	}

	p.Type = strings.TrimSpace(p.Type)
	if p.Type == "" {
		return NewError(ErrCodeInvalid, "activity type must not be empty")
	}
	if utf8.RuneCountInString(p.Type) > maxActivityTypeLen {
		return NewError(ErrCodeInvalid, fmt.Sprintf("activity type must be at most %d characters", maxActivityTypeLen))
	}

	if p.DurationMinutes <= 0 {
		return NewError(ErrCodeInvalid, "activity duration must be greater than zero")
	}

	if p.Date.IsZero() {
		return NewError(ErrCodeInvalid, "activity date must be a valid date")
	}

	return nil
}

// Activity converts a validated payload into the immutable domain value.
func (p ActivityPayload) Activity() Activity {
	return Activity{
		Type:            p.Type,
		DurationMinutes: p.DurationMinutes,
		Date:            p.Date,
	}
}
