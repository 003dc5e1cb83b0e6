package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string       { return &s }
func intPtr(i int) *int             { return &i }
func statusPtr(s Status) *Status    { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func TestGoalPayloadValidate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)

	t.Run("valid full payload", func(t *testing.T) {
		payload := GoalPayload{
			Title:       strPtr("  Run 5k  "),
			Description: strPtr("Couch to 5k plan"),
			TargetDate:  timePtr(future),
			Progress:    intPtr(50),
			Status:      statusPtr(StatusActive),
		}
		require.NoError(t, payload.Validate(now, true))
		assert.Equal(t, "Run 5k", *payload.Title, "title should be trimmed")
	})

	t.Run("empty title rejected", func(t *testing.T) {
		payload := GoalPayload{
			Title:      strPtr(""),
			TargetDate: timePtr(future),
			Progress:   intPtr(50),
			Status:     statusPtr(StatusActive),
		}
		err := payload.Validate(now, true)
		require.Error(t, err)
		assert.True(t, IsDomainError(err, ErrCodeInvalid))
	})

	t.Run("whitespace-only title rejected", func(t *testing.T) {
		payload := GoalPayload{Title: strPtr("   "), TargetDate: timePtr(future)}
		assert.Error(t, payload.Validate(now, true))
	})

	t.Run("title over 100 chars rejected", func(t *testing.T) {
		payload := GoalPayload{Title: strPtr(strings.Repeat("a", 101)), TargetDate: timePtr(future)}
		assert.Error(t, payload.Validate(now, true))
	})

	t.Run("title at exactly 100 chars accepted", func(t *testing.T) {
		payload := GoalPayload{Title: strPtr(strings.Repeat("a", 100)), TargetDate: timePtr(future)}
		assert.NoError(t, payload.Validate(now, true))
	})

	t.Run("limits count characters not bytes", func(t *testing.T) {
		// 100 three-byte runes
		payload := GoalPayload{Title: strPtr(strings.Repeat("走", 100)), TargetDate: timePtr(future)}
		assert.NoError(t, payload.Validate(now, true))

		payload = GoalPayload{Title: strPtr(strings.Repeat("走", 101)), TargetDate: timePtr(future)}
		assert.Error(t, payload.Validate(now, true))

		payload = GoalPayload{
			Title:       strPtr("Run 5k"),
			Description: strPtr(strings.Repeat("é", 500)),
			TargetDate:  timePtr(future),
		}
		assert.NoError(t, payload.Validate(now, true))
	})

	t.Run("description over 500 chars rejected", func(t *testing.T) {
		payload := GoalPayload{
			Title:       strPtr("Run 5k"),
			Description: strPtr(strings.Repeat("d", 501)),
			TargetDate:  timePtr(future),
		}
		assert.Error(t, payload.Validate(now, true))
	})

	t.Run("past target date rejected", func(t *testing.T) {
		payload := GoalPayload{Title: strPtr("Run 5k"), TargetDate: timePtr(now.Add(-time.Hour))}
		assert.Error(t, payload.Validate(now, true))
	})

	t.Run("missing title required on create", func(t *testing.T) {
		payload := GoalPayload{TargetDate: timePtr(future)}
		assert.Error(t, payload.Validate(now, true))
	})

	t.Run("missing fields allowed on partial update", func(t *testing.T) {
		payload := GoalPayload{Progress: intPtr(75)}
		assert.NoError(t, payload.Validate(now, false))
	})

	t.Run("progress out of range rejected", func(t *testing.T) {
		for _, progress := range []int{-1, 101} {
			payload := GoalPayload{Title: strPtr("Run 5k"), TargetDate: timePtr(future), Progress: intPtr(progress)}
			assert.Error(t, payload.Validate(now, true), "progress %d", progress)
		}
	})

	t.Run("progress bounds accepted", func(t *testing.T) {
		for _, progress := range []int{0, 100} {
			payload := GoalPayload{Title: strPtr("Run 5k"), TargetDate: timePtr(future), Progress: intPtr(progress)}
			assert.NoError(t, payload.Validate(now, true), "progress %d", progress)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		payload := GoalPayload{Title: strPtr("Run 5k"), TargetDate: timePtr(future), Status: statusPtr(Status("paused"))}
		assert.Error(t, payload.Validate(now, true))
	})

	t.Run("nil payload rejected", func(t *testing.T) {
		var payload *GoalPayload
		assert.Error(t, payload.Validate(now, true))
	})
}

func TestActivityPayloadValidate(t *testing.T) {
	date := time.Date(2025, 5, 20, 7, 30, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		payload := ActivityPayload{Type: " run ", DurationMinutes: 30, Date: date}
		require.NoError(t, payload.Validate())
		assert.Equal(t, "run", payload.Type)
	})

	t.Run("empty type rejected", func(t *testing.T) {
		payload := ActivityPayload{Type: "  ", DurationMinutes: 30, Date: date}
		assert.Error(t, payload.Validate())
	})

	t.Run("type over 50 chars rejected", func(t *testing.T) {
		payload := ActivityPayload{Type: strings.Repeat("x", 51), DurationMinutes: 30, Date: date}
		assert.Error(t, payload.Validate())
	})

	t.Run("multibyte type at 50 chars accepted", func(t *testing.T) {
		payload := ActivityPayload{Type: strings.Repeat("泳", 50), DurationMinutes: 30, Date: date}
		assert.NoError(t, payload.Validate())
	})

	t.Run("zero duration rejected", func(t *testing.T) {
		payload := ActivityPayload{Type: "run", DurationMinutes: 0, Date: date}
		assert.Error(t, payload.Validate())
	})

	t.Run("negative duration rejected", func(t *testing.T) {
		payload := ActivityPayload{Type: "run", DurationMinutes: -5, Date: date}
		assert.Error(t, payload.Validate())
	})

	t.Run("past dates allowed", func(t *testing.T) {
		payload := ActivityPayload{Type: "run", DurationMinutes: 30, Date: date.AddDate(-1, 0, 0)}
		assert.NoError(t, payload.Validate())
	})

	t.Run("zero date rejected", func(t *testing.T) {
		payload := ActivityPayload{Type: "run", DurationMinutes: 30}
		assert.Error(t, payload.Validate())
	})
}
