package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitgoals/backend/domain"
)

func TestUnmarshalActivities(t *testing.T) {
	t.Run("empty column yields empty slice", func(t *testing.T) {
		activities, err := unmarshalActivities(nil)
		require.NoError(t, err)
		assert.NotNil(t, activities)
		assert.Empty(t, activities)
	})

	t.Run("valid array decodes", func(t *testing.T) {
		raw := []byte(`[{"type":"run","duration_minutes":30,"date":"2025-05-20T07:30:00Z"}]`)
		activities, err := unmarshalActivities(raw)
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, "run", activities[0].Type)
		assert.Equal(t, float64(30), activities[0].DurationMinutes)
	})

	t.Run("malformed column is an error", func(t *testing.T) {
		_, err := unmarshalActivities([]byte(`{not json`))
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInternal))
	})
}

func TestMarshalActivitiesAlwaysArray(t *testing.T) {
	assert.Equal(t, "[]", string(marshalActivities(nil)))

	raw := marshalActivities([]domain.Activity{{Type: "run", DurationMinutes: 30, Date: time.Date(2025, 5, 20, 7, 30, 0, 0, time.UTC)}})
	activities, err := unmarshalActivities(raw)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "run", activities[0].Type)
}
