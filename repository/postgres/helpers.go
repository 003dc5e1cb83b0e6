package postgres

import (
	"encoding/json"

	"github.com/fitgoals/backend/domain"
)

func marshalMap(data map[string]string) []byte {
	if len(data) == 0 {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return b
}

// unmarshalActivities decodes the activities column. An empty column yields
// an empty slice; malformed JSONB is an error, never silently dropped data.
func unmarshalActivities(raw []byte) ([]domain.Activity, error) {
	activities := []domain.Activity{}
	if len(raw) == 0 {
		return activities, nil
	}
	if err := json.Unmarshal(raw, &activities); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "malformed activities column", err)
	}
	return activities, nil
}

// marshalActivities always yields a JSON array so JSONB concatenation on the
// activities column stays well-formed.
func marshalActivities(activities []domain.Activity) []byte {
	if activities == nil {
		activities = []domain.Activity{}
	}
	b, err := json.Marshal(activities)
	if err != nil {
		return []byte("[]")
	}
	return b
}
