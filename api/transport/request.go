package transport

// GoalRequest carries goal fields for create and partial update. Pointer
// fields distinguish "absent" from zero values.
type GoalRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	TargetDate  *string `json:"target_date"`
	Progress    *int    `json:"progress"`
	Status      *string `json:"status"`
}

// ActivityRequest carries a single logged activity.
type ActivityRequest struct {
	Type            string  `json:"type"`
	DurationMinutes float64 `json:"duration_minutes"`
	Date            string  `json:"date"`
}

type RegisterRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	TTL   int    `json:"ttl_seconds"`
}

type AuthLoginRequest struct {
	OwnerID string `json:"owner_id"`
	TTL     int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}
