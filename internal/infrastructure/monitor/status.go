package monitor

import "time"

type Status struct {
	Storage   bool      `json:"storage"`
	Driver    string    `json:"driver"`
	Redis     bool      `json:"redis"`
	GoalCount int       `json:"goal_count"`
	LastCheck time.Time `json:"last_check"`
}
