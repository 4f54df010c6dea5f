package domain

import "time"

// GoalConfig is the singleton commercial configuration row:
// the monthly revenue goal, the churn already confirmed for the
// current month, and the free-text focus of the month.
type GoalConfig struct {
	ID           string    `json:"id,omitempty"`
	MonthlyGoal  float64   `json:"monthly_goal"`
	CurrentChurn float64   `json:"current_churn"`
	MonthFocus   string    `json:"month_focus,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
