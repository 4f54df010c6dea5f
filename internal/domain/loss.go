package domain

import "time"

// LossRecord is a historical snapshot of a lost lead or churned client.
// It copies the fields that matter for analysis so deleting the live
// record never loses information.
type LossRecord struct {
	ID          string    `json:"id"`
	LeadID      string    `json:"lead_id,omitempty"`
	Name        string    `json:"name"`
	Company     string    `json:"company"`
	Value       float64   `json:"value"`
	Reason      string    `json:"reason"`
	Detail      string    `json:"detail,omitempty"`
	StageAtLoss string    `json:"stage_at_loss"`
	LostAt      time.Time `json:"lost_at"`
}

// StageChurn marks loss records that came from an active account
// rather than a pipeline stage.
const StageChurn = "Cliente Ativo"

// LossReasonStat is one row of the loss-reason breakdown.
type LossReasonStat struct {
	Reason     string  `json:"reason"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"total_value"`
	Percent    int     `json:"percent"`
}
