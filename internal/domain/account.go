package domain

import "time"

// AccountStatus classifies the health of an active account.
// Values match the product's database enum.
type AccountStatus string

const (
	StatusHealthy   AccountStatus = "saudavel"
	StatusAttention AccountStatus = "atencao"
	StatusChurnRisk AccountStatus = "risco_churn"
)

// ActiveAccount is a client under a recurring contract.
// RiskSignals is a free-form list of observed warning signs; Status is
// always derived from the signal count and persisted together with it.
type ActiveAccount struct {
	ID            string        `json:"id"`
	LeadID        string        `json:"lead_id,omitempty"`
	Name          string        `json:"name"`
	Company       string        `json:"company"`
	MonthlyValue  float64       `json:"monthly_value"`
	Scope         string        `json:"scope"`
	RiskSignals   []string      `json:"risk_signals"`
	Status        AccountStatus `json:"status"`
	ContractStart time.Time     `json:"contract_start"`
	RenewalAt     *time.Time    `json:"renewal_at,omitempty"`
	ParetoTag     string        `json:"pareto_tag,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// AccountByID returns the account with the given id from a slice, or nil.
func AccountByID(accounts []ActiveAccount, id string) *ActiveAccount {
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i]
		}
	}
	return nil
}
