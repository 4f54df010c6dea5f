package pipeline

import (
	"time"

	"github.com/flyagencia/salesops/internal/domain"

	"github.com/google/uuid"
)

// ConvertInput is the activation form filled when a won lead becomes a
// paying client.
type ConvertInput struct {
	MonthlyValue float64    `json:"monthly_value" validate:"gte=0,lte=999999999"`
	Scope        string     `json:"scope" validate:"required,max=500"`
	RenewalAt    *time.Time `json:"renewal_at,omitempty"`
	ParetoTag    string     `json:"pareto_tag" validate:"max=30"`
}

// ConvertLead turns a lead into an active account. The contracted scope
// is mandatory. Account creation and lead removal travel in one intent
// so the conversion commits or fails as a unit.
func ConvertLead(state domain.BoardState, leadID string, input ConvertInput, now time.Time) (domain.BoardState, *domain.Intent, *domain.ActiveAccount, error) {
	if verr := forms.Struct(input); verr != nil && verr.HasErrors() {
		return state, nil, nil, verr
	}
	lead := state.LeadByID(leadID)
	if lead == nil {
		return state, nil, nil, &domain.ErrNotFound{Resource: "lead", ID: leadID}
	}

	account := domain.ActiveAccount{
		ID:            uuid.New().String(),
		LeadID:        lead.ID,
		Name:          lead.Name,
		Company:       lead.Company,
		MonthlyValue:  input.MonthlyValue,
		Scope:         sanitizeText(input.Scope),
		RiskSignals:   []string{},
		Status:        domain.StatusHealthy,
		ContractStart: now,
		RenewalAt:     input.RenewalAt,
		ParetoTag:     input.ParetoTag,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	next := state.Clone()
	next.Leads = removeLead(next.Leads, leadID)

	intent := domain.NewIntent("convert_lead",
		domain.Effect{
			Kind:   domain.EffectInsert,
			Entity: domain.EntityAccount,
			Row:    accountRow(account),
		},
		domain.Effect{
			Kind:   domain.EffectDelete,
			Entity: domain.EntityLead,
			ID:     leadID,
		},
	)
	return next, intent, &account, nil
}

func accountRow(a domain.ActiveAccount) map[string]any {
	return map[string]any{
		"id":             a.ID,
		"lead_id":        a.LeadID,
		"name":           a.Name,
		"company":        a.Company,
		"monthly_value":  a.MonthlyValue,
		"scope":          a.Scope,
		"risk_signals":   a.RiskSignals,
		"status":         string(a.Status),
		"contract_start": a.ContractStart.UTC().Format(time.RFC3339),
		"renewal_at":     timeOrNil(a.RenewalAt),
		"pareto_tag":     a.ParetoTag,
	}
}
