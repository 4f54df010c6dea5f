package pipeline

import (
	"time"

	"github.com/flyagencia/salesops/internal/domain"

	"github.com/google/uuid"
)

// RecordLoss snapshots a lead into the loss history and removes it from
// the board. The intent carries the insert strictly before the delete:
// a crash between the two leaves a duplicate history row, never a lost
// record.
func RecordLoss(state domain.BoardState, leadID, reason, detail string, now time.Time) (domain.BoardState, *domain.Intent, *domain.LossRecord, error) {
	if reason == "" {
		verr := &domain.ErrValidation{}
		return state, nil, nil, verr.Add("reason", "campo obrigatório")
	}
	lead := state.LeadByID(leadID)
	if lead == nil {
		return state, nil, nil, &domain.ErrNotFound{Resource: "lead", ID: leadID}
	}

	stageTitle := ""
	if stage := state.StageByID(lead.StageID); stage != nil {
		stageTitle = stage.Title
	}

	record := domain.LossRecord{
		ID:          uuid.New().String(),
		LeadID:      lead.ID,
		Name:        lead.Name,
		Company:     lead.Company,
		Value:       lead.Ticket,
		Reason:      reason,
		Detail:      sanitizeText(detail),
		StageAtLoss: stageTitle,
		LostAt:      now,
	}

	next := state.Clone()
	next.Leads = removeLead(next.Leads, leadID)

	intent := domain.NewIntent("record_loss",
		domain.Effect{
			Kind:   domain.EffectInsert,
			Entity: domain.EntityLoss,
			Row:    lossRow(record),
		},
		domain.Effect{
			Kind:   domain.EffectDelete,
			Entity: domain.EntityLead,
			ID:     leadID,
		},
	)
	return next, intent, &record, nil
}

// RecordChurn does for an active account what RecordLoss does for a
// lead: history insert first, then removal of the live record.
func RecordChurn(accounts []domain.ActiveAccount, accountID, reason, detail string, now time.Time) ([]domain.ActiveAccount, *domain.Intent, *domain.LossRecord, error) {
	if reason == "" {
		verr := &domain.ErrValidation{}
		return accounts, nil, nil, verr.Add("reason", "campo obrigatório")
	}
	account := domain.AccountByID(accounts, accountID)
	if account == nil {
		return accounts, nil, nil, &domain.ErrNotFound{Resource: "account", ID: accountID}
	}

	record := domain.LossRecord{
		ID:          uuid.New().String(),
		LeadID:      account.LeadID,
		Name:        account.Name,
		Company:     account.Company,
		Value:       account.MonthlyValue,
		Reason:      reason,
		Detail:      sanitizeText(detail),
		StageAtLoss: domain.StageChurn,
		LostAt:      now,
	}

	next := make([]domain.ActiveAccount, 0, len(accounts)-1)
	for _, a := range accounts {
		if a.ID != accountID {
			next = append(next, a)
		}
	}

	intent := domain.NewIntent("record_churn",
		domain.Effect{
			Kind:   domain.EffectInsert,
			Entity: domain.EntityLoss,
			Row:    lossRow(record),
		},
		domain.Effect{
			Kind:   domain.EffectDelete,
			Entity: domain.EntityAccount,
			ID:     accountID,
		},
	)
	return next, intent, &record, nil
}

func lossRow(r domain.LossRecord) map[string]any {
	return map[string]any{
		"id":            r.ID,
		"lead_id":       r.LeadID,
		"name":          r.Name,
		"company":       r.Company,
		"value":         r.Value,
		"reason":        r.Reason,
		"detail":        r.Detail,
		"stage_at_loss": r.StageAtLoss,
		"lost_at":       r.LostAt.UTC().Format(time.RFC3339),
	}
}
