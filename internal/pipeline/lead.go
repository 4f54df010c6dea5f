package pipeline

import (
	"regexp"
	"strings"
	"time"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/validation"

	"github.com/google/uuid"
)

var forms = validation.New()

var markupRegex = regexp.MustCompile(`<[^>]*>`)

// sanitizeText strips markup tags and surrounding whitespace from
// user-entered free text before it reaches state or storage.
func sanitizeText(s string) string {
	return strings.TrimSpace(markupRegex.ReplaceAllString(s, ""))
}

// LeadInput is the create/update form for a lead. Validation reports
// every failed field at once so the form can highlight all of them.
type LeadInput struct {
	ID      string  `json:"id,omitempty"`
	Name    string  `json:"name" validate:"required,max=100"`
	Company string  `json:"company" validate:"required,max=100"`
	Ticket  float64 `json:"ticket" validate:"gte=0,lte=999999999"`
	StageID string  `json:"stage_id" validate:"required"`
	Owner   string  `json:"owner" validate:"required,max=100"`
	Service string  `json:"service" validate:"required,max=100"`
	Phone   string  `json:"phone" validate:"omitempty,max=20,phone"`
	Email   string  `json:"email" validate:"omitempty,max=255,email"`
	Notes   string  `json:"notes" validate:"max=1000"`
	Origin  string  `json:"origin" validate:"max=50"`
}

// SaveLead validates the form and creates or updates a lead depending
// on whether input.ID is set.
func SaveLead(state domain.BoardState, input LeadInput, now time.Time) (domain.BoardState, *domain.Intent, *domain.Lead, error) {
	verr := forms.Struct(input)
	if verr == nil {
		verr = &domain.ErrValidation{}
	}
	if input.StageID != "" && state.StageByID(input.StageID) == nil {
		verr.Add("stageId", "etapa inexistente")
	}
	if verr.HasErrors() {
		return state, nil, nil, verr
	}

	input.Name = sanitizeText(input.Name)
	input.Company = sanitizeText(input.Company)
	input.Notes = sanitizeText(input.Notes)

	if input.ID == "" {
		return createLead(state, input, now)
	}
	return updateLead(state, input, now)
}

func createLead(state domain.BoardState, input LeadInput, now time.Time) (domain.BoardState, *domain.Intent, *domain.Lead, error) {
	lead := domain.Lead{
		ID:             uuid.New().String(),
		Name:           input.Name,
		Company:        input.Company,
		Ticket:         input.Ticket,
		StageID:        input.StageID,
		Owner:          input.Owner,
		Service:        input.Service,
		Phone:          input.Phone,
		Email:          input.Email,
		Notes:          input.Notes,
		Origin:         input.Origin,
		FirstContactAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	next := state.Clone()
	next.Leads = append(next.Leads, lead)

	intent := domain.NewIntent("create_lead", domain.Effect{
		Kind:   domain.EffectInsert,
		Entity: domain.EntityLead,
		Row:    leadRow(lead),
	})
	return next, intent, &lead, nil
}

func updateLead(state domain.BoardState, input LeadInput, now time.Time) (domain.BoardState, *domain.Intent, *domain.Lead, error) {
	existing := state.LeadByID(input.ID)
	if existing == nil {
		return state, nil, nil, &domain.ErrNotFound{Resource: "lead", ID: input.ID}
	}

	lead := *existing
	lead.Name = input.Name
	lead.Company = input.Company
	lead.Ticket = input.Ticket
	lead.StageID = input.StageID
	lead.Owner = input.Owner
	lead.Service = input.Service
	lead.Phone = input.Phone
	lead.Email = input.Email
	lead.Notes = input.Notes
	lead.Origin = input.Origin
	lead.UpdatedAt = now

	next := state.Clone()
	for i := range next.Leads {
		if next.Leads[i].ID == lead.ID {
			next.Leads[i] = lead
			break
		}
	}

	row := leadRow(lead)
	delete(row, "id")
	intent := domain.NewIntent("update_lead", domain.Effect{
		Kind:   domain.EffectUpdate,
		Entity: domain.EntityLead,
		ID:     lead.ID,
		Row:    row,
	})
	return next, intent, &lead, nil
}

// DeleteLead removes a lead from the board without recording a loss.
func DeleteLead(state domain.BoardState, leadID string) (domain.BoardState, *domain.Intent, error) {
	if state.LeadByID(leadID) == nil {
		return state, nil, &domain.ErrNotFound{Resource: "lead", ID: leadID}
	}

	next := state.Clone()
	next.Leads = removeLead(next.Leads, leadID)

	intent := domain.NewIntent("delete_lead", domain.Effect{
		Kind:   domain.EffectDelete,
		Entity: domain.EntityLead,
		ID:     leadID,
	})
	return next, intent, nil
}

func leadRow(l domain.Lead) map[string]any {
	return map[string]any{
		"id":               l.ID,
		"name":             l.Name,
		"company":          l.Company,
		"ticket":           l.Ticket,
		"stage_id":         l.StageID,
		"owner":            l.Owner,
		"service":          l.Service,
		"phone":            l.Phone,
		"email":            l.Email,
		"notes":            l.Notes,
		"origin":           l.Origin,
		"first_contact_at": l.FirstContactAt.UTC().Format(time.RFC3339),
		"closed_at":        timeOrNil(l.ClosedAt),
	}
}
