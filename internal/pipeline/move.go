// Package pipeline implements the board's mutation operations as pure
// functions: each takes the current state and returns the next state
// plus the persistence intent that commits it. Callers apply the state
// optimistically and revert it if the intent fails downstream.
package pipeline

import (
	"time"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/insights"
)

// MoveLead moves a lead to another stage. Moving a lead onto the stage
// it already occupies is a no-op: the same state and a nil intent are
// returned. Entering a closed/won stage stamps the closing date;
// leaving one clears it.
func MoveLead(state domain.BoardState, leadID, stageID string, now time.Time) (domain.BoardState, *domain.Intent, error) {
	lead := state.LeadByID(leadID)
	if lead == nil {
		return state, nil, &domain.ErrNotFound{Resource: "lead", ID: leadID}
	}
	stage := state.StageByID(stageID)
	if stage == nil {
		return state, nil, &domain.ErrNotFound{Resource: "stage", ID: stageID}
	}
	if lead.StageID == stageID {
		return state, nil, nil
	}

	moved := *lead
	moved.StageID = stageID
	if insights.IsClosedWon(*stage) {
		if moved.ClosedAt == nil {
			t := now
			moved.ClosedAt = &t
		}
	} else {
		moved.ClosedAt = nil
	}

	next := state.Clone()
	next.Leads = removeLead(next.Leads, leadID)
	next.Leads = append(next.Leads, moved)

	row := map[string]any{
		"stage_id":  stageID,
		"closed_at": timeOrNil(moved.ClosedAt),
	}
	intent := domain.NewIntent("move_lead", domain.Effect{
		Kind:   domain.EffectUpdate,
		Entity: domain.EntityLead,
		ID:     leadID,
		Row:    row,
	})
	return next, intent, nil
}

func removeLead(leads []domain.Lead, id string) []domain.Lead {
	out := leads[:0]
	for _, l := range leads {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
