package pipeline

import (
	"fmt"
	"time"

	"github.com/flyagencia/salesops/internal/domain"

	"github.com/google/uuid"
)

// StageInput is the create/update form for a pipeline stage.
type StageInput struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title" validate:"required,max=100"`
	Color       string `json:"color" validate:"max=30"`
	Position    int    `json:"position" validate:"gte=0"`
	Probability *int   `json:"probability" validate:"omitempty,gte=0,lte=100"`
}

// SaveStage validates and creates or updates a stage. Display order is
// unique across the board: a position another stage already holds is
// rejected.
func SaveStage(state domain.BoardState, input StageInput, now time.Time) (domain.BoardState, *domain.Intent, *domain.PipelineStage, error) {
	if verr := forms.Struct(input); verr != nil && verr.HasErrors() {
		return state, nil, nil, verr
	}

	for _, s := range state.Stages {
		if s.Position == input.Position && s.ID != input.ID {
			return state, nil, nil, &domain.ErrConflict{
				Message: fmt.Sprintf("posição %d já é usada pela etapa %q", input.Position, s.Title),
			}
		}
	}

	input.Title = sanitizeText(input.Title)

	if input.ID == "" {
		stage := domain.PipelineStage{
			ID:          uuid.New().String(),
			Title:       input.Title,
			Color:       input.Color,
			Position:    input.Position,
			Probability: input.Probability,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		next := state.Clone()
		next.Stages = append(next.Stages, stage)

		intent := domain.NewIntent("create_stage", domain.Effect{
			Kind:   domain.EffectInsert,
			Entity: domain.EntityStage,
			Row:    stageRow(stage),
		})
		return next, intent, &stage, nil
	}

	existing := state.StageByID(input.ID)
	if existing == nil {
		return state, nil, nil, &domain.ErrNotFound{Resource: "stage", ID: input.ID}
	}

	stage := *existing
	stage.Title = input.Title
	stage.Color = input.Color
	stage.Position = input.Position
	stage.Probability = input.Probability
	stage.UpdatedAt = now

	next := state.Clone()
	for i := range next.Stages {
		if next.Stages[i].ID == stage.ID {
			next.Stages[i] = stage
			break
		}
	}

	row := stageRow(stage)
	delete(row, "id")
	intent := domain.NewIntent("update_stage", domain.Effect{
		Kind:   domain.EffectUpdate,
		Entity: domain.EntityStage,
		ID:     stage.ID,
		Row:    row,
	})
	return next, intent, &stage, nil
}

// DeleteStage removes an empty stage. A stage that still holds leads is
// protected: the caller gets a referential-integrity error telling the
// user to move the leads first, and nothing changes.
func DeleteStage(state domain.BoardState, stageID string) (domain.BoardState, *domain.Intent, error) {
	if state.StageByID(stageID) == nil {
		return state, nil, &domain.ErrNotFound{Resource: "stage", ID: stageID}
	}
	if n := state.LeadsInStage(stageID); n > 0 {
		return state, nil, &domain.ErrReferentialIntegrity{StageID: stageID, LeadCount: n}
	}

	next := state.Clone()
	stages := next.Stages[:0]
	for _, s := range next.Stages {
		if s.ID != stageID {
			stages = append(stages, s)
		}
	}
	next.Stages = stages

	intent := domain.NewIntent("delete_stage", domain.Effect{
		Kind:   domain.EffectDelete,
		Entity: domain.EntityStage,
		ID:     stageID,
	})
	return next, intent, nil
}

func stageRow(s domain.PipelineStage) map[string]any {
	var prob any
	if s.Probability != nil {
		prob = *s.Probability
	}
	return map[string]any{
		"id":          s.ID,
		"title":       s.Title,
		"color":       s.Color,
		"position":    s.Position,
		"probability": prob,
	}
}
