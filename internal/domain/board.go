package domain

import "time"

// PipelineStage is a kanban column of the sales board.
// Probability is the chance (0-100) of closing a lead sitting in this stage;
// when nil, a fallback derived from the stage title is used.
type PipelineStage struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Color       string    `json:"color"`
	Position    int       `json:"position"`
	Probability *int      `json:"probability,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Lead is a prospect moving through the pipeline.
type Lead struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Company        string     `json:"company"`
	Ticket         float64    `json:"ticket"`
	StageID        string     `json:"stage_id"`
	Owner          string     `json:"owner"`
	Service        string     `json:"service"`
	Phone          string     `json:"phone,omitempty"`
	Email          string     `json:"email,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Origin         string     `json:"origin,omitempty"`
	FirstContactAt time.Time  `json:"first_contact_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// BoardState is an immutable snapshot of the whole board.
// Mutation operations take a state and return a new one; the original
// is never modified, which is what makes optimistic rollback cheap.
type BoardState struct {
	Stages []PipelineStage `json:"stages"`
	Leads  []Lead          `json:"leads"`
}

// StageByID returns the stage with the given id, or nil.
func (s BoardState) StageByID(id string) *PipelineStage {
	for i := range s.Stages {
		if s.Stages[i].ID == id {
			return &s.Stages[i]
		}
	}
	return nil
}

// LeadByID returns the lead with the given id, or nil.
func (s BoardState) LeadByID(id string) *Lead {
	for i := range s.Leads {
		if s.Leads[i].ID == id {
			return &s.Leads[i]
		}
	}
	return nil
}

// LeadsInStage returns how many leads currently sit in a stage.
func (s BoardState) LeadsInStage(stageID string) int {
	n := 0
	for i := range s.Leads {
		if s.Leads[i].StageID == stageID {
			n++
		}
	}
	return n
}

// Clone returns a deep-enough copy: slices are copied so the caller can
// mutate the result without touching the original snapshot.
func (s BoardState) Clone() BoardState {
	out := BoardState{
		Stages: make([]PipelineStage, len(s.Stages)),
		Leads:  make([]Lead, len(s.Leads)),
	}
	copy(out.Stages, s.Stages)
	copy(out.Leads, s.Leads)
	return out
}
