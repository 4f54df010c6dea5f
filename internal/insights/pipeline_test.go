package insights_test

import (
	"testing"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/insights"
)

func intPtr(v int) *int { return &v }

func TestStageProbability_ExplicitWins(t *testing.T) {
	cfg := insights.DefaultProbabilityConfig()
	stage := domain.PipelineStage{Title: "Lead", Probability: intPtr(55)}

	if got := insights.StageProbability(stage, cfg); got != 55 {
		t.Errorf("expected explicit probability 55, got %d", got)
	}
}

func TestStageProbability_TitleFallback(t *testing.T) {
	cfg := insights.DefaultProbabilityConfig()

	cases := []struct {
		title string
		want  int
	}{
		{"Lead", 20},
		{"Qualificado", 40},
		{"Qualified", 40},
		{"Aguardando Confirmação", 75},
		{"Awaiting Confirmation", 75},
		{"Fechado / Ganho", 100},
		{"Closed Won", 100},
		{"Proposta Enviada", 20}, // unknown title falls back to default
	}

	for _, tc := range cases {
		stage := domain.PipelineStage{Title: tc.title}
		if got := insights.StageProbability(stage, cfg); got != tc.want {
			t.Errorf("title %q: expected %d, got %d", tc.title, tc.want, got)
		}
	}
}

func TestWeightedPipelineValue_QualifiedScenario(t *testing.T) {
	// A 5000 ticket in a 40% stage contributes exactly 2000.
	cfg := insights.DefaultProbabilityConfig()
	state := domain.BoardState{
		Stages: []domain.PipelineStage{{ID: "s1", Title: "Qualificado", Position: 1}},
		Leads:  []domain.Lead{{ID: "l1", Ticket: 5000, StageID: "s1"}},
	}

	if got := insights.WeightedPipelineValue(state, cfg); got != 2000 {
		t.Errorf("expected weighted value 2000, got %f", got)
	}
}

func TestWeightedPipelineValue_SumsAllLeads(t *testing.T) {
	cfg := insights.DefaultProbabilityConfig()
	state := domain.BoardState{
		Stages: []domain.PipelineStage{
			{ID: "s1", Title: "Lead", Position: 1},
			{ID: "s2", Title: "Fechado", Position: 2},
		},
		Leads: []domain.Lead{
			{ID: "l1", Ticket: 1000, StageID: "s1"},
			{ID: "l2", Ticket: 3000, StageID: "s2"},
			{ID: "l3", Ticket: 500, StageID: "missing-stage"},
		},
	}

	// 1000*0.20 + 3000*1.00 + 500*0.20 (default for unknown stage)
	want := 200.0 + 3000.0 + 100.0
	if got := insights.WeightedPipelineValue(state, cfg); got != want {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestWeightedPipelineValue_EmptyBoard(t *testing.T) {
	cfg := insights.DefaultProbabilityConfig()
	if got := insights.WeightedPipelineValue(domain.BoardState{}, cfg); got != 0 {
		t.Errorf("expected 0 for empty board, got %f", got)
	}
}

func TestPipelineTotals(t *testing.T) {
	cfg := insights.DefaultProbabilityConfig()
	state := domain.BoardState{
		Stages: []domain.PipelineStage{
			{ID: "s1", Title: "Lead", Position: 1},
			{ID: "s2", Title: "Fechado / Ganho", Position: 2},
		},
		Leads: []domain.Lead{
			{ID: "l1", Ticket: 2000, StageID: "s1"},
			{ID: "l2", Ticket: 8000, StageID: "s2"},
		},
	}

	totals := insights.PipelineTotals(state, cfg)
	if totals.TotalLeads != 2 {
		t.Errorf("expected 2 leads, got %d", totals.TotalLeads)
	}
	if totals.ActiveLeads != 1 {
		t.Errorf("expected 1 active lead, got %d", totals.ActiveLeads)
	}
	if totals.TotalValue != 10000 {
		t.Errorf("expected raw total 10000, got %f", totals.TotalValue)
	}
	if totals.OpenValue != 2000 {
		t.Errorf("expected open value 2000, got %f", totals.OpenValue)
	}
	if totals.WonValue != 8000 || totals.WonCount != 1 {
		t.Errorf("expected won 8000/1, got %f/%d", totals.WonValue, totals.WonCount)
	}
	if totals.WeightedValue != 2000*0.20+8000 {
		t.Errorf("unexpected weighted value %f", totals.WeightedValue)
	}
}
