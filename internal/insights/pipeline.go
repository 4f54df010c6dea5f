package insights

import "github.com/flyagencia/salesops/internal/domain"

// WeightedPipelineValue is the probability-weighted sum of every lead's
// ticket: sum(ticket * probability / 100). Leads in unknown stages
// contribute with the default probability.
func WeightedPipelineValue(state domain.BoardState, cfg ProbabilityConfig) float64 {
	total := 0.0
	for _, lead := range state.Leads {
		prob := cfg.Default
		if stage := state.StageByID(lead.StageID); stage != nil {
			prob = StageProbability(*stage, cfg)
		}
		total += lead.Ticket * float64(prob) / 100.0
	}
	return total
}

// PipelineTotals aggregates the board: raw ticket total over every
// lead, open vs won values, weighted total and counts. ActiveLeads
// counts only leads outside closed/won stages.
func PipelineTotals(state domain.BoardState, cfg ProbabilityConfig) domain.PipelineTotals {
	totals := domain.PipelineTotals{TotalLeads: len(state.Leads)}
	for _, lead := range state.Leads {
		totals.TotalValue += lead.Ticket
		stage := state.StageByID(lead.StageID)
		if stage != nil && IsClosedWon(*stage) {
			totals.WonValue += lead.Ticket
			totals.WonCount++
			continue
		}
		totals.ActiveLeads++
		totals.OpenValue += lead.Ticket
	}
	totals.WeightedValue = WeightedPipelineValue(state, cfg)
	return totals
}
