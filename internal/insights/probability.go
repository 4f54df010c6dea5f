// Package insights holds the pure computation core of the dashboard:
// stage probabilities, weighted pipeline value, account health, revenue
// projection and loss analysis. Nothing here touches I/O; configuration
// and clock values are passed in explicitly so every function is
// deterministic and trivially testable.
package insights

import (
	"strings"

	"github.com/flyagencia/salesops/internal/domain"
)

// ProbabilityRule maps stage-title keywords to a closing probability.
type ProbabilityRule struct {
	Keywords    []string
	Probability int
}

// ProbabilityConfig drives the title-based fallback used when a stage
// has no explicit probability set.
type ProbabilityConfig struct {
	Rules   []ProbabilityRule
	Default int
}

// DefaultProbabilityConfig mirrors the stage names the product ships
// with, in both Portuguese and English. Rules are checked in order, so
// the closed/won rule wins over a title that also contains "lead".
func DefaultProbabilityConfig() ProbabilityConfig {
	return ProbabilityConfig{
		Rules: []ProbabilityRule{
			{Keywords: []string{"fechado", "ganho", "closed", "won"}, Probability: 100},
			{Keywords: []string{"aguardando", "awaiting"}, Probability: 75},
			{Keywords: []string{"qualificad", "qualified"}, Probability: 40},
			{Keywords: []string{"lead"}, Probability: 20},
		},
		Default: 20,
	}
}

// StageProbability returns the closing probability for a stage.
// An explicit per-stage value always wins; otherwise the title is
// matched against the fallback rules.
func StageProbability(stage domain.PipelineStage, cfg ProbabilityConfig) int {
	if stage.Probability != nil {
		return *stage.Probability
	}
	title := strings.ToLower(stage.Title)
	for _, rule := range cfg.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(title, kw) {
				return rule.Probability
			}
		}
	}
	return cfg.Default
}

// IsClosedWon reports whether a stage represents a won deal, by title.
func IsClosedWon(stage domain.PipelineStage) bool {
	title := strings.ToLower(stage.Title)
	for _, kw := range []string{"fechado", "ganho", "closed", "won"} {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}
