package pipeline

import (
	"strings"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/insights"
)

// normalizeSignals trims each tag and drops empties and duplicates,
// keeping first-seen order. Signals are a set: the same tag twice is
// still one signal.
func normalizeSignals(signals []string) []string {
	out := make([]string, 0, len(signals))
	seen := make(map[string]bool, len(signals))
	for _, s := range signals {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// UpdateRiskSignals replaces an account's risk signals and recomputes
// its status from the distinct count. The two always travel in one
// effect so no reader ever observes signals and status out of sync.
func UpdateRiskSignals(accounts []domain.ActiveAccount, accountID string, signals []string) ([]domain.ActiveAccount, *domain.Intent, *domain.ActiveAccount, error) {
	existing := domain.AccountByID(accounts, accountID)
	if existing == nil {
		return accounts, nil, nil, &domain.ErrNotFound{Resource: "account", ID: accountID}
	}
	signals = normalizeSignals(signals)

	account := *existing
	account.RiskSignals = signals
	account.Status = insights.StatusForSignals(len(signals))

	next := make([]domain.ActiveAccount, len(accounts))
	copy(next, accounts)
	for i := range next {
		if next[i].ID == accountID {
			next[i] = account
			break
		}
	}

	intent := domain.NewIntent("update_risk_signals", domain.Effect{
		Kind:   domain.EffectUpdate,
		Entity: domain.EntityAccount,
		ID:     accountID,
		Row: map[string]any{
			"risk_signals": signals,
			"status":       string(account.Status),
		},
	})
	return next, intent, &account, nil
}
