package insights

import "github.com/flyagencia/salesops/internal/domain"

// StatusForSignals derives account health from the number of active
// risk signals. Total over every count, including zero.
func StatusForSignals(signalCount int) domain.AccountStatus {
	switch {
	case signalCount >= 3:
		return domain.StatusChurnRisk
	case signalCount >= 1:
		return domain.StatusAttention
	default:
		return domain.StatusHealthy
	}
}
