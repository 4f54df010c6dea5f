package insights_test

import (
	"testing"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/insights"
)

func TestStatusForSignals(t *testing.T) {
	cases := []struct {
		signals int
		want    domain.AccountStatus
	}{
		{0, domain.StatusHealthy},
		{1, domain.StatusAttention},
		{2, domain.StatusAttention},
		{3, domain.StatusChurnRisk},
		{7, domain.StatusChurnRisk},
	}

	for _, tc := range cases {
		if got := insights.StatusForSignals(tc.signals); got != tc.want {
			t.Errorf("%d signals: expected %s, got %s", tc.signals, tc.want, got)
		}
	}
}
