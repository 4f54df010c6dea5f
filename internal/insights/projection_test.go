package insights_test

import (
	"testing"

	"github.com/flyagencia/salesops/internal/insights"
)

func TestMonthlyProjection(t *testing.T) {
	// mrr=18500, expected new=5000, churn=1200 → 22300
	if got := insights.MonthlyProjection(18500, 5000, 1200); got != 22300 {
		t.Errorf("expected 22300, got %f", got)
	}
}

func TestMonthlyProjection_NegativeNotClamped(t *testing.T) {
	if got := insights.MonthlyProjection(1000, 0, 5000); got != -4000 {
		t.Errorf("expected -4000, got %f", got)
	}
}
