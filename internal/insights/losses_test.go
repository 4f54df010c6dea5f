package insights_test

import (
	"testing"
	"time"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/insights"
)

func TestLossBreakdown_GroupsAndSorts(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	records := []domain.LossRecord{
		{Reason: "Preço alto", Value: 3000, LostAt: now.AddDate(0, 0, -5)},
		{Reason: "Preço alto", Value: 2000, LostAt: now.AddDate(0, 0, -10)},
		{Reason: "Timing ruim", Value: 1500, LostAt: now.AddDate(0, 0, -3)},
	}

	stats := insights.LossBreakdown(records, 90, now)
	if len(stats) != 2 {
		t.Fatalf("expected 2 reasons, got %d", len(stats))
	}
	if stats[0].Reason != "Preço alto" || stats[0].Count != 2 {
		t.Errorf("expected 'Preço alto' x2 first, got %s x%d", stats[0].Reason, stats[0].Count)
	}
	if stats[0].TotalValue != 5000 {
		t.Errorf("expected total value 5000, got %f", stats[0].TotalValue)
	}
	// 2/3 = 66.66 → 67, 1/3 = 33.33 → 33 (round half up)
	if stats[0].Percent != 67 {
		t.Errorf("expected 67%%, got %d%%", stats[0].Percent)
	}
	if stats[1].Percent != 33 {
		t.Errorf("expected 33%%, got %d%%", stats[1].Percent)
	}
}

func TestLossBreakdown_WindowExcludesOldRecords(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	records := []domain.LossRecord{
		{Reason: "Preço alto", Value: 3000, LostAt: now.AddDate(0, 0, -5)},
		{Reason: "Concorrência", Value: 9000, LostAt: now.AddDate(0, 0, -120)},
	}

	stats := insights.LossBreakdown(records, 90, now)
	if len(stats) != 1 {
		t.Fatalf("expected 1 reason inside the window, got %d", len(stats))
	}
	if stats[0].Reason != "Preço alto" {
		t.Errorf("unexpected reason %s", stats[0].Reason)
	}
	if stats[0].Percent != 100 {
		t.Errorf("expected 100%%, got %d%%", stats[0].Percent)
	}
}

func TestLossBreakdown_RoundHalfUp(t *testing.T) {
	now := time.Now()
	// 1 of 8 = 12.5% → 13 with round-half-up
	records := []domain.LossRecord{
		{Reason: "A", LostAt: now},
	}
	for i := 0; i < 7; i++ {
		records = append(records, domain.LossRecord{Reason: "B", LostAt: now})
	}

	stats := insights.LossBreakdown(records, 30, now)
	if stats[1].Percent != 13 {
		t.Errorf("expected 12.5%% to round to 13, got %d", stats[1].Percent)
	}
}

func TestLossBreakdown_EmptyWindow(t *testing.T) {
	stats := insights.LossBreakdown(nil, 90, time.Now())
	if stats == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(stats) != 0 {
		t.Errorf("expected no stats, got %d", len(stats))
	}
}

func TestLossBreakdown_ExactReasonMatch(t *testing.T) {
	// Reasons differing only by case or detail text are distinct buckets.
	now := time.Now()
	records := []domain.LossRecord{
		{Reason: "Preço alto", LostAt: now},
		{Reason: "preço alto", LostAt: now},
	}

	stats := insights.LossBreakdown(records, 30, now)
	if len(stats) != 2 {
		t.Errorf("expected exact-match grouping to keep 2 buckets, got %d", len(stats))
	}
}
