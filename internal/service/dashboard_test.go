package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/infra/observability"
	"github.com/flyagencia/salesops/internal/service"

	"go.uber.org/zap"
)

func newDashboardService(store *mockStore) *service.DashboardService {
	board, _ := newBoardService(store, &mockNotifier{})
	return service.NewDashboardService(store, board, observability.NewMetrics(), zap.NewNop(), 90)
}

func TestBusinessHealth_Projection(t *testing.T) {
	store := testStore()
	store.accounts = []domain.ActiveAccount{
		{ID: "a1", MonthlyValue: 10000, Status: domain.StatusHealthy},
		{ID: "a2", MonthlyValue: 8500, Status: domain.StatusChurnRisk},
	}
	store.goals = &domain.GoalConfig{MonthlyGoal: 50000, CurrentChurn: 1200}

	svc := newDashboardService(store)

	health, err := svc.BusinessHealth(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if health.MRR != 18500 {
		t.Errorf("expected MRR 18500, got %f", health.MRR)
	}
	// l1: 5000 @ "Lead" (20%) = 1000; l2: 3000 @ explicit 40% = 1200.
	if health.ExpectedNewRevenue != 2200 {
		t.Errorf("expected new revenue 2200, got %f", health.ExpectedNewRevenue)
	}
	if health.Projection != 18500+2200-1200 {
		t.Errorf("expected projection 19500, got %f", health.Projection)
	}
	if health.ActiveAccounts != 2 || health.AtRiskAccounts != 1 {
		t.Errorf("expected 2 accounts with 1 at risk, got %d/%d", health.ActiveAccounts, health.AtRiskAccounts)
	}
}

func TestBusinessHealth_NegativeProjectionNotClamped(t *testing.T) {
	store := testStore()
	store.leads = nil
	store.accounts = []domain.ActiveAccount{
		{ID: "a1", MonthlyValue: 1000, Status: domain.StatusHealthy},
	}
	store.goals = &domain.GoalConfig{CurrentChurn: 5000}

	svc := newDashboardService(store)

	health, err := svc.BusinessHealth(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if health.Projection != -4000 {
		t.Errorf("expected projection -4000, got %f", health.Projection)
	}
}

func TestFunnelOverview(t *testing.T) {
	store := testStore()
	svc := newDashboardService(store)

	overview, err := svc.FunnelOverview(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if overview.Totals.TotalLeads != 2 {
		t.Errorf("expected 2 leads, got %d", overview.Totals.TotalLeads)
	}
	if len(overview.Stages) != 3 {
		t.Errorf("expected 3 funnel steps, got %d", len(overview.Stages))
	}
}

func TestLossBreakdown_EmptyHistoryIsNotNil(t *testing.T) {
	store := testStore()
	svc := newDashboardService(store)

	stats, err := svc.LossBreakdown(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(stats) != 0 {
		t.Errorf("expected no stats, got %d", len(stats))
	}
}

func TestLossBreakdown_GroupsByReason(t *testing.T) {
	now := time.Now()
	store := testStore()
	store.losses = []domain.LossRecord{
		{ID: "p1", Reason: "preço", Value: 5000, LostAt: now.AddDate(0, 0, -10)},
		{ID: "p2", Reason: "preço", Value: 3000, LostAt: now.AddDate(0, 0, -20)},
		{ID: "p3", Reason: "timing", Value: 1000, LostAt: now.AddDate(0, 0, -5)},
	}

	svc := newDashboardService(store)

	stats, err := svc.LossBreakdown(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 reasons, got %d", len(stats))
	}
	if stats[0].Reason != "preço" || stats[0].Count != 2 {
		t.Errorf("expected 'preço' first with count 2, got %+v", stats[0])
	}
}

func TestSaveGoalConfig_RejectsNegatives(t *testing.T) {
	store := testStore()
	svc := newDashboardService(store)

	_, err := svc.SaveGoalConfig(context.Background(), &domain.GoalConfig{MonthlyGoal: -1})
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected *domain.ErrValidation, got %T", err)
	}
}

func TestSaveGoalConfig_PreservesRowID(t *testing.T) {
	store := testStore()
	store.goals = &domain.GoalConfig{ID: "cfg-1", MonthlyGoal: 30000}

	svc := newDashboardService(store)

	saved, err := svc.SaveGoalConfig(context.Background(), &domain.GoalConfig{MonthlyGoal: 40000})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved.ID != "cfg-1" {
		t.Errorf("expected singleton id to be preserved, got '%s'", saved.ID)
	}
	if store.goals.MonthlyGoal != 40000 {
		t.Errorf("expected goal 40000 persisted, got %f", store.goals.MonthlyGoal)
	}
}
