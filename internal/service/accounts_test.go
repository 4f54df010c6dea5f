package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/infra/observability"
	"github.com/flyagencia/salesops/internal/service"

	"go.uber.org/zap"
)

func newAccountService(store *mockStore, notifier *mockNotifier) *service.AccountService {
	return service.NewAccountService(store, notifier, observability.NewMetrics(), zap.NewNop())
}

func TestUpdateRiskSignals_DerivesStatus(t *testing.T) {
	store := testStore()
	store.accounts = []domain.ActiveAccount{
		{ID: "a1", Name: "Acme", Status: domain.StatusHealthy, RiskSignals: []string{}},
	}

	svc := newAccountService(store, &mockNotifier{})

	account, err := svc.UpdateRiskSignals(context.Background(), "a1", []string{"sem resposta", "atraso", "reclamação"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if account.Status != domain.StatusChurnRisk {
		t.Errorf("expected status '%s', got '%s'", domain.StatusChurnRisk, account.Status)
	}
	if len(store.applied) != 1 {
		t.Fatalf("expected 1 applied intent, got %d", len(store.applied))
	}
}

func TestUpdateRiskSignals_UnknownAccount(t *testing.T) {
	store := testStore()
	svc := newAccountService(store, &mockNotifier{})

	_, err := svc.UpdateRiskSignals(context.Background(), "missing", nil)
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected *domain.ErrNotFound, got %v", err)
	}
}

func TestRecordChurn_ArchivesAccount(t *testing.T) {
	store := testStore()
	store.accounts = []domain.ActiveAccount{
		{ID: "a1", Name: "Acme", Company: "Acme Ltda", MonthlyValue: 2500, Status: domain.StatusChurnRisk},
	}
	notifier := &mockNotifier{}

	svc := newAccountService(store, notifier)

	record, err := svc.RecordChurn(context.Background(), "a1", "corte de orçamento", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if record.StageAtLoss != domain.StageChurn {
		t.Errorf("expected stage '%s', got '%s'", domain.StageChurn, record.StageAtLoss)
	}
	if record.Value != 2500 {
		t.Errorf("expected value 2500, got %f", record.Value)
	}

	effects := store.applied[0].Effects
	if effects[0].Kind != domain.EffectInsert || effects[1].Kind != domain.EffectDelete {
		t.Error("expected loss insert before account delete")
	}
	if len(notifier.events) != 1 {
		t.Errorf("expected 1 broadcast, got %d", len(notifier.events))
	}
}
