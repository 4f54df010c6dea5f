package pipeline_test

import (
	"errors"
	"testing"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/pipeline"
)

func TestUpdateRiskSignals_StatusFollowsCount(t *testing.T) {
	accounts := []domain.ActiveAccount{
		{ID: "a1", Status: domain.StatusHealthy, RiskSignals: []string{}},
	}

	cases := []struct {
		signals []string
		want    domain.AccountStatus
	}{
		{[]string{}, domain.StatusHealthy},
		{[]string{"atraso de pagamento"}, domain.StatusAttention},
		{[]string{"atraso", "sem resposta"}, domain.StatusAttention},
		{[]string{"atraso", "sem resposta", "reclamou do resultado"}, domain.StatusChurnRisk},
	}

	for _, tc := range cases {
		next, intent, account, err := pipeline.UpdateRiskSignals(accounts, "a1", tc.signals)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if account.Status != tc.want {
			t.Errorf("%d signals: expected %s, got %s", len(tc.signals), tc.want, account.Status)
		}
		if next[0].Status != tc.want || len(next[0].RiskSignals) != len(tc.signals) {
			t.Errorf("state not updated together: %+v", next[0])
		}
		// Signals and derived status always share one effect.
		row := intent.Effects[0].Row
		if _, ok := row["risk_signals"]; !ok {
			t.Error("effect missing risk_signals")
		}
		if row["status"] != string(tc.want) {
			t.Errorf("effect status %v, want %s", row["status"], tc.want)
		}
	}
}

func TestUpdateRiskSignals_DuplicatesCountOnce(t *testing.T) {
	accounts := []domain.ActiveAccount{
		{ID: "a1", Status: domain.StatusHealthy, RiskSignals: []string{}},
	}

	_, intent, account, err := pipeline.UpdateRiskSignals(accounts, "a1", []string{"atraso", "atraso", "atraso"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Status != domain.StatusAttention {
		t.Errorf("one distinct signal: expected %s, got %s", domain.StatusAttention, account.Status)
	}
	if len(account.RiskSignals) != 1 || account.RiskSignals[0] != "atraso" {
		t.Errorf("expected deduped signals, got %v", account.RiskSignals)
	}
	if row := intent.Effects[0].Row; row["status"] != string(domain.StatusAttention) {
		t.Errorf("effect status %v, want %s", row["status"], domain.StatusAttention)
	}
}

func TestUpdateRiskSignals_TrimsAndDropsEmpties(t *testing.T) {
	accounts := []domain.ActiveAccount{
		{ID: "a1", Status: domain.StatusHealthy, RiskSignals: []string{}},
	}

	_, _, account, err := pipeline.UpdateRiskSignals(accounts, "a1", []string{" atraso ", "", "  ", "sem resposta"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(account.RiskSignals) != 2 {
		t.Fatalf("expected 2 signals, got %v", account.RiskSignals)
	}
	if account.RiskSignals[0] != "atraso" || account.RiskSignals[1] != "sem resposta" {
		t.Errorf("expected trimmed signals in order, got %v", account.RiskSignals)
	}
	if account.Status != domain.StatusAttention {
		t.Errorf("expected %s, got %s", domain.StatusAttention, account.Status)
	}
}

func TestUpdateRiskSignals_NilBecomesEmpty(t *testing.T) {
	accounts := []domain.ActiveAccount{{ID: "a1", RiskSignals: []string{"x"}, Status: domain.StatusAttention}}

	_, _, account, err := pipeline.UpdateRiskSignals(accounts, "a1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.RiskSignals == nil || account.Status != domain.StatusHealthy {
		t.Errorf("expected empty signals and healthy status, got %+v", account)
	}
}

func TestUpdateRiskSignals_UnknownAccount(t *testing.T) {
	_, _, _, err := pipeline.UpdateRiskSignals(nil, "ghost", []string{"x"})
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
