package service

import (
	"context"
	"time"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/infra/observability"
	"github.com/flyagencia/salesops/internal/pipeline"
	"github.com/flyagencia/salesops/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var accountTracer = otel.Tracer("service/accounts")

// AccountService manages active accounts: listing, risk tracking and
// churn.
type AccountService struct {
	store    port.CRMStore
	notifier port.BoardNotifier
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewAccountService creates the account service.
func NewAccountService(store port.CRMStore, notifier port.BoardNotifier, metrics *observability.Metrics, logger *zap.Logger) *AccountService {
	return &AccountService{store: store, notifier: notifier, metrics: metrics, logger: logger}
}

// ListAccounts returns every client under a recurring contract.
func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.ActiveAccount, error) {
	ctx, span := accountTracer.Start(ctx, "AccountService.ListAccounts")
	defer span.End()

	return s.store.ListAccounts(ctx)
}

// UpdateRiskSignals replaces an account's risk signals. The account
// status is derived from the signal count and persisted with it.
func (s *AccountService) UpdateRiskSignals(ctx context.Context, accountID string, signals []string) (*domain.ActiveAccount, error) {
	ctx, span := accountTracer.Start(ctx, "AccountService.UpdateRiskSignals")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))

	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	_, intent, account, err := pipeline.UpdateRiskSignals(accounts, accountID, signals)
	if err != nil {
		return nil, err
	}

	if err := s.store.Apply(ctx, intent); err != nil {
		s.metrics.IncrIntent("reverted")
		return nil, err
	}
	s.metrics.IncrIntent("committed")

	s.logger.Info("risk signals updated",
		zap.String("account_id", accountID),
		zap.Int("signals", len(signals)),
		zap.String("status", string(account.Status)),
	)
	return account, nil
}

// RecordChurn archives an active account into loss history and removes
// the live record.
func (s *AccountService) RecordChurn(ctx context.Context, accountID, reason, detail string) (*domain.LossRecord, error) {
	ctx, span := accountTracer.Start(ctx, "AccountService.RecordChurn")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))

	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	_, intent, record, err := pipeline.RecordChurn(accounts, accountID, reason, detail, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.store.Apply(ctx, intent); err != nil {
		s.metrics.IncrIntent("reverted")
		return nil, err
	}
	s.metrics.IncrIntent("committed")

	s.notifier.Broadcast(port.BoardEvent{Action: "record_churn", Detail: accountID})
	return record, nil
}
