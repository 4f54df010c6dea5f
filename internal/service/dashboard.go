package service

import (
	"context"
	"time"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/infra/observability"
	"github.com/flyagencia/salesops/internal/insights"
	"github.com/flyagencia/salesops/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var dashTracer = otel.Tracer("service/dashboard")

// DashboardService computes the analytics views: business health,
// funnel overview, loss breakdown and team performance.
type DashboardService struct {
	store          port.CRMStore
	board          *BoardService
	metrics        *observability.Metrics
	logger         *zap.Logger
	probability    insights.ProbabilityConfig
	lossWindowDays int
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(
	store port.CRMStore,
	board *BoardService,
	metrics *observability.Metrics,
	logger *zap.Logger,
	lossWindowDays int,
) *DashboardService {
	return &DashboardService{
		store:          store,
		board:          board,
		metrics:        metrics,
		logger:         logger,
		probability:    insights.DefaultProbabilityConfig(),
		lossWindowDays: lossWindowDays,
	}
}

// BusinessHealth assembles the projection card. The three inputs are
// fetched concurrently; the projection itself is pure arithmetic and
// may come out negative when churn dominates.
func (s *DashboardService) BusinessHealth(ctx context.Context) (*domain.BusinessHealth, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.BusinessHealth")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("business_health", time.Since(start))
	}()

	var (
		board    domain.BoardState
		accounts []domain.ActiveAccount
		goals    *domain.GoalConfig
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b, err := s.board.Snapshot(gCtx)
		if err != nil {
			return err
		}
		board = b
		return nil
	})

	g.Go(func() error {
		a, err := s.store.ListAccounts(gCtx)
		if err != nil {
			s.metrics.IncrExternalError("accounts")
			return err
		}
		accounts = a
		return nil
	})

	g.Go(func() error {
		cfg, err := s.store.GetGoalConfig(gCtx)
		if err != nil {
			s.metrics.IncrExternalError("goals")
			return err
		}
		goals = cfg
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var mrr float64
	atRisk := 0
	for _, a := range accounts {
		mrr += a.MonthlyValue
		if a.Status != domain.StatusHealthy {
			atRisk++
		}
	}

	expected := insights.WeightedPipelineValue(board, s.probability)

	return &domain.BusinessHealth{
		MRR:                mrr,
		ExpectedNewRevenue: expected,
		CurrentChurn:       goals.CurrentChurn,
		Projection:         insights.MonthlyProjection(mrr, expected, goals.CurrentChurn),
		MonthlyGoal:        goals.MonthlyGoal,
		ActiveAccounts:     len(accounts),
		AtRiskAccounts:     atRisk,
	}, nil
}

// FunnelOverview computes the funnel analytics page from the current
// board snapshot.
func (s *DashboardService) FunnelOverview(ctx context.Context) (*domain.FunnelOverview, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.FunnelOverview")
	defer span.End()

	board, err := s.board.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.FunnelOverview{
		Totals:       insights.PipelineTotals(board, s.probability),
		Origins:      insights.OriginStats(board),
		Stages:       insights.StageConversion(board),
		AvgCycleDays: insights.AverageCycleDays(board),
		AvgWonTicket: insights.AverageWonTicket(board),
	}, nil
}

// LossBreakdown aggregates loss history inside the configured window,
// grouped by reason and sorted by frequency.
func (s *DashboardService) LossBreakdown(ctx context.Context) ([]domain.LossReasonStat, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.LossBreakdown")
	defer span.End()

	now := time.Now()
	records, err := s.store.ListLossesSince(ctx, now.AddDate(0, 0, -s.lossWindowDays))
	if err != nil {
		s.metrics.IncrExternalError("losses")
		return nil, err
	}

	return insights.LossBreakdown(records, s.lossWindowDays, now), nil
}

// TeamPerformance ranks salespeople by won value.
func (s *DashboardService) TeamPerformance(ctx context.Context) ([]domain.OwnerStat, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.TeamPerformance")
	defer span.End()

	board, err := s.board.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return insights.OwnerPerformance(board), nil
}

// GetGoalConfig returns the commercial configuration.
func (s *DashboardService) GetGoalConfig(ctx context.Context) (*domain.GoalConfig, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.GetGoalConfig")
	defer span.End()

	return s.store.GetGoalConfig(ctx)
}

// SaveGoalConfig validates and persists the commercial configuration.
func (s *DashboardService) SaveGoalConfig(ctx context.Context, cfg *domain.GoalConfig) (*domain.GoalConfig, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.SaveGoalConfig")
	defer span.End()

	verr := &domain.ErrValidation{}
	if cfg.MonthlyGoal < 0 {
		verr.Add("monthlyGoal", "não pode ser negativo")
	}
	if cfg.CurrentChurn < 0 {
		verr.Add("currentChurn", "não pode ser negativo")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	// Preserve the singleton row id so saves update instead of insert.
	existing, err := s.store.GetGoalConfig(ctx)
	if err != nil {
		return nil, err
	}
	cfg.ID = existing.ID
	cfg.UpdatedAt = time.Now()

	if err := s.store.SaveGoalConfig(ctx, cfg); err != nil {
		return nil, err
	}

	s.logger.Info("goal config saved",
		zap.Float64("monthly_goal", cfg.MonthlyGoal),
		zap.Float64("current_churn", cfg.CurrentChurn),
	)
	return cfg, nil
}
