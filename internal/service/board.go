// Package service provides the business logic layer (use cases).
// BoardService owns the pipeline board: reading the snapshot and
// committing mutations optimistically against the store.
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
	"golang.org/x/sync/errgroup"
)

var boardTracer = otel.Tracer("service/board")

const boardCacheKey = "board"

// BoardService orchestrates board reads and mutations.
//
// Mutations are optimistic: the new snapshot is cached before the store
// confirms the write, and put back to the previous snapshot if the
// write fails. Callers therefore see their change immediately and a
// revert only on real persistence failure.
type BoardService struct {
	store    port.CRMStore
	cache    port.Cache[domain.BoardState]
	notifier port.BoardNotifier
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewBoardService creates the board service with all dependencies injected.
func NewBoardService(
	store port.CRMStore,
	cache port.Cache[domain.BoardState],
	notifier port.BoardNotifier,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *BoardService {
	return &BoardService{
		store:    store,
		cache:    cache,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// Snapshot returns the current board, from cache when fresh.
// Stages and leads are fetched concurrently on a miss.
func (s *BoardService) Snapshot(ctx context.Context) (domain.BoardState, error) {
	ctx, span := boardTracer.Start(ctx, "BoardService.Snapshot")
	defer span.End()

	if cached, ok := s.cache.Get(boardCacheKey); ok {
		s.metrics.IncrCacheHit("board")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("board")

	var state domain.BoardState
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stages, err := s.store.ListStages(gCtx)
		if err != nil {
			s.metrics.IncrExternalError("stages")
			return err
		}
		state.Stages = stages
		return nil
	})

	g.Go(func() error {
		leads, err := s.store.ListLeads(gCtx)
		if err != nil {
			s.metrics.IncrExternalError("leads")
			return err
		}
		state.Leads = leads
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.BoardState{}, err
	}

	s.cache.Set(boardCacheKey, state)
	return state, nil
}

// commit applies an intent optimistically: cache the next snapshot,
// persist, and restore the previous snapshot if persistence fails.
// A nil intent is a no-op mutation and commits nothing.
func (s *BoardService) commit(ctx context.Context, prev, next domain.BoardState, intent *domain.Intent) error {
	if intent == nil {
		return nil
	}

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration(intent.Label, time.Since(start))
	}()

	s.cache.Set(boardCacheKey, next)

	if err := s.store.Apply(ctx, intent); err != nil {
		s.cache.Set(boardCacheKey, prev)
		s.metrics.IncrIntent("reverted")
		s.logger.Warn("board mutation reverted",
			zap.String("label", intent.Label),
			zap.Error(err),
		)
		return err
	}

	s.metrics.IncrIntent("committed")
	s.notifier.Broadcast(port.BoardEvent{Action: intent.Label, Board: next})
	return nil
}

// MoveLead moves a lead to another stage.
func (s *BoardService) MoveLead(ctx context.Context, leadID, stageID string) (domain.BoardState, error) {
	ctx, span := boardTracer.Start(ctx, "BoardService.MoveLead")
	defer span.End()
	span.SetAttributes(
		attribute.String("lead.id", leadID),
		attribute.String("stage.id", stageID),
	)

	prev, err := s.Snapshot(ctx)
	if err != nil {
		return domain.BoardState{}, err
	}

	next, intent, err := pipeline.MoveLead(prev, leadID, stageID, time.Now())
	if err != nil {
		return domain.BoardState{}, err
	}
	if err := s.commit(ctx, prev, next, intent); err != nil {
		return domain.BoardState{}, err
	}
	return next, nil
}

// SaveLead creates or updates a lead from form input.
func (s *BoardService) SaveLead(ctx context.Context, input pipeline.LeadInput) (*domain.Lead, error) {
	ctx, span := boardTracer.Start(ctx, "BoardService.SaveLead")
	defer span.End()

	prev, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	next, intent, lead, err := pipeline.SaveLead(prev, input, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, prev, next, intent); err != nil {
		return nil, err
	}
	return lead, nil
}

// DeleteLead removes a lead without recording a loss.
func (s *BoardService) DeleteLead(ctx context.Context, leadID string) error {
	ctx, span := boardTracer.Start(ctx, "BoardService.DeleteLead")
	defer span.End()

	prev, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}

	next, intent, err := pipeline.DeleteLead(prev, leadID)
	if err != nil {
		return err
	}
	return s.commit(ctx, prev, next, intent)
}

// SaveStage creates or updates a board column.
func (s *BoardService) SaveStage(ctx context.Context, input pipeline.StageInput) (*domain.PipelineStage, error) {
	ctx, span := boardTracer.Start(ctx, "BoardService.SaveStage")
	defer span.End()

	prev, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	next, intent, stage, err := pipeline.SaveStage(prev, input, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, prev, next, intent); err != nil {
		return nil, err
	}
	return stage, nil
}

// DeleteStage removes an empty column. Columns that still hold leads
// are protected and the caller gets a referential-integrity error.
func (s *BoardService) DeleteStage(ctx context.Context, stageID string) error {
	ctx, span := boardTracer.Start(ctx, "BoardService.DeleteStage")
	defer span.End()

	prev, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}

	next, intent, err := pipeline.DeleteStage(prev, stageID)
	if err != nil {
		return err
	}
	return s.commit(ctx, prev, next, intent)
}

// RecordLoss archives a lead into loss history and removes it from the
// board.
func (s *BoardService) RecordLoss(ctx context.Context, leadID, reason, detail string) (*domain.LossRecord, error) {
	ctx, span := boardTracer.Start(ctx, "BoardService.RecordLoss")
	defer span.End()
	span.SetAttributes(attribute.String("lead.id", leadID))

	prev, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	next, intent, record, err := pipeline.RecordLoss(prev, leadID, reason, detail, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, prev, next, intent); err != nil {
		return nil, err
	}
	return record, nil
}

// ConvertLead turns a won lead into an active account.
func (s *BoardService) ConvertLead(ctx context.Context, leadID string, input pipeline.ConvertInput) (*domain.ActiveAccount, error) {
	ctx, span := boardTracer.Start(ctx, "BoardService.ConvertLead")
	defer span.End()
	span.SetAttributes(attribute.String("lead.id", leadID))

	prev, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	next, intent, account, err := pipeline.ConvertLead(prev, leadID, input, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, prev, next, intent); err != nil {
		return nil, err
	}
	return account, nil
}
