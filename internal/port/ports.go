// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/flyagencia/salesops/internal/domain"
)

// CRMStore is the persistence collaborator for the whole CRM dataset.
// Implemented by the Supabase adapter (or any other persistence layer).
//
// Apply executes an intent's effects strictly in order and stops at the
// first failure; it never reorders or coalesces them.
type CRMStore interface {
	ListStages(ctx context.Context) ([]domain.PipelineStage, error)
	ListLeads(ctx context.Context) ([]domain.Lead, error)
	ListAccounts(ctx context.Context) ([]domain.ActiveAccount, error)
	ListLossesSince(ctx context.Context, since time.Time) ([]domain.LossRecord, error)
	GetGoalConfig(ctx context.Context) (*domain.GoalConfig, error)
	SaveGoalConfig(ctx context.Context, cfg *domain.GoalConfig) error
	Apply(ctx context.Context, intent *domain.Intent) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// BoardEvent is pushed to connected dashboards after a successful
// board mutation.
type BoardEvent struct {
	Action string `json:"action"`
	Board  any    `json:"board,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// BoardNotifier broadcasts board events to live subscribers.
type BoardNotifier interface {
	Broadcast(event BoardEvent)
}
