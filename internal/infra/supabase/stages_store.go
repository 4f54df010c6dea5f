package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/infra/resilience"

	"github.com/sony/gobreaker"
)

// ============================================================
// Pipeline stages — crm_colunas via PostgREST
// ============================================================

// stageRow maps the crm_colunas columns to our domain.
type stageRow struct {
	ID            string `json:"id"`
	Titulo        string `json:"titulo"`
	Cor           string `json:"cor"`
	Ordem         int    `json:"ordem"`
	Probabilidade *int   `json:"probabilidade"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// ListStages fetches all board columns ordered by position.
func (c *Client) ListStages(ctx context.Context) ([]domain.PipelineStage, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListStages")
	defer span.End()

	var stages []domain.PipelineStage

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.doRequest(ctx, http.MethodGet, "crm_colunas?select=*&order=ordem.asc")
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				stages = []domain.PipelineStage{}
				return nil
			}

			var rows []stageRow
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode stages: %w", err)
			}

			stages = make([]domain.PipelineStage, 0, len(rows))
			for _, r := range rows {
				stages = append(stages, domain.PipelineStage{
					ID:          r.ID,
					Title:       r.Titulo,
					Color:       r.Cor,
					Position:    r.Ordem,
					Probability: r.Probabilidade,
					CreatedAt:   parseTime(r.CreatedAt),
					UpdatedAt:   parseTime(r.UpdatedAt),
				})
			}
			return nil
		})
	})

	if err != nil {
		return nil, wrapStoreErr("supabase/stages", err)
	}

	return stages, nil
}

// wrapStoreErr classifies a store failure so handlers can pick the
// right status code. Circuit-open and deadline expiry keep their own
// identity.
func wrapStoreErr(service string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.ErrCircuitOpen{Service: service}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.ErrTimeout{Operation: service}
	}
	var notFound *domain.ErrNotFound
	if errors.As(err, &notFound) {
		return err
	}
	return &domain.ErrExternalService{Service: service, Err: err}
}
