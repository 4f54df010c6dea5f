package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/infra/resilience"
)

// ============================================================
// Loss history — crm_perdas via PostgREST
// ============================================================

// lossRow maps the crm_perdas columns to our domain.
type lossRow struct {
	ID                  string  `json:"id"`
	LeadID              string  `json:"lead_id"`
	Nome                string  `json:"nome"`
	Empresa             string  `json:"empresa"`
	Valor               float64 `json:"valor"`
	Motivo              string  `json:"motivo"`
	Detalhes            string  `json:"detalhes"`
	EstagioQuandoPerdeu string  `json:"estagio_quando_perdeu"`
	DataPerda           string  `json:"data_perda"`
}

// ListLossesSince fetches loss records from a cutoff onwards,
// newest first.
func (c *Client) ListLossesSince(ctx context.Context, since time.Time) ([]domain.LossRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListLossesSince")
	defer span.End()

	var losses []domain.LossRecord

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("crm_perdas?select=*&data_perda=gte.%s&order=data_perda.desc",
				url.QueryEscape(since.Format(time.RFC3339)))
			body, err := c.doRequest(ctx, http.MethodGet, path)
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				losses = []domain.LossRecord{}
				return nil
			}

			var rows []lossRow
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode losses: %w", err)
			}

			losses = make([]domain.LossRecord, 0, len(rows))
			for _, r := range rows {
				losses = append(losses, domain.LossRecord{
					ID:          r.ID,
					LeadID:      r.LeadID,
					Name:        r.Nome,
					Company:     r.Empresa,
					Value:       r.Valor,
					Reason:      r.Motivo,
					Detail:      r.Detalhes,
					StageAtLoss: r.EstagioQuandoPerdeu,
					LostAt:      parseTime(r.DataPerda),
				})
			}
			return nil
		})
	})

	if err != nil {
		return nil, wrapStoreErr("supabase/losses", err)
	}

	return losses, nil
}
