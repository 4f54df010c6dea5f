package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/infra/resilience"
)

// ============================================================
// Leads — crm_clientes via PostgREST
// ============================================================

// leadRow maps the crm_clientes columns to our domain.
type leadRow struct {
	ID                  string  `json:"id"`
	Nome                string  `json:"nome"`
	Empresa             string  `json:"empresa"`
	Ticket              float64 `json:"ticket"`
	ColunaID            string  `json:"coluna_id"`
	Responsavel         string  `json:"responsavel"`
	Servico             string  `json:"servico"`
	Telefone            string  `json:"telefone"`
	Email               string  `json:"email"`
	Observacoes         string  `json:"observacoes"`
	Origem              string  `json:"origem"`
	DataPrimeiroContato string  `json:"data_primeiro_contato"`
	DataFechamento      *string `json:"data_fechamento"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// ListLeads fetches every live lead on the board.
func (c *Client) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListLeads")
	defer span.End()

	var leads []domain.Lead

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.doRequest(ctx, http.MethodGet, "crm_clientes?select=*&order=created_at.desc")
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				leads = []domain.Lead{}
				return nil
			}

			var rows []leadRow
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode leads: %w", err)
			}

			leads = make([]domain.Lead, 0, len(rows))
			for _, r := range rows {
				leads = append(leads, domain.Lead{
					ID:             r.ID,
					Name:           r.Nome,
					Company:        r.Empresa,
					Ticket:         r.Ticket,
					StageID:        r.ColunaID,
					Owner:          r.Responsavel,
					Service:        r.Servico,
					Phone:          r.Telefone,
					Email:          r.Email,
					Notes:          r.Observacoes,
					Origin:         r.Origem,
					FirstContactAt: parseTime(r.DataPrimeiroContato),
					ClosedAt:       parseTimePtr(r.DataFechamento),
					CreatedAt:      parseTime(r.CreatedAt),
					UpdatedAt:      parseTime(r.UpdatedAt),
				})
			}
			return nil
		})
	})

	if err != nil {
		return nil, wrapStoreErr("supabase/leads", err)
	}

	return leads, nil
}
