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
// Active accounts — clientes_ativos via PostgREST
// ============================================================

// accountRow maps the clientes_ativos columns to our domain.
type accountRow struct {
	ID                 string   `json:"id"`
	LeadID             string   `json:"lead_id"`
	Nome               string   `json:"nome"`
	Empresa            string   `json:"empresa"`
	ValorMensal        float64  `json:"valor_mensal"`
	EscopoContratado   string   `json:"escopo_contratado"`
	SinaisRisco        []string `json:"sinais_risco"`
	StatusCliente      string   `json:"status_cliente"`
	DataInicioContrato string   `json:"data_inicio_contrato"`
	DataRenovacao      *string  `json:"data_renovacao"`
	TagPareto          string   `json:"tag_pareto"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

// ListAccounts fetches every client under a recurring contract.
func (c *Client) ListAccounts(ctx context.Context) ([]domain.ActiveAccount, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListAccounts")
	defer span.End()

	var accounts []domain.ActiveAccount

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.doRequest(ctx, http.MethodGet, "clientes_ativos?select=*&order=created_at.desc")
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				accounts = []domain.ActiveAccount{}
				return nil
			}

			var rows []accountRow
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode accounts: %w", err)
			}

			accounts = make([]domain.ActiveAccount, 0, len(rows))
			for _, r := range rows {
				signals := r.SinaisRisco
				if signals == nil {
					signals = []string{}
				}
				accounts = append(accounts, domain.ActiveAccount{
					ID:            r.ID,
					LeadID:        r.LeadID,
					Name:          r.Nome,
					Company:       r.Empresa,
					MonthlyValue:  r.ValorMensal,
					Scope:         r.EscopoContratado,
					RiskSignals:   signals,
					Status:        domain.AccountStatus(r.StatusCliente),
					ContractStart: parseTime(r.DataInicioContrato),
					RenewalAt:     parseTimePtr(r.DataRenovacao),
					ParetoTag:     r.TagPareto,
					CreatedAt:     parseTime(r.CreatedAt),
					UpdatedAt:     parseTime(r.UpdatedAt),
				})
			}
			return nil
		})
	})

	if err != nil {
		return nil, wrapStoreErr("supabase/accounts", err)
	}

	return accounts, nil
}
