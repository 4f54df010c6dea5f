package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/infra/resilience"
)

// ============================================================
// Goal configuration — crm_configuracoes via PostgREST
// ============================================================

// configRow maps the crm_configuracoes columns to our domain.
type configRow struct {
	ID            string  `json:"id"`
	MetaMensal    float64 `json:"meta_mensal"`
	ChurnMesAtual float64 `json:"churn_mes_atual"`
	FocoMes       string  `json:"foco_mes"`
	UpdatedAt     string  `json:"updated_at"`
}

// GetGoalConfig fetches the singleton configuration row. A missing row
// is not an error; callers get a zero-valued config.
func (c *Client) GetGoalConfig(ctx context.Context) (*domain.GoalConfig, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetGoalConfig")
	defer span.End()

	cfg := &domain.GoalConfig{}

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.doRequest(ctx, http.MethodGet, "crm_configuracoes?select=*&limit=1")
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				return nil
			}

			var rows []configRow
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode goal config: %w", err)
			}
			if len(rows) == 0 {
				return nil
			}

			r := rows[0]
			cfg = &domain.GoalConfig{
				ID:           r.ID,
				MonthlyGoal:  r.MetaMensal,
				CurrentChurn: r.ChurnMesAtual,
				MonthFocus:   r.FocoMes,
				UpdatedAt:    parseTime(r.UpdatedAt),
			}
			return nil
		})
	})

	if err != nil {
		return nil, wrapStoreErr("supabase/goals", err)
	}

	return cfg, nil
}

// SaveGoalConfig updates the singleton row, creating it on first use.
func (c *Client) SaveGoalConfig(ctx context.Context, cfg *domain.GoalConfig) error {
	ctx, span := tracer.Start(ctx, "Supabase.SaveGoalConfig")
	defer span.End()

	row := map[string]any{
		"meta_mensal":     cfg.MonthlyGoal,
		"churn_mes_atual": cfg.CurrentChurn,
		"foco_mes":        cfg.MonthFocus,
		"updated_at":      time.Now().Format(time.RFC3339),
	}

	_, err := c.cb.Execute(func() (any, error) {
		if cfg.ID != "" {
			return nil, c.doPatch(ctx, fmt.Sprintf("crm_configuracoes?id=eq.%s", cfg.ID), row)
		}
		_, postErr := c.doPost(ctx, "crm_configuracoes", row)
		return nil, postErr
	})

	if err != nil {
		return wrapStoreErr("supabase/goals", err)
	}
	return nil
}
