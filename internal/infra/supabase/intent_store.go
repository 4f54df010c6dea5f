package supabase

import (
	"context"
	"fmt"

	"github.com/flyagencia/salesops/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Intent execution — ordered writes via PostgREST
// ============================================================

// entityTables maps effect entities to their PostgREST tables.
var entityTables = map[string]string{
	domain.EntityLead:    "crm_clientes",
	domain.EntityStage:   "crm_colunas",
	domain.EntityAccount: "clientes_ativos",
	domain.EntityLoss:    "crm_perdas",
	domain.EntityGoals:   "crm_configuracoes",
}

// entityColumns maps the neutral row keys produced by board operations
// to the Portuguese column names of each table. Keys not listed here
// pass through unchanged.
var entityColumns = map[string]map[string]string{
	domain.EntityLead: {
		"name":             "nome",
		"company":          "empresa",
		"stage_id":         "coluna_id",
		"owner":            "responsavel",
		"service":          "servico",
		"phone":            "telefone",
		"notes":            "observacoes",
		"origin":           "origem",
		"first_contact_at": "data_primeiro_contato",
		"closed_at":        "data_fechamento",
	},
	domain.EntityStage: {
		"title":       "titulo",
		"color":       "cor",
		"position":    "ordem",
		"probability": "probabilidade",
	},
	domain.EntityAccount: {
		"monthly_value":  "valor_mensal",
		"scope":          "escopo_contratado",
		"risk_signals":   "sinais_risco",
		"status":         "status_cliente",
		"contract_start": "data_inicio_contrato",
		"renewal_at":     "data_renovacao",
		"pareto_tag":     "tag_pareto",
	},
	domain.EntityLoss: {
		"value":         "valor",
		"reason":        "motivo",
		"detail":        "detalhes",
		"stage_at_loss": "estagio_quando_perdeu",
		"lost_at":       "data_perda",
	},
	domain.EntityGoals: {
		"monthly_goal":  "meta_mensal",
		"current_churn": "churn_mes_atual",
		"month_focus":   "foco_mes",
	},
}

// Apply executes an intent's effects strictly in order, stopping at the
// first failure. Effects run through the circuit breaker but are never
// retried: inserts and deletes are not idempotent, and a blind retry
// after an ambiguous failure could duplicate a history row.
func (c *Client) Apply(ctx context.Context, intent *domain.Intent) error {
	ctx, span := tracer.Start(ctx, "Supabase.Apply")
	defer span.End()
	span.SetAttributes(
		attribute.String("intent.label", intent.Label),
		attribute.Int("intent.effects", len(intent.Effects)),
	)

	_, err := c.cb.Execute(func() (any, error) {
		for i, effect := range intent.Effects {
			if err := c.applyEffect(ctx, effect); err != nil {
				c.logger.Error("supabase: intent failed",
					zap.String("label", intent.Label),
					zap.Int("effect", i),
					zap.String("kind", string(effect.Kind)),
					zap.String("entity", effect.Entity),
					zap.Error(err),
				)
				return nil, fmt.Errorf("effect %d (%s %s): %w", i, effect.Kind, effect.Entity, err)
			}
		}
		return nil, nil
	})

	if err != nil {
		return wrapStoreErr("supabase/intent", err)
	}

	c.logger.Info("supabase: intent committed",
		zap.String("label", intent.Label),
		zap.Int("effects", len(intent.Effects)),
	)
	return nil
}

func (c *Client) applyEffect(ctx context.Context, effect domain.Effect) error {
	table, ok := entityTables[effect.Entity]
	if !ok {
		return fmt.Errorf("unknown entity %q", effect.Entity)
	}

	switch effect.Kind {
	case domain.EffectInsert:
		_, err := c.doPost(ctx, table, translateRow(effect.Entity, effect.Row))
		return err
	case domain.EffectUpdate:
		return c.doPatch(ctx, fmt.Sprintf("%s?id=eq.%s", table, effect.ID), translateRow(effect.Entity, effect.Row))
	case domain.EffectDelete:
		return c.doDelete(ctx, fmt.Sprintf("%s?id=eq.%s", table, effect.ID))
	default:
		return fmt.Errorf("unknown effect kind %q", effect.Kind)
	}
}

// translateRow renames neutral row keys to table columns.
func translateRow(entity string, row map[string]any) map[string]any {
	columns := entityColumns[entity]
	out := make(map[string]any, len(row))
	for key, value := range row {
		if col, ok := columns[key]; ok {
			out[col] = value
			continue
		}
		out[key] = value
	}
	return out
}
