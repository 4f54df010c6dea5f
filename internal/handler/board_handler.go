package handler

import (
	"encoding/json"
	"net/http"

	"github.com/flyagencia/salesops/internal/pipeline"
	"github.com/flyagencia/salesops/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Board — GET /v1/board, POST /v1/board/move
// ============================================================

func getBoardHandler(svc *service.BoardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/board")
		defer span.End()

		board, err := svc.Snapshot(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, board)
	}
}

func moveLeadHandler(svc *service.BoardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/board/move")
		defer span.End()

		var req struct {
			LeadID  string `json:"leadId"`
			StageID string `json:"stageId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.LeadID == "" || req.StageID == "" {
			writeError(w, http.StatusBadRequest, "leadId and stageId are required")
			return
		}
		span.SetAttributes(
			attribute.String("lead.id", req.LeadID),
			attribute.String("stage.id", req.StageID),
		)

		board, err := svc.MoveLead(ctx, req.LeadID, req.StageID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, board)
	}
}

// ============================================================
// Leads — create, update, delete, loss, convert
// ============================================================

func saveLeadHandler(svc *service.BoardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/leads")
		defer span.End()

		var input pipeline.LeadInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if id := chi.URLParam(r, "leadID"); id != "" {
			input.ID = id
		}

		lead, err := svc.SaveLead(ctx, input)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		status := http.StatusOK
		if r.Method == http.MethodPost {
			status = http.StatusCreated
		}
		writeJSON(w, status, lead)
	}
}

func deleteLeadHandler(svc *service.BoardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/leads/{leadID}")
		defer span.End()

		leadID := chi.URLParam(r, "leadID")
		if err := svc.DeleteLead(ctx, leadID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func recordLossHandler(svc *service.BoardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/leads/{leadID}/loss")
		defer span.End()

		leadID := chi.URLParam(r, "leadID")
		span.SetAttributes(attribute.String("lead.id", leadID))

		var req struct {
			Reason string `json:"reason"`
			Detail string `json:"detail,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		record, err := svc.RecordLoss(ctx, leadID, req.Reason, req.Detail)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, record)
	}
}

func convertLeadHandler(svc *service.BoardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/leads/{leadID}/convert")
		defer span.End()

		leadID := chi.URLParam(r, "leadID")
		span.SetAttributes(attribute.String("lead.id", leadID))

		var input pipeline.ConvertInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		account, err := svc.ConvertLead(ctx, leadID, input)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, account)
	}
}

// ============================================================
// Stages
// ============================================================

func saveStageHandler(svc *service.BoardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/stages")
		defer span.End()

		var input pipeline.StageInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if id := chi.URLParam(r, "stageID"); id != "" {
			input.ID = id
		}

		stage, err := svc.SaveStage(ctx, input)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		status := http.StatusOK
		if r.Method == http.MethodPost {
			status = http.StatusCreated
		}
		writeJSON(w, status, stage)
	}
}

func deleteStageHandler(svc *service.BoardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/stages/{stageID}")
		defer span.End()

		stageID := chi.URLParam(r, "stageID")
		if err := svc.DeleteStage(ctx, stageID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
