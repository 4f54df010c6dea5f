package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/handler"
	"github.com/flyagencia/salesops/internal/infra/cache"
	"github.com/flyagencia/salesops/internal/infra/observability"
	"github.com/flyagencia/salesops/internal/service"

	"go.uber.org/zap"
)

// stubStore serves a fixed dataset and records applied intents.
type stubStore struct {
	applied []*domain.Intent
}

func (s *stubStore) ListStages(_ context.Context) ([]domain.PipelineStage, error) {
	return []domain.PipelineStage{
		{ID: "s1", Title: "Lead", Position: 0},
		{ID: "s2", Title: "Qualificado", Position: 1},
	}, nil
}

func (s *stubStore) ListLeads(_ context.Context) ([]domain.Lead, error) {
	return []domain.Lead{
		{ID: "l1", Name: "João", Company: "Acme", Ticket: 5000, StageID: "s1", Owner: "Ana"},
	}, nil
}

func (s *stubStore) ListAccounts(_ context.Context) ([]domain.ActiveAccount, error) {
	return []domain.ActiveAccount{}, nil
}

func (s *stubStore) ListLossesSince(_ context.Context, _ time.Time) ([]domain.LossRecord, error) {
	return []domain.LossRecord{}, nil
}

func (s *stubStore) GetGoalConfig(_ context.Context) (*domain.GoalConfig, error) {
	return &domain.GoalConfig{MonthlyGoal: 50000}, nil
}

func (s *stubStore) SaveGoalConfig(_ context.Context, _ *domain.GoalConfig) error {
	return nil
}

func (s *stubStore) Apply(_ context.Context, intent *domain.Intent) error {
	s.applied = append(s.applied, intent)
	return nil
}

func newTestRouter(jwtSecret string) http.Handler {
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := &stubStore{}
	hub := handler.NewBoardHub(metrics, logger)

	boardSvc := service.NewBoardService(store, cache.New[domain.BoardState](time.Minute), hub, metrics, logger)
	accountSvc := service.NewAccountService(store, hub, metrics, logger)
	dashSvc := service.NewDashboardService(store, boardSvc, metrics, logger, 90)

	return handler.NewRouter(boardSvc, accountSvc, dashSvc, hub, metrics, logger, jwtSecret)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestGetBoard(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodGet, "/v1/board", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var board domain.BoardState
	if err := json.NewDecoder(rec.Body).Decode(&board); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	if len(board.Stages) != 2 || len(board.Leads) != 1 {
		t.Errorf("unexpected board: %d stages, %d leads", len(board.Stages), len(board.Leads))
	}
}

func TestMoveLead_MissingFields(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodPost, "/v1/board/move", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSaveLead_ValidationReportsAllFields(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodPost, "/v1/leads", bytes.NewBufferString(`{"ticket":-5}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp struct {
		Error  string `json:"error"`
		Fields []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if len(resp.Fields) < 4 {
		t.Errorf("expected several field errors, got %d: %+v", len(resp.Fields), resp.Fields)
	}
}

func TestDeleteStage_ConflictWhenNotEmpty(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodDelete, "/v1/stages/s1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestJWT_RejectsMissingToken(t *testing.T) {
	router := newTestRouter("test-secret")

	req := httptest.NewRequest(http.MethodGet, "/v1/board", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
