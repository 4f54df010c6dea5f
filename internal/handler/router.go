package handler

import (
	"net/http"
	"time"

	"github.com/flyagencia/salesops/internal/domain"
	"github.com/flyagencia/salesops/internal/infra/observability"
	"github.com/flyagencia/salesops/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// An empty jwtSecret leaves the API open; a configured one protects
// every /v1 route with Supabase token validation.
func NewRouter(
	boardSvc *service.BoardService,
	accountSvc *service.AccountService,
	dashSvc *service.DashboardService,
	hub *BoardHub,
	metrics *observability.Metrics,
	logger *zap.Logger,
	jwtSecret string,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(accountSvc, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// Live board updates
	r.Get("/ws/board", hub.ServeHTTP)

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		if jwtSecret != "" {
			r.Use(JWTAuthMiddleware(jwtSecret, logger))
		}

		// =============================================
		// 1. 📋 Board
		// =============================================
		r.Get("/board", getBoardHandler(boardSvc, logger))
		r.Post("/board/move", moveLeadHandler(boardSvc, logger))

		// =============================================
		// 2. 🧲 Leads
		// =============================================
		r.Post("/leads", saveLeadHandler(boardSvc, logger))
		r.Put("/leads/{leadID}", saveLeadHandler(boardSvc, logger))
		r.Delete("/leads/{leadID}", deleteLeadHandler(boardSvc, logger))
		r.Post("/leads/{leadID}/loss", recordLossHandler(boardSvc, logger))
		r.Post("/leads/{leadID}/convert", convertLeadHandler(boardSvc, logger))

		// =============================================
		// 3. 🗂 Etapas
		// =============================================
		r.Post("/stages", saveStageHandler(boardSvc, logger))
		r.Put("/stages/{stageID}", saveStageHandler(boardSvc, logger))
		r.Delete("/stages/{stageID}", deleteStageHandler(boardSvc, logger))

		// =============================================
		// 4. 🤝 Clientes Ativos
		// =============================================
		r.Get("/accounts", listAccountsHandler(accountSvc, logger))
		r.Put("/accounts/{accountID}/risk-signals", updateRiskSignalsHandler(accountSvc, logger))
		r.Post("/accounts/{accountID}/churn", recordChurnHandler(accountSvc, logger))

		// =============================================
		// 5. 📊 Dashboard
		// =============================================
		r.Get("/dashboard/health", businessHealthHandler(dashSvc, logger))
		r.Get("/dashboard/funnel", funnelOverviewHandler(dashSvc, logger))
		r.Get("/dashboard/losses", lossBreakdownHandler(dashSvc, logger))
		r.Get("/dashboard/team", teamPerformanceHandler(dashSvc, logger))

		// =============================================
		// 6. 🎯 Metas
		// =============================================
		r.Get("/goals", getGoalsHandler(dashSvc, logger))
		r.Put("/goals", saveGoalsHandler(dashSvc, logger))

		// =============================================
		// 7. 🛠 Métricas operacionais
		// =============================================
		r.Get("/metrics/ops", opsMetricsHandler(metrics))
	})

	return r
}

// ============================================================
// Health
// ============================================================

func healthzHandler(accountSvc *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "salesops-api", Status: "healthy", LatencyMs: 0, LastChecked: now},
		}

		start := time.Now()
		_, err := accountSvc.ListAccounts(ctx)
		latency := time.Since(start).Milliseconds()
		status := "healthy"
		if err != nil {
			status = "degraded"
		}
		services = append(services, domain.ServiceHealth{
			Name: "supabase", Status: status, LatencyMs: latency, LastChecked: now,
		})

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func opsMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetOpsSnapshot())
	}
}
