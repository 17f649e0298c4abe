package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/observability"
	"github.com/AnaBeatrizVictorio/colhecash/internal/port"
	"github.com/AnaBeatrizVictorio/colhecash/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

const pingTimeout = 2 * time.Second

// Services groups what the router dispatches to.
// Store and Publisher are only pinged by the health endpoints; either may be nil.
type Services struct {
	Auth         *service.AuthService
	Transactions *service.TransactionService
	Goals        *service.GoalService
	Summaries    *service.SummaryService

	Backend   string
	Store     port.Pinger
	Publisher port.Pinger
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc Services, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(observability.MetricsMiddleware(metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc))
	r.Get("/readyz", readyzHandler(svc.Store, logger))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		// Public
		r.Post("/auth/register", authRegisterHandler(svc.Auth, logger))
		r.Post("/auth/login", authLoginHandler(svc.Auth, logger))

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(svc.Auth, logger))

			r.Get("/auth/profile", getProfileHandler(svc.Auth, logger))
			r.Put("/auth/profile", updateProfileHandler(svc.Auth, logger))

			r.Post("/vendas", createTransactionHandler(svc.Transactions, domain.KindSale, logger))
			r.Get("/vendas", listTransactionsHandler(svc.Transactions, domain.KindSale, logger))
			r.Post("/despesas", createTransactionHandler(svc.Transactions, domain.KindExpense, logger))
			r.Get("/despesas", listTransactionsHandler(svc.Transactions, domain.KindExpense, logger))

			r.Get("/configuracoes", getGoalHandler(svc.Goals, logger))
			r.Put("/configuracoes", setGoalHandler(svc.Goals, logger))

			r.Get("/resumo", periodSummaryHandler(svc.Summaries, logger))
			r.Get("/relatorios", yearReportHandler(svc.Summaries, logger))
			r.Get("/relatorios/export", exportYearHandler(svc.Summaries, logger))
			r.Get("/transacoes", dayTransactionsHandler(svc.Summaries, logger))
			r.Get("/alertas", alertsHandler(svc.Summaries, logger))

			r.Get("/metrics/resumo", metricsSummaryHandler(metrics))
		})
	})

	return r
}

// ============================================================
// Health
// ============================================================

func healthzHandler(svc Services) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		services := []domain.ServiceHealth{checkHealth(ctx, "api", nil)}
		if svc.Store != nil {
			services = append(services, checkHealth(ctx, "store", svc.Store))
		}
		if svc.Publisher != nil {
			services = append(services, checkHealth(ctx, "amqp", svc.Publisher))
		}

		overall := "healthy"
		for _, s := range services {
			if s.Status != "healthy" {
				overall = "degraded"
				break
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overall,
			Backend:  svc.Backend,
			Services: services,
		})
	}
}

func checkHealth(ctx context.Context, name string, p port.Pinger) domain.ServiceHealth {
	h := domain.ServiceHealth{Name: name, Status: "healthy", LastChecked: time.Now().Format(time.RFC3339)}
	if p == nil {
		return h
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	h.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		h.Status = "degraded"
		h.Error = err.Error()
	}
	return h
}

// readyzHandler reports 503 while the store is unreachable.
func readyzHandler(store port.Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				logger.Warn("readyz: store unreachable", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
