package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/observability"
	"github.com/AnaBeatrizVictorio/colhecash/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ============================================================
// Resumo do mês — GET /v1/resumo?mes=&ano=
// ============================================================

func periodSummaryHandler(summarySvc *service.SummaryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/resumo")
		defer span.End()

		p, err := parsePeriod(r, summarySvc.CurrentPeriod())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("period", p.Key()))

		resp, err := summarySvc.PeriodSummary(ctx, UserIDFromContext(ctx), p)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ============================================================
// Relatórios — GET /v1/relatorios?ano=&mes=
// ============================================================

func yearReportHandler(summarySvc *service.SummaryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/relatorios")
		defer span.End()

		p, err := parsePeriod(r, summarySvc.CurrentPeriod())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		resp, err := summarySvc.YearReport(ctx, UserIDFromContext(ctx), p)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// GET /v1/relatorios/export?ano=
func exportYearHandler(summarySvc *service.SummaryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/relatorios/export")
		defer span.End()

		year := summarySvc.CurrentPeriod().Year
		if v := r.URL.Query().Get("ano"); v != "" {
			y, err := strconv.Atoi(v)
			if err != nil {
				handleServiceError(w, &domain.ErrValidation{Field: "ano", Message: "Ano deve ser numérico"}, logger)
				return
			}
			year = y
		}

		data, err := summarySvc.ExportYear(ctx, UserIDFromContext(ctx), year)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="colhecash-%d.xlsx"`, year))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			logger.Warn("export: write response", zap.Error(err))
		}
	}
}

// ============================================================
// Transações por dia — GET /v1/transacoes?mes=&ano=&tipo=
// ============================================================

func dayTransactionsHandler(summarySvc *service.SummaryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/transacoes")
		defer span.End()

		p, err := parsePeriod(r, summarySvc.CurrentPeriod())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		filter, err := domain.ParseKindFilter(r.URL.Query().Get("tipo"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		resp, err := summarySvc.DayTransactions(ctx, UserIDFromContext(ctx), p, filter)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ============================================================
// Alertas — GET /v1/alertas?mes=&ano=
// ============================================================

func alertsHandler(summarySvc *service.SummaryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/alertas")
		defer span.End()

		p, err := parsePeriod(r, summarySvc.CurrentPeriod())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		resp, err := summarySvc.Alerts(ctx, UserIDFromContext(ctx), p)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ============================================================
// Métricas — GET /v1/metrics/resumo
// ============================================================

func metricsSummaryHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Snapshot())
	}
}
