package handler

import (
	"net/http"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Vendas e Despesas
// POST|GET /v1/vendas, POST|GET /v1/despesas
// ============================================================

func createTransactionHandler(txSvc *service.TransactionService, kind domain.TransactionKind, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST "+r.URL.Path)
		defer span.End()
		span.SetAttributes(attribute.String("kind", string(kind)))

		var req domain.TransactionRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		tx, err := txSvc.Create(ctx, UserIDFromContext(ctx), kind, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, tx)
	}
}

func listTransactionsHandler(txSvc *service.TransactionService, kind domain.TransactionKind, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET "+r.URL.Path)
		defer span.End()

		list, err := txSvc.List(ctx, UserIDFromContext(ctx), kind)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}

// ============================================================
// Configurações (meta de faturamento)
// GET|PUT /v1/configuracoes
// ============================================================

func getGoalHandler(goalSvc *service.GoalService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/configuracoes")
		defer span.End()

		g, err := goalSvc.Get(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, g)
	}
}

func setGoalHandler(goalSvc *service.GoalService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/configuracoes")
		defer span.End()

		var req domain.GoalRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		g, err := goalSvc.Set(ctx, UserIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, g)
	}
}
