package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

// maxBodyBytes bounds request bodies; every payload of the API is small.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"campo,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON reads the request body into dst. It writes the 400 itself and
// reports false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return false
	}
	return true
}

// parsePeriod reads mes and ano from the query string. A missing value
// falls back to the matching part of current.
func parsePeriod(r *http.Request, current domain.Period) (domain.Period, error) {
	p := current
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("mes")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return domain.Period{}, &domain.ErrValidation{Field: "mes", Message: "Mês deve ser numérico"}
		}
		p.Month = m
	}
	if v := strings.TrimSpace(q.Get("ano")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return domain.Period{}, &domain.ErrValidation{Field: "ano", Message: "Ano deve ser numérico"}
		}
		p.Year = y
	}
	return p, p.Validate()
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout
	var validation *domain.ErrValidation
	var invalidAmount *domain.ErrInvalidAmount
	var unauthorized *domain.ErrUnauthorized
	var conflict *domain.ErrConflict
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validation.Message, Field: validation.Field})
	case errors.As(err, &invalidAmount):
		logger.Debug("invalid amount", zap.String("field", invalidAmount.Field), zap.String("input", invalidAmount.Input))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: invalidAmount.Field})
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, "Recurso não encontrado")
	case errors.As(err, &conflict):
		logger.Debug("conflict", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, conflict.Message)
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "Serviço temporariamente indisponível")
	case errors.As(err, &timeout):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, "Tempo de resposta esgotado")
	case errors.As(err, &external):
		logger.Error("external service error", zap.String("service", external.Service), zap.Error(err))
		writeError(w, http.StatusBadGateway, "Falha ao acessar o armazenamento")
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
	}
}
