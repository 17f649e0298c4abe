package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/handler"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/cache"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/memory"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/observability"
	"github.com/AnaBeatrizVictorio/colhecash/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("unreachable") }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := memory.New()
	profiles := cache.New[*domain.User](time.Minute)
	t.Cleanup(profiles.Close)

	summaries := service.NewSummaryService(store, store, metrics, time.UTC, logger)
	notifier := service.NewAlertNotifier(nil, metrics, logger)
	return handler.NewRouter(handler.Services{
		Auth:         service.NewAuthService(store, profiles, metrics, "router-test-secret-0123456789abcdef", time.Hour, logger),
		Transactions: service.NewTransactionService(store, summaries, notifier, logger),
		Goals:        service.NewGoalService(store, summaries, notifier, logger),
		Summaries:    summaries,
		Backend:      "memory",
		Store:        store,
	}, metrics, logger)
}

func do(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"nome": "João", "email": "joao@feira.com", "senha": "segredo1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp domain.AuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode register: %v", err)
	}
	return resp.Token
}

func TestOperationalEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/healthz", "/readyz", "/metrics", "/ping"} {
		t.Run(path, func(t *testing.T) {
			rec := do(t, router, http.MethodGet, path, "", nil)
			if rec.Code != http.StatusOK {
				t.Errorf("expected 200, got %d", rec.Code)
			}
		})
	}
}

func TestReadyz_StoreDown(t *testing.T) {
	router := handler.NewRouter(handler.Services{Store: failingPinger{}}, observability.NewMetrics(), zap.NewNop())

	rec := do(t, router, http.MethodGet, "/readyz", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/healthz", "", nil)
	var health domain.HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "degraded" {
		t.Errorf("status = %q, want degraded", health.Status)
	}
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	cases := map[string]string{
		"missing": "",
		"garbage": "not-a-jwt",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, router, http.MethodGet, "/v1/resumo", token, nil)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestRegister_Conflict(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router)

	rec := do(t, router, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"nome": "Outro", "email": "JOAO@feira.com", "senha": "segredo2",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestSummaryFlow(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)

	if rec := do(t, router, http.MethodPut, "/v1/configuracoes", token, `{"metaFaturamento":"1000,00"}`); rec.Code != http.StatusOK {
		t.Fatalf("set goal: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, router, http.MethodPost, "/v1/vendas", token, `{"valor":850,"descricao":"Feira de sábado"}`); rec.Code != http.StatusCreated {
		t.Fatalf("create sale: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, router, http.MethodPost, "/v1/despesas", token, `{"valor":"150,50","categoria":"Transporte"}`); rec.Code != http.StatusCreated {
		t.Fatalf("create expense: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec := do(t, router, http.MethodGet, "/v1/resumo", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("resumo: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var summary struct {
		TotalVendas   decimal.Decimal `json:"totalVendas"`
		TotalDespesas decimal.Decimal `json:"totalDespesas"`
		Lucro         decimal.Decimal `json:"lucro"`
		Metricas      struct {
			PorcentagemMeta int `json:"porcentagemMeta"`
		} `json:"metricas"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("decode resumo: %v", err)
	}
	if !summary.TotalVendas.Equal(decimal.NewFromInt(850)) {
		t.Errorf("totalVendas = %s, want 850", summary.TotalVendas)
	}
	if !summary.Lucro.Equal(decimal.RequireFromString("699.5")) {
		t.Errorf("lucro = %s, want 699.5", summary.Lucro)
	}
	if summary.Metricas.PorcentagemMeta != 85 {
		t.Errorf("porcentagemMeta = %d, want 85", summary.Metricas.PorcentagemMeta)
	}

	t.Run("lists", func(t *testing.T) {
		for _, path := range []string{"/v1/vendas", "/v1/despesas", "/v1/transacoes?tipo=todas", "/v1/alertas", "/v1/relatorios", "/v1/metrics/resumo", "/v1/auth/profile"} {
			if rec := do(t, router, http.MethodGet, path, token, nil); rec.Code != http.StatusOK {
				t.Errorf("%s: expected 200, got %d: %s", path, rec.Code, rec.Body.String())
			}
		}
	})

	t.Run("export", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/v1/relatorios/export", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
			t.Errorf("content type = %q", ct)
		}
		if rec.Body.Len() == 0 {
			t.Error("expected a workbook body")
		}
	})
}

func TestValidationErrors(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"non-numeric amount", http.MethodPost, "/v1/vendas", `{"valor":"abc"}`},
		{"negative amount", http.MethodPost, "/v1/despesas", `{"valor":-3}`},
		{"malformed body", http.MethodPost, "/v1/vendas", `{"valor":`},
		{"month out of range", http.MethodGet, "/v1/resumo?mes=13&ano=2024", nil},
		{"year out of range", http.MethodGet, "/v1/resumo?mes=1&ano=1999", nil},
		{"non-numeric month", http.MethodGet, "/v1/alertas?mes=jan", nil},
		{"unknown filter", http.MethodGet, "/v1/transacoes?tipo=outras", nil},
		{"invalid goal", http.MethodPut, "/v1/configuracoes", `{"metaFaturamento":"x"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, router, tc.method, tc.path, token, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}
