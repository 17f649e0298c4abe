package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/client"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/resilience"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newClient(srv *httptest.Server) *client.APIClient {
	guard := resilience.NewGuard("api-test", resilience.Config{MaxConcurrency: 4, InitialBackoff: time.Millisecond})
	return client.NewAPIClient(srv.Client(), srv.URL, guard)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func summaryFor(p domain.Period, sales int64) domain.PeriodSummary {
	return domain.PeriodSummary{AggregateResult: domain.AggregateResult{
		Period:     p,
		TotalSales: decimal.NewFromInt(sales),
	}}
}

func TestAPIClient_LoginThenSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			var req domain.LoginRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Senha != "segredo1" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Credenciais inválidas"})
				return
			}
			writeJSON(w, http.StatusOK, domain.AuthResponse{Token: "tok-1", User: domain.User{ID: "u1"}})
		case "/v1/resumo":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token inválido"})
				return
			}
			if r.URL.Query().Get("mes") != "3" || r.URL.Query().Get("ano") != "2024" {
				t.Errorf("unexpected query %q", r.URL.RawQuery)
			}
			writeJSON(w, http.StatusOK, summaryFor(domain.Period{Month: 3, Year: 2024}, 1200))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newClient(srv)
	ctx := context.Background()

	_, err := c.Login(ctx, "a@b.com", "errada")
	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if _, err := c.Login(ctx, "a@b.com", "segredo1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	s, err := c.GetSummary(ctx, domain.Period{Month: 3, Year: 2024})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !s.TotalSales.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("totalVendas = %s, want 1200", s.TotalSales)
	}
}

func TestAPIClient_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"bad request", http.StatusBadRequest, func(err error) bool {
			var target *domain.ErrValidation
			return errors.As(err, &target) && target.Field == "mes"
		}},
		{"server error", http.StatusInternalServerError, func(err error) bool {
			var target *domain.ErrExternalService
			return errors.As(err, &target)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, map[string]string{"error": "falhou", "campo": "mes"})
			}))
			defer srv.Close()

			_, err := newClient(srv).GetYearReport(context.Background(), domain.Period{Month: 13, Year: 2024})
			if !tc.check(err) {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestDashboard_DiscardsStaleResponse(t *testing.T) {
	march := domain.Period{Month: 3, Year: 2024}
	april := domain.Period{Month: 4, Year: 2024}

	marchArrived := make(chan struct{})
	releaseMarch := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mes") == "3" {
			close(marchArrived)
			<-releaseMarch
			writeJSON(w, http.StatusOK, summaryFor(march, 300))
			return
		}
		writeJSON(w, http.StatusOK, summaryFor(april, 400))
	}))
	defer srv.Close()

	d := client.NewDashboard(newClient(srv), march, zap.NewNop())
	ctx := context.Background()

	type result struct {
		applied bool
		err     error
	}
	marchDone := make(chan result, 1)
	go func() {
		applied, err := d.Select(ctx, march)
		marchDone <- result{applied, err}
	}()

	<-marchArrived
	applied, err := d.Select(ctx, april)
	if err != nil || !applied {
		t.Fatalf("april: applied=%v err=%v", applied, err)
	}

	close(releaseMarch)
	res := <-marchDone
	if res.err != nil {
		t.Fatalf("march: %v", res.err)
	}
	if res.applied {
		t.Error("stale march response was applied")
	}

	if got := d.Current(); got == nil || got.Period != april {
		t.Fatalf("current = %+v, want april", got)
	}
	if d.Selected() != april {
		t.Errorf("selected = %v, want april", d.Selected())
	}
}

type countingFetcher struct {
	calls atomic.Int32
}

func (f *countingFetcher) GetSummary(_ context.Context, p domain.Period) (*domain.PeriodSummary, error) {
	n := f.calls.Add(1)
	s := summaryFor(p, int64(n))
	return &s, nil
}

func TestDashboard_Refresh(t *testing.T) {
	p := domain.Period{Month: 5, Year: 2024}
	f := &countingFetcher{}
	d := client.NewDashboard(f, p, zap.NewNop())

	if d.Current() != nil {
		t.Fatal("expected no summary before the first fetch")
	}
	for i := 0; i < 2; i++ {
		applied, err := d.Refresh(context.Background())
		if err != nil || !applied {
			t.Fatalf("refresh %d: applied=%v err=%v", i, applied, err)
		}
	}
	if got := d.Current().TotalSales; !got.Equal(decimal.NewFromInt(2)) {
		t.Errorf("totalVendas = %s, want 2", got)
	}
}
