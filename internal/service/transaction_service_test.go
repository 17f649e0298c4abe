package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/observability"
	"github.com/AnaBeatrizVictorio/colhecash/internal/service"

	"go.uber.org/zap"
)

func TestTransactionService_Create(t *testing.T) {
	now := time.Date(2024, time.March, 20, 15, 0, 0, 0, time.UTC)

	t.Run("parses amount and date", func(t *testing.T) {
		f := newFixture(t, now)
		got, err := f.txs.Create(context.Background(), "user-1", domain.KindSale, &domain.TransactionRequest{
			Valor:     domain.NewAmountInput("1.234,56"),
			Data:      "2024-03-10",
			Descricao: "  Feira  ",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Amount.Equal(dec("1234.56")) {
			t.Errorf("amount = %s, want 1234.56", got.Amount)
		}
		want := time.Date(2024, time.March, 10, 0, 0, 0, 0, f.loc)
		if !got.Date.Equal(want) {
			t.Errorf("date = %v, want %v", got.Date, want)
		}
		if got.Description != "Feira" {
			t.Errorf("description = %q", got.Description)
		}
	})

	t.Run("defaults date to now", func(t *testing.T) {
		f := newFixture(t, now)
		got, err := f.txs.Create(context.Background(), "user-1", domain.KindExpense, &domain.TransactionRequest{
			Valor: domain.NewAmountInput("10"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Date.Equal(now) {
			t.Errorf("date = %v, want %v", got.Date, now)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		f := newFixture(t, now)
		cases := []struct {
			name string
			req  domain.TransactionRequest
			want any
		}{
			{"non-numeric", domain.TransactionRequest{Valor: domain.NewAmountInput("abc")}, &domain.ErrInvalidAmount{}},
			{"negative", domain.TransactionRequest{Valor: domain.NewAmountInput("-5")}, &domain.ErrInvalidAmount{}},
			{"missing", domain.TransactionRequest{}, &domain.ErrInvalidAmount{}},
			{"bad date", domain.TransactionRequest{Valor: domain.NewAmountInput("5"), Data: "10/03/2024"}, &domain.ErrValidation{}},
			{"long description", domain.TransactionRequest{Valor: domain.NewAmountInput("5"), Descricao: strings.Repeat("a", 201)}, &domain.ErrValidation{}},
			{"long category", domain.TransactionRequest{Valor: domain.NewAmountInput("5"), Categoria: strings.Repeat("c", 61)}, &domain.ErrValidation{}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := f.txs.Create(context.Background(), "user-1", domain.KindSale, &tc.req)
				switch tc.want.(type) {
				case *domain.ErrInvalidAmount:
					var target *domain.ErrInvalidAmount
					if !errors.As(err, &target) {
						t.Fatalf("expected ErrInvalidAmount, got %v", err)
					}
				case *domain.ErrValidation:
					var target *domain.ErrValidation
					if !errors.As(err, &target) {
						t.Fatalf("expected ErrValidation, got %v", err)
					}
				}
			})
		}
		if len(f.store.created) != 0 {
			t.Errorf("invalid requests must not reach the store, got %d writes", len(f.store.created))
		}
	})

	t.Run("publishes newly triggered alerts", func(t *testing.T) {
		f := newFixture(t, now)
		f.store.goal = dec("1000")
		f.store.sales = []domain.Transaction{
			tx(domain.KindSale, "700", time.Date(2024, time.March, 5, 12, 0, 0, 0, f.loc)),
		}

		_, err := f.txs.Create(context.Background(), "user-1", domain.KindSale, &domain.TransactionRequest{
			Valor: domain.NewAmountInput("200"),
			Data:  "2024-03-10",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		codes := f.publisher.codes()
		if len(codes) != 1 || codes[0] != domain.AlertGoalNear {
			t.Fatalf("published %v, want [meta_80]", codes)
		}
		if snap := f.metrics.Snapshot(); snap.AlertsPublished != 1 {
			t.Errorf("alerts published = %d, want 1", snap.AlertsPublished)
		}
	})

	t.Run("publisher failure does not fail the write", func(t *testing.T) {
		f := newFixture(t, now)
		f.store.goal = dec("100")
		f.publisher.err = errors.New("broker down")

		if _, err := f.txs.Create(context.Background(), "user-1", domain.KindSale, &domain.TransactionRequest{
			Valor: domain.NewAmountInput("150"),
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.store.created) != 1 {
			t.Errorf("expected the write to be stored")
		}
	})

	t.Run("skips alerts when reads degrade", func(t *testing.T) {
		f := newFixture(t, now)
		f.store.goal = dec("100")
		f.store.expensesErr = errors.New("down")

		if _, err := f.txs.Create(context.Background(), "user-1", domain.KindSale, &domain.TransactionRequest{
			Valor: domain.NewAmountInput("150"),
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if codes := f.publisher.codes(); len(codes) != 0 {
			t.Errorf("published %v with unknown prior state", codes)
		}
	})
}

func TestTransactionService_NilPublisher(t *testing.T) {
	store := &mockStore{}
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	summaries := service.NewSummaryService(store, store, metrics, time.UTC, logger)
	txs := service.NewTransactionService(store, summaries, service.NewAlertNotifier(nil, metrics, logger), logger)

	if _, err := txs.Create(context.Background(), "user-1", domain.KindSale, &domain.TransactionRequest{
		Valor: domain.NewAmountInput("10"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTransactionService_List(t *testing.T) {
	f := newFixture(t, time.Now())
	f.store.expenses = []domain.Transaction{
		tx(domain.KindExpense, "10", time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)),
		tx(domain.KindExpense, "20", time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC)),
	}

	got, err := f.txs.List(context.Background(), "user-1", domain.KindExpense)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Total != 2 || len(got.Data) != 2 {
		t.Errorf("list = %+v", got)
	}
}

func TestGoalService_Set(t *testing.T) {
	now := time.Date(2024, time.March, 20, 15, 0, 0, 0, time.UTC)

	t.Run("invalid amount", func(t *testing.T) {
		f := newFixture(t, now)
		_, err := f.goals.Set(context.Background(), "user-1", &domain.GoalRequest{MetaFaturamento: domain.NewAmountInput("mil")})
		var target *domain.ErrInvalidAmount
		if !errors.As(err, &target) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("replaces goal and publishes meta_atingida", func(t *testing.T) {
		f := newFixture(t, now)
		f.store.sales = []domain.Transaction{
			tx(domain.KindSale, "1000", time.Date(2024, time.March, 5, 12, 0, 0, 0, f.loc)),
		}

		g, err := f.goals.Set(context.Background(), "user-1", &domain.GoalRequest{MetaFaturamento: domain.NewAmountInput("1000,00")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !g.Amount.Equal(dec("1000")) {
			t.Errorf("goal = %s", g.Amount)
		}
		codes := f.publisher.codes()
		if len(codes) != 1 || codes[0] != domain.AlertGoalReached {
			t.Errorf("published %v, want [meta_atingida]", codes)
		}
	})
}

func TestGoalService_Get(t *testing.T) {
	f := newFixture(t, time.Now())
	f.store.goal = dec("750")

	g, err := f.goals.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.Amount.Equal(dec("750")) {
		t.Errorf("goal = %s, want 750", g.Amount)
	}
}
