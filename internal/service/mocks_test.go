package service_test

import (
	"context"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/observability"
	"github.com/AnaBeatrizVictorio/colhecash/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- Mocks ---

// mockStore serves canned transactions and goals; errors replace the reply.
type mockStore struct {
	mu          sync.Mutex
	sales       []domain.Transaction
	expenses    []domain.Transaction
	goal        decimal.Decimal
	salesErr    error
	expensesErr error
	goalErr     error
	created     []domain.Transaction
}

func (m *mockStore) CreateTransaction(_ context.Context, tx *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx.ID = "tx-new"
	m.created = append(m.created, *tx)
	if tx.Kind == domain.KindSale {
		m.sales = append(m.sales, *tx)
	} else {
		m.expenses = append(m.expenses, *tx)
	}
	return nil
}

func (m *mockStore) ListTransactions(_ context.Context, _ string, kind domain.TransactionKind) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if kind == domain.KindSale {
		return append([]domain.Transaction(nil), m.sales...), m.salesErr
	}
	return append([]domain.Transaction(nil), m.expenses...), m.expensesErr
}

func (m *mockStore) GetGoal(_ context.Context, owner string) (*domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.goalErr != nil {
		return nil, m.goalErr
	}
	return &domain.Goal{Owner: owner, Amount: m.goal}, nil
}

func (m *mockStore) SetGoal(_ context.Context, owner string, amount decimal.Decimal) (*domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goal = amount
	return &domain.Goal{Owner: owner, Amount: amount}, nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.AlertEvent
	err    error
}

func (m *mockPublisher) PublishAlert(_ context.Context, evt domain.AlertEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, evt)
	return nil
}

func (m *mockPublisher) codes() []domain.AlertCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AlertCode, len(m.events))
	for i, e := range m.events {
		out[i] = e.Alert.Code
	}
	return out
}

// --- Helpers ---

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(kind domain.TransactionKind, amount string, date time.Time) domain.Transaction {
	return domain.Transaction{Owner: "user-1", Kind: kind, Amount: dec(amount), Date: date}
}

// fixture wires the services over one mockStore with a fixed clock.
type fixture struct {
	store     *mockStore
	publisher *mockPublisher
	metrics   *observability.Metrics
	summaries *service.SummaryService
	txs       *service.TransactionService
	goals     *service.GoalService
	loc       *time.Location
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	loc := saoPaulo(t)
	f := &fixture{
		store:     &mockStore{goal: decimal.Zero},
		publisher: &mockPublisher{},
		metrics:   observability.NewMetrics(),
		loc:       loc,
	}
	logger := zap.NewNop()
	f.summaries = service.NewSummaryService(f.store, f.store, f.metrics, loc, logger).WithClock(func() time.Time { return now })
	notifier := service.NewAlertNotifier(f.publisher, f.metrics, logger)
	f.txs = service.NewTransactionService(f.store, f.summaries, notifier, logger)
	f.goals = service.NewGoalService(f.store, f.summaries, notifier, logger)
	return f
}
