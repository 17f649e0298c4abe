// Package storetest holds the behaviour every port.Store backend must share.
// Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/port"

	"github.com/shopspring/decimal"
)

// Run exercises newStore with the shared contract. newStore must return an
// empty store and register its own cleanup.
func Run(t *testing.T, newStore func(t *testing.T) port.Store) {
	t.Run("transactions", func(t *testing.T) { testTransactions(t, newStore(t)) })
	t.Run("missing date", func(t *testing.T) { testMissingDate(t, newStore(t)) })
	t.Run("goals", func(t *testing.T) { testGoals(t, newStore(t)) })
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("ping", func(t *testing.T) {
		if err := newStore(t).Ping(context.Background()); err != nil {
			t.Fatalf("ping: %v", err)
		}
	})
}

func mustCreate(t *testing.T, s port.Store, owner string, kind domain.TransactionKind, amount string, date time.Time) domain.Transaction {
	t.Helper()
	tx := &domain.Transaction{
		Owner:  owner,
		Kind:   kind,
		Amount: decimal.RequireFromString(amount),
		Date:   date,
	}
	if err := s.CreateTransaction(context.Background(), tx); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if tx.ID == "" {
		t.Fatal("expected store to assign an ID")
	}
	return *tx
}

func testTransactions(t *testing.T, s port.Store) {
	ctx := context.Background()
	d1 := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC)

	first := mustCreate(t, s, "owner-a", domain.KindSale, "0.1", d1)
	second := mustCreate(t, s, "owner-a", domain.KindSale, "0.2", d2)
	mustCreate(t, s, "owner-a", domain.KindExpense, "40", d1)
	mustCreate(t, s, "owner-b", domain.KindSale, "999", d1)

	sales, err := s.ListTransactions(ctx, "owner-a", domain.KindSale)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(sales))
	}
	if sales[0].ID != second.ID || sales[1].ID != first.ID {
		t.Errorf("expected newest first")
	}
	total := sales[0].Amount.Add(sales[1].Amount)
	if !total.Equal(decimal.RequireFromString("0.3")) {
		t.Errorf("expected exact 0.3, got %s", total)
	}
	if !sales[0].Date.Equal(d2) {
		t.Errorf("date not preserved: %s", sales[0].Date)
	}
	if sales[0].Owner != "owner-a" || sales[0].Kind != domain.KindSale {
		t.Errorf("unexpected owner/kind %s/%s", sales[0].Owner, sales[0].Kind)
	}

	expenses, err := s.ListTransactions(ctx, "owner-a", domain.KindExpense)
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(expenses))
	}

	none, err := s.ListTransactions(ctx, "owner-c", domain.KindSale)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no records for unknown owner, got %d", len(none))
	}
}

func testMissingDate(t *testing.T, s port.Store) {
	mustCreate(t, s, "owner-a", domain.KindSale, "10", time.Time{})

	sales, err := s.ListTransactions(context.Background(), "owner-a", domain.KindSale)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sales) != 1 || !sales[0].Date.IsZero() {
		t.Fatalf("expected one undated record, got %+v", sales)
	}
}

func testGoals(t *testing.T, s port.Store) {
	ctx := context.Background()

	g, err := s.GetGoal(ctx, "owner-a")
	if err != nil {
		t.Fatalf("get absent goal: %v", err)
	}
	if !g.Amount.IsZero() {
		t.Errorf("expected zero default goal, got %s", g.Amount)
	}

	if _, err := s.SetGoal(ctx, "owner-a", decimal.RequireFromString("1500.50")); err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if _, err := s.SetGoal(ctx, "owner-a", decimal.RequireFromString("2000")); err != nil {
		t.Fatalf("replace goal: %v", err)
	}

	g, err = s.GetGoal(ctx, "owner-a")
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if !g.Amount.Equal(decimal.RequireFromString("2000")) {
		t.Errorf("expected 2000, got %s", g.Amount)
	}

	other, err := s.GetGoal(ctx, "owner-b")
	if err != nil {
		t.Fatalf("get other goal: %v", err)
	}
	if !other.Amount.IsZero() {
		t.Errorf("goals must not leak across owners, got %s", other.Amount)
	}
}

func testUsers(t *testing.T, s port.Store) {
	ctx := context.Background()

	u := &domain.UserRecord{
		User:         domain.User{Nome: "Ana", Email: "Ana@Feira.com", Telefone: "11999990000"},
		PasswordHash: "hash-1",
	}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected user ID")
	}

	dup := &domain.UserRecord{User: domain.User{Nome: "Outra", Email: "ana@feira.com"}, PasswordHash: "x"}
	var conflict *domain.ErrConflict
	if err := s.CreateUser(ctx, dup); !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflict for duplicate e-mail, got %v", err)
	}

	byEmail, err := s.GetUserByEmail(ctx, "ANA@feira.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != u.ID || byEmail.PasswordHash != "hash-1" {
		t.Fatalf("unexpected user by email: %+v", byEmail)
	}

	missing, err := s.GetUserByEmail(ctx, "nobody@feira.com")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for unknown e-mail, got %+v, %v", missing, err)
	}

	var notFound *domain.ErrNotFound
	if _, err := s.GetUserByID(ctx, "does-not-exist"); !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	nome := "Ana Beatriz"
	hash := "hash-2"
	updated, err := s.UpdateUser(ctx, u.ID, domain.UserUpdate{Nome: &nome, PasswordHash: &hash})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.Nome != nome || updated.Telefone != "11999990000" {
		t.Errorf("unexpected update result: %+v", updated)
	}

	byID, err := s.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.PasswordHash != "hash-2" || byID.Email != "ana@feira.com" {
		t.Errorf("unexpected stored user: %+v", byID)
	}
}
