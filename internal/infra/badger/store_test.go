package badger_test

import (
	"context"
	"testing"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/badger"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/storetest"
	"github.com/AnaBeatrizVictorio/colhecash/internal/port"

	"github.com/shopspring/decimal"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) port.Store {
		s, err := badger.OpenInMemory()
		if err != nil {
			t.Fatalf("open badger: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := badger.Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	amount := decimal.RequireFromString("1500.75")
	if _, err := s.SetGoal(ctx, "user-1", amount); err != nil {
		t.Fatalf("SetGoal: %v", err)
	}
	rec := &domain.UserRecord{User: domain.User{Nome: "Ana", Email: "Ana@Example.com"}, PasswordHash: "hash"}
	if err := s.CreateUser(ctx, rec); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = badger.Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	g, err := s.GetGoal(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if !g.Amount.Equal(amount) {
		t.Errorf("goal = %s, want %s", g.Amount, amount)
	}

	u, err := s.GetUserByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if u == nil || u.PasswordHash != "hash" {
		t.Errorf("password hash not persisted: %+v", u)
	}
}
