// Package memory is an in-process Store used by tests and local demos.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store keeps every collection in maps guarded by one mutex.
type Store struct {
	mu           sync.RWMutex
	users        map[string]domain.UserRecord
	emails       map[string]string // lowercase e-mail -> user id
	transactions map[string][]domain.Transaction
	goals        map[string]domain.Goal
	now          func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:        make(map[string]domain.UserRecord),
		emails:       make(map[string]string),
		transactions: make(map[string][]domain.Transaction),
		goals:        make(map[string]domain.Goal),
		now:          time.Now,
	}
}

func (s *Store) Ping(context.Context) error { return nil }

// --- Transactions ---

func (s *Store) CreateTransaction(_ context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = uuid.NewString()
	tx.CreatedAt = s.now()
	s.transactions[tx.Owner] = append(s.transactions[tx.Owner], *tx)
	return nil
}

func (s *Store) ListTransactions(_ context.Context, owner string, kind domain.TransactionKind) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Transaction, 0)
	for _, tx := range s.transactions[owner] {
		if tx.Kind == kind {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// --- Goals ---

func (s *Store) GetGoal(_ context.Context, owner string) (*domain.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[owner]
	if !ok {
		g = domain.Goal{Owner: owner, Amount: decimal.Zero, UpdatedAt: s.now()}
		s.goals[owner] = g
	}
	return &g, nil
}

func (s *Store) SetGoal(_ context.Context, owner string, amount decimal.Decimal) (*domain.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := domain.Goal{Owner: owner, Amount: amount, UpdatedAt: s.now()}
	s.goals[owner] = g
	return &g, nil
}

// --- Users ---

func (s *Store) CreateUser(_ context.Context, u *domain.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, taken := s.emails[email]; taken {
		return &domain.ErrConflict{Message: "E-mail já cadastrado"}
	}
	u.ID = uuid.NewString()
	u.Email = email
	u.CreatedAt = s.now()
	s.users[u.ID] = *u
	s.emails[email] = u.ID
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	u := s.users[id]
	return &u, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "user", ID: id}
	}
	return &u, nil
}

func (s *Store) UpdateUser(_ context.Context, id string, upd domain.UserUpdate) (*domain.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "user", ID: id}
	}
	domain.ApplyUserUpdate(&u, upd)
	s.users[id] = u
	return &u, nil
}
