// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"github.com/shopspring/decimal"
)

// TransactionStore persists vendas and despesas.
type TransactionStore interface {
	// CreateTransaction assigns ID and CreatedAt and stores tx.
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error
	// ListTransactions returns every record of the owner and kind, newest first.
	ListTransactions(ctx context.Context, owner string, kind domain.TransactionKind) ([]domain.Transaction, error)
}

// GoalStore persists one revenue goal per owner.
type GoalStore interface {
	// GetGoal returns the owner's goal, creating a zero goal when none exists.
	GetGoal(ctx context.Context, owner string) (*domain.Goal, error)
	// SetGoal replaces the owner's goal unconditionally.
	SetGoal(ctx context.Context, owner string, amount decimal.Decimal) (*domain.Goal, error)
}

// UserStore persists accounts and their password hashes.
type UserStore interface {
	// CreateUser assigns ID and CreatedAt. Returns *domain.ErrConflict on a taken e-mail.
	CreateUser(ctx context.Context, u *domain.UserRecord) error
	// GetUserByEmail returns nil, nil when no user has the e-mail.
	GetUserByEmail(ctx context.Context, email string) (*domain.UserRecord, error)
	// GetUserByID returns *domain.ErrNotFound when absent.
	GetUserByID(ctx context.Context, id string) (*domain.UserRecord, error)
	UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) (*domain.UserRecord, error)
}

// Store is the full persistence surface a backend provides.
type Store interface {
	TransactionStore
	GoalStore
	UserStore
	Pinger
}

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AlertPublisher delivers alert events to subscribers.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, evt domain.AlertEvent) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
