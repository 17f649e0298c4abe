package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Transactions — vendas and despesas
// ============================================================

// TransactionKind tags a record as a sale or an expense.
type TransactionKind string

const (
	KindSale    TransactionKind = "venda"
	KindExpense TransactionKind = "despesa"
)

// Valid reports whether k is a known kind.
func (k TransactionKind) Valid() bool {
	return k == KindSale || k == KindExpense
}

// Transaction is a dated monetary record owned by exactly one user.
// A zero Date marks a legacy record without a usable date.
type Transaction struct {
	ID          string          `json:"id"`
	Owner       string          `json:"usuario"`
	Kind        TransactionKind `json:"tipo"`
	Amount      decimal.Decimal `json:"valor"`
	Date        time.Time       `json:"data"`
	Description string          `json:"descricao,omitempty"`
	Category    string          `json:"categoria,omitempty"`
	CreatedAt   time.Time       `json:"criadoEm"`
}

// TransactionRequest is the body for POST /v1/vendas and POST /v1/despesas.
// Data accepts RFC 3339 or YYYY-MM-DD; empty means now.
type TransactionRequest struct {
	Valor     AmountInput `json:"valor"`
	Data      string      `json:"data,omitempty"`
	Descricao string      `json:"descricao,omitempty"`
	Categoria string      `json:"categoria,omitempty"`
}

// TransactionList is returned by GET /v1/vendas and GET /v1/despesas.
type TransactionList struct {
	Data  []Transaction `json:"data"`
	Total int           `json:"total"`
}

// KindFilter selects which kinds the day-grouped listing includes.
type KindFilter string

const (
	FilterSales    KindFilter = "receitas"
	FilterExpenses KindFilter = "despesas"
	FilterAll      KindFilter = "todas"
)

// ParseKindFilter maps the tipo query parameter; empty means all kinds.
func ParseKindFilter(s string) (KindFilter, error) {
	switch KindFilter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterSales, FilterExpenses:
		return KindFilter(s), nil
	}
	return "", &ErrValidation{Field: "tipo", Message: "Tipo deve ser receitas, despesas ou todas"}
}
