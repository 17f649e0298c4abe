package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is the per-user monthly revenue target (metaFaturamento).
type Goal struct {
	Owner     string          `json:"usuario"`
	Amount    decimal.Decimal `json:"metaFaturamento"`
	UpdatedAt time.Time       `json:"atualizadoEm"`
}

// GoalRequest is the body for PUT /v1/configuracoes.
type GoalRequest struct {
	MetaFaturamento AmountInput `json:"metaFaturamento"`
}
