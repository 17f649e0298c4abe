package summary_test

import (
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decs(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = dec(v)
	}
	return out
}

func sale(id, amount string, y int, m time.Month, d int) domain.Transaction {
	return domain.Transaction{
		ID:     id,
		Owner:  "user-1",
		Kind:   domain.KindSale,
		Amount: dec(amount),
		Date:   time.Date(y, m, d, 12, 0, 0, 0, time.UTC),
	}
}

func expense(id, amount string, y int, m time.Month, d int) domain.Transaction {
	t := sale(id, amount, y, m, d)
	t.Kind = domain.KindExpense
	return t
}
