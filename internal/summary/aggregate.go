package summary

import (
	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"github.com/shopspring/decimal"
)

// Sum adds the amounts of records. Zero for an empty slice.
func Sum(records []domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

// Profit is Sum(sales) - Sum(expenses). It may be negative.
func Profit(sales, expenses []domain.Transaction) decimal.Decimal {
	return Sum(sales).Sub(Sum(expenses))
}

// Aggregate sums the period's records. sales and expenses may contain
// records from any period; only those inside p are counted.
func Aggregate(sales, expenses []domain.Transaction, goal decimal.Decimal, p domain.Period) domain.AggregateResult {
	s := Sum(FilterByPeriod(sales, p))
	e := Sum(FilterByPeriod(expenses, p))
	return domain.AggregateResult{
		Period:        p,
		TotalSales:    s,
		TotalExpenses: e,
		Profit:        s.Sub(e),
		GoalAmount:    goal,
	}
}
