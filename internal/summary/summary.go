package summary

import (
	"fmt"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"github.com/shopspring/decimal"
)

// ComputePeriodSummary aggregates one period and formats it for display.
func ComputePeriodSummary(sales, expenses []domain.Transaction, goal decimal.Decimal, p domain.Period) domain.PeriodSummary {
	agg := Aggregate(sales, expenses, goal, p)
	m := Metrics(agg)

	display := domain.SummaryDisplay{
		Period:        PeriodLabel(p),
		TotalSales:    FormatCurrency(agg.TotalSales),
		TotalExpenses: FormatCurrency(agg.TotalExpenses),
		Profit:        FormatCurrency(agg.Profit),
		Goal:          FormatCurrency(agg.GoalAmount),
		DailyAverage:  FormatCurrency(m.DailyAverage),
		GoalProgress: fmt.Sprintf("%s de %s (%d%% da meta)",
			FormatCurrency(agg.TotalSales), FormatCurrency(agg.GoalAmount), m.GoalPercent),
		ExpenseShare: fmt.Sprintf("%s (%d%% do faturamento)",
			FormatCurrency(agg.TotalExpenses), m.ExpenseRatio),
	}

	// rounded for presentation only
	m.DailyAverage = m.DailyAverage.Round(2)

	return domain.PeriodSummary{
		AggregateResult: agg,
		Metrics:         m,
		Display:         display,
	}
}
