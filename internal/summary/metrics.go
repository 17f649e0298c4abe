package summary

import (
	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	ten     = decimal.NewFromInt(10)
)

// percentOf returns round(part/whole*100), or 0 when whole is not positive.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(0)
}

// clampPercent caps a rounded percentage to [0, 100].
func clampPercent(d decimal.Decimal) int {
	if d.IsNegative() {
		return 0
	}
	if d.GreaterThan(hundred) {
		return 100
	}
	return int(d.IntPart())
}

// GoalPercent is the share of the goal reached by totalSales, capped at 100.
func GoalPercent(totalSales, goal decimal.Decimal) int {
	return clampPercent(percentOf(totalSales, goal))
}

// GoalPercentRaw is GoalPercent without the upper cap.
func GoalPercentRaw(totalSales, goal decimal.Decimal) int64 {
	p := percentOf(totalSales, goal)
	if p.IsNegative() {
		return 0
	}
	return p.IntPart()
}

// ExpenseRatio is totalExpenses as a share of totalSales, clamped to [0, 100].
func ExpenseRatio(totalSales, totalExpenses decimal.Decimal) int {
	return clampPercent(percentOf(totalExpenses, totalSales))
}

// ProfitRatio is profit as a share of totalSales, clamped to [0, 100].
// A loss month therefore reports 0.
func ProfitRatio(totalSales, profit decimal.Decimal) int {
	return clampPercent(percentOf(profit, totalSales))
}

// Classify compares a month's sales to the trailing average. Within 10%
// (inclusive) the month is Medium; otherwise High above the average and Low below.
func Classify(monthTotal, trailingAverage decimal.Decimal) domain.Classification {
	diff := monthTotal.Sub(trailingAverage).Abs()
	pct := decimal.Zero
	if trailingAverage.IsPositive() {
		pct = diff.Mul(hundred).Div(trailingAverage)
	}
	if pct.LessThanOrEqual(ten) {
		return domain.ClassificationMedium
	}
	if monthTotal.GreaterThan(trailingAverage) {
		return domain.ClassificationHigh
	}
	return domain.ClassificationLow
}

// TrailingAverage is the mean of the nonzero monthly totals. Zero months are
// left out of the mean, not counted as zero.
func TrailingAverage(monthTotals []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	n := int64(0)
	for _, t := range monthTotals {
		if t.IsZero() {
			continue
		}
		sum = sum.Add(t)
		n++
	}
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(n))
}

// DailyAverage divides totalSales by the real number of days in the period.
func DailyAverage(totalSales decimal.Decimal, p domain.Period) decimal.Decimal {
	days := p.Days()
	if days <= 0 {
		return decimal.Zero
	}
	return totalSales.Div(decimal.NewFromInt(int64(days)))
}

// Metrics derives the percentages and the daily average of an aggregate.
func Metrics(agg domain.AggregateResult) domain.PeriodMetrics {
	return domain.PeriodMetrics{
		GoalPercent:  GoalPercent(agg.TotalSales, agg.GoalAmount),
		ExpenseRatio: ExpenseRatio(agg.TotalSales, agg.TotalExpenses),
		ProfitRatio:  ProfitRatio(agg.TotalSales, agg.Profit),
		DailyAverage: DailyAverage(agg.TotalSales, agg.Period),
	}
}
