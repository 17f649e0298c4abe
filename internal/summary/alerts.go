package summary

import (
	"fmt"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	goalNearPercent    = 80
	salesDropThreshold = 30
)

// EvaluateAlerts derives the alerts of a period from its aggregate and the
// previous month's aggregate. isCurrent enables reminders that only make
// sense while the month is still open.
func EvaluateAlerts(cur, prev domain.AggregateResult, isCurrent bool) []domain.Alert {
	alerts := make([]domain.Alert, 0)

	if cur.GoalAmount.IsPositive() {
		pct := GoalPercentRaw(cur.TotalSales, cur.GoalAmount)
		switch {
		case pct >= 100:
			alerts = append(alerts, domain.Alert{
				Code:    domain.AlertGoalReached,
				Level:   domain.LevelSuccess,
				Title:   "Meta de faturamento alcançada!",
				Message: fmt.Sprintf("Você faturou %s de uma meta de %s.", FormatCurrency(cur.TotalSales), FormatCurrency(cur.GoalAmount)),
				Period:  cur.Period,
			})
		case pct >= goalNearPercent:
			alerts = append(alerts, domain.Alert{
				Code:    domain.AlertGoalNear,
				Level:   domain.LevelSuccess,
				Title:   "Meta quase lá",
				Message: fmt.Sprintf("Parabéns! Você atingiu %d%% da sua meta de vendas.", pct),
				Period:  cur.Period,
			})
		}
	}

	if prev.TotalSales.IsPositive() && cur.TotalSales.LessThan(prev.TotalSales) {
		drop := percentOf(prev.TotalSales.Sub(cur.TotalSales), prev.TotalSales)
		if drop.GreaterThanOrEqual(decimal.NewFromInt(salesDropThreshold)) {
			alerts = append(alerts, domain.Alert{
				Code:    domain.AlertSalesDrop,
				Level:   domain.LevelWarning,
				Title:   "Queda nas vendas",
				Message: fmt.Sprintf("Atenção! Suas vendas caíram %s%% em relação ao mês passado.", drop.String()),
				Period:  cur.Period,
			})
		}
	}

	if cur.TotalSales.IsPositive() && cur.Profit.IsNegative() {
		alerts = append(alerts, domain.Alert{
			Code:    domain.AlertLoss,
			Level:   domain.LevelWarning,
			Title:   "Despesas acima do faturamento",
			Message: fmt.Sprintf("Suas despesas superaram o faturamento em %s.", FormatCurrency(cur.Profit.Neg())),
			Period:  cur.Period,
		})
	}

	if isCurrent && cur.TotalSales.IsPositive() && cur.TotalExpenses.IsZero() {
		alerts = append(alerts, domain.Alert{
			Code:    domain.AlertExpenseReminder,
			Level:   domain.LevelInfo,
			Title:   "Lembrete: Registrar despesas",
			Message: "Você ainda não registrou despesas neste mês.",
			Period:  cur.Period,
		})
	}

	return alerts
}

// NewlyTriggered returns the alerts of after whose code is absent from before.
func NewlyTriggered(before, after []domain.Alert) []domain.Alert {
	seen := make(map[domain.AlertCode]bool, len(before))
	for _, a := range before {
		seen[a.Code] = true
	}
	out := make([]domain.Alert, 0)
	for _, a := range after {
		if !seen[a.Code] {
			out = append(out, a)
		}
	}
	return out
}
