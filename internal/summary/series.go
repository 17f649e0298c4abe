package summary

import (
	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"github.com/shopspring/decimal"
)

// ComputeYearSeries returns twelve points, January first. Months without
// sales are Low; the others are classified against the trailing average of
// the year's nonzero months.
func ComputeYearSeries(sales, expenses []domain.Transaction, year int) []domain.MonthlySeriesPoint {
	sales = FilterByYear(sales, year)
	expenses = FilterByYear(expenses, year)

	points := make([]domain.MonthlySeriesPoint, 12)
	salesTotals := make([]decimal.Decimal, 12)
	for i := range points {
		p := domain.Period{Month: i + 1, Year: year}
		agg := Aggregate(sales, expenses, decimal.Zero, p)
		salesTotals[i] = agg.TotalSales
		points[i] = domain.MonthlySeriesPoint{
			Period:        p,
			Label:         MonthInitial(p.Month),
			TotalSales:    agg.TotalSales,
			TotalExpenses: agg.TotalExpenses,
			Profit:        agg.Profit,
		}
	}

	avg := TrailingAverage(salesTotals)
	for i := range points {
		if salesTotals[i].IsZero() {
			points[i].Classification = domain.ClassificationLow
			continue
		}
		points[i].Classification = Classify(salesTotals[i], avg)
	}
	return points
}

// BuildYearReport computes the series of the selected period's year and the
// selected month's profit and daily average.
func BuildYearReport(sales, expenses []domain.Transaction, selected domain.Period) domain.YearReport {
	series := ComputeYearSeries(sales, expenses, selected.Year)

	totals := make([]decimal.Decimal, len(series))
	for i, pt := range series {
		totals[i] = pt.TotalSales
	}
	avg := TrailingAverage(totals)

	month := series[selected.Month-1]
	daily := DailyAverage(month.TotalSales, selected)
	noData := len(FilterByPeriod(sales, selected)) == 0 && len(FilterByPeriod(expenses, selected)) == 0

	return domain.YearReport{
		Year:            selected.Year,
		Selected:        selected,
		Series:          series,
		TrailingAverage: avg.Round(2),
		MonthProfit:     month.Profit,
		DailyAverage:    daily.Round(2),
		NoData:          noData,
		Display: domain.YearReportDisplay{
			Selected:        PeriodLabel(selected),
			TrailingAverage: FormatCurrency(avg),
			MonthProfit:     FormatCurrency(month.Profit),
			DailyAverage:    FormatCurrency(daily),
		},
	}
}
