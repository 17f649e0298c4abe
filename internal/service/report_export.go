package service

import (
	"context"
	"fmt"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/summary"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const currencyFormat = `"R$" #,##0.00`

var exportHeaders = []string{"Mês", "Vendas", "Despesas", "Lucro", "Classificação"}

// ExportSheetName names the single sheet of a yearly export.
func ExportSheetName(year int) string {
	return fmt.Sprintf("Resumo %d", year)
}

// ============================================================
// ExportYear — GET /v1/relatorios/export
// ============================================================

// ExportYear renders the twelve-month series of year as an XLSX workbook.
// Degraded reads are listed below the totals.
func (s *SummaryService) ExportYear(ctx context.Context, owner string, year int) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "SummaryService.ExportYear")
	defer span.End()

	if err := (domain.Period{Month: 1, Year: year}).Validate(); err != nil {
		return nil, err
	}

	ds, err := s.load(ctx, owner, loadSpec{sales: true, expenses: true})
	if err != nil {
		return nil, err
	}
	series := summary.ComputeYearSeries(ds.sales, ds.expenses, year)

	f := excelize.NewFile()
	defer f.Close()

	sheet := ExportSheetName(year)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2E7D32"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	numFmt := currencyFormat
	moneyStyle, _ := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	totalStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &numFmt})

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "E1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "D", 16)
	f.SetColWidth(sheet, "E", "E", 16)

	totalSales, totalExpenses, totalProfit := decimal.Zero, decimal.Zero, decimal.Zero
	for i, pt := range series {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), summary.MonthName(pt.Period.Month))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), pt.TotalSales.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), pt.TotalExpenses.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), pt.Profit.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), string(pt.Classification))
		f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("D%d", row), moneyStyle)

		totalSales = totalSales.Add(pt.TotalSales)
		totalExpenses = totalExpenses.Add(pt.TotalExpenses)
		totalProfit = totalProfit.Add(pt.Profit)
	}

	totalRow := len(series) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", totalRow), totalSales.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("C%d", totalRow), totalExpenses.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("D%d", totalRow), totalProfit.InexactFloat64())
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("D%d", totalRow), totalStyle)

	for i, notice := range ds.notices {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow+2+i), notice)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.metrics.IncrSummary("exportacao")
	return buf.Bytes(), nil
}
