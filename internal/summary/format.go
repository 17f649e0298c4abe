package summary

import (
	"fmt"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

var weekdayNames = [7]string{
	"domingo", "segunda-feira", "terça-feira", "quarta-feira",
	"quinta-feira", "sexta-feira", "sábado",
}

const defaultCategory = "Sem Categoria"

// FormatCurrency renders an amount as "R$ 1.234,56".
// Rounds to two places here and nowhere earlier.
func FormatCurrency(d decimal.Decimal) string {
	return printer.Sprintf("R$ %.2f", d.Round(2).InexactFloat64())
}

// MonthName returns the pt-BR month name, or "" for an invalid month.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// MonthInitial returns the chart label for a month: J, F, M, A, ...
func MonthInitial(month int) string {
	name := MonthName(month)
	if name == "" {
		return ""
	}
	return name[:1]
}

// PeriodLabel renders "Março 2024".
func PeriodLabel(p domain.Period) string {
	return fmt.Sprintf("%s %d", MonthName(p.Month), p.Year)
}

// DayLabel renders a day bucket header as "terça-feira, 05".
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%s, %02d", weekdayNames[t.Weekday()], t.Day())
}

// describe falls back to "Venda R$ x,xx" / "Despesa R$ x,xx".
func describe(t domain.Transaction) string {
	if t.Description != "" {
		return t.Description
	}
	if t.Kind == domain.KindExpense {
		return "Despesa " + FormatCurrency(t.Amount)
	}
	return "Venda " + FormatCurrency(t.Amount)
}

func categoryOf(t domain.Transaction) string {
	if t.Category != "" {
		return t.Category
	}
	return defaultCategory
}
