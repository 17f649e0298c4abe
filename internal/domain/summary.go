package domain

import "github.com/shopspring/decimal"

// ============================================================
// Period summary (Home / Controle Financeiro)
// ============================================================

// Classification labels a month's sales against the year's trailing average.
type Classification string

const (
	ClassificationLow    Classification = "Baixo"
	ClassificationMedium Classification = "Médio"
	ClassificationHigh   Classification = "Alto"
)

// AggregateResult holds the sums for one owner and one period.
// Request-scoped; recomputed on every query.
type AggregateResult struct {
	Period        Period          `json:"periodo"`
	TotalSales    decimal.Decimal `json:"totalVendas"`
	TotalExpenses decimal.Decimal `json:"totalDespesas"`
	Profit        decimal.Decimal `json:"lucro"`
	GoalAmount    decimal.Decimal `json:"metaFaturamento"`
}

// PeriodMetrics are the percentages derived from an AggregateResult.
// Percentages are clamped to [0, 100].
type PeriodMetrics struct {
	GoalPercent  int             `json:"porcentagemMeta"`
	ExpenseRatio int             `json:"porcentagemDespesas"`
	ProfitRatio  int             `json:"porcentagemLucro"`
	DailyAverage decimal.Decimal `json:"mediaDiaria"`
}

// SummaryDisplay carries the display-ready strings for a period.
type SummaryDisplay struct {
	Period        string `json:"periodo"`
	TotalSales    string `json:"totalVendas"`
	TotalExpenses string `json:"totalDespesas"`
	Profit        string `json:"lucro"`
	Goal          string `json:"meta"`
	DailyAverage  string `json:"mediaDiaria"`
	GoalProgress  string `json:"progressoMeta"`
	ExpenseShare  string `json:"participacaoDespesas"`
}

// PeriodSummary is returned by GET /v1/resumo.
type PeriodSummary struct {
	AggregateResult
	Metrics PeriodMetrics  `json:"metricas"`
	Display SummaryDisplay `json:"exibicao"`
	Notices []string       `json:"avisos,omitempty"`
}

// ============================================================
// Year series (Relatórios)
// ============================================================

// MonthlySeriesPoint is one month of the yearly trend chart.
type MonthlySeriesPoint struct {
	Period         Period          `json:"periodo"`
	Label          string          `json:"rotulo"`
	TotalSales     decimal.Decimal `json:"totalVendas"`
	TotalExpenses  decimal.Decimal `json:"totalDespesas"`
	Profit         decimal.Decimal `json:"lucro"`
	Classification Classification  `json:"classificacao"`
}

// YearReport is returned by GET /v1/relatorios.
type YearReport struct {
	Year            int                  `json:"ano"`
	Selected        Period               `json:"mesSelecionado"`
	Series          []MonthlySeriesPoint `json:"serie"`
	TrailingAverage decimal.Decimal      `json:"mediaAnual"`
	MonthProfit     decimal.Decimal      `json:"lucroMes"`
	DailyAverage    decimal.Decimal      `json:"mediaDiaria"`
	NoData          bool                 `json:"semDados"`
	Display         YearReportDisplay    `json:"exibicao"`
	Notices         []string             `json:"avisos,omitempty"`
}

// YearReportDisplay carries the display strings of a YearReport.
type YearReportDisplay struct {
	Selected        string `json:"mesSelecionado"`
	TrailingAverage string `json:"mediaAnual"`
	MonthProfit     string `json:"lucroMes"`
	DailyAverage    string `json:"mediaDiaria"`
}

// ============================================================
// Day-grouped transactions (Transações)
// ============================================================

// DayItem is one transaction as listed inside a day bucket.
type DayItem struct {
	ID          string          `json:"id"`
	Kind        TransactionKind `json:"tipo"`
	Description string          `json:"descricao"`
	Category    string          `json:"categoria"`
	Amount      decimal.Decimal `json:"valor"`
	AmountText  string          `json:"valorFormatado"`
	Time        string          `json:"data"`
}

// DayBucket groups the transactions of one calendar day.
type DayBucket struct {
	Date  string    `json:"dia"`
	Label string    `json:"rotulo"`
	Items []DayItem `json:"itens"`
}

// DayTransactions is returned by GET /v1/transacoes.
type DayTransactions struct {
	Period  Period      `json:"periodo"`
	Filter  KindFilter  `json:"tipo"`
	Days    []DayBucket `json:"dias"`
	Notices []string    `json:"avisos,omitempty"`
}

// MetricsSnapshot is returned by GET /v1/metrics/resumo.
type MetricsSnapshot struct {
	SummariesComputed int64   `json:"resumosCalculados"`
	FetchFailures     int64   `json:"falhasDeConsulta"`
	AlertsPublished   int64   `json:"alertasPublicados"`
	CacheHitRate      float64 `json:"taxaAcertoCache"`
}
