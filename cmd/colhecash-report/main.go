// Command colhecash-report logs in to a running ColheCash API and prints the
// summary of one month and the twelve-month series of its year.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/config"
	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/client"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/observability"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/resilience"
	"github.com/AnaBeatrizVictorio/colhecash/internal/summary"

	"go.uber.org/zap"
)

func main() {
	_ = config.LoadDotEnv(".env")

	now := time.Now()
	var (
		baseURL = flag.String("url", envOr("COLHECASH_API_URL", "http://localhost:8080"), "API base URL")
		email   = flag.String("email", os.Getenv("COLHECASH_EMAIL"), "login e-mail")
		senha   = flag.String("senha", os.Getenv("COLHECASH_SENHA"), "login password")
		mes     = flag.Int("mes", int(now.Month()), "month (1-12)")
		ano     = flag.Int("ano", now.Year(), "year")
		timeout = flag.Duration("timeout", 10*time.Second, "HTTP timeout")
		level   = flag.String("log-level", "warn", "log level")
	)
	flag.Parse()

	logger := observability.NewLogger(*level, "")
	defer logger.Sync()

	p := domain.Period{Month: *mes, Year: *ano}
	if err := p.Validate(); err != nil {
		logger.Fatal("invalid period", zap.Error(err))
	}
	if *email == "" || *senha == "" {
		logger.Fatal("e-mail and password are required (-email/-senha or COLHECASH_EMAIL/COLHECASH_SENHA)")
	}

	guard := resilience.NewGuard("colhecash-api", resilience.Config{
		MaxRetries:     2,
		InitialBackoff: 200 * time.Millisecond,
		MaxConcurrency: 2,
	})
	api := client.NewAPIClient(&http.Client{Timeout: *timeout}, *baseURL, guard)

	ctx, cancel := context.WithTimeout(context.Background(), 3*(*timeout))
	defer cancel()

	if _, err := api.Login(ctx, *email, *senha); err != nil {
		logger.Fatal("login failed", zap.Error(err))
	}

	dash := client.NewDashboard(api, p, logger)
	if _, err := dash.Refresh(ctx); err != nil {
		logger.Fatal("failed to fetch summary", zap.Error(err))
	}
	report, err := api.GetYearReport(ctx, p)
	if err != nil {
		logger.Fatal("failed to fetch year report", zap.Error(err))
	}

	printSummary(os.Stdout, dash.Current())
	printReport(os.Stdout, report)
}

func printSummary(w io.Writer, s *domain.PeriodSummary) {
	fmt.Fprintf(w, "%s\n\n", s.Display.Period)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Vendas\t%s\n", s.Display.TotalSales)
	fmt.Fprintf(tw, "Despesas\t%s\n", s.Display.TotalExpenses)
	fmt.Fprintf(tw, "Lucro\t%s\n", s.Display.Profit)
	fmt.Fprintf(tw, "Meta\t%s (%s)\n", s.Display.Goal, s.Display.GoalProgress)
	fmt.Fprintf(tw, "Média diária\t%s\n", s.Display.DailyAverage)
	tw.Flush()
	for _, n := range s.Notices {
		fmt.Fprintf(w, "aviso: %s\n", n)
	}
}

func printReport(w io.Writer, r *domain.YearReport) {
	fmt.Fprintf(w, "\nAno %d\n", r.Year)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Mês\tVendas\tDespesas\tLucro\tClassificação\t")
	for _, pt := range r.Series {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			summary.MonthName(pt.Period.Month),
			summary.FormatCurrency(pt.TotalSales),
			summary.FormatCurrency(pt.TotalExpenses),
			summary.FormatCurrency(pt.Profit),
			pt.Classification,
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "Média anual: %s\n", r.Display.TrailingAverage)
	for _, n := range r.Notices {
		fmt.Fprintf(w, "aviso: %s\n", n)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
