package service

import (
	"context"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/observability"
	"github.com/AnaBeatrizVictorio/colhecash/internal/port"
	"github.com/AnaBeatrizVictorio/colhecash/internal/summary"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/summary")

// Notices shown when a store read fails and the view falls back to zero.
const (
	noticeSales    = "Não foi possível carregar as vendas. Os valores exibidos podem estar incompletos."
	noticeExpenses = "Não foi possível carregar as despesas. Os valores exibidos podem estar incompletos."
	noticeGoal     = "Não foi possível carregar a meta de faturamento."
)

// SummaryService computes every derived view from freshly fetched records.
type SummaryService struct {
	transactions port.TransactionStore
	goals        port.GoalStore
	metrics      *observability.Metrics
	loc          *time.Location
	now          func() time.Time
	logger       *zap.Logger
}

// NewSummaryService creates the service. Dates are bucketed in loc.
func NewSummaryService(transactions port.TransactionStore, goals port.GoalStore, metrics *observability.Metrics, loc *time.Location, logger *zap.Logger) *SummaryService {
	if loc == nil {
		loc = time.Local
	}
	return &SummaryService{
		transactions: transactions,
		goals:        goals,
		metrics:      metrics,
		loc:          loc,
		now:          time.Now,
		logger:       logger,
	}
}

// WithClock replaces the clock used to resolve the current period.
func (s *SummaryService) WithClock(now func() time.Time) *SummaryService {
	s.now = now
	return s
}

// CurrentPeriod is the month containing now in the configured zone.
func (s *SummaryService) CurrentPeriod() domain.Period {
	return domain.PeriodOf(s.now().In(s.loc))
}

// dataset is one owner's records as fetched for a single computation.
type dataset struct {
	sales    []domain.Transaction
	expenses []domain.Transaction
	goal     decimal.Decimal
	notices  []string
}

// degraded reports whether any read fell back to empty data.
func (d *dataset) degraded() bool { return len(d.notices) > 0 }

func (d *dataset) add(tx domain.Transaction) {
	switch tx.Kind {
	case domain.KindSale:
		d.sales = append(d.sales, tx)
	case domain.KindExpense:
		d.expenses = append(d.expenses, tx)
	}
}

type loadSpec struct {
	sales, expenses, goal bool
}

var loadAll = loadSpec{sales: true, expenses: true, goal: true}

// load fetches the requested collections concurrently. A failed read is
// logged, counted and replaced by empty data plus a notice; only context
// cancellation is returned as an error.
func (s *SummaryService) load(ctx context.Context, owner string, spec loadSpec) (*dataset, error) {
	ctx, span := tracer.Start(ctx, "SummaryService.load")
	defer span.End()

	var (
		ds                    dataset
		salesErr, expensesErr error
		goalErr               error
	)
	ds.goal = decimal.Zero

	g, gCtx := errgroup.WithContext(ctx)
	if spec.sales {
		g.Go(func() error {
			ds.sales, salesErr = s.transactions.ListTransactions(gCtx, owner, domain.KindSale)
			return nil
		})
	}
	if spec.expenses {
		g.Go(func() error {
			ds.expenses, expensesErr = s.transactions.ListTransactions(gCtx, owner, domain.KindExpense)
			return nil
		})
	}
	if spec.goal {
		g.Go(func() error {
			goal, err := s.goals.GetGoal(gCtx, owner)
			if err != nil {
				goalErr = err
				return nil
			}
			ds.goal = goal.Amount
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if salesErr != nil {
		s.fetchFailed(owner, "vendas", salesErr)
		ds.sales = nil
		ds.notices = append(ds.notices, noticeSales)
	}
	if expensesErr != nil {
		s.fetchFailed(owner, "despesas", expensesErr)
		ds.expenses = nil
		ds.notices = append(ds.notices, noticeExpenses)
	}
	if goalErr != nil {
		s.fetchFailed(owner, "meta", goalErr)
		ds.goal = decimal.Zero
		ds.notices = append(ds.notices, noticeGoal)
	}

	ds.sales = summary.InLocation(ds.sales, s.loc)
	ds.expenses = summary.InLocation(ds.expenses, s.loc)
	return &ds, nil
}

func (s *SummaryService) fetchFailed(owner, source string, err error) {
	s.logger.Error("fetch failed, degrading to empty data",
		zap.String("user_id", owner),
		zap.String("source", source),
		zap.Error(err),
	)
	s.metrics.IncrFetchFailure(source)
}

// alertsFor evaluates the alerts of p against the previous month.
func (s *SummaryService) alertsFor(ds *dataset, p domain.Period) []domain.Alert {
	cur := summary.Aggregate(ds.sales, ds.expenses, ds.goal, p)
	prev := summary.Aggregate(ds.sales, ds.expenses, ds.goal, p.Prev())
	return summary.EvaluateAlerts(cur, prev, p == s.CurrentPeriod())
}

// capture returns the dataset and alerts of p ahead of a write, or nil when
// a read degraded and the prior state is unknown.
func (s *SummaryService) capture(ctx context.Context, owner string, p domain.Period) (*dataset, []domain.Alert) {
	ds, err := s.load(ctx, owner, loadAll)
	if err != nil || ds.degraded() {
		return nil, nil
	}
	return ds, s.alertsFor(ds, p)
}

// ============================================================
// PeriodSummary — GET /v1/resumo
// ============================================================

func (s *SummaryService) PeriodSummary(ctx context.Context, owner string, p domain.Period) (*domain.PeriodSummary, error) {
	ctx, span := tracer.Start(ctx, "SummaryService.PeriodSummary")
	defer span.End()
	span.SetAttributes(attribute.String("period", p.Key()))

	if err := p.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("summary.period", time.Since(start)) }()

	ds, err := s.load(ctx, owner, loadAll)
	if err != nil {
		return nil, err
	}

	out := summary.ComputePeriodSummary(ds.sales, ds.expenses, ds.goal, p)
	out.Notices = ds.notices
	s.metrics.IncrSummary("resumo")
	return &out, nil
}

// ============================================================
// YearReport — GET /v1/relatorios
// ============================================================

func (s *SummaryService) YearReport(ctx context.Context, owner string, selected domain.Period) (*domain.YearReport, error) {
	ctx, span := tracer.Start(ctx, "SummaryService.YearReport")
	defer span.End()
	span.SetAttributes(attribute.String("period", selected.Key()))

	if err := selected.Validate(); err != nil {
		return nil, err
	}

	ds, err := s.load(ctx, owner, loadSpec{sales: true, expenses: true})
	if err != nil {
		return nil, err
	}

	out := summary.BuildYearReport(ds.sales, ds.expenses, selected)
	out.Notices = ds.notices
	s.metrics.IncrSummary("relatorio")
	return &out, nil
}

// ============================================================
// DayTransactions — GET /v1/transacoes
// ============================================================

func (s *SummaryService) DayTransactions(ctx context.Context, owner string, p domain.Period, filter domain.KindFilter) (*domain.DayTransactions, error) {
	ctx, span := tracer.Start(ctx, "SummaryService.DayTransactions")
	defer span.End()
	span.SetAttributes(attribute.String("period", p.Key()), attribute.String("filter", string(filter)))

	if err := p.Validate(); err != nil {
		return nil, err
	}

	spec := loadSpec{
		sales:    filter == domain.FilterAll || filter == domain.FilterSales,
		expenses: filter == domain.FilterAll || filter == domain.FilterExpenses,
	}
	ds, err := s.load(ctx, owner, spec)
	if err != nil {
		return nil, err
	}

	records := append(summary.FilterByPeriod(ds.sales, p), summary.FilterByPeriod(ds.expenses, p)...)
	s.metrics.IncrSummary("transacoes")
	return &domain.DayTransactions{
		Period:  p,
		Filter:  filter,
		Days:    summary.GroupByDay(records),
		Notices: ds.notices,
	}, nil
}

// ============================================================
// Alerts — GET /v1/alertas
// ============================================================

func (s *SummaryService) Alerts(ctx context.Context, owner string, p domain.Period) (*domain.AlertList, error) {
	ctx, span := tracer.Start(ctx, "SummaryService.Alerts")
	defer span.End()

	if err := p.Validate(); err != nil {
		return nil, err
	}

	ds, err := s.load(ctx, owner, loadAll)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrSummary("alertas")
	return &domain.AlertList{
		Period:  p,
		Alerts:  s.alertsFor(ds, p),
		Notices: ds.notices,
	}, nil
}
