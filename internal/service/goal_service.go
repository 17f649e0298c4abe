package service

import (
	"context"
	"fmt"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/port"
	"github.com/AnaBeatrizVictorio/colhecash/internal/summary"

	"go.uber.org/zap"
)

// GoalService reads and replaces the monthly revenue goal.
type GoalService struct {
	store     port.GoalStore
	summaries *SummaryService
	notifier  *AlertNotifier
	logger    *zap.Logger
}

func NewGoalService(store port.GoalStore, summaries *SummaryService, notifier *AlertNotifier, logger *zap.Logger) *GoalService {
	return &GoalService{store: store, summaries: summaries, notifier: notifier, logger: logger}
}

// Get returns the goal, creating a zero goal on first read.
func (s *GoalService) Get(ctx context.Context, owner string) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "GoalService.Get")
	defer span.End()

	g, err := s.store.GetGoal(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

// Set replaces the goal. Last writer wins.
func (s *GoalService) Set(ctx context.Context, owner string, req *domain.GoalRequest) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "GoalService.Set")
	defer span.End()

	amount, err := req.MetaFaturamento.Parse("metaFaturamento")
	if err != nil {
		return nil, err
	}

	p := s.summaries.CurrentPeriod()
	var (
		ds     *dataset
		before []domain.Alert
	)
	if s.notifier.enabled() {
		ds, before = s.summaries.capture(ctx, owner, p)
	}

	g, err := s.store.SetGoal(ctx, owner, amount)
	if err != nil {
		return nil, fmt.Errorf("set goal: %w", err)
	}

	s.logger.Info("goal updated", zap.String("user_id", owner), zap.String("amount", amount.String()))

	if ds != nil {
		ds.goal = g.Amount
		s.notifier.Publish(ctx, owner, summary.NewlyTriggered(before, s.summaries.alertsFor(ds, p)))
	}
	return g, nil
}
