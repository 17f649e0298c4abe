package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/port"
	"github.com/AnaBeatrizVictorio/colhecash/internal/summary"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	maxDescriptionLen = 200
	maxCategoryLen    = 60
)

// TransactionService records vendas and despesas.
type TransactionService struct {
	store     port.TransactionStore
	summaries *SummaryService
	notifier  *AlertNotifier
	logger    *zap.Logger
}

func NewTransactionService(store port.TransactionStore, summaries *SummaryService, notifier *AlertNotifier, logger *zap.Logger) *TransactionService {
	return &TransactionService{store: store, summaries: summaries, notifier: notifier, logger: logger}
}

// ============================================================
// Create — POST /v1/vendas, POST /v1/despesas
// ============================================================

func (s *TransactionService) Create(ctx context.Context, owner string, kind domain.TransactionKind, req *domain.TransactionRequest) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "TransactionService.Create")
	defer span.End()
	span.SetAttributes(attribute.String("kind", string(kind)))

	if !kind.Valid() {
		return nil, &domain.ErrValidation{Field: "tipo", Message: "Tipo de lançamento desconhecido"}
	}

	amount, err := req.Valor.Parse("valor")
	if err != nil {
		return nil, err
	}

	date, err := s.parseDate(req.Data)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Descricao)
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, &domain.ErrValidation{Field: "descricao", Message: fmt.Sprintf("Descrição deve ter no máximo %d caracteres", maxDescriptionLen)}
	}
	category := strings.TrimSpace(req.Categoria)
	if utf8.RuneCountInString(category) > maxCategoryLen {
		return nil, &domain.ErrValidation{Field: "categoria", Message: fmt.Sprintf("Categoria deve ter no máximo %d caracteres", maxCategoryLen)}
	}

	tx := &domain.Transaction{
		Owner:       owner,
		Kind:        kind,
		Amount:      amount,
		Date:        date,
		Description: description,
		Category:    category,
	}

	// alerts of the affected month, evaluated on both sides of the write
	p := domain.PeriodOf(date.In(s.summaries.loc))
	var (
		ds     *dataset
		before []domain.Alert
	)
	if s.notifier.enabled() {
		ds, before = s.summaries.capture(ctx, owner, p)
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}

	s.logger.Info("transaction recorded",
		zap.String("user_id", owner),
		zap.String("kind", string(kind)),
		zap.String("period", p.Key()),
	)

	if ds != nil {
		local := *tx
		local.Date = local.Date.In(s.summaries.loc)
		ds.add(local)
		s.notifier.Publish(ctx, owner, summary.NewlyTriggered(before, s.summaries.alertsFor(ds, p)))
	}
	return tx, nil
}

// parseDate accepts RFC 3339 or YYYY-MM-DD (midnight in the configured zone).
// Empty means now.
func (s *TransactionService) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.summaries.now(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, s.summaries.loc); err == nil {
		return t, nil
	}
	return time.Time{}, &domain.ErrValidation{Field: "data", Message: "Data deve estar no formato AAAA-MM-DD ou RFC 3339"}
}

// ============================================================
// List — GET /v1/vendas, GET /v1/despesas
// ============================================================

func (s *TransactionService) List(ctx context.Context, owner string, kind domain.TransactionKind) (*domain.TransactionList, error) {
	ctx, span := tracer.Start(ctx, "TransactionService.List")
	defer span.End()

	txs, err := s.store.ListTransactions(ctx, owner, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return &domain.TransactionList{Data: txs, Total: len(txs)}, nil
}
