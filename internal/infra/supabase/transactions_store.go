package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// transactionRow maps the vendas and despesas columns.
type transactionRow struct {
	ID        string          `json:"id"`
	Owner     string          `json:"usuario_id"`
	Amount    decimal.Decimal `json:"valor"`
	Date      *string         `json:"data"`
	Desc      string          `json:"descricao"`
	Category  string          `json:"categoria"`
	CreatedAt string          `json:"criado_em"`
}

func tableFor(kind domain.TransactionKind) (string, error) {
	switch kind {
	case domain.KindSale:
		return tableSales, nil
	case domain.KindExpense:
		return tableExpenses, nil
	}
	return "", &domain.ErrValidation{Field: "tipo", Message: fmt.Sprintf("tipo desconhecido %q", kind)}
}

func (c *Client) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("kind", string(tx.Kind)))

	table, err := tableFor(tx.Kind)
	if err != nil {
		return err
	}

	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now()

	row := transactionRow{
		ID:        tx.ID,
		Owner:     tx.Owner,
		Amount:    tx.Amount,
		Desc:      tx.Description,
		Category:  tx.Category,
		CreatedAt: tx.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if !tx.Date.IsZero() {
		d := tx.Date.Format(time.RFC3339Nano)
		row.Date = &d
	}

	err = c.guard.Do(ctx, func() error {
		_, err := c.doPost(ctx, table, row, "return=minimal")
		return err
	})
	if err != nil {
		return storeErr(table, err)
	}
	return nil
}

func (c *Client) ListTransactions(ctx context.Context, owner string, kind domain.TransactionKind) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListTransactions")
	defer span.End()
	span.SetAttributes(attribute.String("owner", owner), attribute.String("kind", string(kind)))

	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var rows []transactionRow
	err = c.guard.Do(ctx, func() error {
		path := fmt.Sprintf("%s?usuario_id=eq.%s&order=data.desc.nullslast", table, url.QueryEscape(owner))
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		rows, err = decodeRows[transactionRow](body)
		if err != nil {
			return fmt.Errorf("decode %s: %w", table, err)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(table, err)
	}

	out := make([]domain.Transaction, 0, len(rows))
	for _, r := range rows {
		tx := domain.Transaction{
			ID:          r.ID,
			Owner:       r.Owner,
			Kind:        kind,
			Amount:      r.Amount,
			Description: r.Desc,
			Category:    r.Category,
		}
		if r.Date != nil {
			tx.Date = parseDate(*r.Date)
		}
		tx.CreatedAt = parseDate(r.CreatedAt)
		out = append(out, tx)
	}
	return out, nil
}

// parseDate accepts timestamptz and plain date columns. Failures yield the zero time.
func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
