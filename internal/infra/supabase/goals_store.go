package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"github.com/shopspring/decimal"
)

type goalRow struct {
	Owner     string          `json:"usuario_id"`
	Amount    decimal.Decimal `json:"meta_faturamento"`
	UpdatedAt string          `json:"atualizado_em"`
}

func (r goalRow) goal() *domain.Goal {
	return &domain.Goal{Owner: r.Owner, Amount: r.Amount, UpdatedAt: parseDate(r.UpdatedAt)}
}

func (c *Client) GetGoal(ctx context.Context, owner string) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetGoal")
	defer span.End()

	var rows []goalRow
	err := c.guard.Do(ctx, func() error {
		path := fmt.Sprintf("%s?usuario_id=eq.%s&limit=1", tableGoals, url.QueryEscape(owner))
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		rows, err = decodeRows[goalRow](body)
		return err
	})
	if err != nil {
		return nil, storeErr(tableGoals, err)
	}
	if len(rows) > 0 {
		return rows[0].goal(), nil
	}

	// First read creates the zero goal. A concurrent insert is ignored.
	row := goalRow{Owner: owner, Amount: decimal.Zero, UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano)}
	err = c.guard.Do(ctx, func() error {
		_, err := c.doPost(ctx, tableGoals+"?on_conflict=usuario_id", row, "resolution=ignore-duplicates,return=minimal")
		return err
	})
	if err != nil {
		return nil, storeErr(tableGoals, err)
	}
	return row.goal(), nil
}

func (c *Client) SetGoal(ctx context.Context, owner string, amount decimal.Decimal) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "Supabase.SetGoal")
	defer span.End()

	row := goalRow{Owner: owner, Amount: amount, UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano)}
	err := c.guard.Do(ctx, func() error {
		_, err := c.doPost(ctx, tableGoals+"?on_conflict=usuario_id", row, "resolution=merge-duplicates,return=minimal")
		return err
	})
	if err != nil {
		return nil, storeErr(tableGoals, err)
	}
	return row.goal(), nil
}
