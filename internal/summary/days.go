package summary

import (
	"sort"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
)

// GroupByDay buckets transactions by calendar day. Buckets and the items
// inside them are ordered most recent first; records without a date are
// dropped. Days are computed in each record's own location.
func GroupByDay(transactions []domain.Transaction) []domain.DayBucket {
	dated := make([]domain.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if !t.Date.IsZero() {
			dated = append(dated, t)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Date.After(dated[j].Date)
	})

	buckets := make([]domain.DayBucket, 0)
	for _, t := range dated {
		key := t.Date.Format("2006-01-02")
		if n := len(buckets); n == 0 || buckets[n-1].Date != key {
			buckets = append(buckets, domain.DayBucket{
				Date:  key,
				Label: DayLabel(t.Date),
			})
		}
		b := &buckets[len(buckets)-1]
		b.Items = append(b.Items, domain.DayItem{
			ID:          t.ID,
			Kind:        t.Kind,
			Description: describe(t),
			Category:    categoryOf(t),
			Amount:      t.Amount,
			AmountText:  FormatCurrency(t.Amount),
			Time:        t.Date.Format(time.RFC3339),
		})
	}
	return buckets
}
