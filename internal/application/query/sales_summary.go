// internal/application/query/sales_summary.go
package query

import (
	"context"
	"sort"

	saledom "quickcheckout/internal/domain/sale"
)

// DailySales is one chart bucket: revenue and sale count for a calendar
// day (UTC, "2006-01-02").
type DailySales struct {
	Day     string `json:"day"`
	Revenue int    `json:"revenue"`
	Count   int    `json:"count"`
}

// SalesSummaryQuery produces the analytics chart input from the sale
// ledger. Chart rendering itself stays in the frontend.
type SalesSummaryQuery struct {
	ledger saledom.Ledger
}

func NewSalesSummaryQuery(ledger saledom.Ledger) *SalesSummaryQuery {
	return &SalesSummaryQuery{ledger: ledger}
}

// Daily buckets all recorded sales by UTC day, ascending.
func (q *SalesSummaryQuery) Daily(ctx context.Context) ([]DailySales, error) {
	sales, err := q.ledger.List(ctx)
	if err != nil {
		return nil, err
	}

	buckets := map[string]*DailySales{}
	for _, s := range sales {
		day := s.Date.UTC().Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &DailySales{Day: day}
			buckets[day] = b
		}
		b.Revenue += s.Total
		b.Count++
	}

	out := make([]DailySales, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}
