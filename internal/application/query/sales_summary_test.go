package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	saledom "quickcheckout/internal/domain/sale"
)

type stubSaleLedger struct {
	sales []saledom.Sale
	err   error
}

func (s *stubSaleLedger) Append(_ context.Context, v saledom.Sale) (saledom.Sale, error) {
	return v, nil
}
func (s *stubSaleLedger) GetByID(context.Context, string) (saledom.Sale, error) {
	return saledom.Sale{}, saledom.ErrNotFound
}
func (s *stubSaleLedger) List(context.Context) ([]saledom.Sale, error) { return s.sales, s.err }
func (s *stubSaleLedger) DeleteByID(context.Context, string) error     { return nil }
func (s *stubSaleLedger) Subscribe(context.Context, func([]saledom.Sale)) (func(), error) {
	return func() {}, nil
}

func at(day int, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestDailyBucketsByUTCDay(t *testing.T) {
	ledger := &stubSaleLedger{sales: []saledom.Sale{
		{ID: "s1", Date: at(1, 9), Total: 25000},
		{ID: "s2", Date: at(1, 17), Total: 10000},
		{ID: "s3", Date: at(3, 12), Total: 5000},
	}}

	buckets, err := NewSalesSummaryQuery(ledger).Daily(context.Background())
	require.NoError(t, err)

	require.Len(t, buckets, 2)
	assert.Equal(t, DailySales{Day: "2026-03-01", Revenue: 35000, Count: 2}, buckets[0])
	assert.Equal(t, DailySales{Day: "2026-03-03", Revenue: 5000, Count: 1}, buckets[1])
}

func TestDailyEmptyLedger(t *testing.T) {
	buckets, err := NewSalesSummaryQuery(&stubSaleLedger{}).Daily(context.Background())
	require.NoError(t, err)
	assert.Empty(t, buckets)
}
