package sale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "quickcheckout/internal/domain/cart"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func testItems() []cartdom.Item {
	return []cartdom.Item{
		{ProductID: "p1", Name: "Batik Shirt", RegularPrice: 10000, Quantity: 2},
		{ProductID: "p2", Name: "Sandals", RegularPrice: 5000, Quantity: 1},
	}
}

func TestNewComputesTotalAndChange(t *testing.T) {
	s, err := New(testItems(), 30000, "Alice", "62800", testNow)
	require.NoError(t, err)

	assert.Equal(t, 25000, s.Total)
	assert.Equal(t, 30000, s.AmountPaid)
	assert.Equal(t, 5000, s.Change)
	assert.Equal(t, testNow, s.Date)
	require.Len(t, s.Items, 2)
}

func TestNewRejectsUnderpayment(t *testing.T) {
	_, err := New(testItems(), 10000, "Alice", "62800", testNow)
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestNewExactPaymentHasZeroChange(t *testing.T) {
	s, err := New(testItems(), 25000, "Alice", "62800", testNow)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Change)
}

func TestNewRejectsMissingBuyerInfo(t *testing.T) {
	_, err := New(testItems(), 30000, "", "62800", testNow)
	assert.ErrorIs(t, err, ErrMissingBuyerInfo)

	_, err = New(testItems(), 30000, "Alice", "   ", testNow)
	assert.ErrorIs(t, err, ErrMissingBuyerInfo)
}

func TestNewRejectsEmptyCart(t *testing.T) {
	_, err := New(nil, 30000, "Alice", "62800", testNow)
	assert.ErrorIs(t, err, ErrEmptyItems)
}

func TestItemsAreDeepCopied(t *testing.T) {
	items := testItems()
	s, err := New(items, 30000, "Alice", "62800", testNow)
	require.NoError(t, err)

	items[0].Quantity = 99
	assert.Equal(t, 2, s.Items[0].Quantity)
}
