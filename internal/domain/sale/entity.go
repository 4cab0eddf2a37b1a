// internal/domain/sale/entity.go
package sale

import (
	"errors"
	"strings"
	"time"

	cartdom "quickcheckout/internal/domain/cart"
)

var (
	ErrNotFound  = errors.New("sale not found")
	ErrInvalidID = errors.New("sale: invalid id")

	// ErrEmptyItems means a sale was attempted from an empty cart.
	ErrEmptyItems = errors.New("sale: no items")

	// ErrInvalidPayment means amountPaid does not cover the total.
	ErrInvalidPayment = errors.New("sale: invalid payment amount")

	// ErrMissingBuyerInfo means buyerName or whatsappNumber is empty.
	ErrMissingBuyerInfo = errors.New("sale: missing buyer info")
)

// Sale is one immutable record of a completed checkout. Items is a deep
// copy of the cart lines at completion time; nothing is mutated after
// Create.
type Sale struct {
	ID             string
	Date           time.Time
	Items          []cartdom.Item
	Total          int
	AmountPaid     int
	Change         int
	BuyerName      string
	WhatsappNumber string
}

// New validates payment and buyer fields and builds the sale snapshot.
// id is left empty; the ledger assigns it on Append.
func New(items []cartdom.Item, amountPaid int, buyerName, whatsappNumber string, now time.Time) (Sale, error) {
	if len(items) == 0 {
		return Sale{}, ErrEmptyItems
	}

	buyer := strings.TrimSpace(buyerName)
	wa := strings.TrimSpace(whatsappNumber)
	if buyer == "" || wa == "" {
		return Sale{}, ErrMissingBuyerInfo
	}

	total := 0
	for _, it := range items {
		total += it.Subtotal()
	}
	if amountPaid < total {
		return Sale{}, ErrInvalidPayment
	}

	return Sale{
		Date:           now,
		Items:          cartdom.CloneItems(items),
		Total:          total,
		AmountPaid:     amountPaid,
		Change:         amountPaid - total,
		BuyerName:      buyer,
		WhatsappNumber: wa,
	}, nil
}
