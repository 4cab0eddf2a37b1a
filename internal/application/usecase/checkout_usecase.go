// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	cartdom "quickcheckout/internal/domain/cart"
	saledom "quickcheckout/internal/domain/sale"
)

var (
	ErrCheckoutCartUsecaseMissing = errors.New("checkout: cart usecase is not configured")
	ErrCheckoutLedgerMissing      = errors.New("checkout: sale ledger is not configured")

	// ErrSaleAppend wraps a failed sale-ledger append. The cart is left
	// intact so the operator can retry.
	ErrSaleAppend = errors.New("checkout: sale append failed")
)

// ReceiptMailer is an outbound port for sending a receipt copy.
type ReceiptMailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// SaleMirror is an outbound port for the optional SQL reporting mirror.
type SaleMirror interface {
	Create(ctx context.Context, s saledom.Sale) error
}

// CheckoutUsecase converts a finalized cart into an immutable sale
// record. It never touches stock: every reserved unit was already
// debited when it entered the cart.
type CheckoutUsecase struct {
	cartUC *CartUsecase
	ledger saledom.Ledger

	// optional collaborators; both are best-effort and never fail a sale
	mirror SaleMirror
	mailer ReceiptMailer

	mailFrom string
	mailTo   string

	now func() time.Time
}

func NewCheckoutUsecase(cartUC *CartUsecase, ledger saledom.Ledger) *CheckoutUsecase {
	return &CheckoutUsecase{
		cartUC: cartUC,
		ledger: ledger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithMirror attaches the SQL reporting mirror.
func (u *CheckoutUsecase) WithMirror(m SaleMirror) *CheckoutUsecase {
	u.mirror = m
	return u
}

// WithMailer attaches the receipt-copy mailer.
func (u *CheckoutUsecase) WithMailer(m ReceiptMailer, from, to string) *CheckoutUsecase {
	u.mailer = m
	u.mailFrom = strings.TrimSpace(from)
	u.mailTo = strings.TrimSpace(to)
	return u
}

// Complete validates payment and buyer info, snapshots the items into a
// sale and appends it to the sale ledger. Returns the recorded sale; its
// Change field is the amount due back.
//
// Validation failures (sale.ErrEmptyItems, sale.ErrInvalidPayment,
// sale.ErrMissingBuyerInfo) happen before any append. A failed append
// surfaces as ErrSaleAppend with nothing recorded.
func (u *CheckoutUsecase) Complete(ctx context.Context, items []cartdom.Item, amountPaid int, buyerName, whatsappNumber string) (saledom.Sale, error) {
	if u.ledger == nil {
		return saledom.Sale{}, ErrCheckoutLedgerMissing
	}

	s, err := saledom.New(items, amountPaid, buyerName, whatsappNumber, u.now())
	if err != nil {
		return saledom.Sale{}, err
	}

	recorded, err := u.ledger.Append(ctx, s)
	if err != nil {
		return saledom.Sale{}, fmt.Errorf("%w: %v", ErrSaleAppend, err)
	}

	if u.mirror != nil {
		if mErr := u.mirror.Create(ctx, recorded); mErr != nil {
			log.Printf("[checkout_uc] WARN: sale mirror failed saleId=%s err=%v", recorded.ID, mErr)
		}
	}

	if u.mailer != nil && u.mailFrom != "" && u.mailTo != "" {
		subject := fmt.Sprintf("Receipt %s (total %d)", recorded.ID, recorded.Total)
		if mErr := u.mailer.Send(ctx, u.mailFrom, u.mailTo, subject, receiptBody(recorded)); mErr != nil {
			log.Printf("[checkout_uc] WARN: receipt mail failed saleId=%s err=%v", recorded.ID, mErr)
		}
	}

	log.Printf("[checkout_uc] OK: sale recorded saleId=%s total=%d paid=%d change=%d",
		recorded.ID, recorded.Total, recorded.AmountPaid, recorded.Change,
	)
	return recorded, nil
}

// CompleteSession finalizes the cart of a till session: records the sale
// from the session's current items, then drops the reservations without
// crediting stock back (the units are sold). The session stays locked
// for the whole finalize, so a mutation racing the checkout either lands
// before the snapshot (and is part of the sale) or after the consume (and
// survives in the cart). On any failure the cart is untouched for retry.
func (u *CheckoutUsecase) CompleteSession(ctx context.Context, sessionID string, amountPaid int, buyerName, whatsappNumber string) (saledom.Sale, error) {
	if u.cartUC == nil {
		return saledom.Sale{}, ErrCheckoutCartUsecaseMissing
	}

	var recorded saledom.Sale
	err := u.cartUC.FinalizeSession(sessionID, func(items []cartdom.Item) error {
		s, err := u.Complete(ctx, items, amountPaid, buyerName, whatsappNumber)
		if err != nil {
			return err
		}
		recorded = s
		return nil
	})
	if err != nil {
		return saledom.Sale{}, err
	}
	return recorded, nil
}

func receiptBody(s saledom.Sale) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sale %s at %s\n", s.ID, s.Date.Format(time.RFC3339))
	fmt.Fprintf(&b, "Buyer: %s (WA %s)\n\n", s.BuyerName, s.WhatsappNumber)
	for _, it := range s.Items {
		fmt.Fprintf(&b, "%-24s x%-3d %8d\n", it.Name, it.Quantity, it.Subtotal())
	}
	fmt.Fprintf(&b, "\nTotal:  %d\nPaid:   %d\nChange: %d\n", s.Total, s.AmountPaid, s.Change)
	return b.String()
}
