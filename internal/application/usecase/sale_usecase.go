// internal/application/usecase/sale_usecase.go
package usecase

import (
	"context"
	"log"
	"strings"

	saledom "quickcheckout/internal/domain/sale"
)

// SaleDeleter is the optional mirror-side delete, kept best-effort like
// the mirror append.
type SaleDeleter interface {
	DeleteByID(ctx context.Context, id string) error
}

// SaleUsecase serves the sales-ledger views: list, single fetch and the
// operator-gated delete. Appends go through CheckoutUsecase only.
type SaleUsecase struct {
	ledger saledom.Ledger
	mirror SaleDeleter
}

func NewSaleUsecase(ledger saledom.Ledger) *SaleUsecase {
	return &SaleUsecase{ledger: ledger}
}

// WithMirror attaches the SQL mirror for delete propagation.
func (u *SaleUsecase) WithMirror(m SaleDeleter) *SaleUsecase {
	u.mirror = m
	return u
}

func (u *SaleUsecase) List(ctx context.Context) ([]saledom.Sale, error) {
	return u.ledger.List(ctx)
}

func (u *SaleUsecase) GetByID(ctx context.Context, id string) (saledom.Sale, error) {
	sid := strings.TrimSpace(id)
	if sid == "" {
		return saledom.Sale{}, saledom.ErrInvalidID
	}
	return u.ledger.GetByID(ctx, sid)
}

func (u *SaleUsecase) DeleteByID(ctx context.Context, id string) error {
	sid := strings.TrimSpace(id)
	if sid == "" {
		return saledom.ErrInvalidID
	}

	if err := u.ledger.DeleteByID(ctx, sid); err != nil {
		return err
	}

	if u.mirror != nil {
		if err := u.mirror.DeleteByID(ctx, sid); err != nil {
			log.Printf("[sale_uc] WARN: mirror delete failed saleId=%s err=%v", sid, err)
		}
	}
	return nil
}

// Subscribe forwards ledger change notifications (full list per change).
func (u *SaleUsecase) Subscribe(ctx context.Context, fn func([]saledom.Sale)) (func(), error) {
	return u.ledger.Subscribe(ctx, fn)
}
