// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	cartdom "quickcheckout/internal/domain/cart"
	proddom "quickcheckout/internal/domain/product"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")

	// ErrLedgerWrite wraps a transient stock-ledger failure. The attempted
	// cart mutation is fully rolled back; the caller may retry.
	ErrLedgerWrite = errors.New("cart_usecase: stock ledger write failed")
)

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// cartSession serializes operations of one till session. Holding mu
// across the ledger write is what makes each operation single-flight:
// two mutations of the same session can never interleave between the
// stock read and the stock write.
type cartSession struct {
	mu   sync.Mutex
	cart *cartdom.Cart
}

// CartUsecase is the cart-stock reconciler. Every mutation issues exactly
// one conditional write to the stock ledger and commits the in-memory
// cart only after that write succeeded, so that at any idle moment
//
//	shelf stock + sum(reservations) == true total stock.
//
// Mutators return a detached snapshot of the cart; the live state is
// only ever touched under the session lock.
type CartUsecase struct {
	ledger proddom.Ledger
	clock  Clock

	mu       sync.RWMutex
	sessions map[string]*cartSession
}

func NewCartUsecase(ledger proddom.Ledger) *CartUsecase {
	return NewCartUsecaseWithClock(ledger, nil)
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(ledger proddom.Ledger, clock Clock) *CartUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CartUsecase{
		ledger:   ledger,
		clock:    clock,
		sessions: map[string]*cartSession{},
	}
}

// OpenSession registers a new empty till session and returns its id.
func (uc *CartUsecase) OpenSession() (string, error) {
	id := uuid.NewString()
	if _, err := uc.getOrCreate(id); err != nil {
		return "", err
	}
	return id, nil
}

// Items returns a snapshot of the session's current line items.
// An unknown session reads as an empty cart.
func (uc *CartUsecase) Items(sessionID string) ([]cartdom.Item, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil, ErrCartInvalidArgument
	}

	uc.mu.RLock()
	s, ok := uc.sessions[sid]
	uc.mu.RUnlock()
	if !ok {
		return []cartdom.Item{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return cartdom.CloneItems(s.cart.Items), nil
}

// AddItem reserves one unit of productID: debits the stock ledger first,
// then increments (or inserts) the cart line.
//
// Failure modes:
//   - cart.ErrOutOfStock when shelf stock is already 0 (no write attempted,
//     and also when a concurrent session won the last unit)
//   - ErrLedgerWrite when the debit write fails; the cart is unchanged
func (uc *CartUsecase) AddItem(ctx context.Context, sessionID, productID string) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(sessionID)
	pid := strings.TrimSpace(productID)
	if sid == "" || pid == "" {
		return nil, ErrCartInvalidArgument
	}

	s, err := uc.getOrCreate(sid)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := uc.ledger.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if p.Stock <= 0 {
		return nil, cartdom.ErrOutOfStock
	}

	if _, err := uc.ledger.AdjustStock(ctx, pid, -1); err != nil {
		if errors.Is(err, proddom.ErrStockExhausted) {
			return nil, cartdom.ErrOutOfStock
		}
		return nil, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}

	if err := s.cart.AddUnit(p, uc.clock.Now()); err != nil {
		return nil, err
	}
	return s.cart.Snapshot(), nil
}

// SetQuantity replaces the reserved quantity of an already-reserved line.
// The ledger write carries only the delta, so an increase debits further
// stock and a decrease credits it back.
//
// Failure modes:
//   - cart.ErrInvalidOperation when the product is not in the cart
//   - cart.ErrInsufficientStock when qty exceeds shelf stock + current
//     reservation (no write attempted; also on a lost race)
//   - ErrLedgerWrite on write failure; quantity stays as it was
func (uc *CartUsecase) SetQuantity(ctx context.Context, sessionID, productID string, qty int) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(sessionID)
	pid := strings.TrimSpace(productID)
	if sid == "" || pid == "" || qty < 1 {
		return nil, ErrCartInvalidArgument
	}

	s, err := uc.getOrCreate(sid)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reserved := s.cart.Reserved(pid)
	if reserved == 0 {
		return nil, cartdom.ErrInvalidOperation
	}

	p, err := uc.ledger.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}

	// Total units obtainable: what is on the shelf now plus what this
	// cart already holds.
	available := p.Stock + reserved
	if qty > available {
		return nil, cartdom.ErrInsufficientStock
	}

	if delta := qty - reserved; delta != 0 {
		if _, err := uc.ledger.AdjustStock(ctx, pid, -delta); err != nil {
			if errors.Is(err, proddom.ErrStockExhausted) {
				return nil, cartdom.ErrInsufficientStock
			}
			return nil, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
		}
	}

	if err := s.cart.SetQuantity(pid, qty, uc.clock.Now()); err != nil {
		return nil, err
	}
	return s.cart.Snapshot(), nil
}

// RemoveItem credits the full reservation back to the ledger, then drops
// the line. On a failed credit the line is kept: removing it would lose
// the only record matching the stale stock value.
func (uc *CartUsecase) RemoveItem(ctx context.Context, sessionID, productID string) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(sessionID)
	pid := strings.TrimSpace(productID)
	if sid == "" || pid == "" {
		return nil, ErrCartInvalidArgument
	}

	s, err := uc.getOrCreate(sid)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reserved := s.cart.Reserved(pid)
	if reserved == 0 {
		return nil, cartdom.ErrInvalidOperation
	}

	if _, err := uc.ledger.AdjustStock(ctx, pid, reserved); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}

	if err := s.cart.Remove(pid, uc.clock.Now()); err != nil {
		return nil, err
	}
	return s.cart.Snapshot(), nil
}

// ClearCart credits every remaining line back to the ledger. Lines whose
// credit succeeded are cleared even when others fail; each failure is
// surfaced in the joined error. Clearing an empty (or unknown) session is
// a no-op.
//
// NOTE: this partial-success policy is looser than RemoveItem's strict
// rollback on purpose: a till reset should release as many units as it
// can instead of stalling on the first bad write.
func (uc *CartUsecase) ClearCart(ctx context.Context, sessionID string) error {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return ErrCartInvalidArgument
	}

	uc.mu.RLock()
	s, ok := uc.sessions[sid]
	uc.mu.RUnlock()
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		return nil
	}

	now := uc.clock.Now()
	var errs []error
	for _, it := range cartdom.CloneItems(s.cart.Items) {
		if _, err := uc.ledger.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
			errs = append(errs, fmt.Errorf("%w: product %s: %v", ErrLedgerWrite, it.ProductID, err))
			continue
		}
		_ = s.cart.Remove(it.ProductID, now)
	}
	return errors.Join(errs...)
}

// FinalizeSession runs fn over a snapshot of the session's items while
// the session stays locked, and consumes the cart only when fn returns
// nil. Consuming credits nothing back: the reservations were sold, so
// their debits stand. Holding the lock across fn means no mutation can
// slip between the snapshot fn saw and the lines that get consumed.
//
// An unknown session presents to fn as an empty cart. When fn fails the
// cart is untouched.
func (uc *CartUsecase) FinalizeSession(sessionID string, fn func(items []cartdom.Item) error) error {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return ErrCartInvalidArgument
	}
	if fn == nil {
		return ErrCartInvalidArgument
	}

	uc.mu.RLock()
	s, ok := uc.sessions[sid]
	uc.mu.RUnlock()
	if !ok {
		return fn([]cartdom.Item{})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(cartdom.CloneItems(s.cart.Items)); err != nil {
		return err
	}
	s.cart.Consume(uc.clock.Now())
	return nil
}

func (uc *CartUsecase) getOrCreate(sessionID string) (*cartSession, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if s, ok := uc.sessions[sessionID]; ok {
		return s, nil
	}

	c, err := cartdom.NewCart(sessionID, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	s := &cartSession{cart: c}
	uc.sessions[sessionID] = s
	return s, nil
}
