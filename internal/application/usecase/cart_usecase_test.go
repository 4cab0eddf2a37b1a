package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "quickcheckout/internal/domain/cart"
	proddom "quickcheckout/internal/domain/product"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var clock = fixedClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}

// fakeStockLedger is an in-memory product.Ledger with per-product write
// failure injection.
type fakeStockLedger struct {
	mu       sync.Mutex
	products map[string]proddom.Product

	failAdjust  map[string]error
	adjustCalls int
}

func newFakeStockLedger(products ...proddom.Product) *fakeStockLedger {
	m := map[string]proddom.Product{}
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeStockLedger{products: m, failAdjust: map[string]error{}}
}

func (f *fakeStockLedger) Create(_ context.Context, p proddom.Product) (proddom.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		p.ID = fmt.Sprintf("gen-%d", len(f.products)+1)
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeStockLedger) GetByID(_ context.Context, id string) (proddom.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return proddom.Product{}, proddom.ErrNotFound
	}
	return p, nil
}

func (f *fakeStockLedger) ReadAll(_ context.Context) ([]proddom.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]proddom.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStockLedger) Update(_ context.Context, p proddom.Product) (proddom.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return proddom.Product{}, proddom.ErrNotFound
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeStockLedger) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

func (f *fakeStockLedger) AdjustStock(_ context.Context, id string, delta int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.adjustCalls++
	if err, ok := f.failAdjust[id]; ok && err != nil {
		return 0, err
	}

	p, ok := f.products[id]
	if !ok {
		return 0, proddom.ErrNotFound
	}
	next := p.Stock + delta
	if next < 0 {
		return 0, proddom.ErrStockExhausted
	}
	p.Stock = next
	f.products[id] = p
	return next, nil
}

func (f *fakeStockLedger) Subscribe(context.Context, func([]proddom.Product)) (func(), error) {
	return func() {}, nil
}

func (f *fakeStockLedger) stock(t *testing.T, id string) int {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	require.True(t, ok, "product %s missing", id)
	return p.Stock
}

func shirt(stock int) proddom.Product {
	return proddom.Product{ID: "p1", Name: "T-Shirt", RegularPrice: 30000, Stock: stock, Image: "/placeholder.svg"}
}

func sandals(stock int) proddom.Product {
	return proddom.Product{ID: "p2", Name: "Sandals", RegularPrice: 5000, Stock: stock, Image: "/placeholder.svg"}
}

func TestAddItemDebitsStockBeforeCommit(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5))
	uc := NewCartUsecaseWithClock(ledger, clock)

	c, err := uc.AddItem(context.Background(), "till-1", "p1")
	require.NoError(t, err)

	assert.Equal(t, 4, ledger.stock(t, "p1"))
	assert.Equal(t, 1, c.Reserved("p1"))
}

func TestAddItemOutOfStockDoesNotWrite(t *testing.T) {
	ledger := newFakeStockLedger(shirt(0))
	uc := NewCartUsecaseWithClock(ledger, clock)

	_, err := uc.AddItem(context.Background(), "till-1", "p1")
	assert.ErrorIs(t, err, cartdom.ErrOutOfStock)

	assert.Equal(t, 0, ledger.adjustCalls, "no ledger write may be attempted")
	assert.Equal(t, 0, ledger.stock(t, "p1"))

	items, err := uc.Items("till-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddItemUnknownProduct(t *testing.T) {
	ledger := newFakeStockLedger()
	uc := NewCartUsecaseWithClock(ledger, clock)

	_, err := uc.AddItem(context.Background(), "till-1", "nope")
	assert.ErrorIs(t, err, proddom.ErrNotFound)
}

func TestAddItemLedgerFailureRollsBack(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5))
	ledger.failAdjust["p1"] = errors.New("rpc unavailable")
	uc := NewCartUsecaseWithClock(ledger, clock)

	_, err := uc.AddItem(context.Background(), "till-1", "p1")
	assert.ErrorIs(t, err, ErrLedgerWrite)

	assert.Equal(t, 5, ledger.stock(t, "p1"))
	items, _ := uc.Items("till-1")
	assert.Empty(t, items, "no partial mutation on a failed write")
}

func TestSetQuantityAppliesDelta(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5))
	uc := NewCartUsecaseWithClock(ledger, clock)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "till-1", "p1")
	require.NoError(t, err)

	// increase 1 -> 4 debits three more units
	c, err := uc.SetQuantity(ctx, "till-1", "p1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Reserved("p1"))
	assert.Equal(t, 1, ledger.stock(t, "p1"))

	// decrease 4 -> 2 credits two back
	c, err = uc.SetQuantity(ctx, "till-1", "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Reserved("p1"))
	assert.Equal(t, 3, ledger.stock(t, "p1"))
}

func TestSetQuantityBeyondAvailableFails(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5))
	uc := NewCartUsecaseWithClock(ledger, clock)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "till-1", "p1")
	require.NoError(t, err)

	// available = 4 on shelf + 1 reserved = 5
	_, err = uc.SetQuantity(ctx, "till-1", "p1", 6)
	assert.ErrorIs(t, err, cartdom.ErrInsufficientStock)

	assert.Equal(t, 4, ledger.stock(t, "p1"))
	items, _ := uc.Items("till-1")
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestSetQuantityOnAbsentLineIsInvalid(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5))
	uc := NewCartUsecaseWithClock(ledger, clock)

	_, err := uc.SetQuantity(context.Background(), "till-1", "p1", 2)
	assert.ErrorIs(t, err, cartdom.ErrInvalidOperation)
	assert.Equal(t, 5, ledger.stock(t, "p1"))
}

func TestSetQuantityLedgerFailureKeepsQuantity(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5))
	uc := NewCartUsecaseWithClock(ledger, clock)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "till-1", "p1")
	require.NoError(t, err)

	ledger.failAdjust["p1"] = errors.New("rpc unavailable")
	_, err = uc.SetQuantity(ctx, "till-1", "p1", 3)
	assert.ErrorIs(t, err, ErrLedgerWrite)

	items, _ := uc.Items("till-1")
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestRemoveItemCreditsReservationBack(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5))
	uc := NewCartUsecaseWithClock(ledger, clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := uc.AddItem(ctx, "till-1", "p1")
		require.NoError(t, err)
	}
	require.Equal(t, 2, ledger.stock(t, "p1"))

	c, err := uc.RemoveItem(ctx, "till-1", "p1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 5, ledger.stock(t, "p1"))
}

func TestRemoveItemLedgerFailureKeepsLine(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5))
	uc := NewCartUsecaseWithClock(ledger, clock)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "till-1", "p1")
	require.NoError(t, err)

	ledger.failAdjust["p1"] = errors.New("rpc unavailable")
	_, err = uc.RemoveItem(ctx, "till-1", "p1")
	assert.ErrorIs(t, err, ErrLedgerWrite)

	// the line must survive: it is the only record matching the debit
	items, _ := uc.Items("till-1")
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestRemoveThenAddRoundTrip(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5))
	uc := NewCartUsecaseWithClock(ledger, clock)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "till-1", "p1")
	require.NoError(t, err)
	_, err = uc.RemoveItem(ctx, "till-1", "p1")
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, "till-1", "p1")
	require.NoError(t, err)

	assert.Equal(t, 4, ledger.stock(t, "p1"))
	items, _ := uc.Items("till-1")
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestClearCartOnEmptySessionIsNoop(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5))
	uc := NewCartUsecaseWithClock(ledger, clock)

	// unknown session
	require.NoError(t, uc.ClearCart(context.Background(), "till-1"))

	// known but empty session
	sid, err := uc.OpenSession()
	require.NoError(t, err)
	require.NoError(t, uc.ClearCart(context.Background(), sid))
	assert.Equal(t, 0, ledger.adjustCalls)
}

func TestClearCartCreditsAllLines(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5), sandals(3))
	uc := NewCartUsecaseWithClock(ledger, clock)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "till-1", "p1")
	require.NoError(t, err)
	_, err = uc.SetQuantity(ctx, "till-1", "p1", 2)
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, "till-1", "p2")
	require.NoError(t, err)

	require.NoError(t, uc.ClearCart(ctx, "till-1"))

	assert.Equal(t, 5, ledger.stock(t, "p1"))
	assert.Equal(t, 3, ledger.stock(t, "p2"))
	items, _ := uc.Items("till-1")
	assert.Empty(t, items)
}

func TestClearCartPartialFailureClearsWhatItCan(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5), sandals(3))
	uc := NewCartUsecaseWithClock(ledger, clock)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "till-1", "p1")
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, "till-1", "p2")
	require.NoError(t, err)

	ledger.failAdjust["p1"] = errors.New("rpc unavailable")

	err = uc.ClearCart(ctx, "till-1")
	assert.ErrorIs(t, err, ErrLedgerWrite)

	// the succeeding credit is applied and its line cleared; the failing
	// line stays with its reservation intact
	assert.Equal(t, 3, ledger.stock(t, "p2"))
	items, _ := uc.Items("till-1")
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
}

// Stock + reservations stays conserved after every successful step.
func TestReconciliationConservesTotalStock(t *testing.T) {
	const initial = 5
	ledger := newFakeStockLedger(shirt(initial))
	uc := NewCartUsecaseWithClock(ledger, clock)
	ctx := context.Background()

	conserved := func() {
		t.Helper()
		items, err := uc.Items("till-1")
		require.NoError(t, err)
		reserved := 0
		for _, it := range items {
			reserved += it.Quantity
		}
		assert.Equal(t, initial, ledger.stock(t, "p1")+reserved)
	}

	for i := 0; i < 3; i++ {
		_, err := uc.AddItem(ctx, "till-1", "p1")
		require.NoError(t, err)
		conserved()
	}
	assert.Equal(t, 2, ledger.stock(t, "p1"))

	_, err := uc.SetQuantity(ctx, "till-1", "p1", 1)
	require.NoError(t, err)
	conserved()
	assert.Equal(t, 4, ledger.stock(t, "p1"))

	_, err = uc.RemoveItem(ctx, "till-1", "p1")
	require.NoError(t, err)
	conserved()
	assert.Equal(t, 5, ledger.stock(t, "p1"))
}

func TestFinalizeSessionConsumesAndLeavesDebitsInPlace(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5))
	uc := NewCartUsecaseWithClock(ledger, clock)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "till-1", "p1")
	require.NoError(t, err)
	_, err = uc.SetQuantity(ctx, "till-1", "p1", 3)
	require.NoError(t, err)
	require.Equal(t, 2, ledger.stock(t, "p1"))

	var snap []cartdom.Item
	require.NoError(t, uc.FinalizeSession("till-1", func(items []cartdom.Item) error {
		snap = items
		return nil
	}))
	require.Len(t, snap, 1)
	assert.Equal(t, 3, snap[0].Quantity)

	// sold units stay debited
	assert.Equal(t, 2, ledger.stock(t, "p1"))
	items, _ := uc.Items("till-1")
	assert.Empty(t, items)
}

func TestFinalizeSessionFailureLeavesCartUntouched(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5))
	uc := NewCartUsecaseWithClock(ledger, clock)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "till-1", "p1")
	require.NoError(t, err)

	err = uc.FinalizeSession("till-1", func([]cartdom.Item) error {
		return errors.New("printer jam")
	})
	require.Error(t, err)

	items, _ := uc.Items("till-1")
	require.Len(t, items, 1)
	assert.Equal(t, 4, ledger.stock(t, "p1"))
}

func TestFinalizeSessionUnknownSessionReadsEmpty(t *testing.T) {
	uc := NewCartUsecaseWithClock(newFakeStockLedger(), clock)

	var snap []cartdom.Item
	require.NoError(t, uc.FinalizeSession("nope", func(items []cartdom.Item) error {
		snap = items
		return nil
	}))
	assert.Empty(t, snap)
}

func TestMutatorsReturnDetachedSnapshots(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5))
	uc := NewCartUsecaseWithClock(ledger, clock)
	ctx := context.Background()

	c1, err := uc.AddItem(ctx, "till-1", "p1")
	require.NoError(t, err)

	// a later mutation must not show through a previously returned cart
	_, err = uc.SetQuantity(ctx, "till-1", "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, c1.Reserved("p1"))

	// nor may writes through the returned value reach the session
	c1.Items[0].Quantity = 99
	items, err := uc.Items("till-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

// Concurrent mutations on one session must be safe to combine with reads
// of the carts the mutators return (caught by the race detector).
func TestConcurrentMutatorsAndReturnedCartReads(t *testing.T) {
	ledger := newFakeStockLedger(shirt(100))
	uc := NewCartUsecaseWithClock(ledger, clock)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := uc.AddItem(ctx, "till-1", "p1")
			if !assert.NoError(t, err) {
				return
			}
			total := 0
			for _, it := range c.Items {
				total += it.Quantity
			}
			assert.Positive(t, total)
		}()
	}
	wg.Wait()

	assert.Equal(t, 92, ledger.stock(t, "p1"))
	items, _ := uc.Items("till-1")
	require.Len(t, items, 1)
	assert.Equal(t, 8, items[0].Quantity)
}

func TestSessionsAreIsolated(t *testing.T) {
	ledger := newFakeStockLedger(shirt(5))
	uc := NewCartUsecaseWithClock(ledger, clock)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "till-1", "p1")
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, "till-2", "p1")
	require.NoError(t, err)

	assert.Equal(t, 3, ledger.stock(t, "p1"))

	a, _ := uc.Items("till-1")
	b, _ := uc.Items("till-2")
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, 1, a[0].Quantity)
	assert.Equal(t, 1, b[0].Quantity)
}

func TestOpenSessionAssignsUniqueIDs(t *testing.T) {
	uc := NewCartUsecaseWithClock(newFakeStockLedger(), clock)

	a, err := uc.OpenSession()
	require.NoError(t, err)
	b, err := uc.OpenSession()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
