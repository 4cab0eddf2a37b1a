// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"
	"time"

	proddom "quickcheckout/internal/domain/product"
)

var (
	ErrInvalidCart = errors.New("cart: invalid")

	// ErrOutOfStock means a reservation was attempted against a product
	// whose shelf stock is already zero. No ledger write is attempted.
	ErrOutOfStock = errors.New("cart: out of stock")

	// ErrInsufficientStock means the requested quantity exceeds shelf
	// stock plus the quantity this cart already holds.
	ErrInsufficientStock = errors.New("cart: insufficient stock")

	// ErrInvalidOperation covers transitions the line-item state machine
	// does not define (e.g. setting a quantity for an unreserved product).
	ErrInvalidOperation = errors.New("cart: invalid operation")
)

// Item is one line item: a snapshot of the product at reservation time
// plus the reserved quantity. Quantity is always >= 1; a line that would
// drop to zero is removed instead.
type Item struct {
	ProductID    string
	Name         string
	RegularPrice int
	Image        string
	Quantity     int
}

// Subtotal returns price x quantity for the line.
func (it Item) Subtotal() int {
	return it.RegularPrice * it.Quantity
}

// Cart holds the reserved line items of one till session. It is the
// source of truth for reservations; the matching stock debits live in the
// products collection. All mutators are plain bookkeeping: callers commit
// them only after the paired ledger write succeeded.
type Cart struct {
	SessionID string
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCart(sessionID string, now time.Time) (*Cart, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil, ErrInvalidCart
	}
	return &Cart{
		SessionID: sid,
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Reserved returns the quantity this cart holds for productID (0 if none).
func (c *Cart) Reserved(productID string) int {
	if c == nil {
		return 0
	}
	if idx := findItemIndex(c.Items, productID); idx >= 0 {
		return c.Items[idx].Quantity
	}
	return 0
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Total returns the sum of line subtotals.
func (c *Cart) Total() int {
	if c == nil {
		return 0
	}
	sum := 0
	for _, it := range c.Items {
		sum += it.Subtotal()
	}
	return sum
}

// AddUnit records one more reserved unit of p: increments the existing
// line or inserts a new one with quantity 1.
func (c *Cart) AddUnit(p proddom.Product, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}

	pid := strings.TrimSpace(p.ID)
	if pid == "" {
		return ErrInvalidCart
	}

	if idx := findItemIndex(c.Items, pid); idx >= 0 {
		c.Items[idx].Quantity++
	} else {
		c.Items = append(c.Items, Item{
			ProductID:    pid,
			Name:         p.Name,
			RegularPrice: p.RegularPrice,
			Image:        p.Image,
			Quantity:     1,
		})
	}

	c.touch(now)
	return nil
}

// SetQuantity replaces the reserved quantity of an existing line.
// qty must be >= 1; reserving from absent is not a defined transition.
func (c *Cart) SetQuantity(productID string, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	if qty < 1 {
		return ErrInvalidOperation
	}

	idx := findItemIndex(c.Items, strings.TrimSpace(productID))
	if idx < 0 {
		return ErrInvalidOperation
	}

	c.Items[idx].Quantity = qty
	c.touch(now)
	return nil
}

// Remove drops the line for productID entirely.
func (c *Cart) Remove(productID string, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}

	idx := findItemIndex(c.Items, strings.TrimSpace(productID))
	if idx < 0 {
		return ErrInvalidOperation
	}

	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.touch(now)
	return nil
}

// Consume clears all lines and returns a snapshot of what was reserved.
// Used after checkout: the reservations became sold units, so no stock is
// credited back.
func (c *Cart) Consume(now time.Time) []Item {
	if c == nil {
		return nil
	}
	snap := CloneItems(c.Items)
	c.Items = []Item{}
	c.touch(now)
	return snap
}

// Snapshot returns a detached deep copy, safe to read after whatever
// lock guarded the live cart has been released.
func (c *Cart) Snapshot() *Cart {
	if c == nil {
		return nil
	}
	return &Cart{
		SessionID: c.SessionID,
		Items:     CloneItems(c.Items),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now
}

func findItemIndex(items []Item, productID string) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// CloneItems deep-copies a line-item slice so later cart mutation cannot
// affect a recorded snapshot.
func CloneItems(src []Item) []Item {
	out := make([]Item, len(src))
	copy(out, src)
	return out
}
