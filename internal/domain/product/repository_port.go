// internal/domain/product/repository_port.go
package product

import "context"

// Ledger is the persistence port for the products collection (the stock
// ledger). Firestore is the concrete implementation in adapters/out;
// tests inject an in-memory fake.
//
// Stock contract:
//   - AdjustStock applies a signed delta to the "stock" field in a single
//     conditional (transactional) write. A negative delta debits shelf
//     stock when a cart reserves units; a positive delta credits it back.
//   - Implementations must reject a write that would drive stock below
//     zero with ErrStockExhausted, leaving the document unchanged.
type Ledger interface {
	// Create persists a new product. If p.ID is empty the implementation
	// assigns the docId and returns the stored entity.
	Create(ctx context.Context, p Product) (Product, error)

	// GetByID returns ErrNotFound when no such document exists.
	GetByID(ctx context.Context, id string) (Product, error)

	// ReadAll returns every product (catalog scale, no paging).
	ReadAll(ctx context.Context) ([]Product, error)

	// Update overwrites name, regularPrice, stock and image.
	Update(ctx context.Context, p Product) (Product, error)

	// Delete removes the document.
	Delete(ctx context.Context, id string) error

	// AdjustStock atomically applies delta to the stock field and returns
	// the resulting on-shelf count.
	AdjustStock(ctx context.Context, id string, delta int) (int, error)

	// Subscribe invokes fn with the full product list on every collection
	// change until the returned stop function is called (or ctx ends).
	Subscribe(ctx context.Context, fn func([]Product)) (func(), error)
}
