// internal/domain/sale/repository_port.go
package sale

import "context"

// Ledger is the append-only persistence port for the sales collection.
//
// Not-found policy: GetByID and DeleteByID return ErrNotFound for an
// unknown id.
type Ledger interface {
	// Append stores the sale, assigns the docId and returns the stored
	// record. Sales are never updated afterwards.
	Append(ctx context.Context, s Sale) (Sale, error)

	GetByID(ctx context.Context, id string) (Sale, error)

	// List returns all sales, newest first.
	List(ctx context.Context) ([]Sale, error)

	DeleteByID(ctx context.Context, id string) error

	// Subscribe invokes fn with the full sale list on every collection
	// change until the returned stop function is called (or ctx ends).
	Subscribe(ctx context.Context, fn func([]Sale)) (func(), error)
}
