// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	proddom "quickcheckout/internal/domain/product"
)

// ProductRepositoryFS implements product.Ledger with Firestore.
//
// Collection design:
// - collection: products
// - docId: auto id (also mirrored into the "id" field for client reads)
// - fields: id, name, regularPrice, stock, image
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

// Compile-time check
var _ proddom.Ledger = (*ProductRepositoryFS)(nil)

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

type productDoc struct {
	ID           string `firestore:"id"`
	Name         string `firestore:"name"`
	RegularPrice int    `firestore:"regularPrice"`
	Stock        int    `firestore:"stock"`
	Image        string `firestore:"image"`
}

func (r *ProductRepositoryFS) Create(ctx context.Context, p proddom.Product) (proddom.Product, error) {
	if r == nil || r.Client == nil {
		return proddom.Product{}, errors.New("product_repository_fs: firestore client is nil")
	}

	ref := r.col().NewDoc()
	if id := strings.TrimSpace(p.ID); id != "" {
		ref = r.col().Doc(id)
	}
	p.ID = ref.ID

	if _, err := ref.Create(ctx, productToDoc(p)); err != nil {
		return proddom.Product{}, err
	}
	return p, nil
}

func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (proddom.Product, error) {
	if r == nil || r.Client == nil {
		return proddom.Product{}, errors.New("product_repository_fs: firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return proddom.Product{}, proddom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return proddom.Product{}, proddom.ErrNotFound
		}
		return proddom.Product{}, err
	}
	return docToProduct(snap)
}

func (r *ProductRepositoryFS) ReadAll(ctx context.Context) ([]proddom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}

	it := r.col().OrderBy("name", firestore.Asc).Documents(ctx)
	defer it.Stop()

	out := []proddom.Product{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		p, err := docToProduct(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepositoryFS) Update(ctx context.Context, p proddom.Product) (proddom.Product, error) {
	if r == nil || r.Client == nil {
		return proddom.Product{}, errors.New("product_repository_fs: firestore client is nil")
	}

	id := strings.TrimSpace(p.ID)
	if id == "" {
		return proddom.Product{}, proddom.ErrNotFound
	}

	// Overwrite full doc (simple & predictable).
	if _, err := r.col().Doc(id).Set(ctx, productToDoc(p)); err != nil {
		if status.Code(err) == codes.NotFound {
			return proddom.Product{}, proddom.ErrNotFound
		}
		return proddom.Product{}, err
	}
	return p, nil
}

func (r *ProductRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("product_repository_fs: firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return proddom.ErrNotFound
	}

	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

// AdjustStock applies delta to the stock field inside a Firestore
// transaction: the read, the non-negative check and the write happen
// atomically, so two tills racing for the last unit cannot both win.
func (r *ProductRepositoryFS) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	if r == nil || r.Client == nil {
		return 0, errors.New("product_repository_fs: firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return 0, proddom.ErrNotFound
	}

	ref := r.col().Doc(id)
	next := 0

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return proddom.ErrNotFound
			}
			return err
		}

		var raw productDoc
		if err := snap.DataTo(&raw); err != nil {
			return err
		}

		next = raw.Stock + delta
		if next < 0 {
			return proddom.ErrStockExhausted
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "stock", Value: next},
		})
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// Subscribe streams the full product list on every collection change,
// mirroring the realtime push the storefront was built around.
func (r *ProductRepositoryFS) Subscribe(ctx context.Context, fn func([]proddom.Product)) (func(), error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}
	if fn == nil {
		return nil, errors.New("product_repository_fs: subscribe callback is nil")
	}

	ctx, cancel := context.WithCancel(ctx)
	snaps := r.col().Snapshots(ctx)

	go func() {
		defer snaps.Stop()
		for {
			qs, err := snaps.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("[product_repository_fs] subscribe stopped: %v", err)
				}
				return
			}

			docs, err := qs.Documents.GetAll()
			if err != nil {
				log.Printf("[product_repository_fs] subscribe read failed: %v", err)
				continue
			}

			out := make([]proddom.Product, 0, len(docs))
			for _, doc := range docs {
				p, err := docToProduct(doc)
				if err != nil {
					log.Printf("[product_repository_fs] skip malformed doc %s: %v", doc.Ref.ID, err)
					continue
				}
				out = append(out, p)
			}
			fn(out)
		}
	}()

	return cancel, nil
}

// ============================================================
// Mapping Helpers
// ============================================================

func productToDoc(p proddom.Product) productDoc {
	return productDoc{
		ID:           p.ID,
		Name:         p.Name,
		RegularPrice: p.RegularPrice,
		Stock:        p.Stock,
		Image:        p.Image,
	}
}

func docToProduct(doc *firestore.DocumentSnapshot) (proddom.Product, error) {
	var raw productDoc
	if err := doc.DataTo(&raw); err != nil {
		return proddom.Product{}, err
	}

	return proddom.Product{
		// docId is the source of truth even when the id field is stale
		ID:           doc.Ref.ID,
		Name:         strings.TrimSpace(raw.Name),
		RegularPrice: raw.RegularPrice,
		Stock:        raw.Stock,
		Image:        raw.Image,
	}, nil
}
