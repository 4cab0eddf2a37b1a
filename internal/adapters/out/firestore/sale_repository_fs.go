// internal/adapters/out/firestore/sale_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "quickcheckout/internal/domain/cart"
	saledom "quickcheckout/internal/domain/sale"
)

// SaleRepositoryFS implements sale.Ledger with Firestore.
//
// Collection design:
// - collection: sales
// - docId: auto id, mirrored into the "id" field
// - sales are append-only; the only mutation is whole-record delete
type SaleRepositoryFS struct {
	Client *firestore.Client
}

func NewSaleRepositoryFS(client *firestore.Client) *SaleRepositoryFS {
	return &SaleRepositoryFS{Client: client}
}

// Compile-time check
var _ saledom.Ledger = (*SaleRepositoryFS)(nil)

func (r *SaleRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("sales")
}

type saleItemDoc struct {
	ProductID    string `firestore:"productId"`
	Name         string `firestore:"name"`
	RegularPrice int    `firestore:"regularPrice"`
	Image        string `firestore:"image"`
	Quantity     int    `firestore:"quantity"`
}

type saleDoc struct {
	ID             string        `firestore:"id"`
	Date           time.Time     `firestore:"date"`
	Items          []saleItemDoc `firestore:"items"`
	Total          int           `firestore:"total"`
	AmountPaid     int           `firestore:"amountPaid"`
	Change         int           `firestore:"change"`
	BuyerName      string        `firestore:"buyerName"`
	WhatsappNumber string        `firestore:"whatsappNumber"`
}

func (r *SaleRepositoryFS) Append(ctx context.Context, s saledom.Sale) (saledom.Sale, error) {
	if r == nil || r.Client == nil {
		return saledom.Sale{}, errors.New("sale_repository_fs: firestore client is nil")
	}

	ref := r.col().NewDoc()
	s.ID = ref.ID

	if _, err := ref.Create(ctx, saleToDoc(s)); err != nil {
		return saledom.Sale{}, err
	}
	return s, nil
}

func (r *SaleRepositoryFS) GetByID(ctx context.Context, id string) (saledom.Sale, error) {
	if r == nil || r.Client == nil {
		return saledom.Sale{}, errors.New("sale_repository_fs: firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return saledom.Sale{}, saledom.ErrInvalidID
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return saledom.Sale{}, saledom.ErrNotFound
		}
		return saledom.Sale{}, err
	}
	return docToSale(snap)
}

func (r *SaleRepositoryFS) List(ctx context.Context) ([]saledom.Sale, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("sale_repository_fs: firestore client is nil")
	}

	it := r.col().OrderBy("date", firestore.Desc).Documents(ctx)
	defer it.Stop()

	out := []saledom.Sale{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		s, err := docToSale(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *SaleRepositoryFS) DeleteByID(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("sale_repository_fs: firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return saledom.ErrInvalidID
	}

	ref := r.col().Doc(id)

	// Firestore deletes are no-ops for missing docs; check first so the
	// caller can distinguish.
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return saledom.ErrNotFound
		}
		return err
	}

	_, err := ref.Delete(ctx)
	return err
}

func (r *SaleRepositoryFS) Subscribe(ctx context.Context, fn func([]saledom.Sale)) (func(), error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("sale_repository_fs: firestore client is nil")
	}
	if fn == nil {
		return nil, errors.New("sale_repository_fs: subscribe callback is nil")
	}

	ctx, cancel := context.WithCancel(ctx)
	snaps := r.col().OrderBy("date", firestore.Desc).Snapshots(ctx)

	go func() {
		defer snaps.Stop()
		for {
			qs, err := snaps.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("[sale_repository_fs] subscribe stopped: %v", err)
				}
				return
			}

			docs, err := qs.Documents.GetAll()
			if err != nil {
				log.Printf("[sale_repository_fs] subscribe read failed: %v", err)
				continue
			}

			out := make([]saledom.Sale, 0, len(docs))
			for _, doc := range docs {
				s, err := docToSale(doc)
				if err != nil {
					log.Printf("[sale_repository_fs] skip malformed doc %s: %v", doc.Ref.ID, err)
					continue
				}
				out = append(out, s)
			}
			fn(out)
		}
	}()

	return cancel, nil
}

// ============================================================
// Mapping Helpers
// ============================================================

func saleToDoc(s saledom.Sale) saleDoc {
	items := make([]saleItemDoc, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, saleItemDoc{
			ProductID:    it.ProductID,
			Name:         it.Name,
			RegularPrice: it.RegularPrice,
			Image:        it.Image,
			Quantity:     it.Quantity,
		})
	}
	return saleDoc{
		ID:             s.ID,
		Date:           s.Date,
		Items:          items,
		Total:          s.Total,
		AmountPaid:     s.AmountPaid,
		Change:         s.Change,
		BuyerName:      s.BuyerName,
		WhatsappNumber: s.WhatsappNumber,
	}
}

func docToSale(doc *firestore.DocumentSnapshot) (saledom.Sale, error) {
	var raw saleDoc
	if err := doc.DataTo(&raw); err != nil {
		return saledom.Sale{}, err
	}

	items := make([]cartdom.Item, 0, len(raw.Items))
	for _, it := range raw.Items {
		items = append(items, cartdom.Item{
			ProductID:    it.ProductID,
			Name:         it.Name,
			RegularPrice: it.RegularPrice,
			Image:        it.Image,
			Quantity:     it.Quantity,
		})
	}

	return saledom.Sale{
		ID:             doc.Ref.ID,
		Date:           raw.Date,
		Items:          items,
		Total:          raw.Total,
		AmountPaid:     raw.AmountPaid,
		Change:         raw.Change,
		BuyerName:      strings.TrimSpace(raw.BuyerName),
		WhatsappNumber: strings.TrimSpace(raw.WhatsappNumber),
	}, nil
}
