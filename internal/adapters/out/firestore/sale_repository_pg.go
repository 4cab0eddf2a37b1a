// internal/adapters/out/firestore/sale_repository_pg.go
package firestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	cartdom "quickcheckout/internal/domain/cart"
	saledom "quickcheckout/internal/domain/sale"
)

// SaleRepositoryPG mirrors recorded sales into PostgreSQL for SQL
// reporting. The Firestore ledger stays authoritative; this mirror is
// written best-effort by the checkout usecase.
type SaleRepositoryPG struct {
	DB *sql.DB
}

func NewSaleRepositoryPG(db *sql.DB) *SaleRepositoryPG {
	return &SaleRepositoryPG{DB: db}
}

// EnsureSchema creates the mirror table when missing.
func (r *SaleRepositoryPG) EnsureSchema(ctx context.Context) error {
	if r == nil || r.DB == nil {
		return errors.New("sale_repository_pg: db is nil")
	}

	const ddl = `
CREATE TABLE IF NOT EXISTS sales (
  id              TEXT PRIMARY KEY,
  sale_date       TIMESTAMPTZ NOT NULL,
  items           JSONB NOT NULL,
  total           BIGINT NOT NULL,
  amount_paid     BIGINT NOT NULL,
  change          BIGINT NOT NULL,
  buyer_name      TEXT NOT NULL,
  whatsapp_number TEXT NOT NULL
)`
	_, err := r.DB.ExecContext(ctx, ddl)
	return err
}

func (r *SaleRepositoryPG) Create(ctx context.Context, s saledom.Sale) error {
	if r == nil || r.DB == nil {
		return errors.New("sale_repository_pg: db is nil")
	}

	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("sale_repository_pg: marshal items: %w", err)
	}

	const q = `
INSERT INTO sales (id, sale_date, items, total, amount_paid, change, buyer_name, whatsapp_number)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO NOTHING
`
	_, err = r.DB.ExecContext(ctx, q,
		s.ID, s.Date, items, s.Total, s.AmountPaid, s.Change, s.BuyerName, s.WhatsappNumber,
	)
	return err
}

func (r *SaleRepositoryPG) DeleteByID(ctx context.Context, id string) error {
	if r == nil || r.DB == nil {
		return errors.New("sale_repository_pg: db is nil")
	}

	const q = `DELETE FROM sales WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, q, strings.TrimSpace(id))
	return err
}

func (r *SaleRepositoryPG) GetByID(ctx context.Context, id string) (saledom.Sale, error) {
	if r == nil || r.DB == nil {
		return saledom.Sale{}, errors.New("sale_repository_pg: db is nil")
	}

	const q = `
SELECT id, sale_date, items, total, amount_paid, change, buyer_name, whatsapp_number
FROM sales
WHERE id = $1
`
	row := r.DB.QueryRowContext(ctx, q, strings.TrimSpace(id))

	var (
		s        saledom.Sale
		rawItems []byte
	)
	err := row.Scan(&s.ID, &s.Date, &rawItems, &s.Total, &s.AmountPaid, &s.Change, &s.BuyerName, &s.WhatsappNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return saledom.Sale{}, saledom.ErrNotFound
	}
	if err != nil {
		return saledom.Sale{}, err
	}

	var items []cartdom.Item
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return saledom.Sale{}, fmt.Errorf("sale_repository_pg: unmarshal items: %w", err)
	}
	s.Items = items
	return s, nil
}
