// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
)

var (
	ErrNotFound       = errors.New("product not found")
	ErrInvalidName    = errors.New("invalid product name")
	ErrInvalidPrice   = errors.New("invalid regular price")
	ErrInvalidStock   = errors.New("invalid stock")
	ErrStockExhausted = errors.New("stock exhausted")
)

// DefaultImage is used when a product is created without an uploaded image.
const DefaultImage = "/placeholder.svg"

// Product represents one document of the products collection.
// Stock is the on-shelf count: every unit reserved in a live cart has
// already been debited from it.
type Product struct {
	ID           string
	Name         string
	RegularPrice int
	Stock        int
	Image        string
}

// New validates and builds a product.
// id can be empty (the repository assigns the docId on Create).
func New(id, name string, regularPrice, stock int, image string) (Product, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return Product{}, ErrInvalidName
	}
	if regularPrice < 0 {
		return Product{}, ErrInvalidPrice
	}
	if stock < 0 {
		return Product{}, ErrInvalidStock
	}

	img := strings.TrimSpace(image)
	if img == "" {
		img = DefaultImage
	}

	return Product{
		ID:           strings.TrimSpace(id),
		Name:         n,
		RegularPrice: regularPrice,
		Stock:        stock,
		Image:        img,
	}, nil
}

// Update applies an edit to name/price/stock, keeping the image.
func (p *Product) Update(name string, regularPrice, stock int) error {
	if p == nil {
		return ErrNotFound
	}

	n := strings.TrimSpace(name)
	if n == "" {
		return ErrInvalidName
	}
	if regularPrice < 0 {
		return ErrInvalidPrice
	}
	if stock < 0 {
		return ErrInvalidStock
	}

	p.Name = n
	p.RegularPrice = regularPrice
	p.Stock = stock
	return nil
}
