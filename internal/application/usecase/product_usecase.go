// internal/application/usecase/product_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	proddom "quickcheckout/internal/domain/product"
)

var ErrProductInvalidArgument = errors.New("product_usecase: invalid argument")

// ProductUsecase covers catalog management: create/update/delete plus the
// optional image upload. Stock mutations issued by carts go through
// CartUsecase, not here; Update writes the stock field directly only for
// manual corrections by an operator.
type ProductUsecase struct {
	ledger proddom.Ledger

	// gcs/bucket are optional; without them Create falls back to the
	// placeholder image.
	gcs    *storage.Client
	bucket string
}

func NewProductUsecase(ledger proddom.Ledger) *ProductUsecase {
	return &ProductUsecase{ledger: ledger}
}

// WithImageBucket enables image uploads to the given GCS bucket.
func (u *ProductUsecase) WithImageBucket(gcs *storage.Client, bucket string) *ProductUsecase {
	u.gcs = gcs
	u.bucket = strings.TrimSpace(bucket)
	return u
}

type CreateProductInput struct {
	Name         string
	RegularPrice int
	Stock        int

	// Image is optional; when nil the placeholder image is used.
	Image     io.Reader
	ImageName string
}

func (u *ProductUsecase) Create(ctx context.Context, in CreateProductInput) (proddom.Product, error) {
	image := ""
	if in.Image != nil {
		url, err := u.uploadImage(ctx, in.Image, in.ImageName)
		if err != nil {
			return proddom.Product{}, err
		}
		image = url
	}

	p, err := proddom.New("", in.Name, in.RegularPrice, in.Stock, image)
	if err != nil {
		return proddom.Product{}, err
	}

	created, err := u.ledger.Create(ctx, p)
	if err != nil {
		return proddom.Product{}, err
	}

	log.Printf("[product_uc] created productId=%s name=%q stock=%d", created.ID, created.Name, created.Stock)
	return created, nil
}

func (u *ProductUsecase) Update(ctx context.Context, id, name string, regularPrice, stock int) (proddom.Product, error) {
	pid := strings.TrimSpace(id)
	if pid == "" {
		return proddom.Product{}, ErrProductInvalidArgument
	}

	p, err := u.ledger.GetByID(ctx, pid)
	if err != nil {
		return proddom.Product{}, err
	}
	if err := p.Update(name, regularPrice, stock); err != nil {
		return proddom.Product{}, err
	}
	return u.ledger.Update(ctx, p)
}

func (u *ProductUsecase) Delete(ctx context.Context, id string) error {
	pid := strings.TrimSpace(id)
	if pid == "" {
		return ErrProductInvalidArgument
	}
	return u.ledger.Delete(ctx, pid)
}

func (u *ProductUsecase) GetByID(ctx context.Context, id string) (proddom.Product, error) {
	pid := strings.TrimSpace(id)
	if pid == "" {
		return proddom.Product{}, ErrProductInvalidArgument
	}
	return u.ledger.GetByID(ctx, pid)
}

func (u *ProductUsecase) List(ctx context.Context) ([]proddom.Product, error) {
	return u.ledger.ReadAll(ctx)
}

// uploadImage stores the image under product-images/{unixMilli}-{name}
// and returns its public URL.
func (u *ProductUsecase) uploadImage(ctx context.Context, r io.Reader, name string) (string, error) {
	if u.gcs == nil || u.bucket == "" {
		return "", fmt.Errorf("product_usecase: image bucket is not configured")
	}

	object := fmt.Sprintf("product-images/%d-%s", time.Now().UnixMilli(), sanitizeObjectName(name))
	w := u.gcs.Bucket(u.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("product_usecase: image upload failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("product_usecase: image upload failed: %w", err)
	}

	return gcsObjectPublicURL(u.bucket, object), nil
}

func gcsObjectPublicURL(bucket, object string) string {
	bucket = strings.TrimSpace(bucket)
	object = strings.TrimLeft(strings.TrimSpace(object), "/")
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

func sanitizeObjectName(name string) string {
	base := path.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == "/" {
		return "image"
	}
	return strings.ReplaceAll(base, " ", "_")
}
