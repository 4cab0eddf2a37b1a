// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"

	httpin "quickcheckout/internal/adapters/in/http"
	"quickcheckout/internal/adapters/in/http/middleware"
	fsrepo "quickcheckout/internal/adapters/out/firestore"
	"quickcheckout/internal/adapters/out/mail"
	"quickcheckout/internal/application/query"
	usecase "quickcheckout/internal/application/usecase"
	"quickcheckout/internal/infra/config"
	"quickcheckout/internal/infra/database"
	firestoreinfra "quickcheckout/internal/infra/firestore"
)

// Container wires infra clients, repositories and usecases for cmd/api.
// Firestore is required; everything else (PG mirror, GCS images, Secret
// Manager gate, SendGrid receipts, Firebase operator auth) is optional
// and skipped with a boot log line when unconfigured.
type Container struct {
	Config *config.Config

	fs  *firestoreinfra.ClientWrapper
	db  *database.DB
	gcs *storage.Client
	sm  *secretmanager.Client

	deps httpin.RouterDeps
}

func NewContainer(ctx context.Context) (*Container, error) {
	cfg := config.Load()
	c := &Container{Config: cfg}

	fs, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("di: firestore init failed: %w", err)
	}
	c.fs = fs

	productRepo := fsrepo.NewProductRepositoryFS(fs.Client)
	saleRepo := fsrepo.NewSaleRepositoryFS(fs.Client)

	cartUC := usecase.NewCartUsecase(productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(cartUC, saleRepo)
	saleUC := usecase.NewSaleUsecase(saleRepo)

	productUC := usecase.NewProductUsecase(productRepo)
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewClient(ctx)
		if err != nil {
			log.Printf("[di] WARN: gcs init failed, image uploads disabled: %v", err)
		} else {
			c.gcs = gcs
			productUC.WithImageBucket(gcs, cfg.GCSBucket)
			log.Printf("✅ GCS image bucket: %s", cfg.GCSBucket)
		}
	}

	if cfg.PostgresDSN != "" {
		db, err := database.NewConnection(cfg.PostgresDSN)
		if err != nil {
			log.Printf("[di] WARN: postgres init failed, sale mirror disabled: %v", err)
		} else {
			c.db = db
			mirror := fsrepo.NewSaleRepositoryPG(db.Client)
			if err := mirror.EnsureSchema(ctx); err != nil {
				log.Printf("[di] WARN: sale mirror schema: %v", err)
			}
			checkoutUC.WithMirror(mirror)
			saleUC.WithMirror(mirror)
		}
	}

	if cfg.SendGridAPIKey != "" && cfg.ReceiptFrom != "" && cfg.ReceiptTo != "" {
		checkoutUC.WithMailer(mail.NewSendGridClient(cfg.SendGridAPIKey), cfg.ReceiptFrom, cfg.ReceiptTo)
		log.Printf("✅ SendGrid receipt copies enabled (to: %s)", cfg.ReceiptTo)
	}

	var accessUC *usecase.AccessUsecase
	if cfg.PasscodeSecretID != "" {
		sm, err := secretmanager.NewClient(ctx)
		if err != nil {
			log.Printf("[di] WARN: secretmanager init failed, access gate disabled: %v", err)
		} else {
			c.sm = sm
			accessUC = usecase.NewAccessUsecase(&passcodeProviderSM{
				sm:        sm,
				projectID: cfg.GCPProjectID,
				secretID:  cfg.PasscodeSecretID,
			})
		}
	}

	var fbAuth *middleware.FirebaseAuthClient
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID})
	if err != nil {
		log.Printf("[di] WARN: firebase init failed, operator gate disabled: %v", err)
	} else if authClient, err := app.Auth(ctx); err != nil {
		log.Printf("[di] WARN: firebase auth init failed, operator gate disabled: %v", err)
	} else {
		fbAuth = authClient
	}

	c.deps = httpin.RouterDeps{
		ProductUC:    productUC,
		CartUC:       cartUC,
		CheckoutUC:   checkoutUC,
		SaleUC:       saleUC,
		AccessUC:     accessUC,
		SummaryQ:     query.NewSalesSummaryQuery(saleRepo),
		FirebaseAuth: fbAuth,
	}
	return c, nil
}

func (c *Container) RouterDeps() httpin.RouterDeps {
	return c.deps
}

func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.sm != nil {
		_ = c.sm.Close()
	}
	if c.gcs != nil {
		_ = c.gcs.Close()
	}
	if c.db != nil {
		_ = c.db.Close()
	}
	if c.fs != nil {
		_ = c.fs.Close()
	}
}
