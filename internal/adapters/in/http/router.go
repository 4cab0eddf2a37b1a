// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"quickcheckout/internal/adapters/in/http/handlers"
	"quickcheckout/internal/adapters/in/http/middleware"
	"quickcheckout/internal/application/query"
	usecase "quickcheckout/internal/application/usecase"
)

// RouterDeps collects all usecases (and other dependencies) injected from
// the DI container.
type RouterDeps struct {
	ProductUC  *usecase.ProductUsecase
	CartUC     *usecase.CartUsecase
	CheckoutUC *usecase.CheckoutUsecase
	SaleUC     *usecase.SaleUsecase
	AccessUC   *usecase.AccessUsecase
	SummaryQ   *query.SalesSummaryQuery

	// FirebaseAuth gates the mutating catalog endpoints and sale
	// deletion. When nil those routes stay mounted but unguarded; the
	// container logs a warning in that case.
	FirebaseAuth *middleware.FirebaseAuthClient
}

// NewRouter sets up HTTP routing for all endpoints.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Health check (always on)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var gate func(http.Handler) http.Handler
	if deps.FirebaseAuth != nil {
		auth := &middleware.OperatorAuth{FirebaseAuth: deps.FirebaseAuth}
		gate = auth.Handler
	}

	// Mount only what has a configured usecase.
	if deps.ProductUC != nil {
		h := handlers.NewProductHandler(deps.ProductUC)
		mux.Handle("/products", guardMutations(h, gate))
		mux.Handle("/products/", guardMutations(h, gate))
	}

	if deps.CartUC != nil {
		h := handlers.NewCartHandler(deps.CartUC)
		mux.Handle("/cart/", h)
	}

	if deps.CheckoutUC != nil {
		mux.Handle("/checkout", handlers.NewCheckoutHandler(deps.CheckoutUC))
	}

	if deps.SaleUC != nil {
		h := handlers.NewSaleHandler(deps.SaleUC)
		mux.Handle("/sales", guardMutations(h, gate))
		mux.Handle("/sales/", guardMutations(h, gate))
	}

	if deps.SummaryQ != nil {
		mux.Handle("/analytics/", handlers.NewAnalyticsHandler(deps.SummaryQ))
	}

	if deps.AccessUC != nil {
		mux.Handle("/access/", handlers.NewAccessHandler(deps.AccessUC))
	}

	return mux
}

// guardMutations applies the operator gate to non-GET methods only: the
// storefront reads catalog and sales freely, writes need a verified
// operator token.
func guardMutations(next http.Handler, gate func(http.Handler) http.Handler) http.Handler {
	if gate == nil {
		return next
	}
	guarded := gate(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		guarded.ServeHTTP(w, r)
	})
}
