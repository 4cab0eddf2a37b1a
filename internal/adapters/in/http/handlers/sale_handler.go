// internal/adapters/in/http/handlers/sale_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	usecase "quickcheckout/internal/application/usecase"
	saledom "quickcheckout/internal/domain/sale"
)

// SaleHandler serves the /sales endpoints (ledger views and the
// operator-gated delete; the delete route is wrapped by OperatorAuth in
// the router).
type SaleHandler struct {
	uc *usecase.SaleUsecase
}

func NewSaleHandler(uc *usecase.SaleUsecase) http.Handler {
	return &SaleHandler{uc: uc}
}

func (h *SaleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/sales"), "/")

	switch {
	case r.Method == http.MethodGet && id == "":
		h.list(w, r)
	case r.Method == http.MethodGet:
		h.get(w, r, id)
	case r.Method == http.MethodDelete && id != "":
		h.delete(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not_found")
	}
}

// GET /sales
func (h *SaleHandler) list(w http.ResponseWriter, r *http.Request) {
	sales, err := h.uc.List(r.Context())
	if err != nil {
		writeSaleErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

// GET /sales/{id}
func (h *SaleHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	s, err := h.uc.GetByID(r.Context(), id)
	if err != nil {
		writeSaleErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// DELETE /sales/{id}
func (h *SaleHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.uc.DeleteByID(r.Context(), id); err != nil {
		writeSaleErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeSaleErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, saledom.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, saledom.ErrInvalidID):
		code = http.StatusBadRequest
	}
	writeError(w, code, err.Error())
}
