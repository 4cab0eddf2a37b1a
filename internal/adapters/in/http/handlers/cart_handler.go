// internal/adapters/in/http/handlers/cart_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	usecase "quickcheckout/internal/application/usecase"
	cartdom "quickcheckout/internal/domain/cart"
	proddom "quickcheckout/internal/domain/product"
)

// CartHandler serves the /cart endpoints of the till.
//
// Routes:
//
//	POST   /cart/sessions                      open a till session
//	GET    /cart/{sid}                         current line items
//	POST   /cart/{sid}/items                   add one unit {productId}
//	PUT    /cart/{sid}/items/{productId}       set quantity {quantity}
//	DELETE /cart/{sid}/items/{productId}       remove line
//	DELETE /cart/{sid}                         clear cart
type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) http.Handler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/cart"), "/")
	parts := []string{}
	if rest != "" {
		parts = strings.Split(rest, "/")
	}

	switch {
	case r.Method == http.MethodPost && len(parts) == 1 && parts[0] == "sessions":
		h.openSession(w, r)
	case r.Method == http.MethodGet && len(parts) == 1:
		h.get(w, r, parts[0])
	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "items":
		h.addItem(w, r, parts[0])
	case r.Method == http.MethodPut && len(parts) == 3 && parts[1] == "items":
		h.setQuantity(w, r, parts[0], parts[2])
	case r.Method == http.MethodDelete && len(parts) == 3 && parts[1] == "items":
		h.removeItem(w, r, parts[0], parts[2])
	case r.Method == http.MethodDelete && len(parts) == 1:
		h.clear(w, r, parts[0])
	default:
		writeError(w, http.StatusNotFound, "not_found")
	}
}

func (h *CartHandler) openSession(w http.ResponseWriter, _ *http.Request) {
	id, err := h.uc.OpenSession()
	if err != nil {
		writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"sessionId": id})
}

func (h *CartHandler) get(w http.ResponseWriter, _ *http.Request, sid string) {
	items, err := h.uc.Items(sid)
	if err != nil {
		writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(sid, items))
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request, sid string) {
	var body struct {
		ProductID string `json:"productId"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	c, err := h.uc.AddItem(r.Context(), sid, body.ProductID)
	if err != nil {
		writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(sid, c.Items))
}

func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request, sid, productID string) {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	c, err := h.uc.SetQuantity(r.Context(), sid, productID, body.Quantity)
	if err != nil {
		writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(sid, c.Items))
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request, sid, productID string) {
	c, err := h.uc.RemoveItem(r.Context(), sid, productID)
	if err != nil {
		writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(sid, c.Items))
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request, sid string) {
	if err := h.uc.ClearCart(r.Context(), sid); err != nil {
		writeCartErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type cartItemView struct {
	ProductID    string `json:"productId"`
	Name         string `json:"name"`
	RegularPrice int    `json:"regularPrice"`
	Image        string `json:"image"`
	Quantity     int    `json:"quantity"`
	Subtotal     int    `json:"subtotal"`
}

func cartView(sessionID string, items []cartdom.Item) map[string]any {
	views := make([]cartItemView, 0, len(items))
	total := 0
	for _, it := range items {
		views = append(views, cartItemView{
			ProductID:    it.ProductID,
			Name:         it.Name,
			RegularPrice: it.RegularPrice,
			Image:        it.Image,
			Quantity:     it.Quantity,
			Subtotal:     it.Subtotal(),
		})
		total += it.Subtotal()
	}
	return map[string]any{
		"sessionId": sessionID,
		"items":     views,
		"total":     total,
	}
}

func writeCartErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, cartdom.ErrOutOfStock),
		errors.Is(err, cartdom.ErrInsufficientStock):
		code = http.StatusConflict
	case errors.Is(err, cartdom.ErrInvalidOperation),
		errors.Is(err, usecase.ErrCartInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, proddom.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, usecase.ErrLedgerWrite):
		code = http.StatusBadGateway
	}
	writeError(w, code, err.Error())
}
