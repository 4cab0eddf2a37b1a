// internal/adapters/in/http/handlers/checkout_handler.go
package handlers

import (
	"errors"
	"net/http"

	usecase "quickcheckout/internal/application/usecase"
	saledom "quickcheckout/internal/domain/sale"
)

// CheckoutHandler serves POST /checkout.
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) http.Handler {
	return &CheckoutHandler{uc: uc}
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	var body struct {
		SessionID      string `json:"sessionId"`
		AmountPaid     int    `json:"amountPaid"`
		BuyerName      string `json:"buyerName"`
		WhatsappNumber string `json:"whatsappNumber"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	recorded, err := h.uc.CompleteSession(r.Context(), body.SessionID, body.AmountPaid, body.BuyerName, body.WhatsappNumber)
	if err != nil {
		writeCheckoutErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"sale":   recorded,
		"change": recorded.Change,
	})
}

func writeCheckoutErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, saledom.ErrInvalidPayment),
		errors.Is(err, saledom.ErrMissingBuyerInfo),
		errors.Is(err, saledom.ErrEmptyItems),
		errors.Is(err, usecase.ErrCartInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, usecase.ErrSaleAppend):
		code = http.StatusBadGateway
	}
	writeError(w, code, err.Error())
}
