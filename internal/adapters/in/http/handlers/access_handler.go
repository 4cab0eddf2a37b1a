// internal/adapters/in/http/handlers/access_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	usecase "quickcheckout/internal/application/usecase"
)

// AccessHandler serves POST /access/verify (the till gate screen).
type AccessHandler struct {
	uc *usecase.AccessUsecase
}

func NewAccessHandler(uc *usecase.AccessUsecase) http.Handler {
	return &AccessHandler{uc: uc}
}

func (h *AccessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || !strings.HasSuffix(strings.TrimRight(r.URL.Path, "/"), "verify") {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	var body struct {
		Passcode string `json:"passcode"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if err := h.uc.Verify(r.Context(), body.Passcode); err != nil {
		switch {
		case errors.Is(err, usecase.ErrAccessDenied):
			writeError(w, http.StatusUnauthorized, "access denied")
		case errors.Is(err, usecase.ErrAccessNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "access gate not configured")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
