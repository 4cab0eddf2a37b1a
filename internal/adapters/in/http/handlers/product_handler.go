// internal/adapters/in/http/handlers/product_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	usecase "quickcheckout/internal/application/usecase"
	proddom "quickcheckout/internal/domain/product"
)

// maxImageUpload bounds the multipart form size for product images.
const maxImageUpload = 10 << 20

// ProductHandler serves the /products endpoints (catalog management).
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) http.Handler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/products"), "/")

	switch {
	case r.Method == http.MethodGet && id == "":
		h.list(w, r)
	case r.Method == http.MethodGet:
		h.get(w, r, id)
	case r.Method == http.MethodPost && id == "":
		h.create(w, r)
	case r.Method == http.MethodPut && id != "":
		h.update(w, r, id)
	case r.Method == http.MethodDelete && id != "":
		h.delete(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not_found")
	}
}

// GET /products
func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.uc.List(r.Context())
	if err != nil {
		writeProductErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GET /products/{id}
func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.uc.GetByID(r.Context(), id)
	if err != nil {
		writeProductErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// POST /products
// Accepts multipart/form-data (name, regularPrice, stock, optional image
// file) or a plain JSON body without image.
func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	in := usecase.CreateProductInput{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageUpload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		price, err1 := strconv.Atoi(strings.TrimSpace(r.FormValue("regularPrice")))
		stock, err2 := strconv.Atoi(strings.TrimSpace(r.FormValue("stock")))
		if err1 != nil || err2 != nil {
			writeError(w, http.StatusBadRequest, "regularPrice and stock must be integers")
			return
		}
		in.Name = r.FormValue("name")
		in.RegularPrice = price
		in.Stock = stock

		if file, header, err := r.FormFile("image"); err == nil {
			defer func() { _ = file.Close() }()
			in.Image = file
			in.ImageName = header.Filename
		}
	} else {
		var body struct {
			Name         string `json:"name"`
			RegularPrice int    `json:"regularPrice"`
			Stock        int    `json:"stock"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		in.Name = body.Name
		in.RegularPrice = body.RegularPrice
		in.Stock = body.Stock
	}

	created, err := h.uc.Create(r.Context(), in)
	if err != nil {
		writeProductErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// PUT /products/{id}
func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Name         string `json:"name"`
		RegularPrice int    `json:"regularPrice"`
		Stock        int    `json:"stock"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	updated, err := h.uc.Update(r.Context(), id, body.Name, body.RegularPrice, body.Stock)
	if err != nil {
		writeProductErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DELETE /products/{id}
func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.uc.Delete(r.Context(), id); err != nil {
		writeProductErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeProductErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, proddom.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, proddom.ErrInvalidName),
		errors.Is(err, proddom.ErrInvalidPrice),
		errors.Is(err, proddom.ErrInvalidStock),
		errors.Is(err, usecase.ErrProductInvalidArgument):
		code = http.StatusBadRequest
	}
	writeError(w, code, err.Error())
}
