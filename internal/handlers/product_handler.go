package handlers

import (
	"encoding/json"
	"net/http"

	"billing-backend/internal/apperr"
	"billing-backend/internal/models"
	"billing-backend/internal/services"
)

const maxImageSize = 10 << 20 // 10 MiB

type ProductHandler struct {
	Service *services.ProductService
}

func NewProductHandler(s *services.ProductService) *ProductHandler {
	return &ProductHandler{Service: s}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	product, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, "createdSuccessful", product)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.Service.Get(r.Context(), pathID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "returnedSingleValue", product)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	products, meta, err := h.Service.List(r.Context(), page, perPage)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondList(w, r, products, meta)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	product, err := h.Service.Update(r.Context(), pathID(r), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "updatedSuccessful", product)
}

func (h *ProductHandler) StockIn(w http.ResponseWriter, r *http.Request) {
	var req models.AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	product, err := h.Service.StockIn(r.Context(), pathID(r), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "updatedSuccessful", product)
}

func (h *ProductHandler) StockOut(w http.ResponseWriter, r *http.Request) {
	var req models.AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	product, err := h.Service.StockOut(r.Context(), pathID(r), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "updatedSuccessful", product)
}

// UploadImage accepts a multipart form with an "image" field.
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}
	defer file.Close()

	product, err := h.Service.UploadImage(r.Context(), pathID(r),
		header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "updatedSuccessful", product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), pathID(r)); err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "deletedSuccessful", nil)
}
