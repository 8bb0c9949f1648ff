package handlers

import (
	"encoding/json"
	"net/http"

	"billing-backend/internal/apperr"
	"billing-backend/internal/models"
	"billing-backend/internal/services"
)

type SupplierHandler struct {
	Service *services.SupplierService
}

func NewSupplierHandler(s *services.SupplierService) *SupplierHandler {
	return &SupplierHandler{Service: s}
}

func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	supplier, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, "createdSuccessful", supplier)
}

func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.Service.Get(r.Context(), pathID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "returnedSingleValue", supplier)
}

func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	suppliers, meta, err := h.Service.List(r.Context(), page, perPage)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondList(w, r, suppliers, meta)
}

func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	supplier, err := h.Service.Update(r.Context(), pathID(r), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "updatedSuccessful", supplier)
}

func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), pathID(r)); err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "deletedSuccessful", nil)
}
