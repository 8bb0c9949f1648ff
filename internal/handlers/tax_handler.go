package handlers

import (
	"encoding/json"
	"net/http"

	"billing-backend/internal/apperr"
	"billing-backend/internal/models"
	"billing-backend/internal/services"
)

type TaxHandler struct {
	Service *services.TaxService
}

func NewTaxHandler(s *services.TaxService) *TaxHandler {
	return &TaxHandler{Service: s}
}

func (h *TaxHandler) Get(w http.ResponseWriter, r *http.Request) {
	policy, err := h.Service.Current(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "returnedSingleValue", policy)
}

func (h *TaxHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateTaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	policy, err := h.Service.Update(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "updatedSuccessful", policy)
}
