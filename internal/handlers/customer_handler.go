package handlers

import (
	"encoding/json"
	"net/http"

	"billing-backend/internal/apperr"
	"billing-backend/internal/models"
	"billing-backend/internal/services"
)

type CustomerHandler struct {
	Service *services.CustomerService
}

func NewCustomerHandler(s *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{Service: s}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	customer, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, "createdSuccessful", customer)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.Service.Get(r.Context(), pathID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "returnedSingleValue", customer)
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	customers, meta, err := h.Service.List(r.Context(), page, perPage)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondList(w, r, customers, meta)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	customer, err := h.Service.Update(r.Context(), pathID(r), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "updatedSuccessful", customer)
}

func (h *CustomerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req models.AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	customer, err := h.Service.Deposit(r.Context(), pathID(r), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "updatedSuccessful", customer)
}

func (h *CustomerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req models.AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	customer, err := h.Service.Withdraw(r.Context(), pathID(r), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "updatedSuccessful", customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), pathID(r)); err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "deletedSuccessful", nil)
}
