package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"billing-backend/internal/apperr"
	"billing-backend/internal/models"
	"billing-backend/internal/pdf"
	"billing-backend/internal/services"
)

type InvoiceHandler struct {
	Service *services.InvoiceService
}

func NewInvoiceHandler(s *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Service: s}
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	invoice, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, "createdSuccessful", invoice)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.Service.Get(r.Context(), pathID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "returnedSingleValue", invoice)
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	invoices, meta, err := h.Service.List(r.Context(), page, perPage)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondList(w, r, invoices, meta)
}

func (h *InvoiceHandler) Amend(w http.ResponseWriter, r *http.Request) {
	var req models.AmendInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	invoice, changed, err := h.Service.Amend(r.Context(), pathID(r), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if !changed {
		respond(w, r, http.StatusOK, "noDifferenceFound", invoice)
		return
	}
	respond(w, r, http.StatusOK, "updatedSuccessful", invoice)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), pathID(r)); err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "deletedSuccessful", nil)
}

// PDF streams a printable rendering of the invoice.
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	invoice, customer, productNames, err := h.Service.DocumentData(r.Context(), pathID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	doc, err := pdf.RenderInvoice(invoice, customer, productNames)
	if err != nil {
		respondError(w, r, apperr.Wrap(err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="invoice-%s.pdf"`, invoice.UniqueID))
	w.Write(doc)
}
