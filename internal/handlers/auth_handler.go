package handlers

import (
	"encoding/json"
	"net/http"

	"billing-backend/internal/apperr"
	"billing-backend/internal/models"
	"billing-backend/internal/services"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(s *services.UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	resp, err := h.Service.Signup(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, "createdSuccessful", resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperr.New(apperr.KindValidation, "noDataProvided"))
		return
	}

	resp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "returnedSingleValue", resp)
}
