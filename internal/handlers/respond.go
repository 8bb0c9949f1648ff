package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"billing-backend/internal/apperr"
	"billing-backend/internal/i18n"
	"billing-backend/internal/middleware"
	"billing-backend/internal/models"
	"billing-backend/internal/services"

	"github.com/gorilla/mux"
)

// envelope is the uniform response body: a localized message, the payload
// and optional pagination info.
type envelope struct {
	Message  string           `json:"message"`
	Data     interface{}      `json:"data,omitempty"`
	PageMeta *models.PageMeta `json:"page_meta,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respond(w http.ResponseWriter, r *http.Request, status int, key string, data interface{}) {
	lang := middleware.LangFromContext(r.Context())
	writeJSON(w, status, envelope{Message: i18n.T(lang, key, nil), Data: data})
}

func respondList(w http.ResponseWriter, r *http.Request, data interface{}, meta *models.PageMeta) {
	lang := middleware.LangFromContext(r.Context())
	writeJSON(w, http.StatusOK, envelope{
		Message:  i18n.T(lang, "returnedAllValues", nil),
		Data:     data,
		PageMeta: meta,
	})
}

// respondError maps the error kind to a status and localizes the key with
// its interpolation arguments.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	lang := middleware.LangFromContext(r.Context())

	var status int
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindBusinessRule:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, envelope{
		Message: i18n.T(lang, apperr.KeyOf(err), apperr.ArgsOf(err)),
	})
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	return services.NormalizePage(page, perPage)
}
