package middleware

import (
	"context"
	"net/http"

	"billing-backend/internal/i18n"
)

const LangKey contextKey = "lang"

// Language resolves the request locale from Accept-Language and stores it
// in the context for handlers and error responses.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		ctx := context.WithValue(r.Context(), LangKey, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LangFromContext returns the resolved locale, defaulting to English.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(LangKey).(string); ok {
		return lang
	}
	return "en"
}
