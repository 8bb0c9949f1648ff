package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "en", DetectLanguage("en-US,en;q=0.9"))
	assert.Equal(t, "ar", DetectLanguage("ar-IQ,ar;q=0.8,en;q=0.5"))
	assert.Equal(t, "en", DetectLanguage(""), "empty header falls back to en")
	assert.Equal(t, "en", DetectLanguage("fr-FR,fr;q=0.8"), "unsupported language falls back to en")
	assert.Equal(t, "ar", DetectLanguage("AR-iq"), "case insensitive")
}

func TestTranslateWithArgs(t *testing.T) {
	got := T("en", "productNotFound", map[string]string{"ids": "3, 7"})
	assert.Equal(t, "Product(s) not found: 3, 7", got)

	got = T("ar", "customerNotFound", nil)
	assert.Equal(t, "العميل غير موجود", got)
}

func TestTranslateFallbacks(t *testing.T) {
	// unknown key resolves to the key itself
	assert.Equal(t, "__nope__", T("en", "__nope__", nil))
	// unknown language falls back to English
	assert.Equal(t, "Customer not found", T("fr", "customerNotFound", nil))
}
