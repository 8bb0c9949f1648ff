// Package i18n resolves response-message keys to display strings.
// Services and repositories only emit keys plus structured interpolation
// arguments; the final text is produced here, per request locale.
package i18n

import "strings"

const defaultLang = "en"

// DetectLanguage picks the message language from an Accept-Language header
// value. Only the primary subtag matters; unsupported languages fall back
// to English.
func DetectLanguage(acceptLanguage string) string {
	first := strings.TrimSpace(strings.Split(acceptLanguage, ",")[0])
	primary := strings.ToLower(strings.Split(first, "-")[0])
	if _, ok := messages[primary]; ok {
		return primary
	}
	return defaultLang
}

// T resolves key in lang, interpolating {{name}} placeholders from args.
// Unknown keys resolve to the key itself so a missing translation never
// hides the error class.
func T(lang, key string, args map[string]string) string {
	table, ok := messages[lang]
	if !ok {
		table = messages[defaultLang]
	}
	msg, ok := table[key]
	if !ok {
		if msg, ok = messages[defaultLang][key]; !ok {
			return key
		}
	}
	for name, value := range args {
		msg = strings.ReplaceAll(msg, "{{"+name+"}}", value)
	}
	return msg
}
