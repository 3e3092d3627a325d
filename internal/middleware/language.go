package middleware

import (
	"context"
	"net/http"

	"github.com/ishan/vaahaka/internal/model"
)

// LanguageCookieName carries the reader's language preference.
const LanguageCookieName = "lang"

var languageContextKey = contextKey("language")

// LanguageCookieSettings controls how the preference cookie is
// written.
type LanguageCookieSettings struct {
	Secure bool
	Domain string
	MaxAge int
}

// NewLanguageMiddleware reads the language preference cookie and
// injects the resolved language into the request context. Readers
// without a cookie, or with a mangled one, get Dhivehi.
func NewLanguageMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := model.LanguageDhivehi
			if cookie, err := r.Cookie(LanguageCookieName); err == nil {
				lang = model.ParseLanguage(cookie.Value)
			}
			ctx := context.WithValue(r.Context(), languageContextKey, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LanguageFromContext returns the reader's language, defaulting to
// Dhivehi when the middleware did not run.
func LanguageFromContext(ctx context.Context) model.Language {
	if lang, ok := ctx.Value(languageContextKey).(model.Language); ok {
		return lang
	}
	return model.LanguageDhivehi
}

// SetLanguageCookie writes the preference cookie. Called by the
// language toggle endpoint.
func SetLanguageCookie(w http.ResponseWriter, lang model.Language, settings LanguageCookieSettings) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    string(lang),
		Path:     "/",
		Domain:   settings.Domain,
		MaxAge:   settings.MaxAge,
		Secure:   settings.Secure,
		HttpOnly: false, // the frontend reads it to pick a text direction
		SameSite: http.SameSiteLaxMode,
	})
}
