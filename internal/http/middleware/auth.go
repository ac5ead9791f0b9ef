package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/tuanvumaihuynh/storefront/internal/apperr"
	"github.com/tuanvumaihuynh/storefront/internal/auth"
	"github.com/tuanvumaihuynh/storefront/internal/http/apierr"
)

type TokenValidator interface {
	ValidateAccessToken(token string) (auth.Principal, error)
}

// Auth requires a valid Bearer token and stores the caller's principal in the
// request context.
func Auth(log *slog.Logger, tv TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w, r, log, apperr.UnauthorizedErr)
				return
			}

			principal, err := tv.ValidateAccessToken(token)
			if err != nil {
				writeUnauthorized(w, r, log, apperr.UnauthorizedErr.WrapParent(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), principal)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.WarnContext(r.Context(), "unauthorized request", slog.Any("error", err))
	if _, err := apierr.Write(w, err); err != nil {
		log.WarnContext(r.Context(), "error encoding error response", slog.Any("error", err))
	}
}
