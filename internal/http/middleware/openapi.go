package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"

	"github.com/tuanvumaihuynh/storefront/internal/http/apierr"
)

// OpenAPIValidator rejects requests that do not match the operation declared
// in the contract. Requests for paths the contract does not describe are
// passed through untouched so the router can answer them.
func OpenAPIValidator(log *slog.Logger, spec []byte) (func(http.Handler) http.Handler, error) {
	doc, err := openapi3.NewLoader().LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	// Match on the request path only, whatever host serves the API.
	doc.Servers = nil

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("new openapi router: %w", err)
	}

	opts := &openapi3filter.Options{
		// Bearer tokens are checked by the Auth middleware.
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    opts,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				log.InfoContext(r.Context(), "request rejected by openapi validation", slog.Any("error", err))
				if _, err := apierr.Write(w, err); err != nil {
					log.WarnContext(r.Context(), "error encoding error response", slog.Any("error", err))
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}
