package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tuanvumaihuynh/storefront/internal/http/middleware"
	"github.com/tuanvumaihuynh/storefront/pkg/correlationid"
)

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTrace(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	r := chi.NewRouter()
	r.Use(middleware.Trace(tp.Tracer("test")), middleware.CorrelationID())
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "0" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get(middleware.MetricsPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Should name the span after the route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products/9", nil)
		req.Header.Set(correlationid.Header, "req-9")
		r.ServeHTTP(httptest.NewRecorder(), req)

		ended := spans.Ended()
		require.Len(t, ended, 1)
		span := ended[0]

		assert.Equal(t, "GET /products/{id}", span.Name())
		got := attrs(span)
		assert.Equal(t, "/products/{id}", got["http.route"].AsString())
		assert.Equal(t, "/products/9", got["url.path"].AsString())
		assert.Equal(t, int64(404), got["http.response.status_code"].AsInt64())
		assert.Equal(t, "req-9", got["correlation_id"].AsString())
		assert.Equal(t, codes.Unset, span.Status().Code)
	})

	t.Run("Should mark server errors", func(t *testing.T) {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/0", nil))

		ended := spans.Ended()
		require.Len(t, ended, 2)
		assert.Equal(t, codes.Error, ended[1].Status().Code)
	})

	t.Run("Should not trace the metrics endpoint", func(t *testing.T) {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, middleware.MetricsPath, nil))
		assert.Len(t, spans.Ended(), 2)
	})
}
