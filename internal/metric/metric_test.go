package metric_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront/internal/metric"
)

func TestNew(t *testing.T) {
	reg := metric.NewRegistry()
	m := metric.New(reg)

	m.RequestsTotal.WithLabelValues("GET", "/products", "200").Inc()
	m.CatalogEventsTotal.WithLabelValues("product.created", "handled").Add(2)

	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/products", "200")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.CatalogEventsTotal.WithLabelValues("product.created", "handled")), 0)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["storefront_http_requests_total"])
	assert.True(t, names["go_goroutines"])
}

func TestNew_PanicsOnDoubleRegistration(t *testing.T) {
	reg := metric.NewRegistry()
	metric.New(reg)
	assert.Panics(t, func() { metric.New(reg) })
}
