package event

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront/internal/metric"
	"github.com/tuanvumaihuynh/storefront/internal/storage/mq"
)

type fakeConsumer struct {
	handlers map[string]mq.HandlerFunc
	running  bool
	stopped  bool
}

func (c *fakeConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	if c.handlers == nil {
		c.handlers = map[string]mq.HandlerFunc{}
	}
	c.handlers[topic] = handler
	return nil
}

func (c *fakeConsumer) Run(context.Context) (mq.CleanupFunc, error) {
	c.running = true
	return func() { c.stopped = true }, nil
}

func TestService_Run(t *testing.T) {
	consumer := &fakeConsumer{}
	m := metric.New(metric.NewRegistry())
	svc := New(slog.New(slog.NewTextHandler(io.Discard, nil)), m, consumer)

	cleanup, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, consumer.running)
	assert.Len(t, consumer.handlers, len(ProductTopics))
	for _, topic := range ProductTopics {
		assert.Contains(t, consumer.handlers, topic)
	}

	cleanup()
	assert.True(t, consumer.stopped)
}

func TestService_handleProductEvent(t *testing.T) {
	m := metric.New(metric.NewRegistry())
	svc := New(slog.New(slog.NewTextHandler(io.Discard, nil)), m, &fakeConsumer{})

	t.Run("Should count handled events", func(t *testing.T) {
		err := svc.handleProductEvent(context.Background(), TopicProductDeleted,
			[]byte(`{"product_id":9,"occurred_at":"2025-01-02T03:04:05Z"}`))
		require.NoError(t, err)
		assert.InDelta(t, 1, testutil.ToFloat64(m.CatalogEventsTotal.WithLabelValues(TopicProductDeleted, "handled")), 0)
	})

	t.Run("Should reject malformed payloads", func(t *testing.T) {
		err := svc.handleProductEvent(context.Background(), TopicProductCreated, []byte(`{`))
		require.Error(t, err)
		assert.InDelta(t, 1, testutil.ToFloat64(m.CatalogEventsTotal.WithLabelValues(TopicProductCreated, "invalid")), 0)
	})
}

func TestNewProductDeletedEvent(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	ev := NewProductDeletedEvent(9, at)

	assert.Equal(t, int64(9), ev.ProductID)
	assert.Nil(t, ev.Price)
	assert.Equal(t, at, ev.OccurredAt)
}
