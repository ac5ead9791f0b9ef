package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/storefront/internal/metric"
	"github.com/tuanvumaihuynh/storefront/internal/storage/mq"
)

// Service is the event service.
type Service struct {
	logger     *slog.Logger
	metrics    *metric.Metrics
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	metrics *metric.Metrics,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		metrics:    metrics,
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	for _, topic := range ProductTopics {
		if err := s.mqConsumer.RegisterHandler(topic, s.handleProductEvent); err != nil {
			return nil, fmt.Errorf("register %s event handler: %w", topic, err)
		}
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

func (s *Service) handleProductEvent(ctx context.Context, topic string, payload []byte) error {
	var ev ProductEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		s.metrics.CatalogEventsTotal.WithLabelValues(topic, "invalid").Inc()
		return fmt.Errorf("unmarshal %s event: %w", topic, err)
	}

	s.logger.InfoContext(ctx, "handling product event",
		slog.String("topic", topic),
		slog.Int64("product_id", ev.ProductID),
		slog.Time("occurred_at", ev.OccurredAt),
	)
	s.metrics.CatalogEventsTotal.WithLabelValues(topic, "handled").Inc()

	return nil
}
