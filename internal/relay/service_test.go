package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront/internal/config"
	"github.com/tuanvumaihuynh/storefront/internal/metric"
	"github.com/tuanvumaihuynh/storefront/internal/repository"
	"github.com/tuanvumaihuynh/storefront/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront/internal/storage/mq"
	"github.com/tuanvumaihuynh/storefront/pkg/ptr"
)

type fakeProducer struct {
	mu   sync.Mutex
	msgs []mq.ProduceMsg
	err  error
}

func (p *fakeProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

var outboxCols = []string{"id", "topic", "headers", "payload", "partition_key"}

func newTestService(t *testing.T, producer mq.Producer) (*Service, pgxmock.PgxPoolIface, *metric.Metrics) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	client := db.NewClient(mock)
	m := metric.New(metric.NewRegistry())
	svc := NewService(
		config.Relay{BatchSize: 10, Interval: time.Millisecond},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		m,
		client,
		repository.NewOutboxMsgRepository(client),
		producer,
	)
	return svc, mock, m
}

func TestService_relayBatch(t *testing.T) {
	t.Run("Should publish and mark messages processed", func(t *testing.T) {
		producer := &fakeProducer{}
		svc, mock, m := newTestService(t, producer)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM outbox_messages").
			WithArgs(pgx.NamedArgs{"batch_size": int32(10)}).
			WillReturnRows(pgxmock.NewRows(outboxCols).
				AddRow(id, "product.created", []byte(`{}`), []byte(`{"product_id":1}`), ptr.New("1")))
		mock.ExpectExec("UPDATE outbox_messages AS o").
			WithArgs(pgx.NamedArgs{
				"ids":    []uuid.UUID{id},
				"errors": []*string{nil},
			}).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		require.NoError(t, svc.relayBatch(context.Background()))

		require.Len(t, producer.msgs, 1)
		assert.Equal(t, "product.created", producer.msgs[0].Topic)
		assert.Equal(t, "1", *producer.msgs[0].PartitionKey)
		assert.InDelta(t, 1, testutil.ToFloat64(m.OutboxRelayedTotal.WithLabelValues("product.created", "published")), 0)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should record produce failures", func(t *testing.T) {
		producer := &fakeProducer{err: errors.New("broker down")}
		svc, mock, m := newTestService(t, producer)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM outbox_messages").
			WithArgs(pgx.NamedArgs{"batch_size": int32(10)}).
			WillReturnRows(pgxmock.NewRows(outboxCols).
				AddRow(id, "product.deleted", nil, []byte(`{"product_id":2}`), nil))
		mock.ExpectExec("UPDATE outbox_messages AS o").
			WithArgs(pgx.NamedArgs{
				"ids":    []uuid.UUID{id},
				"errors": []*string{ptr.New("produce message: broker down")},
			}).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		require.NoError(t, svc.relayBatch(context.Background()))
		assert.InDelta(t, 1, testutil.ToFloat64(m.OutboxRelayedTotal.WithLabelValues("product.deleted", "failed")), 0)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should commit without producing when nothing is pending", func(t *testing.T) {
		producer := &fakeProducer{}
		svc, mock, _ := newTestService(t, producer)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM outbox_messages").
			WithArgs(pgx.NamedArgs{"batch_size": int32(10)}).
			WillReturnRows(pgxmock.NewRows(outboxCols))
		mock.ExpectCommit()

		require.NoError(t, svc.relayBatch(context.Background()))
		assert.Empty(t, producer.msgs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestService_Run(t *testing.T) {
	svc, mock, _ := newTestService(t, &fakeProducer{})
	svc.cfg.Interval = time.Hour

	cleanup := svc.Run(context.Background())

	done := make(chan struct{})
	go func() {
		cleanup()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
