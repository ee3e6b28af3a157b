package relay_test

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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openinventory/inventory-admin/internal/config"
	"github.com/openinventory/inventory-admin/internal/relay"
	"github.com/openinventory/inventory-admin/internal/repository"
	"github.com/openinventory/inventory-admin/internal/storage/db"
	"github.com/openinventory/inventory-admin/internal/storage/mq"
)

type fakeDB struct{}

func (f *fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func (f *fakeDB) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (f *fakeDB) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }

func (f *fakeDB) WithTx(ctx context.Context, txFunc func(db.DB) error) error {
	return txFunc(f)
}

// fakeOutboxQueue mirrors the real table's lifecycle: every row named in a
// bulk update is marked processed, with any produce error recorded on it.
type fakeOutboxQueue struct {
	mu      sync.Mutex
	pending []repository.ListUnprocessedOutboxMsgsResult
	updated []repository.BulkUpdateOutboxMsgsItem
}

func (s *fakeOutboxQueue) WithDB(db.DB) repository.OutboxMsgRepository { return s }

func (s *fakeOutboxQueue) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, repository.ListUnprocessedOutboxMsgsResult{
		ID:           uuid.New(),
		Topic:        params.Topic,
		Headers:      params.Headers,
		Payload:      params.Payload,
		PartitionKey: params.PartitionKey,
	})
	return nil
}

func (s *fakeOutboxQueue) ListUnprocessedOutboxMsgs(_ context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int(params.BatchSize)
	if n > len(s.pending) {
		n = len(s.pending)
	}
	batch := make([]repository.ListUnprocessedOutboxMsgsResult, n)
	copy(batch, s.pending[:n])
	return batch, nil
}

func (s *fakeOutboxQueue) BulkUpdateOutboxMsgs(_ context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updated = append(s.updated, params.Items...)

	done := make(map[uuid.UUID]bool, len(params.Items))
	for _, item := range params.Items {
		done[item.ID] = true
	}

	remaining := s.pending[:0]
	for _, msg := range s.pending {
		if !done[msg.ID] {
			remaining = append(remaining, msg)
		}
	}
	s.pending = remaining
	return nil
}

func (s *fakeOutboxQueue) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

type fakeProducer struct {
	mu       sync.Mutex
	produced []mq.ProduceMsg
	failNext bool
}

func (p *fakeProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failNext {
		p.failNext = false
		return errors.New("broker unavailable")
	}
	p.produced = append(p.produced, msg)
	return nil
}

func (p *fakeProducer) producedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.produced)
}

func newRelayService(queue *fakeOutboxQueue, producer *fakeProducer) *relay.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Relay{BatchSize: 10, Interval: 5 * time.Millisecond}
	return relay.NewService(cfg, logger, &fakeDB{}, queue, producer)
}

func TestRelayPublishesPendingMessages(t *testing.T) {
	ctx := context.Background()

	queue := &fakeOutboxQueue{}
	producer := &fakeProducer{}
	key := "Widget"

	for i := 0; i < 3; i++ {
		require.NoError(t, queue.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        "inventory.activity",
			Headers:      map[string]string{"correlation_id": uuid.NewString()},
			Payload:      []byte(`{"action":"SALE"}`),
			PartitionKey: &key,
		}))
	}

	svc := newRelayService(queue, producer)
	cleanup := svc.Run(ctx)
	defer cleanup()

	require.Eventually(t, func() bool {
		return producer.producedCount() == 3 && queue.pendingCount() == 0
	}, time.Second, 5*time.Millisecond)

	msg := producer.produced[0]
	assert.Equal(t, "inventory.activity", msg.Topic)
	require.NotNil(t, msg.PartitionKey)
	assert.Equal(t, "Widget", *msg.PartitionKey)
}

func TestRelayRecordsProduceErrors(t *testing.T) {
	ctx := context.Background()

	queue := &fakeOutboxQueue{}
	producer := &fakeProducer{failNext: true}

	require.NoError(t, queue.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
		Topic:   "inventory.activity",
		Payload: []byte(`{"action":"CREATE"}`),
	}))

	svc := newRelayService(queue, producer)
	cleanup := svc.Run(ctx)
	defer cleanup()

	// the row is marked processed with the error recorded on it
	require.Eventually(t, func() bool {
		return queue.pendingCount() == 0
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 0, producer.producedCount())

	queue.mu.Lock()
	defer queue.mu.Unlock()
	require.Len(t, queue.updated, 1)
	require.NotNil(t, queue.updated[0].Error)
	assert.Equal(t, "broker unavailable", *queue.updated[0].Error)
}

func TestRelayCleanupStopsTheLoop(t *testing.T) {
	queue := &fakeOutboxQueue{}
	producer := &fakeProducer{}

	svc := newRelayService(queue, producer)
	cleanup := svc.Run(context.Background())

	done := make(chan struct{})
	go func() {
		cleanup()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not return")
	}
}
