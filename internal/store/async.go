package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"urlsentinel/internal/logger"
	"urlsentinel/internal/metrics"
	"urlsentinel/pkg/models"
)

// DefaultWriteTimeout bounds a single background write.
const DefaultWriteTimeout = 5 * time.Second

// AsyncRecorder writes records on a background worker so callers never
// wait on the store. When the queue is full new records are dropped.
type AsyncRecorder struct {
	next         Recorder
	queue        chan models.ScanRecord
	writeTimeout time.Duration
	metrics      *metrics.Metrics

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsyncRecorder(next Recorder, queueSize int, writeTimeout time.Duration, m *metrics.Metrics) *AsyncRecorder {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}

	a := &AsyncRecorder{
		next:         next,
		queue:        make(chan models.ScanRecord, queueSize),
		writeTimeout: writeTimeout,
		metrics:      m,
		done:         make(chan struct{}),
	}

	go a.run()

	return a
}

// Enqueue never blocks. It reports false when the record was dropped.
func (a *AsyncRecorder) Enqueue(rec models.ScanRecord) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return false
	}

	select {
	case a.queue <- rec:
		return true
	default:
		a.metrics.StoreDropped()
		logger.Get().Warn("scan record dropped",
			slog.String("id", rec.ID),
			slog.String("domain", rec.Domain),
			slog.String("reason", "queue_full"))
		return false
	}
}

// Close stops accepting records and waits for the queue to drain or ctx
// to end.
func (a *AsyncRecorder) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *AsyncRecorder) run() {
	defer close(a.done)

	for rec := range a.queue {
		a.write(rec)
	}
}

func (a *AsyncRecorder) write(rec models.ScanRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), a.writeTimeout)
	defer cancel()

	err := a.next.Record(ctx, rec)
	a.metrics.StoreWrite(err == nil)

	if err != nil {
		logger.Get().Error("failed to persist scan record",
			slog.String("id", rec.ID),
			slog.String("domain", rec.Domain),
			slog.String("error", err.Error()))
	}
}
