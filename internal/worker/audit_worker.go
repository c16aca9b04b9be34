package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/admin-console/internal/events"
	"github.com/storefront/admin-console/internal/observability"
	"github.com/storefront/admin-console/internal/service"
)

const recordTimeout = 5 * time.Second

// Metric keys for audit failures, reported next to request errors.
const (
	metricRoute = "audit"
	metricOp    = "worker"
	codeDropped = "QUEUE_FULL"
	codePersist = "PERSIST_FAILED"
)

// AuditWorker moves console events off the request path and into the audit trail.
type AuditWorker struct {
	audit   *service.AuditService
	logger  *zap.Logger
	metrics *observability.Metrics
	queue   chan events.Event
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// StartAuditWorker subscribes to every console event and starts the consumer.
// Events published after the buffer fills are dropped. Drops and store
// failures are counted in metrics.
func StartAuditWorker(dispatcher events.Dispatcher, audit *service.AuditService, logger *zap.Logger, metrics *observability.Metrics, buffer int) *AuditWorker {
	if buffer <= 0 {
		buffer = 256
	}
	w := &AuditWorker{
		audit:   audit,
		logger:  logger,
		metrics: metrics,
		queue:   make(chan events.Event, buffer),
	}
	for _, eventType := range events.AllTypes() {
		dispatcher.Subscribe(eventType, w.enqueue)
	}

	w.wg.Add(1)
	go w.run()
	return w
}

func (w *AuditWorker) enqueue(_ context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return nil
	}
	select {
	case w.queue <- event:
	default:
		w.metrics.RecordError(metricRoute, metricOp, codeDropped)
		w.logger.Warn("audit queue full; dropping event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)))
	}
	return nil
}

func (w *AuditWorker) run() {
	defer w.wg.Done()
	for event := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := w.audit.Record(ctx, event); err != nil {
			w.metrics.RecordError(metricRoute, metricOp, codePersist)
		}
		cancel()
	}
}

// Stop drains queued events and waits for the consumer to exit.
func (w *AuditWorker) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()
	w.wg.Wait()
}
