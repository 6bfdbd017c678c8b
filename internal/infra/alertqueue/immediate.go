package alertqueue

import (
	"context"
	"log/slog"
	"sync"

	"github.com/yanqian/bikeshare/internal/domain/maintenance"
)

// ImmediateQueue hands alerts to the handler on a background goroutine.
// Close waits for in-flight deliveries.
type ImmediateQueue struct {
	mu      sync.RWMutex
	handler Handler
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewImmediateQueue constructs the queue.
func NewImmediateQueue(handler Handler, logger *slog.Logger) *ImmediateQueue {
	return &ImmediateQueue{handler: handler, logger: logger.With("component", "alertqueue.immediate")}
}

// SetHandler replaces the handler used for queued alerts.
func (q *ImmediateQueue) SetHandler(handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handler = handler
}

// Notify delivers asynchronously, detached from the request context.
func (q *ImmediateQueue) Notify(ctx context.Context, alerts []maintenance.Alert) error {
	q.mu.RLock()
	handler := q.handler
	q.mu.RUnlock()
	if handler == nil || len(alerts) == 0 {
		return nil
	}
	batch := append([]maintenance.Alert(nil), alerts...)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		if err := handler(context.WithoutCancel(ctx), batch); err != nil {
			q.logger.Error("alert delivery failed", "alerts", len(batch), "error", err)
		}
	}()
	return nil
}

// Close blocks until pending deliveries finish.
func (q *ImmediateQueue) Close() {
	q.wg.Wait()
}

var _ Queue = (*ImmediateQueue)(nil)
