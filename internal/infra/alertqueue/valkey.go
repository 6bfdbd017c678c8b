package alertqueue

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/bikeshare/internal/domain/maintenance"
)

type envelope struct {
	Alerts []maintenance.Alert `json:"alerts"`
}

// ValkeyQueue persists alert batches in a Valkey list and delivers them to a handler.
type ValkeyQueue struct {
	client      valkey.Client
	queueKey    string
	logger      *slog.Logger
	pollTimeout time.Duration

	mu      sync.Mutex
	handler Handler
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewValkeyQueue constructs a Valkey-backed queue.
func NewValkeyQueue(client valkey.Client, queueKey string, logger *slog.Logger) *ValkeyQueue {
	if queueKey == "" {
		queueKey = "bikeshare:alerts"
	}
	return &ValkeyQueue{
		client:      client,
		queueKey:    queueKey,
		logger:      logger.With("component", "alertqueue.valkey"),
		pollTimeout: 5 * time.Second,
	}
}

// SetHandler starts the worker loop that pops batches and invokes the handler.
// Calling it again replaces the handler and restarts the loop.
func (q *ValkeyQueue) SetHandler(handler Handler) {
	q.Close()
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handler = handler
	if handler == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	q.done = make(chan struct{})
	go q.consume(ctx, handler, q.done)
}

// Notify pushes a batch onto the queue.
func (q *ValkeyQueue) Notify(ctx context.Context, alerts []maintenance.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	encoded, err := json.Marshal(envelope{Alerts: alerts})
	if err != nil {
		return err
	}
	cmd := q.client.B().Lpush().Key(q.queueKey).Element(string(encoded)).Build()
	return q.client.Do(ctx, cmd).Error()
}

// Close stops the worker loop and waits for it to exit.
func (q *ValkeyQueue) Close() {
	q.mu.Lock()
	cancel, done := q.cancel, q.done
	q.cancel, q.done = nil, nil
	q.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (q *ValkeyQueue) consume(ctx context.Context, handler Handler, done chan struct{}) {
	defer close(done)
	for {
		if ctx.Err() != nil {
			return
		}
		resp := q.client.Do(ctx, q.client.B().Brpop().Key(q.queueKey).Timeout(q.pollTimeout.Seconds()).Build())
		values, err := resp.ToArray()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if !valkey.IsValkeyNil(err) {
				q.logger.Warn("valkey queue pop failed", "error", err)
				if !wait(ctx, time.Second) {
					return
				}
			}
			continue
		}
		if len(values) < 2 {
			continue
		}
		raw, err := values[1].ToString()
		if err != nil {
			q.logger.Warn("valkey queue payload decode failed", "error", err)
			continue
		}
		var batch envelope
		if err := json.Unmarshal([]byte(raw), &batch); err != nil {
			q.logger.Warn("valkey queue unmarshal failed", "error", err)
			continue
		}
		if err := handler(ctx, batch.Alerts); err != nil {
			q.logger.Error("alert delivery failed", "alerts", len(batch.Alerts), "error", err)
		}
	}
}

// wait pauses for d and reports false if ctx ends first.
func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

var _ Queue = (*ValkeyQueue)(nil)
