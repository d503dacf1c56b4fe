// Package notify delivers notifications off the request path.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/logger"
	"talenthub-backend/pkg/metrics"
)

// Sink persists or forwards one notification.
type Sink interface {
	Deliver(ctx context.Context, n *domain.Notification) error
}

// AsyncEmitter hands each notification to a sink on its own goroutine.
// The caller's cancellation does not propagate; each delivery gets its own timeout.
type AsyncEmitter struct {
	sink    Sink
	timeout time.Duration
	metrics metrics.MetricsCollector
	log     *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewAsyncEmitter(sink Sink, timeout time.Duration, m metrics.MetricsCollector) *AsyncEmitter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if m == nil {
		m = metrics.Nop{}
	}
	return &AsyncEmitter{sink: sink, timeout: timeout, metrics: m, log: logger.Log}
}

// Emit never blocks and never reports failure to the caller.
func (e *AsyncEmitter) Emit(ctx context.Context, n *domain.Notification) {
	if n == nil {
		return
	}

	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		e.log.Warn("notification dropped after shutdown", "type", n.Type, "user_id", n.UserID)
		return
	}
	e.wg.Add(1)
	e.mu.RUnlock()

	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.metrics.RecordNotification(string(n.Type), metrics.ResultFailed)
				e.log.Error("notification sink panicked", "type", n.Type, "panic", r)
			}
		}()

		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
		defer cancel()

		e.deliver(dctx, n)
	}()
}

func (e *AsyncEmitter) deliver(ctx context.Context, n *domain.Notification) {
	err := e.sink.Deliver(ctx, n)
	switch {
	case err == nil:
		e.metrics.RecordNotification(string(n.Type), metrics.ResultDelivered)
	case errors.Is(err, domain.ErrDuplicate):
		e.metrics.RecordNotification(string(n.Type), metrics.ResultDuplicate)
	default:
		e.metrics.RecordNotification(string(n.Type), metrics.ResultFailed)
		e.log.Error("notification delivery failed",
			"type", n.Type,
			"user_id", n.UserID,
			"error", err,
		)
	}
}

// Close stops accepting new notifications and waits for in-flight ones
// until ctx is done.
func (e *AsyncEmitter) Close(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until every emitted notification has been handled.
func (e *AsyncEmitter) Wait() {
	e.wg.Wait()
}
