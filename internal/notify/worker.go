package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/logger"
	"talenthub-backend/pkg/metrics"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrMalformed marks a message that can never be stored.
var ErrMalformed = errors.New("malformed notification")

// Worker consumes queued notifications and stores them.
type Worker struct {
	repo    domain.NotificationRepository
	metrics metrics.MetricsCollector
	log     *slog.Logger
	timeout time.Duration
}

func NewWorker(repo domain.NotificationRepository, m metrics.MetricsCollector, timeout time.Duration) *Worker {
	if m == nil {
		m = metrics.Nop{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Worker{repo: repo, metrics: m, log: logger.Log, timeout: timeout}
}

// Handle decodes and stores one message body. Duplicates are success.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var n domain.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if n.UserID == "" || !n.Type.Valid() || !n.Category.Valid() {
		return fmt.Errorf("%w: missing user, type or category", ErrMalformed)
	}
	n.ID = ""

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	err := w.repo.Create(ctx, &n)
	switch {
	case err == nil:
		w.metrics.RecordNotification(string(n.Type), metrics.ResultDelivered)
		return nil
	case errors.Is(err, domain.ErrDuplicate):
		w.metrics.RecordNotification(string(n.Type), metrics.ResultDuplicate)
		return nil
	default:
		w.metrics.RecordNotification(string(n.Type), metrics.ResultFailed)
		return err
	}
}

// Run acks stored messages. Malformed messages and second failures are
// dead-lettered; a first failure is requeued once.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			err := w.Handle(ctx, d.Body)
			if err == nil {
				_ = d.Ack(false)
				continue
			}

			requeue := !errors.Is(err, ErrMalformed) && !d.Redelivered
			w.log.Error("notification consume failed",
				"routing_key", d.RoutingKey,
				"requeue", requeue,
				"error", err,
			)
			_ = d.Nack(false, requeue)
		}
	}
}

// Sweeper deletes expired notifications on a fixed interval.
type Sweeper struct {
	repo     domain.NotificationRepository
	interval time.Duration
	now      func() time.Time
	log      *slog.Logger
}

func NewSweeper(repo domain.NotificationRepository, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{repo: repo, interval: interval, now: time.Now, log: logger.Log}
}

// RunOnce is idempotent; nothing to delete is not an error.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	start := time.Now()
	deleted, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		s.log.Error("notification sweep failed", "error", err)
		return 0, fmt.Errorf("sweep expired notifications: %w", err)
	}
	s.log.Info("notification sweep completed",
		"deleted_count", deleted,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return deleted, nil
}

// Run sweeps once immediately, then every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	_, _ = s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}
