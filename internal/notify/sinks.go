package notify

import (
	"context"
	"fmt"

	"talenthub-backend/internal/domain"
)

// StoreSink writes straight to the notification repository.
type StoreSink struct {
	repo domain.NotificationRepository
}

func NewStoreSink(repo domain.NotificationRepository) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) Deliver(ctx context.Context, n *domain.Notification) error {
	return s.repo.Create(ctx, n)
}

// Publisher is satisfied by *mq.Publisher.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// QueueSink publishes to RabbitMQ; cmd/notifier persists on the other side.
type QueueSink struct {
	pub Publisher
}

func NewQueueSink(pub Publisher) *QueueSink {
	return &QueueSink{pub: pub}
}

// RoutingKey is "notification.<category>".
func RoutingKey(n *domain.Notification) string {
	return fmt.Sprintf("notification.%s", n.Category)
}

func (s *QueueSink) Deliver(ctx context.Context, n *domain.Notification) error {
	return s.pub.PublishJSON(ctx, RoutingKey(n), n)
}
