package mail

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ucao-academy/web-academy-api/pkg/jobs"
)

// QueuedMailer hands messages to a background queue so request handlers never
// wait on the mail provider. Delivery failures are retried by the queue.
type QueuedMailer struct {
	inner Mailer
	queue *jobs.Queue
}

// NewQueuedMailer wraps a mailer with an asynchronous dispatch queue. The
// queue must be started before messages are accepted and stopped during
// shutdown.
func NewQueuedMailer(inner Mailer, logger *zap.Logger) *QueuedMailer {
	m := &QueuedMailer{inner: inner}
	m.queue = jobs.NewQueue("mail", m.deliver, jobs.Options{
		Workers:    2,
		MaxRetries: 3,
		RetryDelay: 5 * time.Second,
		Logger:     logger,
	})
	return m
}

// Start launches the delivery workers.
func (m *QueuedMailer) Start(ctx context.Context) {
	m.queue.Start(ctx)
}

// Stop drains the delivery workers.
func (m *QueuedMailer) Stop() {
	m.queue.Stop()
}

// Send enqueues the message for background delivery.
func (m *QueuedMailer) Send(_ context.Context, msg Message) error {
	return m.queue.Enqueue(jobs.Task{
		ID:      uuid.NewString(),
		Kind:    "email",
		Payload: msg,
	})
}

func (m *QueuedMailer) deliver(ctx context.Context, task jobs.Task) error {
	msg, ok := task.Payload.(Message)
	if !ok {
		return nil
	}
	return m.inner.Send(ctx, msg)
}
