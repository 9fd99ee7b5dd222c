package notifications

import (
	"context"
	"log/slog"
	"time"
)

// Worker decouples request handling from sink latency: services enqueue
// through Publish and a background goroutine drains to the real sink.
// Delivery is best-effort; a full inbox or a sink error is logged and the
// operation that produced the notification is unaffected.
type Worker struct {
	sink   Publisher
	logger *slog.Logger
	inbox  chan Notification
}

const defaultInboxSize = 256

func NewWorker(sink Publisher, logger *slog.Logger) *Worker {
	return &Worker{
		sink:   sink,
		logger: logger,
		inbox:  make(chan Notification, defaultInboxSize),
	}
}

// Publish enqueues without blocking. Dropping under backpressure is
// deliberate: notifications must never stall deposit accounting.
func (w *Worker) Publish(_ context.Context, n Notification) error {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	select {
	case w.inbox <- n:
	default:
		w.logger.Warn("notification inbox full, dropping",
			"kind", n.Kind,
			"event_id", n.EventID,
		)
	}
	return nil
}

// Run drains the inbox until ctx is cancelled, then flushes what is queued.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.flush()
			return ctx.Err()
		case n := <-w.inbox:
			w.deliver(ctx, n)
		}
	}
}

func (w *Worker) flush() {
	// Detached context: the run context is already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case n := <-w.inbox:
			w.deliver(ctx, n)
		default:
			return
		}
	}
}

func (w *Worker) deliver(ctx context.Context, n Notification) {
	if err := w.sink.Publish(ctx, n); err != nil {
		w.logger.Error("notification delivery failed",
			"kind", n.Kind,
			"event_id", n.EventID,
			"error", err,
		)
	}
}
