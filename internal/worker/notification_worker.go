package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/voting-service/internal/events"
	"github.com/spec-kit/voting-service/internal/service"
)

const defaultQueueSize = 256

// NotificationWorker delivers notifications off the request path. Events are queued by a
// dispatcher subscription and handed to the notification service by one goroutine.
type NotificationWorker struct {
	notifier *service.NotificationService
	logger   *zap.Logger
	queue    chan events.Event
	wg       sync.WaitGroup
}

// NewNotificationWorker builds a worker with a bounded queue.
func NewNotificationWorker(notifier *service.NotificationService, logger *zap.Logger, queueSize int) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		notifier: notifier,
		logger:   logger,
		queue:    make(chan events.Event, queueSize),
	}
}

// Subscribe enqueues every notified event type published on dispatcher. A full queue drops
// the event with a warning instead of blocking the publisher.
func (w *NotificationWorker) Subscribe(dispatcher events.Dispatcher) {
	for _, eventType := range service.NotifiedEvents {
		dispatcher.Subscribe(eventType, w.enqueue)
	}
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full; event dropped",
			zap.String("event_type", string(event.Type)),
			zap.String("subject_id", event.SubjectID))
	}
	return nil
}

// Start consumes the queue until ctx is cancelled, then drains what is left.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case event := <-w.queue:
				w.deliver(ctx, event)
			case <-ctx.Done():
				w.drain()
				return
			}
		}
	}()
}

// Wait blocks until the consumer has exited.
func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

func (w *NotificationWorker) drain() {
	for {
		select {
		case event := <-w.queue:
			w.deliver(context.Background(), event)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, event events.Event) {
	if err := w.notifier.Handle(ctx, event); err != nil {
		w.logger.Warn("notification failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// StartNotificationWorker subscribes a worker to dispatcher and starts it.
func StartNotificationWorker(ctx context.Context, dispatcher events.Dispatcher, notifier *service.NotificationService, logger *zap.Logger) *NotificationWorker {
	if notifier == nil || dispatcher == nil {
		return nil
	}
	w := NewNotificationWorker(notifier, logger, defaultQueueSize)
	w.Subscribe(dispatcher)
	w.Start(ctx)
	return w
}
