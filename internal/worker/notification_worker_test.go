package worker

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/voting-service/internal/config"
	"github.com/spec-kit/voting-service/internal/events"
	"github.com/spec-kit/voting-service/internal/service"
)

func TestNotificationWorkerDeliversAsync(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher()
	notifier := service.NewNotificationService(logger, config.NotificationConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	w := StartNotificationWorker(ctx, dispatcher, notifier, logger)

	if err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventVoteCast, SubjectID: "v1"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for logs.FilterMessage("VoteCast").Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("vote notification not delivered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	w.Wait()
}

func TestNotificationWorkerDropsWhenFull(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)
	notifier := service.NewNotificationService(zap.NewNop(), config.NotificationConfig{})
	dispatcher := events.NewInMemoryDispatcher()

	w := NewNotificationWorker(notifier, logger, 1)
	w.Subscribe(dispatcher)

	for i := 0; i < 3; i++ {
		_ = dispatcher.Publish(context.Background(), events.Event{Type: events.EventAccountCreated})
	}
	if got := logs.FilterMessage("notification queue full; event dropped").Len(); got != 2 {
		t.Fatalf("expected 2 dropped events, got %d", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)
	w.Wait()
	if len(w.queue) != 0 {
		t.Fatalf("expected queue drained, %d left", len(w.queue))
	}
}
