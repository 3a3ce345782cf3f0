package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/voting-service/internal/config"
	"github.com/spec-kit/voting-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		logger: logger,
		cfg:    cfg,
	}
}

// NotifiedEvents lists the event types the service reacts to.
var NotifiedEvents = []events.EventType{
	events.EventVoteCast,
	events.EventCandidateCreated,
	events.EventCandidateUpdated,
	events.EventCandidateDeleted,
	events.EventAccountCreated,
}

// Handle routes a single event to its notification.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventVoteCast:
		return n.handleVoteCast(ctx, event)
	case events.EventCandidateCreated, events.EventCandidateUpdated, events.EventCandidateDeleted:
		return n.handleCandidateChanged(ctx, event)
	case events.EventAccountCreated:
		return n.handleAccountCreated(ctx, event)
	}
	return nil
}

func (n *NotificationService) handleVoteCast(ctx context.Context, event events.Event) error {
	n.logger.Info("VoteCast", zap.String("voter_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCandidateChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("CandidateChanged",
		zap.String("event_type", string(event.Type)),
		zap.String("candidate_id", event.SubjectID),
		zap.String("admin_id", event.Actor.ID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAccountCreated(_ context.Context, event events.Event) error {
	n.logger.Info("AccountCreated", zap.String("account_id", event.SubjectID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
