package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/worker-portal/internal/events"
	"github.com/spec-kit/worker-portal/internal/notify"
	"github.com/spec-kit/worker-portal/internal/observability"
	"github.com/spec-kit/worker-portal/internal/repository"
)

// NotificationService emails workers when admins act on their account,
// tasks or documents.
type NotificationService struct {
	dispatcher events.Dispatcher
	accounts   repository.AccountRepository
	mailer     notify.Mailer
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NotificationDependencies encapsulates collaborators.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	Accounts   repository.AccountRepository
	Mailer     notify.Mailer
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		accounts:   deps.Accounts,
		mailer:     deps.Mailer,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAccountApprovalChanged, n.handleApprovalChanged)
	n.dispatcher.Subscribe(events.EventTaskAssigned, n.handleTaskAssigned)
	n.dispatcher.Subscribe(events.EventDocumentReviewed, n.handleDocumentReviewed)
}

func (n *NotificationService) handleApprovalChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApprovalChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	line := fmt.Sprintf("Your registration has been %s.", payload.NewStatus)
	return n.send(ctx, event, "Registration status updated", line)
}

func (n *NotificationService) handleTaskAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TaskAssignedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	line := fmt.Sprintf("You have been assigned %q (%s priority), due %s.",
		payload.Title, payload.Priority, payload.DueDate.Format("2006-01-02"))
	return n.send(ctx, event, "New task assigned", line)
}

func (n *NotificationService) handleDocumentReviewed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DocumentReviewedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	line := fmt.Sprintf("Your document %q has been %s.", payload.Name, payload.Status)
	return n.send(ctx, event, "Document reviewed", line)
}

func (n *NotificationService) send(ctx context.Context, event events.Event, subject, line string) error {
	account, err := n.accounts.FindByID(ctx, event.AccountID)
	if err != nil {
		return fmt.Errorf("load recipient %s: %w", event.AccountID, err)
	}
	n.logger.Info("notifying account",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("account_id", account.ID))

	if err := n.mailer.SendEmail(ctx, notify.StatusEmail(account.Name, account.Email, subject, line)); err != nil {
		n.metrics.RecordNotificationFailure("email")
		return err
	}
	return nil
}
