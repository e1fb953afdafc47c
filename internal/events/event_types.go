package events

import (
	"time"

	"github.com/spec-kit/worker-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountApprovalChanged EventType = "account_approval_changed"
	EventTaskAssigned           EventType = "task_assigned"
	EventDocumentReviewed       EventType = "document_reviewed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	AccountID string    `json:"account_id"`
	ActorID   string    `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// ApprovalChangedPayload payload.
type ApprovalChangedPayload struct {
	OldStatus domain.ApprovalStatus `json:"old_status"`
	NewStatus domain.ApprovalStatus `json:"new_status"`
}

// TaskAssignedPayload payload.
type TaskAssignedPayload struct {
	TaskID   string              `json:"task_id"`
	Title    string              `json:"title"`
	Priority domain.TaskPriority `json:"priority"`
	DueDate  time.Time           `json:"due_date"`
}

// DocumentReviewedPayload payload.
type DocumentReviewedPayload struct {
	DocumentID string                `json:"document_id"`
	Name       string                `json:"name"`
	Status     domain.DocumentStatus `json:"status"`
}
