package domain

import "time"

// AccountChangeType enumerates audited account transitions.
type AccountChangeType string

const (
	ChangeEmailVerified    AccountChangeType = "EMAIL_VERIFIED"
	ChangeIdentityVerified AccountChangeType = "IDENTITY_VERIFIED"
	ChangeApprovalStatus   AccountChangeType = "APPROVAL_STATUS"
	ChangeProfileUpdate    AccountChangeType = "PROFILE_UPDATE"
)

// AccountHistory captures an audit trail row for an account.
type AccountHistory struct {
	ID         string
	AccountID  string
	ActorID    string
	ChangeType AccountChangeType
	OldValue   map[string]any
	NewValue   map[string]any
	CreatedAt  time.Time
}
