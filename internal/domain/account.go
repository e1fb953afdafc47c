package domain

import "time"

// Role distinguishes portal workers from administrators.
type Role string

const (
	RoleWorker Role = "worker"
	RoleAdmin  Role = "admin"
)

// ApprovalStatus is the administrator-controlled eligibility state of an account.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Valid reports whether s is a known approval status.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// Account is a registered worker or administrator. ID is the generated
// worker identifier and never changes after creation.
type Account struct {
	ID               string
	Name             string
	Email            string
	NationalID       string
	Phone            string
	HomeRegion       string
	District         string
	Address          string
	PasswordHash     string
	Role             Role
	EmailVerified    bool
	IdentityVerified bool
	ApprovalStatus   ApprovalStatus
	Skills           []string
	Education        string
	Experience       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsAdmin reports whether the account holds the admin role.
func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left untouched.
type ProfileUpdate struct {
	Name       *string
	Phone      *string
	HomeRegion *string
	District   *string
	Address    *string
	Skills     []string
	Education  *string
	Experience *string
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Phone == nil && u.HomeRegion == nil && u.District == nil &&
		u.Address == nil && u.Skills == nil && u.Education == nil && u.Experience == nil
}

// Apply copies the set fields onto a.
func (u ProfileUpdate) Apply(a *Account) {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Phone != nil {
		a.Phone = *u.Phone
	}
	if u.HomeRegion != nil {
		a.HomeRegion = *u.HomeRegion
	}
	if u.District != nil {
		a.District = *u.District
	}
	if u.Address != nil {
		a.Address = *u.Address
	}
	if u.Skills != nil {
		a.Skills = append([]string(nil), u.Skills...)
	}
	if u.Education != nil {
		a.Education = *u.Education
	}
	if u.Experience != nil {
		a.Experience = *u.Experience
	}
}

// AccountFilter narrows admin listings.
type AccountFilter struct {
	Role           Role
	ApprovalStatus ApprovalStatus
	Page           int
	PageSize       int
}
