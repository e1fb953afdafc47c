package dto

import (
	"time"

	"github.com/spec-kit/worker-portal/internal/domain"
)

// AccountResponse is the public view of an account. The password hash never
// leaves the service.
type AccountResponse struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	Email            string                `json:"email"`
	NationalID       string                `json:"nationalId,omitempty"`
	Phone            string                `json:"phone,omitempty"`
	HomeRegion       string                `json:"homeRegion,omitempty"`
	District         string                `json:"district,omitempty"`
	Address          string                `json:"address,omitempty"`
	Role             domain.Role           `json:"role"`
	EmailVerified    bool                  `json:"isVerified"`
	IdentityVerified bool                  `json:"isIdentityVerified"`
	ApprovalStatus   domain.ApprovalStatus `json:"approvalStatus"`
	Skills           []string              `json:"skills"`
	Education        string                `json:"education,omitempty"`
	Experience       string                `json:"experience,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

// NewAccountResponse maps a domain account.
func NewAccountResponse(a *domain.Account) AccountResponse {
	skills := a.Skills
	if skills == nil {
		skills = []string{}
	}
	return AccountResponse{
		ID:               a.ID,
		Name:             a.Name,
		Email:            a.Email,
		NationalID:       a.NationalID,
		Phone:            a.Phone,
		HomeRegion:       a.HomeRegion,
		District:         a.District,
		Address:          a.Address,
		Role:             a.Role,
		EmailVerified:    a.EmailVerified,
		IdentityVerified: a.IdentityVerified,
		ApprovalStatus:   a.ApprovalStatus,
		Skills:           skills,
		Education:        a.Education,
		Experience:       a.Experience,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// UpdateProfileRequest is a partial profile update.
type UpdateProfileRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=1"`
	Phone      *string  `json:"phone" validate:"omitempty,inphone"`
	HomeRegion *string  `json:"homeRegion"`
	District   *string  `json:"district"`
	Address    *string  `json:"address"`
	Skills     []string `json:"skills" validate:"omitempty,dive,required"`
	Education  *string  `json:"education"`
	Experience *string  `json:"experience"`
}

// ToUpdate converts the payload.
func (r UpdateProfileRequest) ToUpdate() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Name:       r.Name,
		Phone:      r.Phone,
		HomeRegion: r.HomeRegion,
		District:   r.District,
		Address:    r.Address,
		Skills:     r.Skills,
		Education:  r.Education,
		Experience: r.Experience,
	}
}

// WorkerListQuery captures admin listing filters.
type WorkerListQuery struct {
	Status   domain.ApprovalStatus `query:"status"`
	Page     int                   `query:"page"`
	PageSize int                   `query:"page_size"`
}

// WorkerListResponse is a page of workers.
type WorkerListResponse struct {
	Success bool              `json:"success"`
	Workers []AccountResponse `json:"workers"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
}

// HistoryResponse is one audit entry.
type HistoryResponse struct {
	ID         string                   `json:"id"`
	ActorID    string                   `json:"actorId"`
	ChangeType domain.AccountChangeType `json:"changeType"`
	OldValue   map[string]any           `json:"oldValue,omitempty"`
	NewValue   map[string]any           `json:"newValue,omitempty"`
	CreatedAt  time.Time                `json:"createdAt"`
}

// NewHistoryResponses maps audit entries.
func NewHistoryResponses(entries []domain.AccountHistory) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryResponse{
			ID:         e.ID,
			ActorID:    e.ActorID,
			ChangeType: e.ChangeType,
			OldValue:   e.OldValue,
			NewValue:   e.NewValue,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}
