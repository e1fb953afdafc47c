package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/worker-portal/internal/service"
)

// RegisterRequest payload for new workers.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,inphone"`
	NationalID string `json:"nationalId" validate:"required,nationalid"`
	HomeRegion string `json:"homeRegion" validate:"required"`
	District   string `json:"district"`
	Address    string `json:"address"`
	Password   string `json:"password" validate:"required,min=6"`
}

// Normalize trims surrounding whitespace. Passwords are kept as sent.
func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.HomeRegion = strings.TrimSpace(r.HomeRegion)
	r.District = strings.TrimSpace(r.District)
	r.Address = strings.TrimSpace(r.Address)
}

// ToInput converts the payload for the registration workflow.
func (r RegisterRequest) ToInput() service.RegisterInput {
	return service.RegisterInput{
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		NationalID: r.NationalID,
		HomeRegion: r.HomeRegion,
		District:   r.District,
		Address:    r.Address,
		Password:   r.Password,
	}
}

// RegisterResponse acknowledges a registration.
type RegisterResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	WorkerID string `json:"workerId"`
	DevCode  string `json:"devCode,omitempty"`
}

// VerifyEmailRequest carries the emailed code. Older clients send it as otp.
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"`
	OTP   string `json:"otp"`
}

func (r *VerifyEmailRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Code = strings.TrimSpace(r.Code)
	r.OTP = strings.TrimSpace(r.OTP)
}

// ResolvedCode returns whichever code field was supplied.
func (r VerifyEmailRequest) ResolvedCode() string {
	if r.Code != "" {
		return r.Code
	}
	return r.OTP
}

// ResendCodeRequest asks for a fresh email code.
type ResendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ResendCodeRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Success   bool            `json:"success"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      AccountResponse `json:"user"`
}

// IdentityCodeRequest asks for a national-ID code.
type IdentityCodeRequest struct {
	NationalID string `json:"nationalId" validate:"required,nationalid"`
}

func (r *IdentityCodeRequest) Normalize() {
	r.NationalID = strings.TrimSpace(r.NationalID)
}

// IdentityVerifyRequest submits a national-ID code.
type IdentityVerifyRequest struct {
	NationalID string `json:"nationalId" validate:"required,nationalid"`
	Code       string `json:"code"`
	OTP        string `json:"otp"`
}

func (r *IdentityVerifyRequest) Normalize() {
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.Code = strings.TrimSpace(r.Code)
	r.OTP = strings.TrimSpace(r.OTP)
}

// ResolvedCode returns whichever code field was supplied.
func (r IdentityVerifyRequest) ResolvedCode() string {
	if r.Code != "" {
		return r.Code
	}
	return r.OTP
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	DevCode string `json:"devCode,omitempty"`
}
