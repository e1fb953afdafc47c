package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/worker-portal/internal/api/dto"
	"github.com/spec-kit/worker-portal/internal/service"
)

// AuthHandler exposes registration, verification and login.
type AuthHandler struct {
	registration *service.RegistrationService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(registration *service.RegistrationService) *AuthHandler {
	return &AuthHandler{registration: registration}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.registration.Register(c.UserContext(), req.ToInput())
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.RegisterResponse{
		Success:  true,
		Message:  "Registration successful. A verification code has been sent to your email.",
		WorkerID: res.Account.ID,
		DevCode:  res.DevCode,
	})
}

// VerifyEmail handles POST /auth/verify-otp.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	account, err := h.registration.VerifyEmail(c.UserContext(), req.Email, req.ResolvedCode())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{
		"message":  "Email verified successfully",
		"workerId": account.ID,
	})
}

// ResendCode handles POST /auth/resend-otp.
func (h *AuthHandler) ResendCode(c *fiber.Ctx) error {
	var req dto.ResendCodeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	devCode, err := h.registration.ResendCode(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "A new verification code has been sent", DevCode: devCode})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.registration.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Success:   true,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      dto.NewAccountResponse(res.Account),
	})
}

// Logout handles POST /auth/logout. Tokens are stateless; the client drops it.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.registration.Logout(c.UserContext(), p.ID()); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Logged out"})
}
