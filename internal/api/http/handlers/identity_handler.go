package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/worker-portal/internal/api/dto"
	"github.com/spec-kit/worker-portal/internal/service"
)

// IdentityHandler exposes national-ID verification.
type IdentityHandler struct {
	identity *service.IdentityService
}

// NewIdentityHandler constructs handler.
func NewIdentityHandler(identity *service.IdentityService) *IdentityHandler {
	return &IdentityHandler{identity: identity}
}

// RequestCode handles POST /identity/request-otp.
func (h *IdentityHandler) RequestCode(c *fiber.Ctx) error {
	var req dto.IdentityCodeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	devCode, err := h.identity.RequestCode(c.UserContext(), req.NationalID)
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{
		Success: true,
		Message: "A verification code has been sent to the phone linked to this national ID",
		DevCode: devCode,
	})
}

// VerifyCode handles POST /identity/verify-otp.
func (h *IdentityHandler) VerifyCode(c *fiber.Ctx) error {
	var req dto.IdentityVerifyRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	account, err := h.identity.VerifyCode(c.UserContext(), req.NationalID, req.ResolvedCode())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{
		"message":  "National ID verified successfully",
		"workerId": account.ID,
	})
}
