package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/worker-portal/internal/api/dto"
	"github.com/spec-kit/worker-portal/internal/service"
)

// ProfileHandler serves the caller's own account.
type ProfileHandler struct {
	accounts *service.AccountService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(accounts *service.AccountService) *ProfileHandler {
	return &ProfileHandler{accounts: accounts}
}

// Me handles GET /users/me and GET /users/profile.
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	account, err := h.accounts.GetProfile(c.UserContext(), p.ID())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"user": dto.NewAccountResponse(account)})
}

// Update handles PUT /users/profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.UpdateProfile(c.UserContext(), p.ID(), req.ToUpdate())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"user": dto.NewAccountResponse(account)})
}
