package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/worker-portal/internal/api/dto"
	"github.com/spec-kit/worker-portal/internal/domain"
	"github.com/spec-kit/worker-portal/internal/service"
	"github.com/spec-kit/worker-portal/pkg/util/errorutil"
)

// AdminHandler exposes worker review endpoints.
type AdminHandler struct {
	accounts *service.AccountService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(accounts *service.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

// ListWorkers handles GET /admin/workers.
func (h *AdminHandler) ListWorkers(c *fiber.Ctx) error {
	var q dto.WorkerListQuery
	if err := c.QueryParser(&q); err != nil {
		return errorutil.NewValidationError("invalid query parameters", nil)
	}

	workers, total, err := h.accounts.ListWorkers(c.UserContext(), domain.AccountFilter{
		ApprovalStatus: q.Status,
		Page:           q.Page,
		PageSize:       q.PageSize,
	})
	if err != nil {
		return err
	}

	resp := dto.WorkerListResponse{Success: true, Total: total, Page: max(q.Page, 1)}
	resp.Workers = make([]dto.AccountResponse, 0, len(workers))
	for i := range workers {
		resp.Workers = append(resp.Workers, dto.NewAccountResponse(&workers[i]))
	}
	return c.JSON(resp)
}

// Approve handles PUT /admin/workers/:id/approve.
func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, domain.ApprovalApproved)
}

// Reject handles PUT /admin/workers/:id/reject.
func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, domain.ApprovalRejected)
}

func (h *AdminHandler) decide(c *fiber.Ctx, status domain.ApprovalStatus) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	account, err := h.accounts.SetApprovalStatus(c.UserContext(), p.ID(), c.Params("id"), status)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"user": dto.NewAccountResponse(account)})
}

// History handles GET /admin/workers/:id/history.
func (h *AdminHandler) History(c *fiber.Ctx) error {
	entries, err := h.accounts.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"history": dto.NewHistoryResponses(entries)})
}
