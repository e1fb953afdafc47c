package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/worker-portal/internal/api/dto"
	"github.com/spec-kit/worker-portal/internal/domain"
	"github.com/spec-kit/worker-portal/internal/service"
	"github.com/spec-kit/worker-portal/pkg/util/errorutil"
)

// DocumentsHandler exposes document upload and review.
type DocumentsHandler struct {
	documents *service.DocumentService
}

// NewDocumentsHandler constructs handler.
func NewDocumentsHandler(documents *service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{documents: documents}
}

// Upload handles multipart POST /documents with fields file, name and type.
func (h *DocumentsHandler) Upload(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	header, err := c.FormFile("file")
	if err != nil {
		return errorutil.NewValidationError("file is required", map[string]any{"file": "a multipart file field is required"})
	}
	file, err := header.Open()
	if err != nil {
		return errorutil.NewInternalError(err)
	}
	defer file.Close()

	view, err := h.documents.Upload(c.UserContext(), p.ID(), service.UploadInput{
		Name:     c.FormValue("name"),
		Type:     domain.DocumentType(c.FormValue("type")),
		FileName: header.Filename,
		Size:     header.Size,
		Body:     file,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "document": dto.NewDocumentResponse(view)})
}

// ListMine handles GET /documents.
func (h *DocumentsHandler) ListMine(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	views, err := h.documents.ListForOwner(c.UserContext(), p.ID())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"documents": dto.NewDocumentResponses(views)})
}

// Delete handles DELETE /documents/:id.
func (h *DocumentsHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.documents.Delete(c.UserContext(), p.ID(), c.Params("id")); err != nil {
		return err
	}
	return success(c, fiber.Map{"message": "Document deleted"})
}

// ListAll handles GET /admin/documents.
func (h *DocumentsHandler) ListAll(c *fiber.Ctx) error {
	views, err := h.documents.List(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"documents": dto.NewDocumentResponses(views)})
}

// Approve handles PUT /admin/documents/:id/approve.
func (h *DocumentsHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, domain.DocumentApproved)
}

// Reject handles PUT /admin/documents/:id/reject.
func (h *DocumentsHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, domain.DocumentRejected)
}

func (h *DocumentsHandler) review(c *fiber.Ctx, status domain.DocumentStatus) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	view, err := h.documents.Review(c.UserContext(), p.ID(), c.Params("id"), status)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"document": dto.NewDocumentResponse(view)})
}
