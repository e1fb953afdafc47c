package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/worker-portal/internal/api/dto"
	"github.com/spec-kit/worker-portal/internal/auth"
	"github.com/spec-kit/worker-portal/pkg/util/errorutil"
)

// bind decodes the JSON body into req and runs tag validation.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return errorutil.NewValidationError("invalid request body", nil)
	}
	return dto.Validate(req)
}

func principal(c *fiber.Ctx) (*auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, errorutil.NewUnauthorized("authentication required")
	}
	return p, nil
}

func success(c *fiber.Ctx, body fiber.Map) error {
	body["success"] = true
	return c.JSON(body)
}
