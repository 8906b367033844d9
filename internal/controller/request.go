package controller

import (
	"notefiber-todo/internal/pkg/apperror"
	"notefiber-todo/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes the JSON body into req and runs its validate tags.
func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.Validation("invalid request body")
	}
	return serverutils.ValidateRequest(req)
}
