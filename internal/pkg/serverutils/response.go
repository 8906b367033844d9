package serverutils

import (
	"errors"

	"notefiber-todo/internal/dto"
	"notefiber-todo/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

func SuccessResponse[T any](message string, data T) dto.Envelope[T] {
	return dto.Envelope[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

// WriteError renders err in the standard envelope with the status it carries.
func WriteError(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var ae *apperror.Error
	var fe *fiber.Error
	switch {
	case errors.As(err, &ae):
		status, message = ae.Status, ae.Message
	case errors.As(err, &fe):
		status, message = fe.Code, fe.Message
	}

	return ctx.Status(status).JSON(dto.Envelope[any]{
		Success: false,
		Code:    status,
		Message: message,
	})
}

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, err)
	}
}
