// FILE: internal/pkg/serverutils/jwt_middleware.go
package serverutils

import (
	"notefiber-todo/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userIdLocal = "user_id"

// BearerToken returns the token from the Authorization header, falling back
// to the "token" query parameter used by browser WebSocket clients.
func BearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ctx.Query("token")
}

func JwtMiddleware(issuer *TokenIssuer) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := BearerToken(ctx)
		if tokenStr == "" {
			return WriteError(ctx, apperror.New(fiber.StatusUnauthorized, "Missing token"))
		}

		userId, err := issuer.Parse(tokenStr)
		if err != nil {
			return WriteError(ctx, apperror.New(fiber.StatusUnauthorized, "Invalid token"))
		}

		ctx.Locals(userIdLocal, userId.String())
		return ctx.Next()
	}
}

// CurrentUserID reads the id stored by JwtMiddleware.
func CurrentUserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, ok := ctx.Locals(userIdLocal).(string)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	return userId, nil
}

// ParamID parses a uuid route parameter.
func ParamID(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid " + name)
	}
	return id, nil
}
