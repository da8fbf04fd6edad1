package serverutils

import (
	"context"
	"strings"

	"traffic-assistant-be/internal/entity"
	"traffic-assistant-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

const (
	principalKey = "principal"
	userIdKey    = "user_id"
)

const unauthorizedMessage = "Could not validate credentials"

type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (*entity.Principal, error)
}

// AuthMiddleware resolves the bearer token into a principal stored in Locals.
func AuthMiddleware(resolver PrincipalResolver) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(fiber.HeaderAuthorization)
		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return apperror.Unauthorized(unauthorizedMessage)
		}

		principal, err := resolver.Resolve(ctx.UserContext(), strings.TrimSpace(token))
		if err != nil {
			return err
		}

		ctx.Locals(principalKey, principal)
		ctx.Locals(userIdKey, principal.UserId)
		return ctx.Next()
	}
}

// CurrentPrincipal returns the principal set by AuthMiddleware.
func CurrentPrincipal(ctx *fiber.Ctx) (*entity.Principal, error) {
	principal, ok := ctx.Locals(principalKey).(*entity.Principal)
	if !ok || principal == nil {
		return nil, apperror.Unauthorized(unauthorizedMessage)
	}
	return principal, nil
}
