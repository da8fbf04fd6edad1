package controller

import (
	"traffic-assistant-be/internal/pkg/apperror"
	"traffic-assistant-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// bindAndValidate parses the JSON body into req and runs tag validation on it.
func bindAndValidate(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	return serverutils.ValidateRequest(req)
}
