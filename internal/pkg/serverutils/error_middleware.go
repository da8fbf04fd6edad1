package serverutils

import (
	"errors"

	"traffic-assistant-be/internal/pkg/apperror"
	"traffic-assistant-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const module = "HTTP"

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation, apperror.KindDuplicate:
		return fiber.StatusBadRequest
	case apperror.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperror.KindForbidden:
		return fiber.StatusForbidden
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// WriteError renders err into the response envelope. Internal errors are logged with
// their cause and reported without it.
func WriteError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var appErr *apperror.AppError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &appErr):
		code = statusFor(appErr.Kind)
		if code != fiber.StatusInternalServerError {
			message = appErr.Message
		}
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code == fiber.StatusUnauthorized {
		ctx.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	}

	if code >= fiber.StatusInternalServerError {
		log.Error(module, "Request failed", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err.Error(),
		})
	}

	return ctx.Status(code).JSON(ErrorResponse(code, message))
}

// ErrorHandlerMiddleware translates errors returned by downstream handlers.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return WriteError(ctx, log, err)
		}
		return nil
	}
}

// ErrorHandler is installed as fiber.Config.ErrorHandler for errors raised outside the
// middleware chain.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		return WriteError(ctx, log, err)
	}
}
