package serverutils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"traffic-assistant-be/internal/entity"
	"traffic-assistant-be/internal/pkg/apperror"
	"traffic-assistant-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
}

type secretForm struct {
	Password string `json:"password" validate:"required,max=72,maxbytes=72"`
}

func TestValidateRequestCountsBytes(t *testing.T) {
	assert.NoError(t, ValidateRequest(&secretForm{Password: strings.Repeat("x", 72)}))
	assert.NoError(t, ValidateRequest(&secretForm{Password: strings.Repeat("é", 36)}))

	err := ValidateRequest(&secretForm{Password: strings.Repeat("é", 37)})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "password must be at most 72 bytes", err.Error())
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&signupForm{Email: "a@b.com", FullName: "Ravi"}))

	err := ValidateRequest(&signupForm{Email: "nope", FullName: "R"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Contains(t, err.Error(), "full_name must be at least 2 characters")
}

type stubResolver struct {
	principal *entity.Principal
}

func (s stubResolver) Resolve(_ context.Context, token string) (*entity.Principal, error) {
	if token != "good" {
		return nil, apperror.Unauthorized("Could not validate credentials")
	}
	return s.principal, nil
}

func newTestApp(resolver PrincipalResolver) *fiber.App {
	log := logger.NewNopLogger()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	app.Use(ErrorHandlerMiddleware(log))

	app.Get("/kind/:kind", func(ctx *fiber.Ctx) error {
		switch ctx.Params("kind") {
		case "validation":
			return apperror.Validation("bad input")
		case "duplicate":
			return apperror.Duplicate("email already registered")
		case "forbidden":
			return apperror.Forbidden("not yours")
		case "missing":
			return apperror.NotFound("conversation not found")
		default:
			return errors.New("database exploded")
		}
	})

	app.Get("/me", AuthMiddleware(resolver), func(ctx *fiber.Ctx) error {
		principal, err := CurrentPrincipal(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", principal.Email))
	})
	return app
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	app := newTestApp(stubResolver{})

	tests := []struct {
		path    string
		code    int
		message string
	}{
		{"/kind/validation", 400, "bad input"},
		{"/kind/duplicate", 400, "email already registered"},
		{"/kind/forbidden", 403, "not yours"},
		{"/kind/missing", 404, "conversation not found"},
		{"/kind/other", 500, "Internal server error"},
		{"/no/such/route", 404, "Cannot GET /no/such/route"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			var body BaseResponse[any]
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	app := newTestApp(stubResolver{principal: &entity.Principal{UserId: uuid.New(), Email: "driver@example.com"}})

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"no header", "", 401},
		{"wrong scheme", "Basic good", 401},
		{"empty token", "Bearer ", 401},
		{"rejected token", "Bearer bad", 401},
		{"valid token", "Bearer good", 200},
		{"lowercase scheme", "bearer good", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)
			if tt.code == 401 {
				assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
			}
		})
	}
}
