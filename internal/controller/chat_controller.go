package controller

import (
	"traffic-assistant-be/internal/dto"
	"traffic-assistant-be/internal/pkg/serverutils"
	"traffic-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
}

type chatController struct {
	service        service.IChatService
	authMiddleware fiber.Handler
}

func NewChatController(service service.IChatService, authMiddleware fiber.Handler) IChatController {
	return &chatController{
		service:        service,
		authMiddleware: authMiddleware,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat", c.authMiddleware)
	h.Post("/ask", c.Ask)
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	principal, err := serverutils.CurrentPrincipal(ctx)
	if err != nil {
		return err
	}

	var req dto.AskRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Ask(ctx.UserContext(), principal, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success ask question", res))
}
