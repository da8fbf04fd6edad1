package controller

import (
	"traffic-assistant-be/internal/dto"
	"traffic-assistant-be/internal/pkg/serverutils"
	"traffic-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Messages(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type conversationController struct {
	service        service.IConversationService
	authMiddleware fiber.Handler
}

func NewConversationController(service service.IConversationService, authMiddleware fiber.Handler) IConversationController {
	return &conversationController{
		service:        service,
		authMiddleware: authMiddleware,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/conversations", c.authMiddleware)
	h.Post("", c.Create)
	h.Get("", c.GetAll)
	h.Get("/:id", c.Show)
	h.Get("/:id/messages", c.Messages)
	h.Delete("/:id", c.Delete)
}

func (c *conversationController) Create(ctx *fiber.Ctx) error {
	principal, err := serverutils.CurrentPrincipal(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateConversationRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), principal, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Success create conversation", res))
}

func (c *conversationController) GetAll(ctx *fiber.Ctx) error {
	principal, err := serverutils.CurrentPrincipal(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), principal)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all conversations", res))
}

func (c *conversationController) Show(ctx *fiber.Ctx) error {
	principal, err := serverutils.CurrentPrincipal(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), principal, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get conversation", res))
}

func (c *conversationController) Messages(ctx *fiber.Ctx) error {
	principal, err := serverutils.CurrentPrincipal(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListMessages(ctx.UserContext(), principal, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

func (c *conversationController) Delete(ctx *fiber.Ctx) error {
	principal, err := serverutils.CurrentPrincipal(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Delete(ctx.UserContext(), principal, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation deleted successfully", res))
}
