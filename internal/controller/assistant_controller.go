package controller

import (
	"github.com/gofiber/fiber/v2"

	"phone-store-be/internal/dto"
	"phone-store-be/internal/pkg/serverutils"
	"phone-store-be/internal/service"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router, admin fiber.Handler)
	SendChat(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	EndSession(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type assistantController struct {
	service service.IAssistantService
	audit   service.ITurnAuditService
}

func NewAssistantController(service service.IAssistantService, audit service.ITurnAuditService) IAssistantController {
	return &assistantController{service: service, audit: audit}
}

func (c *assistantController) RegisterRoutes(r fiber.Router, admin fiber.Handler) {
	h := r.Group("/assistant/v1")
	h.Post("chat", c.SendChat)
	h.Get("session/:id", c.GetSession)
	h.Delete("session/:id", c.EndSession)
	h.Get("stats", admin, c.Stats)
}

func (c *assistantController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendChat(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *assistantController) GetSession(ctx *fiber.Ctx) error {
	res, err := c.service.GetSession(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *assistantController) EndSession(ctx *fiber.Ctx) error {
	if err := c.service.EndSession(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success end session", nil))
}

func (c *assistantController) Stats(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get turn stats", c.audit.Stats()))
}
