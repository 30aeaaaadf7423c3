package controller

import (
	"github.com/gofiber/fiber/v2"

	"phone-store-be/internal/dto"
	"phone-store-be/internal/pkg/serverutils"
	"phone-store-be/internal/service"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router, admin fiber.Handler)
	Search(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
}

type catalogController struct {
	service service.ICatalogService
}

func NewCatalogController(service service.ICatalogService) ICatalogController {
	return &catalogController{service: service}
}

func (c *catalogController) RegisterRoutes(r fiber.Router, admin fiber.Handler) {
	h := r.Group("/catalog/v1")
	h.Get("search", c.Search)
	h.Post("refresh", admin, c.Refresh)
}

func (c *catalogController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchProductsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search products", res))
}

func (c *catalogController) Refresh(ctx *fiber.Ctx) error {
	res, err := c.service.Refresh(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success refresh catalog", res))
}
