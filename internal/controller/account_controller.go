package controller

import (
	"notefiber-todo/internal/dto"
	"notefiber-todo/internal/pkg/serverutils"
	"notefiber-todo/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAccountController interface {
	RegisterRoutes(r fiber.Router, jwt fiber.Handler)
	Save(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type accountController struct {
	service service.IAccountService
}

func NewAccountController(service service.IAccountService) IAccountController {
	return &accountController{service: service}
}

func (c *accountController) RegisterRoutes(r fiber.Router, jwt fiber.Handler) {
	h := r.Group("/account/v1")
	h.Use(jwt)
	h.Get(":id", c.Show)
	h.Put(":id", c.Save)
}

func (c *accountController) Save(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.SaveAccountRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.Save(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success save account", res))
}

func (c *accountController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show account", res))
}
