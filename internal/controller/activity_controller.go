package controller

import (
	"notefiber-todo/internal/pkg/serverutils"
	"notefiber-todo/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IActivityController interface {
	RegisterRoutes(r fiber.Router, jwt fiber.Handler)
	List(ctx *fiber.Ctx) error
}

type activityController struct {
	service service.IActivityService
}

func NewActivityController(service service.IActivityService) IActivityController {
	return &activityController{service: service}
}

func (c *activityController) RegisterRoutes(r fiber.Router, jwt fiber.Handler) {
	h := r.Group("/activity/v1")
	h.Use(jwt)
	h.Get("", c.List)
}

func (c *activityController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), userId, ctx.QueryInt("limit", 20), ctx.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get activity", res))
}
