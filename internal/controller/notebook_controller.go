package controller

import (
	"notefiber-todo/internal/dto"
	"notefiber-todo/internal/pkg/apperror"
	"notefiber-todo/internal/pkg/serverutils"
	"notefiber-todo/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INotebookController interface {
	RegisterRoutes(r fiber.Router, jwt fiber.Handler)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type notebookController struct {
	service service.INotebookService
}

func NewNotebookController(service service.INotebookService) INotebookController {
	return &notebookController{service: service}
}

func (c *notebookController) RegisterRoutes(r fiber.Router, jwt fiber.Handler) {
	h := r.Group("/notebook/v1")
	h.Use(jwt)
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
	h.Put(":id", c.Save)
	h.Delete(":id", c.Delete)
}

// GetAll accepts an optional user_id filter, which must name the caller.
func (c *notebookController) GetAll(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	if filter := ctx.Query("user_id"); filter != "" && filter != userId.String() {
		return apperror.ErrForbidden
	}

	res, err := c.service.GetAll(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all notebook", res))
}

func (c *notebookController) Show(ctx *fiber.Ctx) error {
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
	return ctx.JSON(serverutils.SuccessResponse("Success show notebook", res))
}

func (c *notebookController) Save(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.SaveNotebookRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.Save(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success save notebook", res))
}

func (c *notebookController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Delete(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete notebook", res))
}
