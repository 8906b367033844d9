package controller

import (
	"notefiber-todo/internal/dto"
	"notefiber-todo/internal/pkg/apperror"
	"notefiber-todo/internal/pkg/serverutils"
	"notefiber-todo/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITaskController interface {
	RegisterRoutes(r fiber.Router, jwt fiber.Handler)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type taskController struct {
	service service.ITaskService
}

func NewTaskController(service service.ITaskService) ITaskController {
	return &taskController{service: service}
}

func (c *taskController) RegisterRoutes(r fiber.Router, jwt fiber.Handler) {
	h := r.Group("/task/v1")
	h.Use(jwt)
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
	h.Put(":id", c.Save)
	h.Delete(":id", c.Delete)
}

func (c *taskController) GetAll(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	notebookId, err := uuid.Parse(ctx.Query("notebook_id"))
	if err != nil {
		return apperror.Validation("notebook_id query parameter is required")
	}

	res, err := c.service.GetAll(ctx.UserContext(), userId, notebookId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all task", res))
}

func (c *taskController) Show(ctx *fiber.Ctx) error {
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
	return ctx.JSON(serverutils.SuccessResponse("Success show task", res))
}

func (c *taskController) Save(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.SaveTaskRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.Save(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success save task", res))
}

func (c *taskController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete task", nil))
}
