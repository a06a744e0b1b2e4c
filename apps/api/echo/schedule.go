package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/schedule"
)

type scheduleApi struct {
	svc      *schedule.Service
	validate *validator.Validate
}

func registerScheduleAPI(g *echo.Group, svc *schedule.Service, validate *validator.Validate) {
	api := scheduleApi{svc: svc, validate: validate}

	sg := g.Group("/schedule")
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

func (api *scheduleApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	tasks, err := api.svc.ListByOwner(ctx.Request().Context(), usr.Email)
	if err != nil {
		return err
	}
	if tasks == nil {
		tasks = []schedule.Task{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "tasks": tasks})
}

func (api *scheduleApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data schedule.NewTask
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), usr.Email, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Task added successfully", "task": t})
}

func (api *scheduleApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data schedule.UpdateTask
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTask")
	}

	reqCtx, id := ctx.Request().Context(), ctx.Param("id")
	current, err := api.svc.Get(reqCtx, usr.Email, id)
	if err != nil {
		return err
	}
	if err = data.Validate(api.validate, current); err != nil {
		return err
	}
	t, err := api.svc.Update(reqCtx, usr.Email, id, data)
	if err != nil {
		return errors.Wrap(err, "updating task")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Task updated successfully", "task": t})
}

func (api *scheduleApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), usr.Email, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Task deleted successfully"})
}
