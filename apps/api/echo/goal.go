package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/goal"
)

type goalApi struct {
	svc      *goal.Service
	validate *validator.Validate
}

func registerGoalAPI(g *echo.Group, svc *goal.Service, validate *validator.Validate) {
	api := goalApi{svc: svc, validate: validate}

	gg := g.Group("/goals")
	gg.GET("", api.query)
	gg.POST("", api.create)
	gg.PUT("/:id", api.update)
	gg.DELETE("/:id", api.destroy)
}

func (api *goalApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	goals, err := api.svc.ListByOwner(ctx.Request().Context(), usr.Email)
	if err != nil {
		return err
	}
	if goals == nil {
		goals = []goal.Goal{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "goals": goals})
}

func (api *goalApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data goal.NewGoal
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGoal")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	g, err := api.svc.Create(ctx.Request().Context(), usr.Email, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Goal created successfully", "goal": g})
}

func (api *goalApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data goal.UpdateGoal
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGoal")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	if err = api.svc.Update(ctx.Request().Context(), usr.Email, ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "updating goal")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Goal updated successfully"})
}

func (api *goalApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), usr.Email, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting goal")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Goal deleted successfully"})
}
