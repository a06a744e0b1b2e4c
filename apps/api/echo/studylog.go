package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/studylog"
)

type studyLogApi struct {
	svc      *studylog.Service
	validate *validator.Validate
}

func registerStudyLogAPI(g *echo.Group, svc *studylog.Service, validate *validator.Validate) {
	api := studyLogApi{svc: svc, validate: validate}

	lg := g.Group("/study-logs")
	lg.GET("", api.query)
	lg.POST("", api.create)
	lg.PUT("/:id", api.update)
	lg.DELETE("/:id", api.destroy)
}

func (api *studyLogApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	logs, err := api.svc.ListByOwner(ctx.Request().Context(), usr.Email)
	if err != nil {
		return err
	}
	if logs == nil {
		logs = []studylog.Log{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "logs": logs})
}

func (api *studyLogApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data studylog.NewLog
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLog")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	l, err := api.svc.Create(ctx.Request().Context(), usr.Email, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Study session logged", "log": l})
}

func (api *studyLogApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data studylog.UpdateLog
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLog")
	}

	reqCtx, id := ctx.Request().Context(), ctx.Param("id")
	current, err := api.svc.Get(reqCtx, usr.Email, id)
	if err != nil {
		return err
	}
	if err = data.Validate(api.validate, current); err != nil {
		return err
	}
	l, err := api.svc.Update(reqCtx, usr.Email, id, data)
	if err != nil {
		return errors.Wrap(err, "updating study log")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Study log updated", "log": l})
}

func (api *studyLogApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), usr.Email, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting study log")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Study log deleted"})
}
