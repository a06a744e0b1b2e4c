package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/support"
)

type supportApi struct {
	svc      *support.Service
	validate *validator.Validate
}

func registerSupportAPI(g *echo.Group, svc *support.Service, validate *validator.Validate) {
	api := supportApi{svc: svc, validate: validate}

	g.GET("/support", api.query)
	g.POST("/support", api.create)
}

func (api *supportApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	qs, err := api.svc.ListByOwner(ctx.Request().Context(), usr.Email)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "queries": nonNilQueries(qs)})
}

func (api *supportApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data support.NewQuery
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuery")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	q, err := api.svc.Create(ctx.Request().Context(), usr.Email, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Query submitted successfully", "query": q})
}

func nonNilQueries(qs []support.Query) []support.Query {
	if qs == nil {
		return []support.Query{}
	}
	return qs
}
