package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
)

type profileApi struct {
	svc      *user.Service
	validate *validator.Validate
}

func registerProfileAPI(g *echo.Group, svc *user.Service, validate *validator.Validate) {
	api := profileApi{svc: svc, validate: validate}

	g.GET("/profile", api.retrieve)
	g.PUT("/profile", api.update)
}

func (api *profileApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "user": usr})
}

func (api *profileApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data user.UpdateProfile
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	data.Email = usr.Email
	if err = data.Validate(api.validate, usr); err != nil {
		return err
	}

	usr, err = api.svc.UpdateProfile(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Profile updated successfully", "user": usr})
}
