package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/feedback"
)

type feedbackApi struct {
	svc      *feedback.Service
	validate *validator.Validate
}

func registerFeedbackAPI(g *echo.Group, svc *feedback.Service, validate *validator.Validate) {
	api := feedbackApi{svc: svc, validate: validate}

	fg := g.Group("/feedback")
	fg.GET("", api.query)
	fg.POST("", api.create)
	fg.PUT("/:id", api.update)
	fg.DELETE("/:id", api.destroy)
}

func (api *feedbackApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	fbs, err := api.svc.ListByOwner(ctx.Request().Context(), usr.Email)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "feedbacks": nonNilFeedback(fbs)})
}

func (api *feedbackApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data feedback.NewFeedback
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	f, err := api.svc.Create(ctx.Request().Context(), usr.Email, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Feedback submitted successfully", "feedback": f})
}

func (api *feedbackApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data feedback.UpdateFeedback
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateFeedback")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	f, err := api.svc.Update(ctx.Request().Context(), usr.Email, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating feedback")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Feedback updated successfully", "feedback": f})
}

func (api *feedbackApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), usr.Email, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting feedback")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Feedback deleted successfully"})
}

func nonNilFeedback(fbs []feedback.Feedback) []feedback.Feedback {
	if fbs == nil {
		return []feedback.Feedback{}
	}
	return fbs
}
