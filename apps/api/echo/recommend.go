package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/recommend"
)

type recommendApi struct {
	svc      *recommend.Service
	validate *validator.Validate
	logger   core.Logger
}

func registerRecommendAPI(g *echo.Group, svc *recommend.Service, validate *validator.Validate, logger core.Logger) {
	api := recommendApi{svc: svc, validate: validate, logger: logger}

	g.POST("/recommend", api.recommend)
}

// recommend relays the scorer output untouched, with a 500 when the scorer reports a failure.
func (api *recommendApi) recommend(ctx echo.Context) error {
	var data recommend.Metrics
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Metrics")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.Recommend(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == recommend.ErrUpstreamFailure && len(res.Raw) > 0 {
			usr, _ := getContextUser(ctx)
			api.logger.Error("scorer reported a failure", err, usr)
			return ctx.JSONBlob(http.StatusInternalServerError, res.Raw)
		}
		return errors.Wrap(err, "scoring metrics")
	}
	if len(res.Raw) == 0 {
		return ctx.JSON(http.StatusOK, res)
	}
	return ctx.JSONBlob(http.StatusOK, res.Raw)
}
