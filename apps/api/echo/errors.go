package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/feedback"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/goal"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/otp"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/recommend"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/schedule"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/session"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/studylog"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/support"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
)

var (
	errMissingSession = echo.NewHTTPError(http.StatusUnauthorized, "unauthorized: no session token provided")
	errHttpForbidden  = echo.NewHTTPError(http.StatusForbidden, "permission denied")

	// status codes of the domain errors
	errStatuses = map[error]int{
		session.ErrUnauthenticated:   http.StatusForbidden,
		user.ErrInvalidCredentials:   http.StatusUnauthorized,
		otp.ErrMismatch:              http.StatusUnauthorized,
		otp.ErrExpired:               http.StatusGone,
		user.ErrEmailExists:          http.StatusBadRequest,
		user.ErrNotFound:             http.StatusNotFound,
		otp.ErrNotFound:              http.StatusNotFound,
		goal.ErrNotFound:             http.StatusNotFound,
		schedule.ErrNotFound:         http.StatusNotFound,
		studylog.ErrNotFound:         http.StatusNotFound,
		feedback.ErrNotFound:         http.StatusNotFound,
		support.ErrNotFound:          http.StatusNotFound,
		otp.ErrDeliveryFailed:        http.StatusInternalServerError,
		recommend.ErrUpstreamFailure: http.StatusInternalServerError,
	}
)

// errorResponse is the envelope of every failed request.
type errorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code := http.StatusInternalServerError
		resp := errorResponse{}

		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			resp.Message = fmt.Sprint(origErr.Message)
		case validator.ValidationErrors:
			resp.Errors = make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				resp.Errors[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			resp.Message = "invalid input"
		case *core.ValidationError:
			if len(origErr.Fields) > 0 {
				resp.Errors = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					resp.Errors[fErr.Field] = fErr.Error
				}
			}
			code = http.StatusBadRequest
			resp.Message = origErr.Error()
		default:
			if status, ok := errStatuses[cause]; ok {
				code = status
				resp.Message = cause.Error()
			} else {
				resp.Message = http.StatusText(http.StatusInternalServerError)
			}
		}

		if code >= http.StatusInternalServerError {
			var usr user.User
			if u, ok := ctx.Get(contextUserKey).(user.User); ok {
				usr = u
			}
			logger.Error(resp.Message, errors.WithStack(err), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}
		if ctx.Echo().Debug && code >= http.StatusInternalServerError {
			resp.Message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, resp)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
