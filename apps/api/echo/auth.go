package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
)

var (
	contextUserKey  = "user"
	contextTokenKey = "token"

	errUsrNotFoundInCtx = errors.New("user object not found in echo.Context")
)

// sessionMiddleware authenticates the request through the session cookie:
// 401 when the cookie is missing, 403 when its token is not a live session.
func sessionMiddleware(cookieName string, svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			cookie, err := ctx.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return errMissingSession
			}
			usr, err := svc.Verify(ctx.Request().Context(), cookie.Value)
			if err != nil {
				return err
			}
			ctx.Set(contextUserKey, usr)
			ctx.Set(contextTokenKey, cookie.Value)
			return next(ctx)
		}
	}
}

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if usr.IsAdmin() {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errors.Wrap(errUsrNotFoundInCtx, "getting context user")
}

func setSessionCookie(ctx echo.Context, conf *core.Config, token string) {
	ctx.SetCookie(&http.Cookie{
		Name:     conf.Server.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(conf.Server.SessionExpiry.Seconds()),
		HttpOnly: true,
		Secure:   conf.Server.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(ctx echo.Context, conf *core.Config) {
	ctx.SetCookie(&http.Cookie{
		Name:     conf.Server.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   conf.Server.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
