package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/otp"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/session"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
)

type accountApi struct {
	svc      *user.Service
	validate *validator.Validate
	conf     *core.Config
}

func registerAccountAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *user.Service, validate *validator.Validate, conf *core.Config) {
	api := accountApi{svc: svc, validate: validate, conf: conf}

	// un-authed endpoints
	g.POST("/login", api.login)
	g.DELETE("/logout", api.logout)
	g.GET("/verify", api.verify, auth)
	g.POST("/send-email", api.sendSignupCode)
	g.POST("/send-emailforgot", api.sendResetCode)
	g.POST("/signup", api.signup)
	g.POST("/signupforgot", api.resetPassword)

	// authed endpoints
	g.POST("/change-password", api.changePassword, auth)
}

// Handlers

func (api *accountApi) login(ctx echo.Context) error {
	var data user.Login
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Login")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	authd, err := api.svc.Login(ctx.Request().Context(), data.User, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	setSessionCookie(ctx, api.conf, authd.Token)
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Login successful",
		"username": authd.User.Username,
		"role":     authd.User.Role,
	})
}

// logout always clears the cookie; a token that is not a live session deletes nothing.
func (api *accountApi) logout(ctx echo.Context) error {
	cookie, err := ctx.Cookie(api.conf.Server.CookieName)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no session token provided")
	}

	deleted, err := api.svc.Logout(ctx.Request().Context(), cookie.Value)
	if err != nil && errors.Cause(err) != session.ErrUnauthenticated {
		return errors.Wrap(err, "revoking session")
	}
	clearSessionCookie(ctx, api.conf)
	return ctx.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logged out successfully",
		"deleted": deleted,
	})
}

func (api *accountApi) verify(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"email":    usr.Email,
		"username": usr.Username,
		"role":     usr.Role,
		"image":    usr.Image,
	})
}

func (api *accountApi) sendSignupCode(ctx echo.Context) error {
	var data user.EmailRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EmailRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	err := api.svc.RequestSignupCode(ctx.Request().Context(), data.Email)
	if errors.Cause(err) != user.ErrEmailExists {
		countOTPRequest(otp.PurposeSignup, err)
	}
	if err != nil {
		return errors.Wrap(err, "requesting signup code")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "OTP sent successfully"})
}

// sendResetCode answers the same way whether the email is registered or not.
func (api *accountApi) sendResetCode(ctx echo.Context) error {
	var data user.EmailRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EmailRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	err := api.svc.RequestPasswordResetCode(ctx.Request().Context(), data.Email)
	switch errors.Cause(err) {
	case nil:
		countOTPRequest(otp.PurposeReset, nil)
	case user.ErrNotFound:
		// do not reveal registered emails
	default:
		countOTPRequest(otp.PurposeReset, err)
		return errors.Wrap(err, "requesting password reset code")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "OTP sent successfully"})
}

func (api *accountApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	authd, err := api.svc.Signup(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "signing up")
	}
	setSessionCookie(ctx, api.conf, authd.Token)
	return ctx.JSON(http.StatusCreated, echo.Map{
		"success":  true,
		"message":  "User registered successfully",
		"email":    authd.User.Email,
		"username": authd.User.Username,
		"role":     authd.User.Role,
	})
}

func (api *accountApi) resetPassword(ctx echo.Context) error {
	var data user.ResetPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetPassword")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	authd, err := api.svc.ResetPassword(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "resetting password")
	}
	setSessionCookie(ctx, api.conf, authd.Token)
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Password reset successfully",
		"username": authd.User.Username,
	})
}

func (api *accountApi) changePassword(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data user.ChangePassword
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangePassword")
	}
	data.Email, data.Username = usr.Email, usr.Username
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	authd, err := api.svc.ChangePassword(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "changing password")
	}
	// the previous session stays valid until it expires or logs out
	setSessionCookie(ctx, api.conf, authd.Token)
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Password updated successfully",
		"username": authd.User.Username,
	})
}
