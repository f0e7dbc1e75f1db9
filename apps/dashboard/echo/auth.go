package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/auth"
)

var errInvalidCredentials = "invalid credentials"

type authApi struct {
	svc           *auth.Service
	secureCookies bool
}

type sessionResponse struct {
	User     auth.User `json:"user"`
	Role     string    `json:"role"`
	Redirect string    `json:"redirect"`
}

func registerAuthAPI(e *echo.Echo, svc *auth.Service, secureCookies bool) {
	api := authApi{svc: svc, secureCookies: secureCookies}

	e.POST(auth.LoginPage, api.login)
	e.POST("/logout", api.logout)
	e.GET("/session", api.current)
}

func (api *authApi) login(ctx echo.Context) error {
	var creds auth.Credentials
	if err := ctx.Bind(&creds); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	// a fresh manager: the restored session, if any, is replaced
	mgr := auth.NewManager(newCookieStore(ctx, api.secureCookies), api.svc)
	sess, err := mgr.Login(ctx.Request().Context(), creds)
	if err != nil {
		if core.IsUnauthorized(err) {
			return core.NewValidationError(errors.New(core.ErrorMessage(err, errInvalidCredentials)))
		}
		return err
	}
	ctx.Set(contextManagerKey, mgr)

	return ctx.JSON(http.StatusOK, sessionResponse{User: sess.User, Role: sess.Role, Redirect: sess.Home()})
}

func (api *authApi) logout(ctx echo.Context) error {
	if err := getContextManager(ctx).Logout(); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"redirect": auth.LoginPage})
}

func (api *authApi) current(ctx echo.Context) error {
	sess, err := getContextManager(ctx).Require()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sessionResponse{User: sess.User, Role: sess.Role, Redirect: sess.Home()})
}
