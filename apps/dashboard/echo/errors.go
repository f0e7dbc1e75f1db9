package echoapi

import (
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/auth"
	"github.com/trezcool/feedesk/core/form"
)

var (
	errUnauthorized   = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errNotResolved    = echo.NewHTTPError(http.StatusUnauthorized, "authentication still in progress")
	errHttpForbidden  = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errUnknownRole    = echo.NewHTTPError(http.StatusForbidden, "unrecognized role")
	errInFlight       = echo.NewHTTPError(http.StatusConflict, "a submission is already in progress")
	errNotConfirmed   = echo.NewHTTPError(http.StatusBadRequest, "deletion must be confirmed")
	errNoCampus       = echo.NewHTTPError(http.StatusForbidden, "no campus assigned to this account")
	errAPIUnreachable = "unable to reach the fee server, please try again"
	errAPIFailure     = "something went wrong, please try again"
)

// sentinelHTTPError maps the domain sentinels to their HTTP answer.
func sentinelHTTPError(err error) (*echo.HTTPError, bool) {
	switch err {
	case auth.ErrUnauthenticated:
		return errUnauthorized, true
	case auth.ErrNotResolved:
		return errNotResolved, true
	case auth.ErrWrongArea:
		return errHttpForbidden, true
	case auth.ErrUnknownRole:
		return errUnknownRole, true
	case form.ErrInFlight:
		return errInFlight, true
	case form.ErrNotConfirmed:
		return errNotConfirmed, true
	}
	return nil, false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(
	logger core.Logger,
	translator ut.Translator,
	secureCookies bool,
	signalShutdown func(),
) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}
		var loggedOut bool

		cause := errors.Cause(err)
		if herr, ok := sentinelHTTPError(cause); ok {
			cause = herr
		}

		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
			loggedOut = code == http.StatusUnauthorized
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message = core.TranslateErrors(origErr, translator)
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *core.APIError:
			// the server rejected our token: the session is over
			if origErr.Status == http.StatusUnauthorized {
				loggedOut = true
			}
			code = origErr.Status
			if code >= http.StatusInternalServerError || code < http.StatusBadRequest {
				code = http.StatusBadGateway
			}
			message = core.ErrorMessage(origErr, errAPIFailure)
		case *core.NetworkError:
			code = http.StatusBadGateway
			message = errAPIUnreachable
			logger.Warn(errAPIUnreachable, err)
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var usr auth.User
			if sess, sErr := getContextSession(ctx); sErr == nil {
				usr = sess.User
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if loggedOut {
			clearSession(ctx, secureCookies)
			if wantsHTML(ctx) {
				if rErr := ctx.Redirect(http.StatusFound, auth.LoginPage); rErr != nil {
					ctx.Echo().Logger.Error(rErr)
				}
				return
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			resp := echo.Map{"error": m}
			if loggedOut {
				resp["redirect"] = auth.LoginPage
			}
			message = resp
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// wantsHTML tells page navigations apart from API calls.
func wantsHTML(ctx echo.Context) bool {
	req := ctx.Request()
	if req.Method != http.MethodGet {
		return false
	}
	return strings.HasPrefix(req.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
