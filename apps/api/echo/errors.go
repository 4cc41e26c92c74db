package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/notify"
	"github.com/examally/examally/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errNoUpcomingExam       = echo.NewHTTPError(http.StatusNotFound, "no upcoming exam")
	errNoVerifiedContact    = echo.NewHTTPError(http.StatusNotFound, "no verified email")
	errEmptyUpdate          = echo.NewHTTPError(http.StatusBadRequest, "no preference to update")
)

// error kinds and how they are reported
var kindResponses = []struct {
	kind    error
	code    int
	message string
}{
	{kind: notify.ErrInvalidCode, code: http.StatusBadRequest, message: notify.ErrInvalidCode.Error()},
	{kind: notify.ErrCodeExpired, code: http.StatusBadRequest, message: notify.ErrCodeExpired.Error()},
	{kind: core.ErrInvalidInput, code: http.StatusBadRequest, message: core.ErrInvalidInput.Error()},
	{kind: user.ErrNotFound, code: http.StatusNotFound, message: "not found"},
	{kind: core.ErrStoreUnavailable, code: http.StatusServiceUnavailable, message: "records are temporarily unavailable, please try again later"},
	{kind: core.ErrDispatchFailure, code: http.StatusBadGateway, message: "the email could not be sent, please try again later"},
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
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
		default:
			for _, kr := range kindResponses {
				if errors.Is(err, kr.kind) {
					code, message = kr.code, kr.message
					break
				}
			}
			if code >= http.StatusInternalServerError {
				logger.Warn(http.StatusText(code), err, contextUser(ctx))
			}
			if code != 0 {
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg
			logger.Error(msg, errors.Wrap(err, msg), contextUser(ctx))

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
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
