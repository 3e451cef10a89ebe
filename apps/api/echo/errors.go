package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/club"
	"github.com/trezcool/eventhub/core/event"
	"github.com/trezcool/eventhub/core/feedback"
	"github.com/trezcool/eventhub/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
	errUploadsDisabled      = echo.NewHTTPError(http.StatusServiceUnavailable, "flyer uploads are not configured")
)

// notFoundErrors are the domain sentinels rendered as 404.
var notFoundErrors = []error{
	event.ErrNotFound,
	event.ErrSubmissionNotFound,
	club.ErrNotFound,
	feedback.ErrNotFound,
	user.ErrNotFound,
}

func isNotFound(err error) bool {
	for _, nf := range notFoundErrors {
		if err == nf {
			return true
		}
	}
	return false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	logServerError := func(ctx echo.Context, err error, msg string) {
		var usr user.User
		if claims, cErr := getContextClaims(ctx); cErr == nil {
			usr.ID = claims.Subject
			usr.Name = claims.Name
			usr.Email = claims.Email
		}
		logger.Error(msg, errors.Wrap(err, msg), usr)
	}

	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		var partialErr *event.PartialApprovalError
		if errors.As(err, &partialErr) {
			// the approved copy exists: the admin must know the submission is still pending
			code = http.StatusInternalServerError
			message = partialErr.Error()
			logServerError(ctx, err, "partial approval")
		} else {
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
				code = http.StatusBadRequest
				message = core.FieldErrors(origErr)
			case *core.ValidationError:
				if fldErrs := core.FieldErrors(origErr); fldErrs != nil {
					message = fldErrs
				} else {
					message = origErr.Error()
				}
				code = http.StatusBadRequest
			default:
				if isNotFound(origErr) {
					code = http.StatusNotFound
					message = origErr.Error()
					break
				}

				// any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg
				logServerError(ctx, err, msg)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
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
