package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/hackathon"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/planner"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")

	msgBadAIResponse = "the AI assistant returned an unusable answer, please try again"
)

// domainError maps a sentinel, matched with errors.Is, to a response.
type domainError struct {
	target  error
	code    int
	message string
	warn    bool // upstream trouble worth a log line
}

var domainErrors = []domainError{
	{target: core.ErrNotFound, code: http.StatusNotFound, message: "not found"}, // never say what was missing
	{target: core.ErrInvalidArgument, code: http.StatusBadRequest, message: core.ErrInvalidArgument.Error()},
	{target: hackathon.ErrTeamFull, code: http.StatusConflict, message: hackathon.ErrTeamFull.Error()},
	{target: planner.ErrCompletionFailed, code: http.StatusBadGateway, message: msgBadAIResponse, warn: true},
}

func matchDomainError(err error) (domainError, bool) {
	for _, de := range domainErrors {
		if errors.Is(err, de.target) {
			return de, true
		}
	}
	return domainError{}, false
}

// requestUser identifies the caller for error reports, from the token alone.
func requestUser(ctx echo.Context) user.User {
	var usr user.User
	if claims, err := getContextClaims(ctx); err == nil {
		usr.ID, usr.Name, usr.Username, usr.Email = claims.Subject, claims.Name, claims.Username, claims.Email
	}
	return usr
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
			code = http.StatusBadRequest
			message = core.TranslateValidationErrors(origErr, translator)
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = origErr.Error()
			if len(origErr.Fields) > 0 {
				fields := make(map[string]string, len(origErr.Fields))
				for _, f := range origErr.Fields {
					fields[f.Field] = f.Error
				}
				message = fields
			}
		case *planner.MalformedResponseError:
			code = http.StatusBadGateway
			message = msgBadAIResponse
			logger.Warn(origErr.Error(), origErr.Raw)
		default:
			if de, ok := matchDomainError(err); ok {
				code, message = de.code, de.message
				if de.warn {
					logger.Warn(de.message, err)
				}
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(code)
			logger.Error(http.StatusText(code), errors.WithStack(err), requestUser(ctx))
			if core.IsShutdown(err) && signalShutdown != nil {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
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
