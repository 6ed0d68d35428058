package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/visualminds/core"
	"github.com/trezcool/visualminds/core/portal"
)

var (
	errNotLoggedIn     = echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	errHttpForbidden   = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errClassNotChosen  = echo.NewHTTPError(http.StatusForbidden, "select a class first")
	errHttpNotFound    = echo.NewHTTPError(http.StatusNotFound, "not found")
	errUnknownKind     = echo.NewHTTPError(http.StatusNotFound, "unknown content kind")
	errUserNotFound    = core.NewValidationError(errors.New("user not found"))
	errKindMismatch    = core.NewValidationError(errors.New("content does not match its kind"))
	errDuplicateItemID = echo.NewHTTPError(http.StatusConflict, "content with this id already exists")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := storeError(errors.Cause(err)).(type) {
		case *echo.HTTPError:
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
				fldErrs[vErr.Field()] = vErr.Error()
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
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			logger.Error(msg, errors.Wrap(err, msg))
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
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

// storeError maps the store's errors to their HTTP counterpart.
func storeError(err error) error {
	switch err {
	case portal.ErrNotLoggedIn:
		return errNotLoggedIn
	case portal.ErrNotFound:
		return errHttpNotFound
	case portal.ErrUnknownKind:
		return errUnknownKind
	case portal.ErrKindMismatch:
		return errKindMismatch
	case portal.ErrDuplicateID:
		return errDuplicateItemID
	}
	return err
}

// validateRequest runs validation tags on data, translating failures to a *core.ValidationError.
func validateRequest(v *validator.Validate, translator ut.Translator, data interface{}) error {
	if err := v.Struct(data); err != nil {
		return core.TranslateValidationErrors(err, translator)
	}
	return nil
}
