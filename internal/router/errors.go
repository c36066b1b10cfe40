package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	apperrors "hotelbook/internal/errors"
)

// errorResponse maps any handler error to a status and envelope. Domain
// errors win over echo errors; anything else is a 500.
func errorResponse(err error) (int, apperrors.ErrorResponse) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		httpErr := apperrors.MapErrorToHTTP(appErr)
		return httpErr.StatusCode, httpErr.ToErrorResponse()
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := strings.ToUpper(strings.ReplaceAll(http.StatusText(he.Code), " ", "_"))
		return he.Code, apperrors.ErrorResponse{Success: false, Message: fmt.Sprint(he.Message), Code: code}
	}

	httpErr := apperrors.MapErrorToHTTP(err)
	return httpErr.StatusCode, httpErr.ToErrorResponse()
}

// HTTPErrorHandler renders every failure as {"success": false, "message", "code"}.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Error().Err(err).Msg("write error response")
	}
}
