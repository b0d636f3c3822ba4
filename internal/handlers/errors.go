package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bizportal/internal/common"
)

const internalErrorMessage = "Internal server error"

var errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")

// NewHTTPErrorHandler renders every error as {"error": "..."}. Details of 500s
// are logged and never sent to the client.
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := internalErrorMessage

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if code != http.StatusInternalServerError {
				message = fmt.Sprint(he.Message)
			}
		}

		if code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.String("request_id", common.GetRequestIDFromContext(c.Request().Context())),
				zap.Error(err),
			)
		}

		var sendErr error
		if c.Request().Method == http.MethodHead {
			sendErr = c.NoContent(code)
		} else {
			sendErr = c.JSON(code, common.ErrorResponse{Error: message})
		}
		if sendErr != nil {
			logger.Error("failed to send error response", zap.Error(sendErr))
		}
	}
}

// businessError maps service errors onto the business info responses
func businessError(err error) error {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		return errUnauthorized
	case errors.Is(err, common.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, "Business information is required")
	case errors.Is(err, common.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Business information not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, internalErrorMessage).SetInternal(err)
	}
}
