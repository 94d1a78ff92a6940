package http

import (
	"errors"
	"net/http"

	"ordertracker/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// retryAfterSeconds is sent with 503 responses for transient store failures.
const retryAfterSeconds = "1"

func statusOf(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidState), errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errs.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// outcomeOf labels the result of an order operation for metrics.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errs.ErrConcurrentModification):
		return "lost_race"
	case errors.Is(err, errs.ErrConflict):
		return "conflict"
	case errors.Is(err, errs.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, errs.ErrObjectNotFound):
		return "not_found"
	case errors.Is(err, errs.ErrForbidden), errors.Is(err, errs.ErrUnauthorized):
		return "denied"
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return "invalid"
	default:
		return "error"
	}
}

// NewErrorHandler renders every failure as {"message": ...}. Internal details
// are logged, never returned.
func NewErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := statusOf(err)
		message := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(he.Code)
			}
		}

		switch status {
		case http.StatusServiceUnavailable:
			c.Response().Header().Set("Retry-After", retryAfterSeconds)
			message = "temporarily unavailable, retry later"
			logger.Warn("transient failure", zap.String("path", c.Path()), zap.Error(err))
		case http.StatusInternalServerError:
			message = "internal error"
			logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, ErrorResponse{Message: message})
		}
		if writeErr != nil {
			logger.Error("error response not written", zap.Error(writeErr))
		}
	}
}
