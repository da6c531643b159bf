package presenter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/starcharter/orbits/internal/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// Error maps a domain error onto its HTTP status and machine-readable
// kind. Client errors carry their detail; internal detail is logged,
// never forwarded.
func Error(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "InvalidRequest", Message: err.Error()})
	case errors.Is(err, domain.ErrAuthMissing):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "AuthMissing", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "NotFound", Message: err.Error()})
	case errors.Is(err, domain.ErrServiceUnavailable):
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "ServiceUnavailable", Message: err.Error()})
	default:
		slog.ErrorContext(
			c.Request().Context(), "internal error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "InternalError"})
	}
}

// InvalidRequest reports a malformed request with the given detail.
func InvalidRequest(c echo.Context, detail string) error {
	return Error(c, domain.InvalidRequestError{Detail: detail})
}
