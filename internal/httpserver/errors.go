package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bodega/internal/service"
)

// fail logs err under event and turns it into the HTTP error for the client.
// Validation errors carry their own user-facing message.
func fail(l *slog.Logger, event string, err error, internalMsg string) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		msg := service.UserMessage(err, "invalid body")
		l.Warn(event, "status", 400, "reason", msg, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msg)
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "No encontrado.")
	default:
		l.Error(event, "status", 500, "reason", internalMsg, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, internalMsg)
	}
}
