package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/clothing_shop/pkg/middleware/auth"

	"github.com/Skotchmaster/clothing_shop/services/order/internal/service"
)

func customerID(c echo.Context) (uuid.UUID, error) {
	s, ok := c.Get(authmw.ContextUserID).(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}
	return id, nil
}

// fail logs a service error under event and converts it to an HTTP error.
func fail(l *slog.Logger, event string, err error) error {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, service.ErrValidation):
		status, msg = http.StatusBadRequest, "invalid request"
	case errors.Is(err, service.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrConflict):
		status, msg = http.StatusConflict, "conflict"
	case errors.Is(err, service.ErrUnavailable):
		status, msg = http.StatusServiceUnavailable, "try again later"
	case errors.Is(err, service.ErrInvalid):
		status, msg = http.StatusInternalServerError, "inconsistent order data"
	}

	if status >= 500 {
		l.Error(event, "status", status, "reason", msg, "error", err)
	} else {
		l.Warn(event, "status", status, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(status, msg)
}
