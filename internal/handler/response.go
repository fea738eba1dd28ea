package handler // declare the package name; contains HTTP handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-registration/internal/service"
)

// Every response body, success or failure, carries a "message" field.
func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"message": msg})
}

// statusFor maps a service error kind to an HTTP status.  Duplicate
// registrations are reported as 400, matching the public API.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as JSON.  Internal errors are logged and replaced by
// fallback so store details never reach the client.
func fail(c echo.Context, log *slog.Logger, err error, fallback string) error {
	return failWithStatus(c, log, err, statusFor(err), fallback)
}

func failWithStatus(c echo.Context, log *slog.Logger, err error, status int, fallback string) error {
	msg := service.Message(err)
	if status >= http.StatusInternalServerError || msg == "" {
		log.Error("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err)
		return message(c, http.StatusInternalServerError, fallback)
	}
	return message(c, status, msg)
}

// eventID parses the :id path parameter.
func eventID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
