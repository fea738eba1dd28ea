package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-registration/internal/service"
)

// RegistrationHandler exposes registration, cancellation, event details
// and event statistics.
type RegistrationHandler struct {
	Svc *service.RegistrationService
	Log *slog.Logger
}

// NewRegistrationHandler panics if svc is nil.
func NewRegistrationHandler(svc *service.RegistrationService, logger *slog.Logger) *RegistrationHandler {
	if svc == nil {
		panic("nil service passed to NewRegistrationHandler")
	}
	return &RegistrationHandler{Svc: svc, Log: loggerOrDefault(logger)}
}

type userRequest struct {
	UserID uint64 `json:"userId"`
}

func bindUser(c echo.Context) (uint64, bool) {
	var body userRequest
	if err := c.Bind(&body); err != nil {
		return 0, false
	}
	return body.UserID, true
}

// Register handles POST /registerEvent/:id with body {"userId": n}.
// It returns 201 on success, 404 when the event (or user) is unknown and
// 400 when the user is already registered.
func (h *RegistrationHandler) Register(c echo.Context) error {
	id, ok := eventID(c)
	if !ok {
		return message(c, http.StatusBadRequest, "invalid event id")
	}
	userID, ok := bindUser(c)
	if !ok {
		return message(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.Svc.Register(c.Request().Context(), id, userID); err != nil {
		return fail(c, h.Log, err, "Error registering user for event")
	}
	return message(c, http.StatusCreated, "User registered to event")
}

// Cancel handles DELETE /cancelEvent/:id with body {"userId": n}.  A
// missing registration is a 400, not a 404.
func (h *RegistrationHandler) Cancel(c echo.Context) error {
	id, ok := eventID(c)
	if !ok {
		return message(c, http.StatusBadRequest, "invalid event id")
	}
	userID, ok := bindUser(c)
	if !ok {
		return message(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.Svc.Cancel(c.Request().Context(), id, userID); err != nil {
		status := statusFor(err)
		if status == http.StatusNotFound {
			status = http.StatusBadRequest
		}
		return failWithStatus(c, h.Log, err, status, "Error cancelling registration")
	}
	return message(c, http.StatusOK, "Registration cancelled")
}

// GetEvent handles GET /event/:id: the event fields plus a
// "registrations" array of {id, name, email}.
func (h *RegistrationHandler) GetEvent(c echo.Context) error {
	id, ok := eventID(c)
	if !ok {
		return message(c, http.StatusBadRequest, "invalid event id")
	}
	details, err := h.Svc.GetEventWithRegistrations(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.Log, err, "Error fetching event")
	}
	return c.JSON(http.StatusOK, details)
}

// GetEventStats handles GET /eventStats/:id.
func (h *RegistrationHandler) GetEventStats(c echo.Context) error {
	id, ok := eventID(c)
	if !ok {
		return message(c, http.StatusBadRequest, "invalid event id")
	}
	stats, err := h.Svc.GetEventStats(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.Log, err, "Error computing event stats")
	}
	return c.JSON(http.StatusOK, stats)
}
