package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-registration/internal/service"
)

// CatalogHandler exposes user and event creation, the upcoming events
// list and table bootstrap.
type CatalogHandler struct {
	Svc *service.CatalogService
	Log *slog.Logger
}

func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	if svc == nil {
		panic("nil service passed to NewCatalogHandler")
	}
	return &CatalogHandler{Svc: svc, Log: loggerOrDefault(logger)}
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateUser handles POST /createUsers (alias /addUsers).
func (h *CatalogHandler) CreateUser(c echo.Context) error {
	var body createUserRequest
	if err := c.Bind(&body); err != nil {
		return message(c, http.StatusBadRequest, "invalid request body")
	}
	id, err := h.Svc.CreateUser(c.Request().Context(), service.NewUser{Name: body.Name, Email: body.Email})
	if err != nil {
		return fail(c, h.Log, err, "Error creating an user")
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Added user successfully", "id": id})
}

type createEventRequest struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
}

// CreateEvent handles POST /createEvents (alias /addEvents).  Date is
// YYYY-MM-DD, time HH:MM[:SS], capacity 1..1000.
func (h *CatalogHandler) CreateEvent(c echo.Context) error {
	var body createEventRequest
	if err := c.Bind(&body); err != nil {
		return message(c, http.StatusBadRequest, "invalid request body")
	}
	id, err := h.Svc.CreateEvent(c.Request().Context(), service.NewEvent{
		Title:    body.Title,
		Date:     body.Date,
		Time:     body.Time,
		Location: body.Location,
		Capacity: body.Capacity,
	})
	if err != nil {
		return fail(c, h.Log, err, "Internal server error while creating an event")
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Event created successfully", "id": id})
}

// UpcomingEvents handles GET /upcomingEvents.
func (h *CatalogHandler) UpcomingEvents(c echo.Context) error {
	events, err := h.Svc.UpcomingEvents(c.Request().Context())
	if err != nil {
		return fail(c, h.Log, err, "Error fetching upcoming events")
	}
	return c.JSON(http.StatusOK, events)
}

// CreateTables handles POST /createTables.
func (h *CatalogHandler) CreateTables(c echo.Context) error {
	if err := h.Svc.CreateTables(c.Request().Context()); err != nil {
		return fail(c, h.Log, err, "Error creating tables")
	}
	return message(c, http.StatusCreated, "Tables created successfully")
}
