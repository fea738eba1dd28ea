package router // package router defines how HTTP routes are registered for the API

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-registration/internal/handler"
	"github.com/iliyamo/event-registration/internal/middleware"
)

// Deps collects what RegisterRoutes wires together.  Cache, RateLimit and
// Evictor may be left nil; they are then skipped.
type Deps struct {
	Health        *handler.HealthHandler
	Registrations *handler.RegistrationHandler
	Catalog       *handler.CatalogHandler
	Cache         echo.MiddlewareFunc
	RateLimit     echo.MiddlewareFunc
	Evictor       *middleware.CacheEvictor
}

// RegisterRoutes maps every endpoint onto e.  Reads of a single event go
// through the response cache; writes that change them evict it.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", d.Health.Health)

	api := e.Group("")
	if d.RateLimit != nil {
		api.Use(d.RateLimit)
	}

	var cached []echo.MiddlewareFunc
	if d.Cache != nil {
		cached = append(cached, d.Cache)
	}
	evictEvent := d.Evictor.Evict(eventReadPaths)
	evictUpcoming := d.Evictor.Evict(upcomingPaths)

	r := d.Registrations
	api.POST("/registerEvent/:id", r.Register, evictEvent)
	api.DELETE("/cancelEvent/:id", r.Cancel, evictEvent)
	api.GET("/event/:id", r.GetEvent, byEventID("/event/", cached)...)
	api.GET("/eventStats/:id", r.GetEventStats, byEventID("/eventStats/", cached)...)

	cat := d.Catalog
	api.GET("/upcomingEvents", cat.UpcomingEvents, cached...)
	for _, p := range []string{"/createUsers", "/addUsers"} {
		api.POST(p, cat.CreateUser)
	}
	for _, p := range []string{"/createEvents", "/addEvents"} {
		api.POST(p, cat.CreateEvent, evictUpcoming)
	}
	api.POST("/createTables", cat.CreateTables)
}

// canonicalID renders the :id parameter the way the handlers parse it, so
// /event/01 and /event/1 share a cache entry.  It returns "" for ids the
// handlers reject.
func canonicalID(c echo.Context) string {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return ""
	}
	return strconv.FormatUint(id, 10)
}

// canonicalPath keys the response cache on prefix plus the canonical id.
func canonicalPath(prefix string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := canonicalID(c); id != "" {
				c.Set(middleware.CachePathKey, prefix+id)
			}
			return next(c)
		}
	}
}

func byEventID(prefix string, cached []echo.MiddlewareFunc) []echo.MiddlewareFunc {
	return append([]echo.MiddlewareFunc{canonicalPath(prefix)}, cached...)
}

// eventReadPaths lists the cached GET paths that show the event in the
// current request.
func eventReadPaths(c echo.Context) []string {
	id := canonicalID(c)
	if id == "" {
		return nil
	}
	return []string{"/event/" + id, "/eventStats/" + id}
}

func upcomingPaths(echo.Context) []string { return []string{"/upcomingEvents"} }
