// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderlust/internal/http/handlers"
	"wanderlust/internal/http/middleware"
	"wanderlust/internal/modules/budget"
	"wanderlust/internal/modules/history"
	"wanderlust/internal/service"
)

// Deps wires services into the router. Places and Routes are optional.
type Deps struct {
	Planner *service.TripPlanner
	History *history.Service
	Budget  *budget.Service
	Places  handlers.PlaceLookup
	Routes  handlers.DayRouter
	// RatePerMinute limits upstream-calling endpoints per client IP; 0 disables.
	RatePerMinute int
}

const rateBurst = 3

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.TraceID(), middleware.Logging(), middleware.Recovery())

	limiter := middleware.NewRateLimiter(deps.RatePerMinute, rateBurst)
	limited := limiter.Limit()

	itineraryHandler := handlers.NewItineraryHandler(deps.Planner, deps.History, deps.Budget)
	budgetHandler := handlers.NewBudgetHandler(deps.Budget)
	placesHandler := handlers.NewPlacesHandler(deps.Places, deps.Routes, deps.History)

	api := r.Group("/api")
	api.POST("/itineraries", limited, itineraryHandler.Create)
	api.GET("/itineraries/latest", itineraryHandler.Latest)
	api.GET("/itineraries/:id", itineraryHandler.Get)
	api.GET("/itineraries/:id/pdf", itineraryHandler.PDF)

	api.GET("/itineraries/:id/budget", budgetHandler.Get)
	api.PUT("/itineraries/:id/budget", budgetHandler.SetTotal)
	api.PUT("/itineraries/:id/budget/activities", budgetHandler.SetActivityCost)

	api.GET("/itineraries/:id/days/:day/route", limited, placesHandler.DayRoute)
	api.GET("/places", limited, placesHandler.Lookup)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
