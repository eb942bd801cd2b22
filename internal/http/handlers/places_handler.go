// README: Place verification and day routing backed by Google Maps.
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	gmaps "googlemaps.github.io/maps"

	"wanderlust/internal/maps"
	"wanderlust/internal/modules/history"
)

// PlaceLookup is satisfied by *maps.PlacesService.
type PlaceLookup interface {
	Lookup(ctx context.Context, placeName, destination string) (*maps.Place, error)
}

// DayRouter is satisfied by *maps.RouteService.
type DayRouter interface {
	DayRoute(ctx context.Context, destination string, places []string, mode gmaps.Mode) ([]maps.Leg, error)
}

const mapsDisabled = "maps integration is not configured"

// PlacesHandler serves maps lookups. Either dependency may be nil, in which
// case its endpoint answers 503.
type PlacesHandler struct {
	places  PlaceLookup
	routes  DayRouter
	history *history.Service
}

func NewPlacesHandler(places PlaceLookup, routes DayRouter, hist *history.Service) *PlacesHandler {
	return &PlacesHandler{places: places, routes: routes, history: hist}
}

// Lookup handles GET /api/places?name=&destination=.
func (h *PlacesHandler) Lookup(c *gin.Context) {
	if h.places == nil {
		writeError(c, http.StatusServiceUnavailable, mapsDisabled)
		return
	}
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		writeError(c, http.StatusBadRequest, "missing name")
		return
	}
	p, err := h.places.Lookup(c.Request.Context(), name, c.Query("destination"))
	if err != nil {
		writeMapsError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

// DayRoute handles GET /api/itineraries/:id/days/:day/route.
func (h *PlacesHandler) DayRoute(c *gin.Context) {
	if h.routes == nil {
		writeError(c, http.StatusServiceUnavailable, mapsDisabled)
		return
	}
	mode, err := maps.ParseMode(c.Query("mode"))
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := h.history.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 || day > len(rec.Itinerary.Days) {
		writeError(c, http.StatusNotFound, "day not found")
		return
	}

	plan := rec.Itinerary.Days[day-1]
	names := make([]string, 0, len(plan.Activities))
	for _, a := range plan.Activities {
		names = append(names, a.PlaceName)
	}
	legs, err := h.routes.DayRoute(c.Request.Context(), rec.Itinerary.Destination, names, mode)
	if err != nil {
		writeMapsError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"day": day, "mode": mode, "legs": legs})
}

func writeMapsError(c *gin.Context, err error) {
	if errors.Is(err, maps.ErrNoMatch) {
		writeDomainError(c, err)
		return
	}
	log.Printf("maps upstream error on %s: %v", c.FullPath(), err)
	writeError(c, http.StatusBadGateway, "maps lookup failed")
}
