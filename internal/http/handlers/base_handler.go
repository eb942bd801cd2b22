// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderlust/internal/maps"
	"wanderlust/internal/modules/budget"
	"wanderlust/internal/modules/history"
	"wanderlust/internal/modules/itinerary"
	"wanderlust/internal/modules/preferences"
	"wanderlust/internal/modules/quota"
	"wanderlust/internal/modules/session"
	"wanderlust/internal/service"
)

// SessionHeader carries the caller's session id.
const SessionHeader = "X-Session-ID"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps module errors to HTTP status codes. Generation
// failures only ever expose the generic user message.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, preferences.ErrInvalidPreferences),
		errors.Is(err, budget.ErrInvalidAmount),
		errors.Is(err, session.ErrMissingSession):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, history.ErrNotFound),
		errors.Is(err, budget.ErrActivityOutOfRange),
		errors.Is(err, maps.ErrNoMatch):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrRequestInFlight):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, quota.ErrQuotaExceeded):
		writeError(c, http.StatusTooManyRequests, service.QuotaMessage)
	case itinerary.IsGenerationError(err):
		writeError(c, http.StatusBadGateway, itinerary.UserMessage)
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
