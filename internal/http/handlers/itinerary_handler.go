// README: Itinerary handlers for generation, latest result, lookup and PDF export.
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"wanderlust/internal/modules/budget"
	"wanderlust/internal/modules/export"
	"wanderlust/internal/modules/history"
	"wanderlust/internal/modules/preferences"
	"wanderlust/internal/service"
)

type ItineraryHandler struct {
	planner *service.TripPlanner
	history *history.Service
	budget  *budget.Service
}

func NewItineraryHandler(planner *service.TripPlanner, hist *history.Service, budgetSvc *budget.Service) *ItineraryHandler {
	return &ItineraryHandler{planner: planner, history: hist, budget: budgetSvc}
}

// Create handles POST /api/itineraries.
func (h *ItineraryHandler) Create(c *gin.Context) {
	var form preferences.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	res, err := h.planner.Plan(c.Request.Context(), c.GetHeader(SessionHeader), c.ClientIP(), form)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

// Latest handles GET /api/itineraries/latest.
func (h *ItineraryHandler) Latest(c *gin.Context) {
	snap, err := h.planner.Latest(c.Request.Context(), c.GetHeader(SessionHeader))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

func (h *ItineraryHandler) Get(c *gin.Context) {
	rec, err := h.history.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, rec)
}

// PDF handles GET /api/itineraries/:id/pdf.
func (h *ItineraryHandler) PDF(c *gin.Context) {
	ctx := c.Request.Context()
	rec, err := h.history.Get(ctx, c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	var summary *budget.Summary
	if h.budget != nil {
		s, err := h.budget.Summary(ctx, rec.ID)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		summary = &s
	}

	var buf bytes.Buffer
	if err := export.RenderPDF(&buf, rec, summary); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pdfFilename(rec)))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func pdfFilename(rec *history.Record) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(rec.Itinerary.Destination), "-"), "-")
	if slug == "" {
		slug = "trip"
	}
	return fmt.Sprintf("itinerary-%s-%dd.pdf", slug, len(rec.Itinerary.Days))
}
