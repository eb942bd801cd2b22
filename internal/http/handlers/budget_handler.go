// README: Budget handlers for the per-activity cost tracker.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderlust/internal/modules/budget"
)

type BudgetHandler struct {
	budget *budget.Service
}

func NewBudgetHandler(svc *budget.Service) *BudgetHandler {
	return &BudgetHandler{budget: svc}
}

type setTotalReq struct {
	Total *float64 `json:"total"`
}

type setActivityCostReq struct {
	DayIndex      *int `json:"day_index"`
	ActivityIndex *int `json:"activity_index"`
	// Amount null or absent clears the entry.
	Amount *float64 `json:"amount"`
}

func (h *BudgetHandler) Get(c *gin.Context) {
	s, err := h.budget.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, s)
}

// SetTotal handles PUT /api/itineraries/:id/budget.
func (h *BudgetHandler) SetTotal(c *gin.Context) {
	var req setTotalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Total == nil {
		writeError(c, http.StatusBadRequest, "missing total")
		return
	}
	s, err := h.budget.SetTotal(c.Request.Context(), c.Param("id"), *req.Total)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, s)
}

// SetActivityCost handles PUT /api/itineraries/:id/budget/activities.
func (h *BudgetHandler) SetActivityCost(c *gin.Context) {
	var req setActivityCostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.DayIndex == nil || req.ActivityIndex == nil {
		writeError(c, http.StatusBadRequest, "missing day_index or activity_index")
		return
	}
	key := budget.ActivityKey{DayIndex: *req.DayIndex, ActivityIndex: *req.ActivityIndex}
	s, err := h.budget.SetActivityCost(c.Request.Context(), c.Param("id"), key, req.Amount)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, s)
}
