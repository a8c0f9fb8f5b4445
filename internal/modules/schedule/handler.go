package schedule

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"studiobook/internal/pkg/response"
)

type Handler struct {
	generator *Generator
}

func NewHandler(generator *Generator) *Handler {
	return &Handler{generator: generator}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/studios/:id/schedule", h.DaySchedule)
}

// DaySchedule returns the classified hourly grid for one date.
//
// GET /studios/:id/schedule?date=2026-09-07
func (h *Handler) DaySchedule(c *gin.Context) {
	studioID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid studio ID")
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		return
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	slots, err := h.generator.DaySchedule(c.Request.Context(), studioID, date)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build schedule")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"studio_id": studioID,
		"date":      c.Query("date"),
		"slots":     slots,
	})
}
