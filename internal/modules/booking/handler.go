package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"studiobook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects an auth-protected group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.POST("/bookings/validate-selection", h.ValidateSelection)
	rg.GET("/bookings/my", h.ListMy)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.GET("/bookings/:id/timer", h.GetTimer)
	rg.POST("/bookings/:id/cancel", h.Cancel)
	rg.POST("/bookings/:id/cancel/resolve", h.ResolveCancellation)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var body createBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	date, err := parseDate(body.Date)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		return
	}

	req := CreateBookingRequest{
		StudioID:     body.StudioID,
		UserID:       c.GetInt64("user_id"),
		Date:         date,
		Slots:        body.Slots,
		ServiceIDs:   body.ServiceIDs,
		EquipmentIDs: body.EquipmentIDs,
	}

	b, dropped, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotConflict):
			response.ErrorWithDetails(c, http.StatusConflict, "SLOT_CONFLICT",
				"One or more selected slots are no longer available", gin.H{"dropped": dropped})
		case errors.Is(err, ErrMaxDurationExceeded):
			response.Error(c, http.StatusBadRequest, "MAX_DURATION_EXCEEDED",
				"Selection exceeds the maximum booking duration")
		case errors.Is(err, ErrSelectionInvalid):
			response.Error(c, http.StatusBadRequest, "SELECTION_INVALID",
				"Selection is empty, out of range, or references unknown services")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create booking")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) ValidateSelection(c *gin.Context) {
	var body validateSelectionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	date, err := parseDate(body.Date)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		return
	}

	preview, err := h.service.ValidateSelection(c.Request.Context(), ValidateSelectionRequest{
		StudioID:     body.StudioID,
		Date:         date,
		Slots:        body.Slots,
		ServiceIDs:   body.ServiceIDs,
		EquipmentIDs: body.EquipmentIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrMaxDurationExceeded):
			response.Error(c, http.StatusBadRequest, "MAX_DURATION_EXCEEDED",
				"Selection exceeds the maximum booking duration")
		case errors.Is(err, ErrSelectionInvalid):
			response.Error(c, http.StatusBadRequest, "SELECTION_INVALID", "Selection contains invalid hours")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to validate selection")
		}
		return
	}

	response.Success(c, http.StatusOK, preview)
}

func (h *Handler) ListMy(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bookings, err := h.service.ListMy(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	b, err := h.service.GetForUser(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) GetTimer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	t, err := h.service.TimerFor(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"timer": t})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	var body cancelBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cancellation reason is required")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id, c.GetInt64("user_id"), body.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ResolveCancellation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	var body resolveCancelBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.ResolveCancellation(c.Request.Context(), id, c.GetInt64("user_id"), body.Approve, body.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Booking is not in a state that allows this operation")
	case errors.Is(err, ErrReservationExpired):
		response.Error(c, http.StatusGone, "RESERVATION_EXPIRED", "The reservation hold has expired")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
}
