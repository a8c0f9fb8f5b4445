package payment

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"studiobook/internal/modules/booking"
	"studiobook/internal/pkg/response"
)

type Handler struct {
	service *Service
	log     zerolog.Logger
}

func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterProtectedRoutes expects an auth-protected group.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/checkout", h.InitCheckout)
}

// RegisterPublicRoutes registers the gateway callback endpoints. They are
// unauthenticated by design: the gateway signs them instead.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/gateway/result", h.ResultCallback)
	rg.GET("/payments/gateway/success", h.SuccessRedirect)
	rg.GET("/payments/gateway/fail", h.FailRedirect)
}

func (h *Handler) InitCheckout(c *gin.Context) {
	var body initCheckoutBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "booking_id is required")
		return
	}

	resp, err := h.service.InitCheckout(c.Request.Context(), body.BookingID, c.GetInt64("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, booking.ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed")
		case errors.Is(err, booking.ErrReservationExpired):
			response.Error(c, http.StatusGone, "RESERVATION_EXPIRED", "The reservation hold has expired")
		case errors.Is(err, ErrNotPayable), errors.Is(err, booking.ErrInvalidStatusTransition):
			response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Booking is not awaiting payment")
		case errors.Is(err, ErrNotConfigured):
			response.Error(c, http.StatusServiceUnavailable, "GATEWAY_UNAVAILABLE", "Payment gateway is not configured")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to initiate checkout")
		}
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ResultCallback answers in the gateway's plain-text protocol, not the JSON
// envelope: anything but "OK{InvId}" makes the gateway retry.
func (h *Handler) ResultCallback(c *gin.Context) {
	rawBody, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(strings.NewReader(string(rawBody)))
	_ = c.Request.ParseForm()

	outSum := c.PostForm("OutSum")
	invID, err := strconv.ParseInt(c.PostForm("InvId"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "bad request")
		return
	}
	signature := c.PostForm("SignatureValue")
	shp := collectShp(c)

	ack, err := h.service.HandleResultCallback(c.Request.Context(), outSum, invID, signature, shp, string(rawBody))
	if err != nil {
		h.log.Error().Err(err).Int64("inv_id", invID).Msg("result callback rejected")
		if errors.Is(err, ErrInvalidSignature) || errors.Is(err, ErrAmountMismatch) {
			c.String(http.StatusForbidden, "forbidden")
			return
		}
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.String(http.StatusOK, ack)
}

func (h *Handler) SuccessRedirect(c *gin.Context) {
	raw := c.Request.URL.RawQuery
	outSum := c.Query("OutSum")
	invID, err := strconv.ParseInt(c.Query("InvId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid InvId")
		return
	}
	signature := c.Query("SignatureValue")
	shp := collectShp(c)

	p, err := h.service.HandleSuccessRedirect(c.Request.Context(), outSum, invID, signature, shp, raw)
	if err != nil {
		h.log.Error().Err(err).Int64("inv_id", invID).Msg("success redirect rejected")
		if errors.Is(err, ErrInvalidSignature) || errors.Is(err, ErrAmountMismatch) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Signature validation failed")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process redirect")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"booking_id": p.BookingID,
		"order_id":   p.OrderID,
		"status":     p.Status,
	})
}

func (h *Handler) FailRedirect(c *gin.Context) {
	invID, err := strconv.ParseInt(c.Query("InvId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid InvId")
		return
	}

	if err := h.service.HandleFailRedirect(c.Request.Context(), invID, c.Request.URL.RawQuery); err != nil {
		h.log.Error().Err(err).Int64("inv_id", invID).Msg("fail redirect not applied")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process redirect")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "cancelled"})
}

func collectShp(c *gin.Context) map[string]string {
	res := map[string]string{}
	for k, v := range c.Request.Form {
		if strings.HasPrefix(strings.ToLower(k), "shp_") && len(v) > 0 {
			res[trimShpKey(k)] = v[0]
		}
	}
	for k, v := range c.Request.URL.Query() {
		if strings.HasPrefix(strings.ToLower(k), "shp_") && len(v) > 0 {
			res[trimShpKey(k)] = v[0]
		}
	}
	return res
}

func trimShpKey(k string) string {
	if len(k) < 4 {
		return k
	}
	return k[4:]
}
