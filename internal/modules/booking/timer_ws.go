package booking

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	jwtsvc "studiobook/internal/pkg/jwt"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// origin is enforced by the CORS layer for the REST surface;
		// the socket carries no credentials beyond the token
		return true
	},
}

// TimerStreamHandler pushes the countdown projection over a WebSocket once a
// second. The stream is display-only: expiry is enforced by the store, this
// merely tells the customer. A single "expired" event is sent when the
// projection hits zero, then the socket closes.
type TimerStreamHandler struct {
	service *Service
	jwt     *jwtsvc.Service
	log     zerolog.Logger
}

func NewTimerStreamHandler(service *Service, jwt *jwtsvc.Service, log zerolog.Logger) *TimerStreamHandler {
	return &TimerStreamHandler{service: service, jwt: jwt, log: log}
}

// RegisterRoutes registers the public ws endpoint; auth rides in the token
// query param because websocket clients cannot set headers.
func (h *TimerStreamHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/bookings/:id/timer", h.Stream)
}

type timerEvent struct {
	Event string `json:"event"`
	Timer Timer  `json:"timer"`
}

func (h *TimerStreamHandler) Stream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token query parameter is required"})
		return
	}
	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	// authorize before upgrading
	t, err := h.service.TimerFor(c.Request.Context(), bookingID, claims.UserID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "booking not accessible"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(timerEvent{Event: "tick", Timer: t}); err != nil {
		return
	}
	if t.Expired || !t.Status.Pending() {
		_ = conn.WriteJSON(timerEvent{Event: "expired", Timer: t})
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t, err := h.service.TimerFor(ctx, bookingID, claims.UserID)
			if err != nil {
				return
			}

			if t.Expired {
				// raised once, then the stream ends
				_ = conn.WriteJSON(timerEvent{Event: "expired", Timer: t})
				return
			}
			if !t.Status.Pending() {
				// paid or cancelled elsewhere; nothing left to count
				_ = conn.WriteJSON(timerEvent{Event: "settled", Timer: t})
				return
			}

			if err := conn.WriteJSON(timerEvent{Event: "tick", Timer: t}); err != nil {
				return
			}
		}
	}
}
