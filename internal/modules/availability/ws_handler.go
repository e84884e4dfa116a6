package availability

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"resortbooking/internal/pkg/response"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type clientMessage struct {
	Type string `json:"type"`
}

type WSHandler struct {
	hub  *Hub
	auth Authenticator
	log  *logrus.Logger
}

func NewWSHandler(hub *Hub, auth Authenticator, log *logrus.Logger) *WSHandler {
	return &WSHandler{hub: hub, auth: auth, log: log}
}

// HandleWebSocket serves GET /ws/availability?token=JWT. Browsers cannot set headers on
// websocket upgrades, so the credential travels in the query.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_REQUIRED", "Token is required")
		return
	}

	state, err := h.auth.Authenticate(c.Request.Context(), token)
	if err != nil || !state.IsAuthenticated() {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	userID := state.Identity.UserID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("availability: websocket upgrade failed")
		return
	}

	cl := h.hub.Register(userID, conn)
	h.log.WithField("user_id", userID).Debug("availability: websocket connected")

	defer func() {
		h.hub.Unregister(userID, cl)
		h.log.WithField("user_id", userID).Debug("availability: websocket disconnected")
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.readLoop(cl, userID)
}

// readLoop only answers pings; the stream is server to client.
func (h *WSHandler) readLoop(cl *client, userID string) {
	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("availability: websocket error")
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			cl.enqueue(errorEvent{Type: "error", Code: "INVALID_JSON", Message: "Failed to parse message"})
			continue
		}

		switch msg.Type {
		case "ping":
			cl.enqueue(pongEvent{Type: "pong"})
		default:
			cl.enqueue(errorEvent{Type: "error", Code: "UNKNOWN_TYPE", Message: "Unknown message type: " + msg.Type})
		}
	}
}
