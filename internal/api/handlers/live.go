package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/jwhitfield/fairway/internal/services"
	"github.com/jwhitfield/fairway/pkg/utils"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = (livePongWait * 9) / 10
)

// LiveHandler upgrades followers of a round to a websocket fed by the
// hub.
type LiveHandler struct {
	hub      *services.LiveHub
	rounds   *services.RoundService
	upgrader websocket.Upgrader
	logger   *logrus.Logger
}

func NewLiveHandler(hub *services.LiveHub, rounds *services.RoundService, allowedOrigins []string, logger *logrus.Logger) *LiveHandler {
	return &LiveHandler{
		hub:    hub,
		rounds: rounds,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
		logger: logger,
	}
}

// Follow handles GET /api/v1/rounds/:id/live. The connection only
// receives events; inbound messages are discarded.
func (h *LiveHandler) Follow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}
	roundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid round id", "")
		return
	}

	// Only the round owner may follow it.
	if _, err := h.rounds.GetRound(c.Request.Context(), userID, roundID); err != nil {
		sendDomainError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("Websocket upgrade failed")
		return
	}

	client := &services.LiveClient{
		RoundID: roundID.String(),
		Conn:    conn,
		Send:    make(chan []byte, 16),
	}
	h.hub.Register(client)

	go h.writePump(client)
	go h.readPump(client)
}

func (h *LiveHandler) writePump(client *services.LiveClient) {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *LiveHandler) readPump(client *services.LiveClient) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(512)
	client.Conn.SetReadDeadline(time.Now().Add(livePongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(livePongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).Debug("Live connection closed unexpectedly")
			}
			return
		}
	}
}
