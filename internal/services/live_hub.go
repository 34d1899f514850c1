package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// LiveEvent is pushed to websocket clients following a round.
type LiveEvent struct {
	Type      string      `json:"type"` // "hole_recorded" or "round_finished"
	RoundID   string      `json:"round_id"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// LiveClient is a single websocket connection following one round.
type LiveClient struct {
	RoundID string
	Conn    *websocket.Conn
	Send    chan []byte
}

// LiveHub fans round events out to websocket clients grouped by round
// id. A nil hub is safe to publish to, so services work without the
// live feed wired up.
type LiveHub struct {
	clients map[string]map[*LiveClient]bool

	register   chan *LiveClient
	unregister chan *LiveClient
	events     chan LiveEvent

	mu     sync.RWMutex
	logger *logrus.Logger
}

func NewLiveHub(logger *logrus.Logger) *LiveHub {
	return &LiveHub{
		clients:    make(map[string]map[*LiveClient]bool),
		register:   make(chan *LiveClient),
		unregister: make(chan *LiveClient),
		events:     make(chan LiveEvent, 64),
		logger:     logger,
	}
}

// Run handles client registration and event fan-out. Start it once in
// its own goroutine.
func (h *LiveHub) Run() {
	h.logger.Info("Starting live round hub")

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.RoundID] == nil {
				h.clients[client.RoundID] = make(map[*LiveClient]bool)
			}
			h.clients[client.RoundID][client] = true
			h.mu.Unlock()
			h.logger.WithField("round_id", client.RoundID).Debug("Live client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if followers, ok := h.clients[client.RoundID]; ok {
				if _, ok := followers[client]; ok {
					delete(followers, client)
					close(client.Send)
					if len(followers) == 0 {
						delete(h.clients, client.RoundID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.events:
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.WithError(err).Error("Failed to marshal live event")
				continue
			}
			h.mu.RLock()
			for client := range h.clients[event.RoundID] {
				select {
				case client.Send <- payload:
				default:
					// Slow consumer; drop the event rather than block
					// the hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub.
func (h *LiveHub) Register(client *LiveClient) {
	h.register <- client
}

// Unregister removes a client and closes its send channel.
func (h *LiveHub) Unregister(client *LiveClient) {
	h.unregister <- client
}

// Publish queues an event for every client following roundID.
func (h *LiveHub) Publish(eventType, roundID string, data interface{}) {
	if h == nil {
		return
	}
	event := LiveEvent{
		Type:      eventType,
		RoundID:   roundID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	select {
	case h.events <- event:
	default:
		h.logger.WithField("round_id", roundID).Warn("Live event queue full, dropping event")
	}
}
