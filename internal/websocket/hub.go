package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"aftercare-ai-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Hub fans audit events out to connected staff consoles. A console
// watches either one conversation (by session id) or everything ("*").
type Hub struct {
	// Watched session id -> connected consoles (multi-tab)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fanout
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

const watchAll = "*"

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.WatchSession] = append(h.clients[client.WatchSession], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Console registered", map[string]interface{}{"watch": client.WatchSession})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.WatchSession]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.WatchSession] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.WatchSession]) == 0 {
					delete(h.clients, client.WatchSession)
					h.logger.Info("Hub", "Console completely unregistered", map[string]interface{}{"watch": client.WatchSession})
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent delivers one audit event to every console watching the
// session, plus the catch-all watchers, then publishes it to Redis so
// other instances can do the same for their consoles.
func (h *Hub) BroadcastEvent(sessionID, eventType string, details map[string]interface{}) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":       eventType,
		"session_id": sessionID,
		"data":       details,
		"at":         time.Now().Format(time.RFC3339),
	})

	h.deliverLocal(sessionID, data)

	if h.rdb != nil {
		payload := map[string]interface{}{
			"session_id": sessionID,
			"message":    json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "audit_events", jsonPayload)
	}
}

func (h *Hub) deliverLocal(sessionID string, data []byte) {
	h.mu.RLock()
	targets := make([]*Client, 0)
	targets = append(targets, h.clients[sessionID]...)
	if sessionID != watchAll {
		targets = append(targets, h.clients[watchAll]...)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Console buffer full, dropping connection", map[string]interface{}{"watch": client.WatchSession})
			close(client.Send)
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// All instances subscribe to "audit_events". On a message, each
	// instance checks its own local watchers and delivers.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "audit_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			SessionID string          `json:"session_id"`
			Message   json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		h.deliverLocal(payload.SessionID, payload.Message)
	}
}
