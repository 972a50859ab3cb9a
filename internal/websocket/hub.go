package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"lawncare-backend/internal/events"
	"lawncare-backend/internal/metrics"
	"lawncare-backend/internal/models"
)

// FeedRoles receive every domain event published through the hub
var FeedRoles = []string{models.RoleAdmin, models.RoleDispatcher}

// Hub maintains active WebSocket connections and broadcasts messages
type Hub struct {
	// Registered clients (userID -> Client)
	clients map[string]*Client

	// Messages addressed to a single user
	broadcast chan *Message

	register   chan *Client
	unregister chan *Client

	// closed when Run returns
	done chan struct{}

	mu sync.RWMutex
}

// Message represents a message to deliver to a specific user
type Message struct {
	UserID string
	Data   interface{}
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop and closes every client when ctx ends
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			metrics.WebSocketClients.Set(0)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if previous, ok := h.clients[client.UserID]; ok && previous != client {
				close(previous.send)
			}
			h.clients[client.UserID] = client
			count := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketClients.Set(float64(count))
			log.Printf("✅ [WEBSOCKET] Client CONNECTED: %s (%s), %d connected", client.UserID, client.UserRole, count)

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.UserID]; ok && current == client {
				delete(h.clients, client.UserID)
				close(client.send)
				log.Printf("🔴 [WEBSOCKET] Client DISCONNECTED: %s (%s), %d remaining", client.UserID, client.UserRole, len(h.clients))
			}
			count := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketClients.Set(float64(count))

		case message := <-h.broadcast:
			data, err := json.Marshal(message.Data)
			if err != nil {
				log.Printf("❌ Failed to marshal message: %v", err)
				continue
			}

			h.mu.Lock()
			if client, ok := h.clients[message.UserID]; ok {
				select {
				case client.send <- data:
				default:
					// Client buffer full, disconnect
					close(client.send)
					delete(h.clients, client.UserID)
					log.Printf("⚠️ Client buffer full, disconnecting: %s", message.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToUser sends a message to a specific user
func (h *Hub) BroadcastToUser(userID string, data interface{}) {
	select {
	case h.broadcast <- &Message{UserID: userID, Data: data}:
	case <-h.done:
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// BroadcastToRole sends a message to all users with a specific role and
// returns how many clients it reached. Clients with a full buffer are skipped.
func (h *Hub) BroadcastToRole(role string, data interface{}) int {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		log.Printf("❌ Failed to marshal broadcast message: %v", err)
		return 0
	}
	return h.sendToRole(role, dataBytes)
}

func (h *Hub) sendToRole(role string, data []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for userID, client := range h.clients {
		if client.UserRole != role {
			continue
		}
		select {
		case client.send <- data:
			sent++
		default:
			log.Printf("⚠️ Client buffer full, skipping: %s", userID)
		}
	}
	return sent
}

// Publish forwards a domain event to the dispatcher feed
func (h *Hub) Publish(ctx context.Context, evt events.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", evt.Type, err)
	}

	sent := 0
	for _, role := range FeedRoles {
		sent += h.sendToRole(role, data)
	}
	if sent > 0 {
		log.Printf("📤 [WEBSOCKET] %s sent to %d clients", evt.Type, sent)
	}
	return nil
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsUserConnected checks if a user is currently connected
func (h *Hub) IsUserConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
