package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second

	// must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// The feed is server-push; inbound frames are small control messages
	maxMessageSize = 1024

	sendBuffer = 256
)

// Client is one dispatcher (or admin) connected to the live feed
type Client struct {
	UserID   string
	UserRole string
	conn     *websocket.Conn
	hub      *Hub
	send     chan []byte
}

// controlMessage is what a feed client may send. "ping" is answered with
// "pong"; "ack" confirms that an event (usually service.delayed) was shown.
type controlMessage struct {
	Type    string `json:"type"`
	EventID string `json:"event_id,omitempty"`
}

type controlReply struct {
	Type      string `json:"type"`
	EventID   string `json:"event_id,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

func NewClient(userID string, userRole string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UserID:   userID,
		UserRole: userRole,
		conn:     conn,
		hub:      hub,
		send:     make(chan []byte, sendBuffer),
	}
}

// ReadPump handles control messages until the connection drops, then leaves
// the hub
func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️  [WEBSOCKET] Read error for %s: %v", c.UserID, err)
			}
			return
		}

		if reply, ok := c.handle(raw); ok {
			c.reply(reply)
		}
	}
}

func (c *Client) handle(raw []byte) (controlReply, bool) {
	now := time.Now().UTC().Format(time.RFC3339)

	var msg controlMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return controlReply{Type: "error", Error: "invalid message", Timestamp: now}, true
	}

	switch msg.Type {
	case "ping":
		return controlReply{Type: "pong", Timestamp: now}, true
	case "ack":
		if msg.EventID == "" {
			return controlReply{Type: "error", Error: "event_id is required", Timestamp: now}, true
		}
		log.Printf("👀 [WEBSOCKET] %s (%s) acknowledged event %s", c.UserID, c.UserRole, msg.EventID)
		return controlReply{Type: "ack", EventID: msg.EventID, Timestamp: now}, true
	default:
		return controlReply{Type: "error", Error: "unknown message type: " + msg.Type, Timestamp: now}, true
	}
}

// reply goes through the hub so it never races the hub closing c.send
func (c *Client) reply(r controlReply) {
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	c.hub.BroadcastToUser(c.UserID, json.RawMessage(data))
}

// WritePump writes queued feed messages and keeps the connection alive with
// pings. It exits when the hub closes c.send or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("⚠️  [WEBSOCKET] Write to %s failed: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
