// internal/ws/client.go
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var errSendBufferFull = errors.New("send buffer full")

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Demo app: the HTTP layer is CORS-open, the socket follows suit.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// MessageHandler processes one inbound chat message for a client.
type MessageHandler interface {
	ProcessMessage(ctx context.Context, clientID, text, timestamp string) error
}

// inboundFrame is the wire format accepted from clients.
type inboundFrame struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Client owns one websocket connection: a read pump that feeds the message
// handler sequentially (preserving per-session order) and a write pump
// draining the send buffer.
type Client struct {
	clientID string
	conn     *websocket.Conn
	registry *Registry
	handler  MessageHandler
	send     chan Event
	done     chan struct{}
}

// Send queues an event for the write pump. A full buffer counts as a failed
// delivery so the registry detaches the connection.
func (c *Client) Send(event Event) error {
	select {
	case c.send <- event:
		return nil
	case <-c.done:
		return websocket.ErrCloseSent
	default:
		return errSendBufferFull
	}
}

// ServeWS upgrades /ws/{clientID} requests and runs the connection until the
// client goes away.
func ServeWS(registry *Registry, handler MessageHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := chi.URLParam(r, "clientID")
		if clientID == "" {
			http.Error(w, "missing client id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("⚠️ websocket upgrade failed:", err)
			return
		}

		c := &Client{
			clientID: clientID,
			conn:     conn,
			registry: registry,
			handler:  handler,
			send:     make(chan Event, sendBuffer),
			done:     make(chan struct{}),
		}
		registry.Attach(clientID, c)

		go c.writePump()
		c.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.registry.Detach(c.clientID)
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️ websocket read error for %s: %v", c.clientID, err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Printf("⚠️ invalid frame from %s: %v", c.clientID, err)
			continue
		}
		if frame.Type != "chat_message" {
			continue
		}

		// Processed inline: one frame at a time keeps the session's
		// conversation in arrival order.
		if err := c.handler.ProcessMessage(context.Background(), c.clientID, frame.Message, frame.Timestamp); err != nil {
			log.Printf("⚠️ failed to process message from %s: %v", c.clientID, err)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		}
	}
}
