package websocket

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"carelink/internal/domain/entity"
	"carelink/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second

	sendBufferSize = 256
)

// Client is one authenticated realtime connection. A principal may hold
// several connections at once; each gets its own id.
type Client struct {
	ID        string
	Principal entity.Principal
	Conn      *websocket.Conn
	Send      chan []byte
}

func NewClient(principal entity.Principal, conn *websocket.Conn) *Client {
	return &Client{
		ID:        uuid.New().String(),
		Principal: principal,
		Conn:      conn,
		Send:      make(chan []byte, sendBufferSize),
	}
}

// ReadPump reads frames off the connection and hands each decoded event to
// handle. It returns when the peer disconnects or the connection errors.
func (c *Client) ReadPump(handle func(*Client, Event)) {
	defer c.Conn.Close()

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn("Unexpected close from client %s: %v", c.ID, err)
			}
			return
		}

		event, err := DecodeEvent(payload)
		if err != nil {
			logger.Debug("Client %s sent malformed event: %v", c.ID, err)
			event = Event{Type: eventInvalid}
		}
		handle(c, event)
	}
}

// WritePump drains the send buffer onto the connection and keeps the peer
// alive with periodic pings. It owns all writes to the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
