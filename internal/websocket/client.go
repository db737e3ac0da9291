package websocket

import (
	"time"

	"neurobridge-be/internal/entity"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Encrypted metadata frames carry base64 blobs; 512 bytes is nowhere
	// near enough here.
	maxMessageSize = 64 * 1024

	sendBufferSize = 256
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// The authenticated principal. Resolved once at upgrade time; every
	// frame on this connection acts as this user.
	User *entity.User

	// Buffered channel of outbound messages.
	Send chan []byte

	gateway *Gateway
}

func NewClient(hub *Hub, conn *websocket.Conn, user *entity.User, gateway *Gateway) *Client {
	return &Client{
		Hub:     hub,
		Conn:    conn,
		User:    user,
		Send:    make(chan []byte, sendBufferSize),
		gateway: gateway,
	}
}

// enqueue puts a frame on the outbound buffer without blocking the caller.
// Returns false if the buffer is full.
func (c *Client) enqueue(data []byte) bool {
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// readPump pumps frames from the websocket connection into the gateway.
// Frames are dispatched sequentially, so replies for one connection keep
// the order of its requests.
func (c *Client) readPump() {
	defer func() {
		c.Hub.Leave(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.gateway.logger.Warn("Client", "Unexpected close", map[string]interface{}{
					"user_id": c.User.Id,
					"error":   err.Error(),
				})
			}
			break
		}
		c.gateway.Dispatch(c, data)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
