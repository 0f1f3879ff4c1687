package websocket

import (
	"github.com/gorilla/websocket"

	"marketchat/pkg/logger"
)

// Client is one live transport session. UserID is set after the connection
// lifecycle authenticates the token; until then the client is anonymous and
// no event besides the error notification reaches it.
type Client struct {
	ConnectionID string
	UserID       string
	Conn         *websocket.Conn
	Send         chan []byte
}

// ReadPump reads frames from the socket and hands them to receive until the
// peer goes away.
func (c *Client) ReadPump(m *Manager, receive func(*Client, []byte)) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("read error on connection %s: %v", c.ConnectionID, err)
			}
			break
		}

		receive(c, payload)
	}
}

// WritePump drains the send buffer onto the socket.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		payload, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Error("write error on connection %s: %v", c.ConnectionID, err)
			return
		}
	}
}
