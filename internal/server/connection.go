package server

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

// Connection wraps the WebSocket connection with an outgoing queue
type Connection struct {
	ws   *websocket.Conn
	send chan []byte
}

// NewConnection creates a new connection wrapper
func NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		ws:   ws,
		send: make(chan []byte, 256),
	}
}

// MessageHandler handles one raw message read from a connection
type MessageHandler interface {
	HandleMessage(conn *Connection, message []byte)
}

// ReadPump reads messages until the peer goes away, then stops the write pump.
// Messages are handled one at a time on the calling goroutine.
func (c *Connection) ReadPump(h MessageHandler) {
	defer close(c.send)

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Error reading message: %v", err)
			}
			return
		}
		h.HandleMessage(c, message)
	}
}

// WritePump writes queued messages to the WebSocket connection
func (c *Connection) WritePump() {
	defer c.ws.Close()

	for message := range c.send {
		w, err := c.ws.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		if _, err := w.Write(message); err != nil {
			return
		}
		if err := w.Close(); err != nil {
			return
		}
	}
	c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// SendMessage queues a message for the client. A full queue drops the connection.
func (c *Connection) SendMessage(msg any) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case c.send <- messageBytes:
	default:
		c.ws.Close()
	}
	return nil
}
