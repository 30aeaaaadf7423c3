package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches an upgraded connection to the hub and blocks until it closes
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string, handle TurnHandler) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, Send: make(chan []byte, 16), handle: handle}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
