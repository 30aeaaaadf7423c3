package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	turnTimeout    = 30 * time.Second
)

// TurnHandler resolves one shopper message and returns the reply payload
type TurnHandler func(ctx context.Context, sessionID, message string) (interface{}, error)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	SessionID string

	// Buffered channel of outbound frames.
	Send chan []byte

	handle TurnHandler
}

type inboundFrame struct {
	Message string `json:"message"`
}

type outboundFrame struct {
	Type string      `json:"type"` // "reply" | "error"
	Data interface{} `json:"data"`
}

// readPump reads shopper messages and resolves them one at a time, which keeps
// a session's turns ordered.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{"session_id": c.SessionID, "error": err.Error()})
			}
			break
		}
		c.process(raw)
	}
}

func (c *Client) process(raw []byte) {
	var in inboundFrame
	if err := json.Unmarshal(raw, &in); err != nil || in.Message == "" {
		c.reply(outboundFrame{Type: "error", Data: map[string]string{"message": "expected {\"message\": \"...\"}"}})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()
	res, err := c.handle(ctx, c.SessionID, in.Message)
	if err != nil {
		c.Hub.logger.Error("Client", "Turn failed", map[string]interface{}{"session_id": c.SessionID, "error": err.Error()})
		c.reply(outboundFrame{Type: "error", Data: map[string]string{"message": "Hệ thống đang bận, bạn thử lại sau nhé."}})
		return
	}

	frame, _ := json.Marshal(outboundFrame{Type: "reply", Data: res})
	c.Hub.Deliver(c.SessionID, frame)
}

// reply answers only this socket
func (c *Client) reply(f outboundFrame) {
	frame, _ := json.Marshal(f)
	select {
	case c.Send <- frame:
	default:
	}
}

// writePump pumps frames from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
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
