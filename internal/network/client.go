package network

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024
	// Time allowed for one action to run.
	actionTimeout = 10 * time.Second
)

// Client is one websocket connection. The hub owns send; replies is
// owned by the client so a reply never races a hub-side close.
type Client struct {
	hub     *Hub
	svc     *engine.Service
	conn    *websocket.Conn
	remote  string
	send    chan []byte
	replies chan []byte
}

func NewClient(hub *Hub, svc *engine.Service, conn *websocket.Conn) *Client {
	return &Client{
		hub:     hub,
		svc:     svc,
		conn:    conn,
		remote:  conn.RemoteAddr().String(),
		send:    make(chan []byte, 16),
		replies: make(chan []byte, 16),
	}
}

// ReadPump decodes requests from the connection and dispatches them to
// the service until the peer goes away.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read from %s: %v", c.remote, err)
			}
			return
		}

		var req Request
		var reply Reply
		if err := json.Unmarshal(message, &req); err != nil {
			reply = Reply{Error: "malformed request: " + err.Error()}
		} else {
			actx, cancel := context.WithTimeout(ctx, actionTimeout)
			reply = Dispatch(actx, c.svc, req)
			cancel()
		}
		c.reply(reply)
	}
}

func (c *Client) reply(r Reply) {
	payload, err := json.Marshal(Envelope{Type: TypeReply, Data: r})
	if err != nil {
		c.hub.logger.Error("failed to encode reply for %s: %v", c.remote, err)
		return
	}
	select {
	case c.replies <- payload:
	default:
		c.hub.logger.Warn("dropping reply to %s: client not reading", c.remote)
	}
}

// WritePump pumps hub broadcasts and replies to the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case message := <-c.replies:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
