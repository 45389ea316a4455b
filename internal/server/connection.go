package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/feltworks/holdemd/internal/gameid"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 8192

	// Outbound queue depth per connection. A client that falls this far
	// behind is dropped rather than backpressuring the room.
	sendBuffer = 256
)

// Connection wraps one WebSocket client. It owns the read/write pumps and
// implements Client for the room actor; the actor never touches the
// socket directly.
type Connection struct {
	id   string
	conn *websocket.Conn
	hub  *Hub

	send      chan *Message
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu        sync.RWMutex
	sessionID string

	logger *log.Logger
}

// NewConnection wraps an upgraded WebSocket.
func NewConnection(conn *websocket.Conn, hub *Hub, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := gameid.RequestID()
	return &Connection{
		id:     id,
		conn:   conn,
		hub:    hub,
		send:   make(chan *Message, sendBuffer),
		ctx:    ctx,
		cancel: cancel,
		logger: logger.WithPrefix("conn." + id),
	}
}

// Start begins the pumps. Returns when the reader exits; the player is
// removed from their room before returning.
func (c *Connection) Start() {
	go c.writePump()
	c.readPump()
	c.hub.Disconnect(c.id)
}

// SessionID returns the durable session bound to this connection, empty
// until a join-room succeeds.
func (c *Connection) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

func (c *Connection) setSessionID(id string) {
	c.mu.Lock()
	c.sessionID = id
	c.mu.Unlock()
}

// Enqueue queues a message without blocking. A full buffer kills the
// connection; slow clients must never stall a room.
func (c *Connection) Enqueue(msg *Message) {
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	default:
		c.logger.Warn("send buffer full, dropping connection")
		c.Kill()
	}
}

// Kill tears the connection down from the server side.
func (c *Connection) Kill() {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.conn.Close()
	})
}

func (c *Connection) readPump() {
	defer c.Kill()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Debug("read error", "err", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Kill()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("write error", "err", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage routes one inbound command. Join and leave are hub
// concerns; everything else goes to the actor of the joined room.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("command", "type", msg.Type, "session", c.SessionID())

	switch msg.Type {
	case MessageTypeJoinRoom:
		var data JoinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.logger.Warn("malformed join payload, dropping connection", "err", err)
			rejectCommand(c, msg, "malformed payload")
			c.Kill()
			return
		}
		if data.SessionID == "" || data.RoomID == "" {
			rejectCommand(c, msg, "roomId and sessionId are required")
			return
		}
		c.setSessionID(data.SessionID)
		c.hub.Join(c, c.id, data, msg)

	case MessageTypeLeaveRoom:
		c.hub.LeaveRoom(c, c.id, msg)

	default:
		actor := c.hub.RoomForConn(c.id)
		if actor == nil {
			rejectCommand(c, msg, "not in a room")
			return
		}
		actor.Handle(c, msg)
	}
}
