package server

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltworks/holdemd/internal/game"
	"github.com/feltworks/holdemd/internal/gameid"
	"github.com/feltworks/holdemd/internal/randutil"
)

// Hub is the session and fan-out layer: it owns the room table and the
// session/connection indexes, routes commands to room actors, and reaps
// rooms that stay empty. Sessions are durable across reconnects;
// connections are not.
type Hub struct {
	clock     quartz.Clock
	logger    *log.Logger
	timings   Timings
	godSecret string
	reapDelay time.Duration

	mu       sync.Mutex
	rooms    map[string]*RoomActor
	sessions map[string]sessionInfo
	conns    map[string]connInfo
	reaps    map[string]*quartz.Timer
}

type sessionInfo struct {
	ConnID string
	RoomID string
	Name   string
}

type connInfo struct {
	SessionID string
	RoomID    string
}

// NewHub builds the hub. The clock drives reap timers and is passed down
// to every room actor.
func NewHub(clock quartz.Clock, logger *log.Logger, timings Timings, godSecret string, reapDelay time.Duration) *Hub {
	return &Hub{
		clock:     clock,
		logger:    logger.WithPrefix("hub"),
		timings:   timings,
		godSecret: godSecret,
		reapDelay: reapDelay,
		rooms:     make(map[string]*RoomActor),
		sessions:  make(map[string]sessionInfo),
		conns:     make(map[string]connInfo),
		reaps:     make(map[string]*quartz.Timer),
	}
}

// CreateRoom registers a new room and starts its actor.
func (h *Hub) CreateRoom(name string, cfg game.Config) *RoomActor {
	id := gameid.RoomID()
	room := game.NewRoom(id, name, cfg, randutil.NewCrypto())
	actor := NewRoomActor(room, h.clock, h.logger, h.timings, h.godSecret)
	actor.SetOnEmpty(func() { h.scheduleReap(id) })

	h.mu.Lock()
	h.rooms[id] = actor
	h.mu.Unlock()

	h.logger.Info("room created", "room", id, "name", name)
	return actor
}

// Room looks up a room actor by id.
func (h *Hub) Room(id string) *RoomActor {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rooms[id]
}

// RoomForConn returns the actor the connection is joined to, or nil.
func (h *Hub) RoomForConn(connID string) *RoomActor {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ci, ok := h.conns[connID]; ok {
		return h.rooms[ci.RoomID]
	}
	return nil
}

// ListRooms snapshots every live room for the discovery endpoint.
func (h *Hub) ListRooms() []RoomStateView {
	h.mu.Lock()
	actors := make([]*RoomActor, 0, len(h.rooms))
	for _, a := range h.rooms {
		actors = append(actors, a)
	}
	h.mu.Unlock()

	views := make([]RoomStateView, 0, len(actors))
	for _, a := range actors {
		if view, ok := a.Snapshot(); ok {
			views = append(views, view)
		}
	}
	return views
}

// Join binds a connection to a room. A session may hold only one
// connection per room; a second tab is rejected. Rejoining an empty room
// cancels its pending reap, and host identity follows the session.
func (h *Hub) Join(client Client, connID string, data JoinRoomData, req *Message) {
	h.mu.Lock()
	actor, ok := h.rooms[data.RoomID]
	if !ok {
		h.mu.Unlock()
		rejectCommand(client, req, "no such room")
		return
	}
	if si, exists := h.sessions[data.SessionID]; exists && si.RoomID == data.RoomID && si.ConnID != connID {
		h.mu.Unlock()
		rejectCommand(client, req, "already connected to this room")
		return
	}
	if ci, exists := h.conns[connID]; exists && ci.RoomID != data.RoomID {
		h.mu.Unlock()
		rejectCommand(client, req, "leave your current room first")
		return
	}
	h.sessions[data.SessionID] = sessionInfo{ConnID: connID, RoomID: data.RoomID, Name: data.Username}
	h.conns[connID] = connInfo{SessionID: data.SessionID, RoomID: data.RoomID}
	if t := h.reaps[data.RoomID]; t != nil {
		t.Stop()
		delete(h.reaps, data.RoomID)
	}
	h.mu.Unlock()

	actor.Join(client, data.Username, req)
}

// Disconnect tears down a connection's room membership. The player is
// removed from the room; host succession and reap scheduling follow from
// the actor's Leave handling.
func (h *Hub) Disconnect(connID string) {
	h.mu.Lock()
	ci, ok := h.conns[connID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.conns, connID)
	if si, exists := h.sessions[ci.SessionID]; exists && si.ConnID == connID {
		delete(h.sessions, ci.SessionID)
	}
	actor := h.rooms[ci.RoomID]
	h.mu.Unlock()

	if actor != nil {
		actor.Leave(ci.SessionID)
	}
}

// LeaveRoom handles a graceful leave-room command.
func (h *Hub) LeaveRoom(client Client, connID string, req *Message) {
	h.mu.Lock()
	_, ok := h.conns[connID]
	h.mu.Unlock()
	if !ok {
		rejectCommand(client, req, "not in a room")
		return
	}
	h.Disconnect(connID)
	msg, err := NewMessage(MessageTypeAck, AckData{Success: true})
	if err == nil {
		msg.RequestID = req.RequestID
		client.Enqueue(msg)
	}
}

// scheduleReap arms the empty-room timer. Runs on the actor goroutine via
// the onEmpty hook.
func (h *Hub) scheduleReap(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.reaps[roomID]; ok {
		return
	}
	h.logger.Debug("room empty, reap scheduled", "room", roomID, "after", h.reapDelay)
	h.reaps[roomID] = h.clock.AfterFunc(h.reapDelay, func() { h.reap(roomID) })
}

// reap removes a room that is still empty when its grace window expires.
func (h *Hub) reap(roomID string) {
	h.mu.Lock()
	delete(h.reaps, roomID)
	actor, ok := h.rooms[roomID]
	h.mu.Unlock()
	if !ok {
		return
	}
	actor.Do(func() {
		if !actor.room.Empty() {
			return
		}
		h.mu.Lock()
		delete(h.rooms, roomID)
		h.mu.Unlock()
		h.logger.Info("room reaped", "room", roomID)
		actor.Stop()
	})
}

// rejectCommand acks a command that never reached a room actor.
func rejectCommand(client Client, req *Message, reason string) {
	msg, err := NewMessage(MessageTypeAck, AckData{Success: false, Error: reason})
	if err != nil {
		return
	}
	msg.RequestID = req.RequestID
	client.Enqueue(msg)
}
