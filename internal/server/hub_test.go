package server

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltworks/holdemd/internal/game"
)

func newTestHub(t *testing.T, clock quartz.Clock, reapDelay time.Duration) *Hub {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return NewHub(clock, logger, testTimings(), "", reapDelay)
}

func hubJoin(t *testing.T, h *Hub, c *fakeClient, connID, roomID string) {
	t.Helper()
	h.Join(c, connID, JoinRoomData{
		RoomID:    roomID,
		Username:  c.id,
		SessionID: c.id,
	}, &Message{Type: MessageTypeJoinRoom, RequestID: "join-" + connID})
}

func TestHubJoinValidation(t *testing.T) {
	t.Parallel()

	h := newTestHub(t, quartz.NewMock(t), time.Minute)
	actor := h.CreateRoom("Friday Game", game.DefaultConfig)
	t.Cleanup(actor.Stop)
	roomID := actor.room.ID
	actor2 := h.CreateRoom("Other Game", game.DefaultConfig)
	t.Cleanup(actor2.Stop)

	c1 := &fakeClient{id: "alice"}
	hubJoin(t, h, c1, "conn1", roomID)
	snap(t, actor)
	if ack := c1.lastAck(t); !ack.Success {
		t.Fatalf("join failed: %s", ack.Error)
	}

	ghost := &fakeClient{id: "ghost"}
	hubJoin(t, h, ghost, "conn9", "ZZZZZZ")
	if ack := ghost.lastAck(t); ack.Success || ack.Error != "no such room" {
		t.Errorf("ack = %+v, want no such room", ack)
	}

	// The same session in the same room from a second connection is a
	// duplicate tab.
	tab2 := &fakeClient{id: "alice"}
	hubJoin(t, h, tab2, "conn2", roomID)
	if ack := tab2.lastAck(t); ack.Success || ack.Error != "already connected to this room" {
		t.Errorf("ack = %+v, want duplicate rejection", ack)
	}

	// One connection holds one room at a time.
	hubJoin(t, h, c1, "conn1", actor2.room.ID)
	if ack := c1.lastAck(t); ack.Success || ack.Error != "leave your current room first" {
		t.Errorf("ack = %+v, want single-room rejection", ack)
	}
}

func TestHubLeaveRoom(t *testing.T) {
	t.Parallel()

	h := newTestHub(t, quartz.NewMock(t), time.Minute)
	actor := h.CreateRoom("Friday Game", game.DefaultConfig)
	t.Cleanup(actor.Stop)

	c := &fakeClient{id: "alice"}
	h.LeaveRoom(c, "conn1", &Message{Type: MessageTypeLeaveRoom})
	if ack := c.lastAck(t); ack.Success || ack.Error != "not in a room" {
		t.Errorf("ack = %+v, want not-in-a-room rejection", ack)
	}

	hubJoin(t, h, c, "conn1", actor.room.ID)
	snap(t, actor)
	h.LeaveRoom(c, "conn1", &Message{Type: MessageTypeLeaveRoom, RequestID: "leave1"})
	if ack := c.lastAck(t); !ack.Success {
		t.Errorf("leave failed: %s", ack.Error)
	}
	if h.RoomForConn("conn1") != nil {
		t.Error("connection still bound to a room after leaving")
	}
}

func TestHubReapsEmptyRoom(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	h := newTestHub(t, clock, time.Minute)
	actor := h.CreateRoom("Friday Game", game.DefaultConfig)
	t.Cleanup(actor.Stop)
	roomID := actor.room.ID

	c := &fakeClient{id: "alice"}
	hubJoin(t, h, c, "conn1", roomID)
	snap(t, actor)

	h.Disconnect("conn1")
	snap(t, actor) // Leave processed, reap timer armed

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock.Advance(time.Minute).MustWait(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for h.Room(roomID) != nil && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if h.Room(roomID) != nil {
		t.Fatal("empty room survived its reap window")
	}
}

func TestHubRejoinCancelsReap(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	h := newTestHub(t, clock, time.Minute)
	actor := h.CreateRoom("Friday Game", game.DefaultConfig)
	t.Cleanup(actor.Stop)
	roomID := actor.room.ID

	c := &fakeClient{id: "alice"}
	hubJoin(t, h, c, "conn1", roomID)
	snap(t, actor)
	h.Disconnect("conn1")
	snap(t, actor)

	// Coming back within the grace window keeps the room alive.
	c2 := &fakeClient{id: "alice"}
	hubJoin(t, h, c2, "conn2", roomID)
	snap(t, actor)
	if ack := c2.lastAck(t); !ack.Success {
		t.Fatalf("rejoin failed: %s", ack.Error)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock.Advance(time.Minute).MustWait(ctx)

	if h.Room(roomID) == nil {
		t.Fatal("room reaped despite the rejoin")
	}
	if view := snap(t, actor); view.Spectators != 1 {
		t.Errorf("spectators = %d, want the rejoined player", view.Spectators)
	}
}

func TestHubListRooms(t *testing.T) {
	t.Parallel()

	h := newTestHub(t, quartz.NewMock(t), time.Minute)
	a1 := h.CreateRoom("Game One", game.DefaultConfig)
	t.Cleanup(a1.Stop)
	a2 := h.CreateRoom("Game Two", game.Config{MaxSeats: 4, SmallBlind: 25, BigBlind: 50})
	t.Cleanup(a2.Stop)

	views := h.ListRooms()
	if len(views) != 2 {
		t.Fatalf("got %d rooms, want 2", len(views))
	}
	byName := map[string]RoomStateView{}
	for _, v := range views {
		byName[v.Name] = v
	}
	if v, ok := byName["Game Two"]; !ok || v.BigBlind != 50 || v.MaxSeats != 4 {
		t.Errorf("Game Two view = %+v", v)
	}
}
