package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltworks/holdemd/internal/game"
	"github.com/feltworks/holdemd/internal/gameid"
)

// Client is the actor's view of one connected member: a durable session
// id plus a non-blocking outbound queue. The WebSocket connection
// implements it; tests substitute fakes.
type Client interface {
	SessionID() string
	Enqueue(msg *Message)
	Kill()
}

// Timings are the room's scheduling delays. Zero ActTimeout disables the
// per-turn forced fold.
type Timings struct {
	StreetDelay   time.Duration
	NextHandDelay time.Duration
	RITTimeout    time.Duration
	ActTimeout    time.Duration
}

// DefaultTimings paces streets and hands for human play.
func DefaultTimings() Timings {
	return Timings{
		StreetDelay:   1500 * time.Millisecond,
		NextHandDelay: 4 * time.Second,
		RITTimeout:    15 * time.Second,
	}
}

// RoomActor owns one room. Every command, client or timer, runs as a
// closure on the actor goroutine, so the room state is only ever touched
// single-threaded. After each command the accumulated events, the public
// room state, and each member's private state go out before the next
// command is taken.
type RoomActor struct {
	room    *game.Room
	clock   quartz.Clock
	logger  *log.Logger
	timings Timings

	godSecret string

	cmds     chan func()
	stop     chan struct{}
	stopOnce sync.Once

	clients map[string]Client

	// onEmpty is invoked (on the actor goroutine) whenever a command
	// leaves the room with no members; the hub schedules reaping from it.
	onEmpty func()

	streetTimer   *quartz.Timer
	nextHandTimer *quartz.Timer
	ritTimer      *quartz.Timer
	actTimer      *quartz.Timer
	actSeat       int
	actHand       int
}

// NewRoomActor starts the actor goroutine for a room.
func NewRoomActor(room *game.Room, clock quartz.Clock, logger *log.Logger, timings Timings, godSecret string) *RoomActor {
	a := &RoomActor{
		room:      room,
		clock:     clock,
		logger:    logger.WithPrefix("room." + room.ID),
		timings:   timings,
		godSecret: godSecret,
		cmds:      make(chan func(), 64),
		stop:      make(chan struct{}),
		clients:   make(map[string]Client),
	}
	go a.run()
	return a
}

// SetOnEmpty registers the empty-room hook. Called once by the hub before
// any client joins.
func (a *RoomActor) SetOnEmpty(fn func()) {
	a.onEmpty = fn
}

func (a *RoomActor) run() {
	for {
		select {
		case fn := <-a.cmds:
			fn()
			a.afterCommand()
		case <-a.stop:
			return
		}
	}
}

// Do posts fn to the actor goroutine. Reports false if the actor has
// stopped and fn will never run.
func (a *RoomActor) Do(fn func()) bool {
	select {
	case a.cmds <- fn:
		return true
	case <-a.stop:
		return false
	}
}

// Stop terminates the actor and its timers. The hub calls it after the
// room is reaped.
func (a *RoomActor) Stop() {
	a.stopOnce.Do(func() {
		close(a.stop)
		for _, t := range []*quartz.Timer{a.streetTimer, a.nextHandTimer, a.ritTimer, a.actTimer} {
			if t != nil {
				t.Stop()
			}
		}
	})
}

// Join registers a client as a room member. The hub has already vetted
// session uniqueness.
func (a *RoomActor) Join(client Client, name string, req *Message) {
	a.Do(func() {
		_, err := a.room.AddPlayer(client.SessionID(), name)
		if err != nil {
			a.sendAck(client, req, err, nil)
			return
		}
		a.clients[client.SessionID()] = client
		a.logger.Info("player joined", "session", client.SessionID(), "name", name)
		a.sendAck(client, req, nil, map[string]any{"roomId": a.room.ID})
	})
}

// Leave removes a session from the room, gracefully or on disconnect.
func (a *RoomActor) Leave(sessionID string) {
	a.Do(func() {
		a.room.RemovePlayer(sessionID)
		delete(a.clients, sessionID)
		a.logger.Info("player left", "session", sessionID)
		if a.room.Empty() && a.onEmpty != nil {
			a.onEmpty()
		}
	})
}

// Handle routes one client command onto the actor goroutine.
func (a *RoomActor) Handle(client Client, msg *Message) {
	a.Do(func() {
		a.handle(client, msg)
	})
}

func (a *RoomActor) handle(client Client, msg *Message) {
	sid := client.SessionID()

	switch msg.Type {
	case MessageTypeRequestSeat:
		var data RequestSeatData
		if !a.decode(client, msg, &data) {
			return
		}
		id := gameid.RequestID()
		err := a.room.RequestSeat(sid, id, data.SeatIndex, data.BuyIn, a.clock.Now())
		a.sendAck(client, msg, err, nil)

	case MessageTypeApproveSeat:
		var data SeatRequestRefData
		if !a.decode(client, msg, &data) {
			return
		}
		a.sendAck(client, msg, a.room.ApproveSeat(sid, data.RequestID), nil)

	case MessageTypeDenySeat:
		var data SeatRequestRefData
		if !a.decode(client, msg, &data) {
			return
		}
		a.sendAck(client, msg, a.room.DenySeat(sid, data.RequestID), nil)

	case MessageTypeCancelSeatRequest:
		a.sendAck(client, msg, a.room.CancelSeatRequest(sid), nil)

	case MessageTypeLeaveSeat:
		a.sendAck(client, msg, a.room.LeaveSeat(sid), nil)

	case MessageTypeStartGame:
		err := a.room.StartGame(sid)
		if err == nil {
			if startErr := a.room.StartHand(); startErr != nil {
				a.logger.Debug("waiting for players", "err", startErr)
			}
		}
		a.sendAck(client, msg, err, nil)

	case MessageTypePauseGame:
		a.sendAck(client, msg, a.room.PauseGame(sid), nil)

	case MessageTypeResumeGame:
		a.sendAck(client, msg, a.room.ResumeGame(sid), nil)

	case MessageTypeStopGame:
		a.sendAck(client, msg, a.room.StopGame(sid), nil)

	case MessageTypePlayerAction:
		var data PlayerActionData
		if !a.decode(client, msg, &data) {
			return
		}
		action, err := game.ParseAction(data.Action)
		if err == nil {
			err = a.room.ApplyAction(sid, action, data.Amount)
		}
		a.sendAck(client, msg, err, nil)

	case MessageTypeShowHand:
		a.sendAck(client, msg, a.room.ShowHand(sid), nil)

	case MessageTypeMuckHand:
		a.sendAck(client, msg, a.room.MuckHand(sid), nil)

	case MessageTypeRunItTwiceVote:
		var data RunItTwiceVoteData
		if !a.decode(client, msg, &data) {
			return
		}
		a.sendAck(client, msg, a.room.VoteRunItTwice(sid, data.Accept), nil)

	case MessageTypeGodEnable, MessageTypeGodDisable, MessageTypeSetRiggedHand:
		a.handleGod(client, msg)

	default:
		a.sendAck(client, msg, game.Errorf("unknown command %q", msg.Type), nil)
	}
}

func (a *RoomActor) handleGod(client Client, msg *Message) {
	var data GodModeData
	if !a.decode(client, msg, &data) {
		return
	}
	if a.godSecret == "" {
		a.sendAck(client, msg, game.Errorf("privileged mode is disabled"), nil)
		return
	}
	if data.Secret != a.godSecret {
		a.sendAck(client, msg, game.Errorf("nice try"), nil)
		return
	}
	sid := client.SessionID()
	var err error
	switch msg.Type {
	case MessageTypeGodEnable:
		err = a.room.EnableGod(sid)
	case MessageTypeGodDisable:
		err = a.room.DisableGod(sid)
	case MessageTypeSetRiggedHand:
		err = a.room.SetRiggedHand(sid, data.HandType)
	}
	a.sendAck(client, msg, err, nil)
}

// decode unmarshals a command payload. A malformed payload is fatal for
// the connection.
func (a *RoomActor) decode(client Client, msg *Message, v any) bool {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		a.logger.Warn("malformed payload, dropping connection",
			"type", msg.Type, "session", client.SessionID(), "err", err)
		a.sendAck(client, msg, game.Errorf("malformed payload"), nil)
		client.Kill()
		return false
	}
	return true
}

func (a *RoomActor) sendAck(client Client, req *Message, err error, payload map[string]any) {
	data := AckData{Success: err == nil, Payload: payload}
	if err != nil {
		if !game.IsRuleError(err) {
			a.logger.Error("internal error on command", "type", req.Type, "err", err)
			err = game.Errorf("internal error")
		}
		data.Error = err.Error()
	}
	out, merr := NewMessage(MessageTypeAck, data)
	if merr != nil {
		return
	}
	out.RequestID = req.RequestID
	client.Enqueue(out)
}

// afterCommand pushes the results of the command that just ran: game
// events in order, then the public room state, then each member's private
// state. Timers are rescheduled off the new state.
func (a *RoomActor) afterCommand() {
	for _, ev := range a.room.DrainEvents() {
		if host, ok := ev.(game.YouAreHostEvent); ok {
			if c := a.clients[host.SessionID]; c != nil {
				a.unicastEvent(c, ev)
			}
			continue
		}
		a.broadcastEvent(ev)
	}

	if len(a.clients) > 0 {
		state, err := NewMessage(MessageTypeRoomState, BuildRoomState(a.room))
		if err == nil {
			for _, c := range a.clients {
				c.Enqueue(state)
			}
		}
		for sid, c := range a.clients {
			if msg, err := NewMessage(MessageTypePlayerState, BuildPlayerState(a.room, sid)); err == nil {
				c.Enqueue(msg)
			}
		}
	}

	a.scheduleTimers()
}

func (a *RoomActor) broadcastEvent(ev game.Event) {
	msg, err := NewMessage(MessageTypeGameEvent, GameEventData{Event: string(ev.Type()), Data: ev})
	if err != nil {
		return
	}
	for _, c := range a.clients {
		c.Enqueue(msg)
	}
}

func (a *RoomActor) unicastEvent(c Client, ev game.Event) {
	msg, err := NewMessage(MessageTypeGameEvent, GameEventData{Event: string(ev.Type()), Data: ev})
	if err != nil {
		return
	}
	c.Enqueue(msg)
}

// scheduleTimers keeps exactly the timers the current room state calls
// for. Timer callbacks post back into the actor as commands.
func (a *RoomActor) scheduleTimers() {
	r := a.room

	if r.NeedsRunout() {
		if a.streetTimer == nil {
			a.streetTimer = a.clock.AfterFunc(a.timings.StreetDelay, func() {
				a.Do(func() {
					a.streetTimer = nil
					a.room.AdvanceRunout()
				})
			})
		}
	} else if a.streetTimer != nil {
		a.streetTimer.Stop()
		a.streetTimer = nil
	}

	if r.Phase == game.Showdown && r.Running && !r.Paused {
		if a.nextHandTimer == nil {
			a.nextHandTimer = a.clock.AfterFunc(a.timings.NextHandDelay, func() {
				a.Do(func() {
					a.nextHandTimer = nil
					if err := a.room.StartHand(); err != nil {
						a.logger.Debug("next hand not started", "err", err)
					}
				})
			})
		}
	} else if a.nextHandTimer != nil {
		a.nextHandTimer.Stop()
		a.nextHandTimer = nil
	}

	if r.RunItTwice.Offered && !r.RunItTwice.Resolved {
		if a.ritTimer == nil {
			r.RunItTwice.Deadline = a.clock.Now().Add(a.timings.RITTimeout)
			a.ritTimer = a.clock.AfterFunc(a.timings.RITTimeout, func() {
				a.Do(func() {
					a.ritTimer = nil
					a.room.ExpireRunItTwice()
				})
			})
		}
	} else if a.ritTimer != nil {
		a.ritTimer.Stop()
		a.ritTimer = nil
	}

	a.scheduleActTimeout()
}

// scheduleActTimeout force-folds a seat that sits on its turn too long.
// Off unless configured.
func (a *RoomActor) scheduleActTimeout() {
	r := a.room
	if a.timings.ActTimeout <= 0 {
		return
	}
	active := r.Phase.Betting() && r.TurnSeat != game.NoSeat && !r.Paused
	if !active {
		if a.actTimer != nil {
			a.actTimer.Stop()
			a.actTimer = nil
		}
		return
	}
	if a.actTimer != nil && a.actSeat == r.TurnSeat && a.actHand == r.HandNum {
		return
	}
	if a.actTimer != nil {
		a.actTimer.Stop()
	}
	seat, hand := r.TurnSeat, r.HandNum
	a.actSeat, a.actHand = seat, hand
	a.actTimer = a.clock.AfterFunc(a.timings.ActTimeout, func() {
		a.Do(func() {
			a.actTimer = nil
			if !a.room.Phase.Betting() || a.room.TurnSeat != seat || a.room.HandNum != hand {
				return
			}
			p := a.room.PlayerAtSeat(seat)
			if p == nil {
				return
			}
			a.logger.Info("action timeout, folding", "seat", seat, "name", p.Name)
			if err := a.room.ApplyAction(p.SessionID, game.Fold, 0); err != nil {
				a.logger.Error("timeout fold failed", "err", err)
			}
		})
	})
}

// Snapshot returns the public room state, synchronized through the actor.
// Used by the HTTP room listing.
func (a *RoomActor) Snapshot() (RoomStateView, bool) {
	ch := make(chan RoomStateView, 1)
	if !a.Do(func() { ch <- BuildRoomState(a.room) }) {
		return RoomStateView{}, false
	}
	select {
	case view := <-ch:
		return view, true
	case <-a.stop:
		return RoomStateView{}, false
	}
}
