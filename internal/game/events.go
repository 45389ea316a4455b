package game

import (
	"github.com/feltworks/holdemd/internal/deck"
)

// EventType tags a discrete game transition for the wire.
type EventType string

const (
	EventTypeNewHand          EventType = "new-hand"
	EventTypeStreet           EventType = "street"
	EventTypePlayerAction     EventType = "player-action"
	EventTypeHandWon          EventType = "hand-won"
	EventTypeShowdown         EventType = "showdown"
	EventTypeHandShown        EventType = "hand-shown"
	EventTypeHandMucked       EventType = "hand-mucked"
	EventTypePlayersBusted    EventType = "players-busted"
	EventTypeHostChanged      EventType = "host-changed"
	EventTypeYouAreHost       EventType = "you-are-host"
	EventTypeSeatRequested    EventType = "seat-requested"
	EventTypeSeatApproved     EventType = "seat-approved"
	EventTypeSeatDenied       EventType = "seat-denied"
	EventTypeGameStarted      EventType = "game-started"
	EventTypeGamePaused       EventType = "game-paused"
	EventTypeGameResumed      EventType = "game-resumed"
	EventTypeGameStopped      EventType = "game-stopped"
	EventTypeRunItTwiceOffer  EventType = "run-it-twice-offered"
	EventTypeRunItTwiceVote   EventType = "run-it-twice-vote"
	EventTypeRunItTwiceResult EventType = "run-it-twice-result"
)

// Event is a tagged variant describing one discrete room transition. Events
// are emitted by the state machine and broadcast verbatim by the room actor;
// they carry only information every room member may see.
type Event interface {
	Type() EventType
}

// NewHandEvent announces the start of a hand, after blinds are posted.
type NewHandEvent struct {
	HandNum    int    `json:"handNum"`
	DealerSeat int    `json:"dealerSeat"`
	SBSeat     int    `json:"sbSeat"`
	BBSeat     int    `json:"bbSeat"`
	SmallBlind int    `json:"smallBlind"`
	BigBlind   int    `json:"bigBlind"`
	Seats      []int  `json:"seats"` // seats dealt into the hand
	Pot        int    `json:"pot"`
}

func (NewHandEvent) Type() EventType { return EventTypeNewHand }

// StreetEvent announces newly dealt community cards.
type StreetEvent struct {
	Street      string      `json:"street"` // flop, turn, river
	Cards       []deck.Card `json:"cards"`
	SecondBoard bool        `json:"secondBoard,omitempty"`
	Board       []deck.Card `json:"board"`
}

func (StreetEvent) Type() EventType { return EventTypeStreet }

// PlayerActionEvent mirrors a validated betting action back to the room.
type PlayerActionEvent struct {
	Seat   int    `json:"seat"`
	Name   string `json:"name"`
	Action string `json:"action"`
	Amount int    `json:"amount"` // chips paid with this action
	Pot    int    `json:"pot"`
	Street string `json:"street"`
}

func (PlayerActionEvent) Type() EventType { return EventTypePlayerAction }

// PotAward records one pot layer (or board half) paid to one seat.
type PotAward struct {
	Seat   int    `json:"seat"`
	Name   string `json:"name"`
	Amount int    `json:"amount"`
	Board  int    `json:"board"`            // 0 = first board
	Hand   string `json:"hand,omitempty"`   // description, empty when uncontested
}

// HandWonEvent ends a hand that never reached showdown: everyone else
// folded and no cards are revealed.
type HandWonEvent struct {
	Seat   int    `json:"seat"`
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

func (HandWonEvent) Type() EventType { return EventTypeHandWon }

// ShowdownEvent carries the per-pot results of a showdown.
type ShowdownEvent struct {
	Awards []PotAward `json:"awards"`
	Boards int        `json:"boards"` // 1, or 2 when run twice
}

func (ShowdownEvent) Type() EventType { return EventTypeShowdown }

// HandShownEvent reveals a seat's hole cards at showdown.
type HandShownEvent struct {
	Seat  int         `json:"seat"`
	Name  string      `json:"name"`
	Cards []deck.Card `json:"cards"`
	Hand  string      `json:"hand"`
}

func (HandShownEvent) Type() EventType { return EventTypeHandShown }

// HandMuckedEvent announces a seat discarding unseen at showdown.
type HandMuckedEvent struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

func (HandMuckedEvent) Type() EventType { return EventTypeHandMucked }

// PlayersBustedEvent lists seats vacated for a zero bankroll at hand start.
type PlayersBustedEvent struct {
	Names []string `json:"names"`
}

func (PlayersBustedEvent) Type() EventType { return EventTypePlayersBusted }

// HostChangedEvent announces the new room host to everyone.
type HostChangedEvent struct {
	Name string `json:"name"`
}

func (HostChangedEvent) Type() EventType { return EventTypeHostChanged }

// YouAreHostEvent is delivered only to the new host's connection.
type YouAreHostEvent struct {
	SessionID string `json:"-"`
}

func (YouAreHostEvent) Type() EventType { return EventTypeYouAreHost }

// SeatRequestedEvent announces a new queued seat request.
type SeatRequestedEvent struct {
	Request SeatRequest `json:"request"`
}

func (SeatRequestedEvent) Type() EventType { return EventTypeSeatRequested }

// SeatApprovedEvent announces a player taking a seat.
type SeatApprovedEvent struct {
	Name    string `json:"name"`
	Seat    int    `json:"seat"`
	BuyIn   int    `json:"buyIn"`
	Waiting bool   `json:"waiting"` // seated mid-hand, joins next hand
}

func (SeatApprovedEvent) Type() EventType { return EventTypeSeatApproved }

// SeatDeniedEvent announces a declined seat request.
type SeatDeniedEvent struct {
	Name string `json:"name"`
	Seat int    `json:"seat"`
}

func (SeatDeniedEvent) Type() EventType { return EventTypeSeatDenied }

// GameStartedEvent / GamePausedEvent / GameResumedEvent / GameStoppedEvent
// mirror the host's game-session controls.
type GameStartedEvent struct{}

func (GameStartedEvent) Type() EventType { return EventTypeGameStarted }

type GamePausedEvent struct{}

func (GamePausedEvent) Type() EventType { return EventTypeGamePaused }

type GameResumedEvent struct{}

func (GameResumedEvent) Type() EventType { return EventTypeGameResumed }

type GameStoppedEvent struct{}

func (GameStoppedEvent) Type() EventType { return EventTypeGameStopped }

// RunItTwiceOfferedEvent opens a run-it-twice vote to all remaining seats.
type RunItTwiceOfferedEvent struct {
	Eligible []int `json:"eligible"`
}

func (RunItTwiceOfferedEvent) Type() EventType { return EventTypeRunItTwiceOffer }

// RunItTwiceVoteEvent records one seat's vote.
type RunItTwiceVoteEvent struct {
	Seat   int  `json:"seat"`
	Accept bool `json:"accept"`
}

func (RunItTwiceVoteEvent) Type() EventType { return EventTypeRunItTwiceVote }

// RunItTwiceResultEvent closes the vote. Active means both boards will run.
type RunItTwiceResultEvent struct {
	Active   bool `json:"active"`
	TimedOut bool `json:"timedOut,omitempty"`
}

func (RunItTwiceResultEvent) Type() EventType { return EventTypeRunItTwiceResult }
