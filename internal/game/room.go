package game

import (
	"math/rand/v2"
	"time"

	"github.com/feltworks/holdemd/internal/deck"
)

// Config holds the fixed parameters of a room.
type Config struct {
	MaxSeats   int
	SmallBlind int
	BigBlind   int
}

// DefaultConfig is an 8-seat 10/20 table.
var DefaultConfig = Config{
	MaxSeats:   8,
	SmallBlind: 10,
	BigBlind:   20,
}

// MinBuyIn is the smallest buy-in a seat request may propose.
func (c Config) MinBuyIn() int { return 10 * c.BigBlind }

// Room is the full state of one poker table. It is a passive model: all
// mutation goes through its methods, which are only ever called from the
// owning room actor, so none of this is locked. Methods that change state
// append Events for the caller to drain and broadcast.
type Room struct {
	ID     string
	Name   string
	Config Config

	// HostID is the session currently holding host controls. OriginalHost
	// is the session that created the room; it reclaims the host role on
	// rejoin even after the role passed to someone else.
	HostID       string
	OriginalHost string

	Seats   []*Player // length Config.MaxSeats, nil when empty
	Players map[string]*Player
	order   []string // session ids in join order, drives host succession

	HandNum int
	Phase   Phase

	Board       []deck.Card
	SecondBoard []deck.Card // non-nil only while running it twice

	Pot        int
	Awarded    int // chips paid out this hand
	CurrentBet int
	MinRaise   int

	DealerSeat    int
	SBSeat        int
	BBSeat        int
	TurnSeat      int
	AggressorSeat int

	// acted tracks which seats have acted this betting round. A full raise
	// resets it to the raiser alone. The big blind is deliberately not
	// seeded into it when blinds are posted, which is what grants the BB
	// option on a limped preflop.
	acted   map[int]bool
	bbActed bool

	Running bool
	Paused  bool

	Requests     map[string]*SeatRequest
	requestOrder []string

	RunItTwice RunItTwiceState
	Showdown   *ShowdownState

	God GodState

	// runout is set when every remaining player is all-in and the rest of
	// the board deals automatically, one street per actor tick.
	runout bool

	// forfeited holds the hand contributions of players who left mid-hand.
	// The chips stay in the pot as dead money for side-pot layering.
	forfeited []int

	d        *deck.Deck
	nextDeck []deck.Card // when set, the next hand deals from this order

	rng    *rand.Rand
	events []Event
}

// NewRoom builds an empty room. The rng shuffles every deck this room
// deals; pass a crypto-seeded source outside of tests.
func NewRoom(id, name string, cfg Config, rng *rand.Rand) *Room {
	if cfg.MaxSeats == 0 {
		cfg = DefaultConfig
	}
	return &Room{
		ID:         id,
		Name:       name,
		Config:     cfg,
		Seats:      make([]*Player, cfg.MaxSeats),
		Players:    make(map[string]*Player),
		Phase:      Waiting,
		MinRaise:   cfg.BigBlind,
		DealerSeat: NoSeat,
		TurnSeat:   NoSeat,
		Requests:   make(map[string]*SeatRequest),
		rng:        rng,
	}
}

func (r *Room) emit(ev Event) {
	r.events = append(r.events, ev)
}

// DrainEvents returns and clears the events accumulated since the last
// drain. The actor broadcasts them in order after every command.
func (r *Room) DrainEvents() []Event {
	evs := r.events
	r.events = nil
	return evs
}

// Empty reports whether no players remain in the room.
func (r *Room) Empty() bool { return len(r.Players) == 0 }

// Player returns the room member for a session, or nil.
func (r *Room) Player(sessionID string) *Player {
	return r.Players[sessionID]
}

// PlayerAtSeat returns the occupant of a seat, or nil.
func (r *Room) PlayerAtSeat(seat int) *Player {
	if seat < 0 || seat >= len(r.Seats) {
		return nil
	}
	return r.Seats[seat]
}

// IsHost reports whether the session holds the host role.
func (r *Room) IsHost(sessionID string) bool {
	return sessionID != "" && sessionID == r.HostID
}

// AddPlayer registers a session in the room as a spectator. The first
// player to join becomes host and is remembered as the original host; the
// original host reclaims the role whenever they rejoin.
func (r *Room) AddPlayer(sessionID, name string) (*Player, error) {
	if _, ok := r.Players[sessionID]; ok {
		return nil, Errorf("already in this room")
	}
	if n := len([]rune(name)); n < 1 || n > 15 {
		return nil, Errorf("name must be 1-15 characters")
	}
	p := &Player{SessionID: sessionID, Name: name, Seat: NoSeat}
	r.Players[sessionID] = p
	r.order = append(r.order, sessionID)

	if r.OriginalHost == "" {
		r.OriginalHost = sessionID
	}
	if r.HostID == "" || sessionID == r.OriginalHost {
		r.setHost(sessionID)
	}
	return p, nil
}

// RemovePlayer drops a session from the room entirely: seat vacated (with
// an auto-fold if they were in the active hand), pending request dropped,
// pending run-it-twice vote resolved, host role passed on if needed.
func (r *Room) RemovePlayer(sessionID string) {
	p, ok := r.Players[sessionID]
	if !ok {
		return
	}
	r.dropRequestBySession(sessionID)
	if p.Seated() {
		r.vacateSeat(p)
	}
	delete(r.Players, sessionID)
	for i, id := range r.order {
		if id == sessionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.HostID == sessionID {
		r.succeedHost()
	}
}

func (r *Room) setHost(sessionID string) {
	if r.HostID == sessionID {
		return
	}
	r.HostID = sessionID
	if p := r.Players[sessionID]; p != nil {
		r.emit(HostChangedEvent{Name: p.Name})
		r.emit(YouAreHostEvent{SessionID: sessionID})
	}
}

// succeedHost passes the host role to the longest-standing remaining
// player, by join order.
func (r *Room) succeedHost() {
	r.HostID = ""
	if len(r.order) > 0 {
		r.setHost(r.order[0])
	}
}

// vacateSeat removes p from their seat. If the active hand still includes
// them their committed chips stay in the pot as dead money and the fold is
// settled like any other, so the hand can end or the turn can move on.
func (r *Room) vacateSeat(p *Player) {
	seat := p.Seat
	inHand := p.InHand() && r.Phase.Betting()

	if inHand {
		p.Folded = true
		if p.HandBet > 0 {
			r.forfeited = append(r.forfeited, p.HandBet)
		}
	}
	if r.RunItTwice.Offered && !r.RunItTwice.Decided() {
		r.dropRITVoter(seat)
	}

	r.Seats[seat] = nil
	p.Seat = NoSeat
	p.HoleCards = nil
	p.RoundBet = 0
	p.HandBet = 0
	p.AllIn = false
	p.WaitingNextHand = false

	if inHand {
		r.settle(seat)
	}
	p.Folded = false
}

// --- seat iteration ---

// nextSeatWhere returns the first seat strictly clockwise from `from`
// whose occupant satisfies ok, or NoSeat after a full lap.
func (r *Room) nextSeatWhere(from int, ok func(*Player) bool) int {
	n := len(r.Seats)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if p := r.Seats[seat]; p != nil && ok(p) {
			return seat
		}
	}
	return NoSeat
}

func (r *Room) nextOccupied(from int) int {
	return r.nextSeatWhere(from, func(p *Player) bool {
		return !p.WaitingNextHand && p.Bankroll > 0
	})
}

func (r *Room) nextInHand(from int) int {
	return r.nextSeatWhere(from, (*Player).InHand)
}

func (r *Room) nextActionable(from int) int {
	return r.nextSeatWhere(from, (*Player).CanAct)
}

// participants returns the seats dealt into the current hand, in seat
// order, folded or not.
func (r *Room) participants() []int {
	var seats []int
	for i, p := range r.Seats {
		if p != nil && len(p.HoleCards) == 2 {
			seats = append(seats, i)
		}
	}
	return seats
}

func (r *Room) countInHand() int {
	n := 0
	for _, p := range r.Seats {
		if p != nil && p.InHand() {
			n++
		}
	}
	return n
}

func (r *Room) countActionable() int {
	n := 0
	for _, p := range r.Seats {
		if p != nil && p.CanAct() {
			n++
		}
	}
	return n
}

// --- seat requests ---

// RequestSeat queues a request to take a seat. The host's own requests
// are approved on the spot.
func (r *Room) RequestSeat(sessionID, requestID string, seat, buyIn int, now time.Time) error {
	p := r.Players[sessionID]
	if p == nil {
		return Errorf("not in a room")
	}
	if p.Seated() {
		return Errorf("already seated")
	}
	if seat < 0 || seat >= len(r.Seats) {
		return Errorf("invalid seat")
	}
	if r.Seats[seat] != nil {
		return Errorf("seat taken")
	}
	if buyIn < r.Config.MinBuyIn() {
		return Errorf("minimum buy-in is %d", r.Config.MinBuyIn())
	}
	for _, req := range r.Requests {
		if req.SessionID == sessionID {
			return Errorf("you already have a pending seat request")
		}
	}

	req := &SeatRequest{
		ID:        requestID,
		SessionID: sessionID,
		Name:      p.Name,
		Seat:      seat,
		BuyIn:     buyIn,
		CreatedAt: now,
	}
	if r.IsHost(sessionID) {
		r.seatPlayer(p, seat, buyIn)
		return nil
	}
	r.Requests[req.ID] = req
	r.requestOrder = append(r.requestOrder, req.ID)
	r.emit(SeatRequestedEvent{Request: *req})
	return nil
}

// ApproveSeat seats the requester with their proposed buy-in. Host only.
func (r *Room) ApproveSeat(sessionID, requestID string) error {
	if !r.IsHost(sessionID) {
		return Errorf("only the host can approve seat requests")
	}
	req := r.Requests[requestID]
	if req == nil {
		return Errorf("no such seat request")
	}
	r.dropRequest(requestID)
	p := r.Players[req.SessionID]
	if p == nil {
		return Errorf("requester has left the room")
	}
	if r.Seats[req.Seat] != nil {
		return Errorf("seat taken")
	}
	r.seatPlayer(p, req.Seat, req.BuyIn)
	return nil
}

// DenySeat drops a pending request. Host only.
func (r *Room) DenySeat(sessionID, requestID string) error {
	if !r.IsHost(sessionID) {
		return Errorf("only the host can deny seat requests")
	}
	req := r.Requests[requestID]
	if req == nil {
		return Errorf("no such seat request")
	}
	r.dropRequest(requestID)
	r.emit(SeatDeniedEvent{Name: req.Name, Seat: req.Seat})
	return nil
}

// CancelSeatRequest drops the sender's own pending request.
func (r *Room) CancelSeatRequest(sessionID string) error {
	for _, req := range r.Requests {
		if req.SessionID == sessionID {
			r.dropRequest(req.ID)
			return nil
		}
	}
	return Errorf("no pending seat request")
}

// PendingRequests returns the queued seat requests in arrival order.
func (r *Room) PendingRequests() []SeatRequest {
	reqs := make([]SeatRequest, 0, len(r.requestOrder))
	for _, id := range r.requestOrder {
		if req := r.Requests[id]; req != nil {
			reqs = append(reqs, *req)
		}
	}
	return reqs
}

// RequestBySession returns the sender's pending request, or nil.
func (r *Room) RequestBySession(sessionID string) *SeatRequest {
	for _, req := range r.Requests {
		if req.SessionID == sessionID {
			return req
		}
	}
	return nil
}

func (r *Room) dropRequest(id string) {
	delete(r.Requests, id)
	for i, rid := range r.requestOrder {
		if rid == id {
			r.requestOrder = append(r.requestOrder[:i], r.requestOrder[i+1:]...)
			break
		}
	}
}

func (r *Room) dropRequestBySession(sessionID string) {
	for _, req := range r.Requests {
		if req.SessionID == sessionID {
			r.dropRequest(req.ID)
			return
		}
	}
}

// seatPlayer puts p in a seat with a fresh stack. Seated mid-hand they
// wait out the hand in progress.
func (r *Room) seatPlayer(p *Player, seat, buyIn int) {
	p.Seat = seat
	p.Bankroll = buyIn
	p.WaitingNextHand = r.Phase != Waiting
	r.Seats[seat] = p
	r.emit(SeatApprovedEvent{
		Name:    p.Name,
		Seat:    seat,
		BuyIn:   buyIn,
		Waiting: p.WaitingNextHand,
	})
}

// LeaveSeat vacates the sender's seat. Active in a hand, they are folded
// out first and their committed chips stay in the pot.
func (r *Room) LeaveSeat(sessionID string) error {
	p := r.Players[sessionID]
	if p == nil {
		return Errorf("not in a room")
	}
	if !p.Seated() {
		return Errorf("not seated")
	}
	r.vacateSeat(p)
	return nil
}

// --- game session controls, all host-only ---

// StartGame flips the running flag; the actor starts the first hand.
func (r *Room) StartGame(sessionID string) error {
	if !r.IsHost(sessionID) {
		return Errorf("only the host can start the game")
	}
	if r.Running {
		return Errorf("game already running")
	}
	r.Running = true
	r.Paused = false
	r.emit(GameStartedEvent{})
	return nil
}

// PauseGame blocks betting actions and new hands until resumed. The hand
// in progress keeps its state.
func (r *Room) PauseGame(sessionID string) error {
	if !r.IsHost(sessionID) {
		return Errorf("only the host can pause the game")
	}
	if !r.Running {
		return Errorf("game is not running")
	}
	if r.Paused {
		return Errorf("game already paused")
	}
	r.Paused = true
	r.emit(GamePausedEvent{})
	return nil
}

// ResumeGame lifts a pause.
func (r *Room) ResumeGame(sessionID string) error {
	if !r.IsHost(sessionID) {
		return Errorf("only the host can resume the game")
	}
	if !r.Paused {
		return Errorf("game is not paused")
	}
	r.Paused = false
	r.emit(GameResumedEvent{})
	return nil
}

// StopGame ends the session. A hand still on a betting street is
// abandoned: every seated player gets their committed chips back and dead
// money from leavers is dropped. Once the pot has been paid out there is
// nothing left to refund. The room returns to WAITING.
func (r *Room) StopGame(sessionID string) error {
	if !r.IsHost(sessionID) {
		return Errorf("only the host can stop the game")
	}
	if !r.Running {
		return Errorf("game is not running")
	}
	refund := r.Phase.Betting()
	for _, p := range r.Seats {
		if p == nil {
			continue
		}
		if refund {
			p.Bankroll += p.HandBet
		}
		p.resetForHand()
	}
	r.clearHand()
	r.Running = false
	r.Paused = false
	r.Phase = Waiting
	r.emit(GameStoppedEvent{})
	return nil
}

// clearHand resets all per-hand room state. Player state is the caller's
// concern.
func (r *Room) clearHand() {
	r.Board = nil
	r.SecondBoard = nil
	r.Pot = 0
	r.Awarded = 0
	r.CurrentBet = 0
	r.MinRaise = r.Config.BigBlind
	r.SBSeat = NoSeat
	r.BBSeat = NoSeat
	r.TurnSeat = NoSeat
	r.AggressorSeat = NoSeat
	r.acted = nil
	r.bbActed = false
	r.RunItTwice = RunItTwiceState{}
	r.Showdown = nil
	r.runout = false
	r.forfeited = nil
	r.d = nil
}

// SetNextDeck overrides the deck order for the next hand. Tests and the
// rigged-hand fixture use it; the cards are dealt exactly in the given
// order with no shuffle.
func (r *Room) SetNextDeck(cards []deck.Card) {
	r.nextDeck = cards
}
