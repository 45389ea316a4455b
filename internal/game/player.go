package game

import (
	"github.com/feltworks/holdemd/internal/deck"
)

// NoSeat marks a player who is spectating.
const NoSeat = -1

// Player is a room member keyed by their durable session identity. The
// transport connection behind a player can change across reconnects; the
// game layer never sees it.
type Player struct {
	SessionID string
	Name      string

	Bankroll int
	Seat     int // NoSeat when spectating

	HoleCards []deck.Card
	RoundBet  int // chips committed in the current betting round
	HandBet   int // chips committed since the hand started (side-pot input)
	Folded    bool
	AllIn     bool

	// WaitingNextHand is set when a seat is filled mid-hand: the player
	// holds the seat but sits out until the next hand begins.
	WaitingNextHand bool
}

// Seated reports whether the player currently holds a seat.
func (p *Player) Seated() bool { return p.Seat != NoSeat }

// InHand reports whether the player was dealt into the current hand and has
// not folded.
func (p *Player) InHand() bool {
	return p.Seated() && len(p.HoleCards) == 2 && !p.Folded
}

// CanAct reports whether the player can still take betting actions.
func (p *Player) CanAct() bool {
	return p.InHand() && !p.AllIn
}

// resetForHand clears all per-hand state.
func (p *Player) resetForHand() {
	p.HoleCards = nil
	p.RoundBet = 0
	p.HandBet = 0
	p.Folded = false
	p.AllIn = false
}
