package game

import (
	"github.com/feltworks/holdemd/internal/deck"
)

// StartHand begins the next hand: sweeps busted seats, rotates the button,
// posts blinds, deals, and opens preflop betting. Returns a RuleError and
// leaves the room in WAITING when fewer than two players can be dealt in.
func (r *Room) StartHand() error {
	if !r.Running {
		return Errorf("game is not running")
	}
	if r.Paused {
		return Errorf("game is paused")
	}
	if r.Phase.Betting() {
		return Errorf("hand already in progress")
	}

	r.sweepBusted()
	for _, p := range r.Seats {
		if p != nil {
			p.WaitingNextHand = false
			p.resetForHand()
		}
	}

	var seats []int
	for i, p := range r.Seats {
		if p != nil && p.Bankroll > 0 {
			seats = append(seats, i)
		}
	}
	if len(seats) < 2 {
		r.clearHand()
		r.Phase = Waiting
		return Errorf("need at least two seated players")
	}

	r.clearHand()
	r.HandNum++
	r.acted = make(map[int]bool)

	switch {
	case r.nextDeck != nil:
		r.d = deck.NewOrdered(r.nextDeck)
		r.nextDeck = nil
	case r.God.Enabled && r.God.HandType != "":
		r.d = r.buildRiggedDeck(len(seats))
		r.God.HandType = ""
	default:
		r.d = deck.New(r.rng)
	}

	r.DealerSeat = r.nextOccupied(r.DealerSeat)
	if len(seats) == 2 {
		// Heads-up: the button posts the small blind and acts first
		// preflop, last postflop.
		r.SBSeat = r.DealerSeat
		r.BBSeat = r.nextOccupied(r.SBSeat)
	} else {
		r.SBSeat = r.nextOccupied(r.DealerSeat)
		r.BBSeat = r.nextOccupied(r.SBSeat)
	}
	r.postBlind(r.Seats[r.SBSeat], r.Config.SmallBlind)
	r.postBlind(r.Seats[r.BBSeat], r.Config.BigBlind)
	r.CurrentBet = r.Config.BigBlind
	r.MinRaise = r.Config.BigBlind
	r.AggressorSeat = r.BBSeat

	// Two cards each, clockwise starting left of the dealer. The seat list
	// was fixed before blinds were posted, so a blind who went all-in
	// posting still gets cards.
	inHand := make(map[int]bool, len(seats))
	for _, s := range seats {
		inHand[s] = true
	}
	seat := r.DealerSeat
	for dealt := 0; dealt < len(seats); {
		seat = (seat + 1) % len(r.Seats)
		if inHand[seat] {
			r.Seats[seat].HoleCards = r.d.DrawN(2)
			dealt++
		}
	}

	r.Phase = PreFlop
	r.emit(NewHandEvent{
		HandNum:    r.HandNum,
		DealerSeat: r.DealerSeat,
		SBSeat:     r.SBSeat,
		BBSeat:     r.BBSeat,
		SmallBlind: r.Config.SmallBlind,
		BigBlind:   r.Config.BigBlind,
		Seats:      seats,
		Pot:        r.Pot,
	})

	r.TurnSeat = r.nextActionable(r.BBSeat)
	if r.TurnSeat == NoSeat {
		// Blinds put everyone all-in.
		r.endBettingRound()
	}
	return nil
}

// sweepBusted vacates seats whose bankroll reached zero; the players stay
// in the room as spectators.
func (r *Room) sweepBusted() {
	var names []string
	for _, p := range r.Seats {
		if p != nil && p.Bankroll == 0 && !p.WaitingNextHand {
			names = append(names, p.Name)
			r.Seats[p.Seat] = nil
			p.Seat = NoSeat
			p.resetForHand()
		}
	}
	if len(names) > 0 {
		r.emit(PlayersBustedEvent{Names: names})
	}
}

// postBlind commits up to amount from p's stack. A short stack posts what
// it has and is all-in before cards are dealt.
func (r *Room) postBlind(p *Player, amount int) {
	pay := min(amount, p.Bankroll)
	p.Bankroll -= pay
	p.RoundBet += pay
	p.HandBet += pay
	r.Pot += pay
	if p.Bankroll == 0 {
		p.AllIn = true
	}
}

// advanceStreet deals the next street and opens its betting round. During
// a runout (or after run-it-twice activation) no turn is assigned.
func (r *Room) advanceStreet() {
	for _, p := range r.Seats {
		if p != nil {
			p.RoundBet = 0
		}
	}
	r.CurrentBet = 0
	r.MinRaise = r.Config.BigBlind
	r.AggressorSeat = NoSeat
	r.acted = make(map[int]bool)

	var n int
	switch r.Phase {
	case PreFlop:
		r.Phase = Flop
		n = 3
	case Flop:
		r.Phase = Turn
		n = 1
	case Turn:
		r.Phase = River
		n = 1
	default:
		return
	}

	r.d.Burn()
	cards := r.d.DrawN(n)
	r.Board = append(r.Board, cards...)
	r.emit(StreetEvent{Street: r.Phase.String(), Cards: cards, Board: r.Board})

	if r.RunItTwice.Active {
		r.d.Burn()
		second := r.d.DrawN(n)
		r.SecondBoard = append(r.SecondBoard, second...)
		r.emit(StreetEvent{
			Street:      r.Phase.String(),
			Cards:       second,
			SecondBoard: true,
			Board:       r.SecondBoard,
		})
	}

	if r.runout {
		r.TurnSeat = NoSeat
		return
	}
	r.TurnSeat = r.nextActionable(r.DealerSeat)
	if r.TurnSeat == NoSeat {
		r.beginRunout()
	}
}

// beginRunout switches the hand to automatic street dealing. Run-it-twice
// is offered only when every remaining player is all-in, at least one
// street remains, and no offer went out yet; dealing then waits for the
// vote.
func (r *Room) beginRunout() {
	r.runout = true
	r.TurnSeat = NoSeat
	if !r.RunItTwice.Offered && r.Phase != River &&
		r.countInHand() >= 2 && r.countActionable() == 0 {
		r.offerRunItTwice()
	}
}

// NeedsRunout reports whether the actor should schedule the next automatic
// street tick.
func (r *Room) NeedsRunout() bool {
	if !r.runout || r.Phase == Showdown || r.Phase == Waiting {
		return false
	}
	if r.RunItTwice.Offered && !r.RunItTwice.Decided() {
		return false
	}
	return true
}

// AdvanceRunout deals one automatic street, or resolves the showdown once
// the board is complete. Driven by actor timer ticks so clients see the
// streets paced out.
func (r *Room) AdvanceRunout() {
	if !r.NeedsRunout() {
		return
	}
	if r.Phase == River {
		r.resolveShowdown()
		return
	}
	r.advanceStreet()
}

// endBettingRound closes the current street once no further action is
// possible on it.
func (r *Room) endBettingRound() {
	if r.Phase == River {
		r.resolveShowdown()
		return
	}
	if r.countActionable() <= 1 {
		r.beginRunout()
		return
	}
	r.advanceStreet()
}
