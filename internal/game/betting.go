package game

// AmountToCall is what the seat's occupant must still commit to match the
// current bet.
func (r *Room) AmountToCall(p *Player) int {
	return r.CurrentBet - p.RoundBet
}

// ApplyAction validates and applies a betting action from a session. The
// amount parameter is meaningful only for bet and raise, where it is the
// raise increment above the current bet.
func (r *Room) ApplyAction(sessionID string, action Action, amount int) error {
	p := r.Players[sessionID]
	if p == nil {
		return Errorf("not in a room")
	}
	if !r.Phase.Betting() {
		return Errorf("no betting round in progress")
	}
	if r.Paused {
		return Errorf("game is paused")
	}
	if !p.Seated() || p.Seat != r.TurnSeat {
		return Errorf("not your turn")
	}
	if p.Folded {
		return Errorf("you have folded")
	}
	if p.AllIn {
		return Errorf("you are all-in")
	}

	toCall := r.AmountToCall(p)
	paid := 0

	switch action {
	case Fold:
		p.Folded = true

	case Check:
		if toCall != 0 {
			return Errorf("cannot check, must call or raise")
		}

	case Call:
		if toCall == 0 {
			return Errorf("nothing to call, check instead")
		}
		paid = r.commit(p, toCall)

	case Bet, Raise:
		if amount <= 0 {
			return Errorf("raise amount must be positive")
		}
		if r.acted[p.Seat] {
			// Already acted and facing only a short all-in since then.
			return Errorf("cannot raise, betting was not reopened")
		}
		if amount < r.MinRaise && toCall+amount < p.Bankroll {
			return Errorf("minimum raise is %d", r.MinRaise)
		}
		paid = r.commit(p, toCall+amount)
		r.applyRaise(p)

	case AllIn:
		if p.Bankroll == 0 {
			return Errorf("no chips left")
		}
		if r.acted[p.Seat] && p.Bankroll > toCall {
			return Errorf("cannot raise, betting was not reopened")
		}
		paid = r.commit(p, p.Bankroll)
		if p.RoundBet > r.CurrentBet {
			r.applyRaise(p)
		}

	default:
		return Errorf("unknown action")
	}

	if p.Seat == r.BBSeat {
		r.bbActed = true
	}
	r.acted[p.Seat] = true

	r.emit(PlayerActionEvent{
		Seat:   p.Seat,
		Name:   p.Name,
		Action: action.String(),
		Amount: paid,
		Pot:    r.Pot,
		Street: r.Phase.String(),
	})

	r.settle(p.Seat)
	return nil
}

// commit moves up to want chips from p's stack into the pot and returns
// what was actually paid. Exhausting the stack marks the player all-in.
func (r *Room) commit(p *Player, want int) int {
	pay := min(want, p.Bankroll)
	p.Bankroll -= pay
	p.RoundBet += pay
	p.HandBet += pay
	r.Pot += pay
	if p.Bankroll == 0 {
		p.AllIn = true
	}
	return pay
}

// applyRaise updates the round state after p's bet went above the current
// bet. A raise of at least the min-raise increment is a full raise: it
// reopens the round for everyone else and resets the increment. A short
// all-in below the increment moves the current bet but reopens nothing.
func (r *Room) applyRaise(p *Player) {
	raiseBy := p.RoundBet - r.CurrentBet
	if raiseBy <= 0 {
		return
	}
	r.CurrentBet = p.RoundBet
	if raiseBy >= r.MinRaise {
		r.MinRaise = raiseBy
		r.AggressorSeat = p.Seat
		r.acted = map[int]bool{p.Seat: true}
	}
}

// settle runs the post-action bookkeeping: end the hand if it is now
// uncontested, close the street if the round is complete, or pass the
// turn. Also called after an out-of-turn fold (seat vacated mid-hand).
func (r *Room) settle(from int) {
	if !r.Phase.Betting() {
		return
	}
	if r.countInHand() == 1 {
		r.awardUncontested()
		return
	}
	if r.roundComplete() {
		r.endBettingRound()
		return
	}
	// Advance only when the seat on turn has nothing further to do this
	// round. After an out-of-turn fold the current actor keeps the turn.
	cur := r.PlayerAtSeat(r.TurnSeat)
	if cur == nil || !cur.CanAct() || r.acted[r.TurnSeat] {
		r.TurnSeat = r.nextActionable(from)
	}
}

// roundComplete reports whether no further action is possible on the
// current street: every player who can act has acted and matched the
// current bet, and preflop the big blind has used their option.
func (r *Room) roundComplete() bool {
	for seat, p := range r.Seats {
		if p == nil || !p.CanAct() {
			continue
		}
		if !r.acted[seat] || p.RoundBet != r.CurrentBet {
			return false
		}
	}
	// A limped preflop comes back around to the big blind with the option
	// to check or raise; the blind post itself never counts as acting.
	if r.Phase == PreFlop && !r.bbActed {
		if bb := r.PlayerAtSeat(r.BBSeat); bb != nil && bb.CanAct() {
			return false
		}
	}
	return true
}
