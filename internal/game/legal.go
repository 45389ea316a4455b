package game

// LegalActions returns the betting actions currently open to a player,
// for the private player-state view. Empty unless it is their turn on a
// betting street.
func (r *Room) LegalActions(p *Player) []Action {
	if p == nil || !r.Phase.Betting() || r.Paused {
		return nil
	}
	if !p.Seated() || p.Seat != r.TurnSeat || !p.CanAct() {
		return nil
	}

	actions := []Action{Fold}
	toCall := r.AmountToCall(p)
	if toCall == 0 {
		actions = append(actions, Check)
	} else if p.Bankroll > 0 {
		actions = append(actions, Call)
	}
	// Raising requires the round to still be open to this seat: either
	// they have not acted yet or a full raise reset the round since.
	if !r.acted[p.Seat] {
		if p.Bankroll >= toCall+r.MinRaise {
			if r.CurrentBet == 0 {
				actions = append(actions, Bet)
			} else {
				actions = append(actions, Raise)
			}
		}
		if p.Bankroll > 0 {
			actions = append(actions, AllIn)
		}
	} else if p.Bankroll > 0 && p.Bankroll <= toCall {
		// All-in for at most the call is always available.
		actions = append(actions, AllIn)
	}
	return actions
}

// ActionNames is the wire form of a legal-action list.
func ActionNames(actions []Action) []string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}
	return names
}
