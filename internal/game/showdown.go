package game

import (
	"github.com/feltworks/holdemd/internal/deck"
	"github.com/feltworks/holdemd/internal/eval"
)

// ShowdownResult is one non-folded seat's standing at showdown. Winners
// and the last aggressor must show; everyone else starts hidden and may
// show or muck at will.
type ShowdownResult struct {
	Seat     int            `json:"seat"`
	Name     string         `json:"name"`
	Cards    []deck.Card    `json:"-"`
	Value    eval.HandValue `json:"-"`
	MustShow bool           `json:"mustShow"`
	Shown    bool           `json:"shown"`
	Mucked   bool           `json:"mucked"`
}

// ShowdownState is the snapshot broadcast after awards are paid, kept
// until the next hand starts so late show/muck commands still apply.
type ShowdownState struct {
	Results map[int]*ShowdownResult
	Awards  []PotAward
	Boards  int
}

// resolveShowdown evaluates every remaining hand, pays out each pot layer
// (split per board when running it twice), and builds the showdown
// snapshot.
func (r *Room) resolveShowdown() {
	r.Phase = Showdown
	r.TurnSeat = NoSeat
	r.runout = false

	boards := [][]deck.Card{r.Board}
	if r.RunItTwice.Active {
		boards = append(boards, r.SecondBoard)
	}

	// Best 7-card value per live seat, per board.
	values := make([]map[int]eval.HandValue, len(boards))
	for bi, board := range boards {
		values[bi] = make(map[int]eval.HandValue)
		for seat, p := range r.Seats {
			if p != nil && p.InHand() {
				values[bi][seat] = eval.Evaluate(append(p.HoleCards, board...))
			}
		}
	}

	var awards []PotAward
	for _, layer := range r.potLayers() {
		if len(boards) == 1 {
			awards = append(awards, r.awardLayer(layer.Amount, layer.Eligible, 0, values[0])...)
			continue
		}
		// Run twice: the first board plays for the larger half.
		half := layer.Amount / 2
		awards = append(awards, r.awardLayer(layer.Amount-half, layer.Eligible, 0, values[0])...)
		if half > 0 {
			awards = append(awards, r.awardLayer(half, layer.Eligible, 1, values[1])...)
		}
	}

	mustShow := make(map[int]bool)
	for _, a := range awards {
		mustShow[a.Seat] = true
	}
	if agg := r.PlayerAtSeat(r.AggressorSeat); agg != nil && agg.InHand() {
		mustShow[r.AggressorSeat] = true
	}

	r.Showdown = &ShowdownState{
		Results: make(map[int]*ShowdownResult),
		Awards:  awards,
		Boards:  len(boards),
	}
	for seat, p := range r.Seats {
		if p == nil || !p.InHand() {
			continue
		}
		res := &ShowdownResult{
			Seat:     seat,
			Name:     p.Name,
			Cards:    p.HoleCards,
			Value:    values[0][seat],
			MustShow: mustShow[seat],
			Shown:    mustShow[seat],
		}
		r.Showdown.Results[seat] = res
	}

	r.emit(ShowdownEvent{Awards: awards, Boards: len(boards)})
	for _, seat := range r.oddChipOrder(keys(mustShow)) {
		res := r.Showdown.Results[seat]
		r.emit(HandShownEvent{
			Seat:  seat,
			Name:  res.Name,
			Cards: res.Cards,
			Hand:  res.Value.Describe(),
		})
	}
}

// awardLayer pays one pot layer (or one board's half of it) to the best
// eligible hand(s).
func (r *Room) awardLayer(amount int, eligible []int, board int, values map[int]eval.HandValue) []PotAward {
	var winners []int
	for _, seat := range eligible {
		if len(winners) == 0 {
			winners = []int{seat}
			continue
		}
		switch d := eval.Compare(values[seat], values[winners[0]]); {
		case d > 0:
			winners = []int{seat}
		case d == 0:
			winners = append(winners, seat)
		}
	}
	paid := r.payout(amount, winners)

	awards := make([]PotAward, 0, len(winners))
	for _, seat := range r.oddChipOrder(winners) {
		awards = append(awards, PotAward{
			Seat:   seat,
			Name:   r.Seats[seat].Name,
			Amount: paid[seat],
			Board:  board,
			Hand:   values[seat].Describe(),
		})
	}
	return awards
}

// awardUncontested ends a hand where everyone else folded: the last seat
// standing takes the whole pot and no cards are revealed.
func (r *Room) awardUncontested() {
	var winner *Player
	for _, p := range r.Seats {
		if p != nil && p.InHand() {
			winner = p
			break
		}
	}
	if winner == nil {
		// Everyone gone mid-hand; the chips have no claimant.
		r.Awarded += r.Pot
		r.Pot = 0
		r.Phase = Showdown
		r.TurnSeat = NoSeat
		r.runout = false
		return
	}
	amount := r.Pot
	winner.Bankroll += amount
	r.Awarded += amount
	r.Pot = 0
	r.Phase = Showdown
	r.TurnSeat = NoSeat
	r.runout = false
	r.emit(HandWonEvent{Seat: winner.Seat, Name: winner.Name, Amount: amount})
}

// ShowHand reveals the sender's hole cards at showdown.
func (r *Room) ShowHand(sessionID string) error {
	res, err := r.showdownResult(sessionID)
	if err != nil {
		return err
	}
	if res.Mucked {
		return Errorf("hand already mucked")
	}
	if res.Shown {
		return Errorf("hand already shown")
	}
	res.Shown = true
	r.emit(HandShownEvent{
		Seat:  res.Seat,
		Name:  res.Name,
		Cards: res.Cards,
		Hand:  res.Value.Describe(),
	})
	return nil
}

// MuckHand hides the sender's hole cards for good. Winners and the last
// aggressor may not muck.
func (r *Room) MuckHand(sessionID string) error {
	res, err := r.showdownResult(sessionID)
	if err != nil {
		return err
	}
	if res.MustShow {
		return Errorf("you must show your cards")
	}
	if res.Mucked {
		return Errorf("hand already mucked")
	}
	res.Mucked = true
	r.emit(HandMuckedEvent{Seat: res.Seat, Name: res.Name})
	return nil
}

func (r *Room) showdownResult(sessionID string) (*ShowdownResult, error) {
	p := r.Players[sessionID]
	if p == nil {
		return nil, Errorf("not in a room")
	}
	if r.Phase != Showdown || r.Showdown == nil {
		return nil, Errorf("not at showdown")
	}
	res := r.Showdown.Results[p.Seat]
	if !p.Seated() || res == nil {
		return nil, Errorf("no hand to show")
	}
	return res, nil
}

func keys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
