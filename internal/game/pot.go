package game

import "sort"

// potLayer is one slice of the pot: the chips at one contribution depth
// and the seats deep enough to win them.
type potLayer struct {
	Amount   int
	Eligible []int // seat indexes, ascending
}

// potLayers splits this hand's pot into side-pot layers. Every
// contribution counts toward the layer amounts, including chips from
// folded players and from players who left mid-hand, but only non-folded
// seats are eligible at any depth. A layer with a single eligible seat is
// an uncalled bet that goes straight back to that seat.
func (r *Room) potLayers() []potLayer {
	type contrib struct {
		seat   int
		amount int
		live   bool
	}
	var cs []contrib
	for seat, p := range r.Seats {
		if p != nil && p.HandBet > 0 {
			cs = append(cs, contrib{seat: seat, amount: p.HandBet, live: p.InHand()})
		}
	}
	for _, f := range r.forfeited {
		cs = append(cs, contrib{seat: NoSeat, amount: f})
	}

	var levels []int
	seen := make(map[int]bool)
	for _, c := range cs {
		if c.live && !seen[c.amount] {
			seen[c.amount] = true
			levels = append(levels, c.amount)
		}
	}
	sort.Ints(levels)

	var layers []potLayer
	prev := 0
	for _, level := range levels {
		layer := potLayer{}
		for _, c := range cs {
			layer.Amount += min(c.amount, level) - min(c.amount, prev)
			if c.live && c.amount >= level {
				layer.Eligible = append(layer.Eligible, c.seat)
			}
		}
		layers = append(layers, layer)
		prev = level
	}

	// Dead money deeper than any live contribution (a leaver's unmatched
	// raise) folds into the deepest pot.
	extra := 0
	for _, c := range cs {
		if c.amount > prev {
			extra += c.amount - prev
		}
	}
	if extra > 0 && len(layers) > 0 {
		layers[len(layers)-1].Amount += extra
	}
	return layers
}

// oddChipOrder sorts winning seats by clockwise distance from the small
// blind. Remainder chips from a non-divisible split are handed out in
// this order, so the award is positional and independent of how the
// winners were enumerated.
func (r *Room) oddChipOrder(seats []int) []int {
	n := len(r.Seats)
	out := append([]int(nil), seats...)
	sort.Slice(out, func(i, j int) bool {
		di := (out[i] - r.SBSeat + n) % n
		dj := (out[j] - r.SBSeat + n) % n
		return di < dj
	})
	return out
}

// payout splits amount among winners, remainder chips going one each to
// the winners nearest clockwise from the small blind. Returns the chips
// paid per seat in the winners' given order.
func (r *Room) payout(amount int, winners []int) map[int]int {
	paid := make(map[int]int, len(winners))
	share := amount / len(winners)
	rem := amount % len(winners)
	for _, seat := range r.oddChipOrder(winners) {
		chips := share
		if rem > 0 {
			chips++
			rem--
		}
		paid[seat] = chips
		r.Seats[seat].Bankroll += chips
		r.Pot -= chips
		r.Awarded += chips
	}
	return paid
}
