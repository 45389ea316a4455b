package game

import (
	"strconv"
	"testing"

	"github.com/feltworks/holdemd/internal/deck"
	"github.com/feltworks/holdemd/internal/randutil"
)

// testRoom builds a running 10/20 room with one seated player per stack,
// seat i for stack i. Player i's session id is sid(i).
func testRoom(t *testing.T, stacks ...int) *Room {
	t.Helper()
	r := NewRoom("r1", "Test Room", Config{MaxSeats: 8, SmallBlind: 10, BigBlind: 20}, randutil.New(1))
	for i, stack := range stacks {
		p, err := r.AddPlayer(sid(i), "player"+strconv.Itoa(i))
		if err != nil {
			t.Fatalf("add player %d: %v", i, err)
		}
		p.Seat = i
		p.Bankroll = stack
		r.Seats[i] = p
	}
	r.Running = true
	r.DrainEvents()
	return r
}

func sid(i int) string { return "s" + strconv.Itoa(i) }

// setDealer parks the button so that the next StartHand rotates it onto
// the given seat.
func setDealer(r *Room, dealer int) {
	n := len(r.Seats)
	for i := 1; i <= n; i++ {
		seat := (dealer - i + n) % n
		if p := r.Seats[seat]; p != nil && p.Bankroll > 0 {
			r.DealerSeat = seat
			return
		}
	}
}

// mustAct asserts it is the seat's turn and applies the action.
func mustAct(t *testing.T, r *Room, seat int, a Action, amount int) {
	t.Helper()
	if r.TurnSeat != seat {
		t.Fatalf("expected turn on seat %d, but turn is on %d", seat, r.TurnSeat)
	}
	if err := r.ApplyAction(r.Seats[seat].SessionID, a, amount); err != nil {
		t.Fatalf("seat %d %s %d: %v", seat, a, amount, err)
	}
}

// deckFor lays out a full deck for the next hand: each seat's hole cards
// in deal order (left of the dealer, two at a time), then burn and board
// streets at the positions dealing reads them from. Unspecified cards and
// burns come from the unused remainder.
func deckFor(r *Room, dealer int, holes map[int][]string, board ...string) []deck.Card {
	used := make(map[deck.Card]bool)
	for _, hs := range holes {
		for _, c := range deck.MustParseAll(hs...) {
			used[c] = true
		}
	}
	boardCards := deck.MustParseAll(board...)
	for _, c := range boardCards {
		used[c] = true
	}
	fillers := fullDeckExcluding(used)
	next := func() deck.Card {
		c := fillers[0]
		fillers = fillers[1:]
		return c
	}

	var dealt []int
	n := len(r.Seats)
	for i := 1; i <= n; i++ {
		seat := (dealer + i) % n
		if p := r.Seats[seat]; p != nil && p.Bankroll > 0 {
			dealt = append(dealt, seat)
		}
	}

	var cards []deck.Card
	for _, seat := range dealt {
		if hs, ok := holes[seat]; ok {
			cards = append(cards, deck.MustParseAll(hs...)...)
		} else {
			cards = append(cards, next(), next())
		}
	}
	for i, c := range boardCards {
		if i == 0 || i == 3 || i == 4 {
			cards = append(cards, next()) // burn
		}
		cards = append(cards, c)
	}
	cards = append(cards, fillers...)
	return cards
}

// eventsOfType filters drained events by type.
func eventsOfType(evs []Event, typ EventType) []Event {
	var out []Event
	for _, ev := range evs {
		if ev.Type() == typ {
			out = append(out, ev)
		}
	}
	return out
}

// totalChips sums every player's bankroll plus the live pot and anything
// already awarded is included in bankrolls, so mid-hand this is constant.
func totalChips(r *Room) int {
	total := r.Pot
	for _, p := range r.Players {
		total += p.Bankroll
	}
	return total
}
