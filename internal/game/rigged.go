package game

import (
	"sort"

	"github.com/feltworks/holdemd/internal/deck"
)

// GodState is the privileged test/admin mode. It never changes gameplay
// except when a rigged hand type has been stamped, in which case the next
// hand deals from a fixture deck instead of a shuffle.
type GodState struct {
	Enabled  bool
	HandType string
}

// riggedFixture pins the hole cards of the first seat dealt and the five
// community cards so the resulting hand lands in a known category.
type riggedFixture struct {
	holes [2]string
	board [5]string
}

var riggedFixtures = map[string]riggedFixture{
	"royal-flush":    {[2]string{"As", "Ks"}, [5]string{"Qs", "Js", "Ts", "2h", "7d"}},
	"straight-flush": {[2]string{"9s", "8s"}, [5]string{"7s", "6s", "5s", "Kh", "2d"}},
	"quads":          {[2]string{"Ah", "Ad"}, [5]string{"As", "Ac", "7h", "2d", "9c"}},
	"full-house":     {[2]string{"Ah", "Ad"}, [5]string{"As", "Kh", "Kd", "7c", "2s"}},
	"flush":          {[2]string{"Ah", "Kh"}, [5]string{"Qh", "7h", "2h", "9c", "3d"}},
	"straight":       {[2]string{"9h", "8d"}, [5]string{"7c", "6s", "5h", "Kc", "2d"}},
	"trips":          {[2]string{"7h", "7d"}, [5]string{"7c", "Ks", "2d", "9c", "4h"}},
	"two-pair":       {[2]string{"Ah", "Kd"}, [5]string{"As", "Kh", "2c", "7d", "9s"}},
	"pair":           {[2]string{"Ah", "7d"}, [5]string{"As", "2c", "9h", "Jc", "4d"}},
	"high-card":      {[2]string{"Ah", "9d"}, [5]string{"Qc", "7s", "5h", "2d", "Jc"}},
}

// RiggedHandTypes lists the accepted hand types, sorted.
func RiggedHandTypes() []string {
	types := make([]string, 0, len(riggedFixtures))
	for t := range riggedFixtures {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// EnableGod turns on privileged mode. The shared-secret check happens at
// the transport boundary; the room only records the flag.
func (r *Room) EnableGod(sessionID string) error {
	if r.Players[sessionID] == nil {
		return Errorf("not in a room")
	}
	r.God.Enabled = true
	return nil
}

// DisableGod turns privileged mode off and drops any pending fixture.
func (r *Room) DisableGod(sessionID string) error {
	if r.Players[sessionID] == nil {
		return Errorf("not in a room")
	}
	r.God = GodState{}
	return nil
}

// SetRiggedHand stamps the next hand with a fixture deck: the first seat
// dealt (left of the dealer) receives a hand of the given category. The
// fixture applies to one hand only.
func (r *Room) SetRiggedHand(sessionID, handType string) error {
	if r.Players[sessionID] == nil {
		return Errorf("not in a room")
	}
	if !r.God.Enabled {
		return Errorf("god mode not enabled")
	}
	if _, ok := riggedFixtures[handType]; !ok {
		return Errorf("unknown hand type %q", handType)
	}
	r.God.HandType = handType
	return nil
}

// buildRiggedDeck lays out a full ordered deck for n dealt seats: the
// fixture holes on top, filler holes for the other seats, then burns and
// the fixture board at the positions hand dealing will read them from.
func (r *Room) buildRiggedDeck(n int) *deck.Deck {
	fix := riggedFixtures[r.God.HandType]

	used := make(map[deck.Card]bool)
	holes := deck.MustParseAll(fix.holes[:]...)
	board := deck.MustParseAll(fix.board[:]...)
	for _, c := range append(holes, board...) {
		used[c] = true
	}
	rest := fullDeckExcluding(used)

	next := func() deck.Card {
		c := rest[0]
		rest = rest[1:]
		return c
	}

	cards := make([]deck.Card, 0, 52)
	cards = append(cards, holes...)
	for i := 0; i < 2*(n-1); i++ {
		cards = append(cards, next()) // other seats' holes
	}
	cards = append(cards, next()) // burn
	cards = append(cards, board[0], board[1], board[2])
	cards = append(cards, next()) // burn
	cards = append(cards, board[3])
	cards = append(cards, next()) // burn
	cards = append(cards, board[4])
	cards = append(cards, rest...)
	return deck.NewOrdered(cards)
}

func fullDeckExcluding(used map[deck.Card]bool) []deck.Card {
	var out []deck.Card
	for suit := deck.Spades; suit <= deck.Clubs; suit++ {
		for rank := deck.Two; rank <= deck.Ace; rank++ {
			c := deck.NewCard(rank, suit)
			if !used[c] {
				out = append(out, c)
			}
		}
	}
	return out
}
