package deck

import (
	rand "math/rand/v2"
)

// Deck is an ordered remainder of a 52-card deck. Cards are dealt from the
// front; nothing is ever put back mid-hand.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full deck shuffled with the provided RNG.
func New(rng *rand.Rand) *Deck {
	d := &Deck{cards: fullDeck(), rng: rng}
	d.shuffle()
	return d
}

// NewOrdered creates a deck that deals exactly the given cards in order.
// Used by tests and by the rigged-hand fixture.
func NewOrdered(cards []Card) *Deck {
	cp := make([]Card, len(cards))
	copy(cp, cards)
	return &Deck{cards: cp}
}

func fullDeck() []Card {
	cards := make([]Card, 0, 52)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// shuffle is an unbiased Fisher–Yates over the full remainder.
func (d *Deck) shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw deals the top card. The deck can never run dry in hold'em with at
// most ten players, so exhaustion is a programming error.
func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		panic("deck: draw from empty deck")
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card
}

// DrawN deals n cards from the top in order.
func (d *Deck) DrawN(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = d.Draw()
	}
	return cards
}

// Burn discards the top card face down before a street is dealt.
func (d *Deck) Burn() {
	d.Draw()
}

// Remaining returns how many cards are left.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
