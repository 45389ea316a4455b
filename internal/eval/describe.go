package eval

import (
	"fmt"

	"github.com/feltworks/holdemd/internal/deck"
)

// Describe renders the value as a player-facing description, e.g.
// "Two Pair, Aces and Fives" or "Straight, Nine high".
func (v HandValue) Describe() string {
	tb := func(i int) deck.Rank {
		if i < len(v.Tiebreaks) {
			return deck.Rank(v.Tiebreaks[i])
		}
		return deck.Two
	}

	switch v.Category {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush:
		return fmt.Sprintf("Straight Flush, %s high", tb(0).Name())
	case Quads:
		return fmt.Sprintf("Four of a Kind, %s", plural(tb(0)))
	case FullHouse:
		return fmt.Sprintf("Full House, %s over %s", plural(tb(0)), plural(tb(1)))
	case Flush:
		return fmt.Sprintf("Flush, %s high", tb(0).Name())
	case Straight:
		return fmt.Sprintf("Straight, %s high", tb(0).Name())
	case Trips:
		return fmt.Sprintf("Three of a Kind, %s", plural(tb(0)))
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", plural(tb(0)), plural(tb(1)))
	case Pair:
		return fmt.Sprintf("Pair of %s", plural(tb(0)))
	default:
		return fmt.Sprintf("High Card, %s", tb(0).Name())
	}
}

func plural(r deck.Rank) string {
	if r == deck.Six {
		return "Sixes"
	}
	return r.Name() + "s"
}
