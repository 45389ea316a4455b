// Package eval ranks poker hands. Evaluate takes up to seven cards and
// returns the best five-card HandValue; values compare as a total order so
// equal values mean a genuine chopped pot.
package eval

import (
	"sort"

	"github.com/feltworks/holdemd/internal/deck"
)

// Category enumerates hand classes from weakest to strongest.
type Category int

const (
	HighCard Category = iota + 1
	Pair
	TwoPair
	Trips
	Straight
	Flush
	FullHouse
	Quads
	StraightFlush
	RoyalFlush
)

// String returns the display name of the category.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case Trips:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case Quads:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandValue is a comparable hand strength: the category plus its tiebreak
// tuple (rank multiplicities ordered count-desc then rank-desc, or the
// straight-high rank for straights).
type HandValue struct {
	Category  Category `json:"category"`
	Tiebreaks []int    `json:"tiebreaks"`
}

// Compare returns a positive number if a beats b, negative if b beats a,
// and zero on a true tie.
func Compare(a, b HandValue) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	n := len(a.Tiebreaks)
	if len(b.Tiebreaks) < n {
		n = len(b.Tiebreaks)
	}
	for i := 0; i < n; i++ {
		if a.Tiebreaks[i] != b.Tiebreaks[i] {
			return a.Tiebreaks[i] - b.Tiebreaks[i]
		}
	}
	return len(a.Tiebreaks) - len(b.Tiebreaks)
}

// Evaluate returns the best HandValue formable from the given cards.
// With five or more cards this is the best five-card hand and is suitable
// for pot adjudication. With fewer it is a partial evaluation over the
// cards present, used only for client-side hand hints.
func Evaluate(cards []deck.Card) HandValue {
	switch {
	case len(cards) == 0:
		return HandValue{Category: HighCard}
	case len(cards) < 5:
		return evaluatePartial(cards)
	case len(cards) == 5:
		var five [5]deck.Card
		copy(five[:], cards)
		return evaluate5(five)
	}

	best := HandValue{}
	var five [5]deck.Card
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						five[0], five[1], five[2], five[3], five[4] =
							cards[a], cards[b], cards[c], cards[d], cards[e]
						v := evaluate5(five)
						if best.Category == 0 || Compare(v, best) > 0 {
							best = v
						}
					}
				}
			}
		}
	}
	return best
}

func evaluate5(cards [5]deck.Card) HandValue {
	ranks := make([]int, 5)
	flush := true
	for i, c := range cards {
		ranks[i] = int(c.Rank)
		if c.Suit != cards[0].Suit {
			flush = false
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))

	straightHigh := straightHighRank(ranks)

	if flush && straightHigh > 0 {
		if straightHigh == int(deck.Ace) {
			return HandValue{Category: RoyalFlush, Tiebreaks: []int{straightHigh}}
		}
		return HandValue{Category: StraightFlush, Tiebreaks: []int{straightHigh}}
	}

	groups := groupRanks(ranks)
	switch {
	case groups[0].count == 4:
		return HandValue{Category: Quads, Tiebreaks: []int{groups[0].rank, groups[1].rank}}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandValue{Category: FullHouse, Tiebreaks: []int{groups[0].rank, groups[1].rank}}
	case flush:
		return HandValue{Category: Flush, Tiebreaks: ranks}
	case straightHigh > 0:
		return HandValue{Category: Straight, Tiebreaks: []int{straightHigh}}
	case groups[0].count == 3:
		return HandValue{Category: Trips, Tiebreaks: flatten(groups)}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandValue{Category: TwoPair, Tiebreaks: flatten(groups)}
	case groups[0].count == 2:
		return HandValue{Category: Pair, Tiebreaks: flatten(groups)}
	default:
		return HandValue{Category: HighCard, Tiebreaks: ranks}
	}
}

// evaluatePartial ranks one to four cards by multiplicity only; straights
// and flushes need five cards so they cannot occur here.
func evaluatePartial(cards []deck.Card) HandValue {
	ranks := make([]int, len(cards))
	for i, c := range cards {
		ranks[i] = int(c.Rank)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))

	groups := groupRanks(ranks)
	switch {
	case groups[0].count == 4:
		return HandValue{Category: Quads, Tiebreaks: flatten(groups)}
	case groups[0].count == 3:
		return HandValue{Category: Trips, Tiebreaks: flatten(groups)}
	case groups[0].count == 2 && len(groups) > 1 && groups[1].count == 2:
		return HandValue{Category: TwoPair, Tiebreaks: flatten(groups)}
	case groups[0].count == 2:
		return HandValue{Category: Pair, Tiebreaks: flatten(groups)}
	default:
		return HandValue{Category: HighCard, Tiebreaks: ranks}
	}
}

// straightHighRank returns the high rank of a straight over the given
// descending ranks, 5 for the wheel, or 0 when there is no straight.
func straightHighRank(desc []int) int {
	if len(desc) != 5 {
		return 0
	}
	for i := 1; i < 5; i++ {
		if desc[i] != desc[i-1]-1 {
			// Wheel: A-5-4-3-2 sorts as 14,5,4,3,2.
			if i == 1 && desc[0] == int(deck.Ace) && desc[1] == int(deck.Five) {
				continue
			}
			return 0
		}
	}
	if desc[0] == int(deck.Ace) && desc[1] == int(deck.Five) {
		return int(deck.Five)
	}
	return desc[0]
}

type rankGroup struct {
	rank  int
	count int
}

// groupRanks buckets descending ranks into (rank, count) groups ordered by
// count-desc then rank-desc, which is exactly the tiebreak ordering.
func groupRanks(desc []int) []rankGroup {
	var groups []rankGroup
	for _, r := range desc {
		found := false
		for i := range groups {
			if groups[i].rank == r {
				groups[i].count++
				found = true
				break
			}
		}
		if !found {
			groups = append(groups, rankGroup{rank: r})
			groups[len(groups)-1].count = 1
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	return groups
}

func flatten(groups []rankGroup) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = g.rank
	}
	return out
}
