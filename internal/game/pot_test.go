package game

import (
	"reflect"
	"testing"

	"github.com/feltworks/holdemd/internal/deck"
)

func inHand(r *Room, seat int, handBet int, folded bool, holes ...string) {
	p := r.Seats[seat]
	p.HandBet = handBet
	p.Folded = folded
	if len(holes) == 2 {
		p.HoleCards = deck.MustParseAll(holes...)
	} else {
		p.HoleCards = deck.MustParseAll("2c", "3d")
	}
}

func TestPotLayersScenarioSidePot(t *testing.T) {
	t.Parallel()

	// Contributions 300/100/300, nobody folded: main pot of 300 for all
	// three, side pot of 400 between the deep stacks.
	r := testRoom(t, 0, 0, 700)
	inHand(r, 0, 300, false, "Ah", "Kh")
	inHand(r, 1, 100, false, "Qs", "Qd")
	inHand(r, 2, 300, false, "7c", "8c")

	layers := r.potLayers()
	if len(layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(layers))
	}
	if layers[0].Amount != 300 || !reflect.DeepEqual(layers[0].Eligible, []int{0, 1, 2}) {
		t.Errorf("main pot = %d %v, want 300 [0 1 2]", layers[0].Amount, layers[0].Eligible)
	}
	if layers[1].Amount != 400 || !reflect.DeepEqual(layers[1].Eligible, []int{0, 2}) {
		t.Errorf("side pot = %d %v, want 400 [0 2]", layers[1].Amount, layers[1].Eligible)
	}
}

func TestPotLayersFolderChipsStayInPots(t *testing.T) {
	t.Parallel()

	// The folder reached 150 deep: 100 lands in the main pot, the last
	// 50 in the side pot they can never win.
	r := testRoom(t, 0, 0, 0)
	inHand(r, 0, 300, false, "Ah", "Kh")
	inHand(r, 1, 100, false, "Qs", "Qd")
	inHand(r, 2, 150, true, "7c", "8c")

	layers := r.potLayers()
	if len(layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(layers))
	}
	if layers[0].Amount != 300 || !reflect.DeepEqual(layers[0].Eligible, []int{0, 1}) {
		t.Errorf("main pot = %d %v, want 300 [0 1]", layers[0].Amount, layers[0].Eligible)
	}
	// 200 from seat 0 plus the folder's remaining 50.
	if layers[1].Amount != 250 || !reflect.DeepEqual(layers[1].Eligible, []int{0}) {
		t.Errorf("side pot = %d %v, want 250 [0]", layers[1].Amount, layers[1].Eligible)
	}
}

func TestPotLayersForfeitedLeaverChips(t *testing.T) {
	t.Parallel()

	// A leaver's unmatched raise is dead money folded into the top pot.
	r := testRoom(t, 0, 0)
	inHand(r, 0, 100, false, "Ah", "Kh")
	inHand(r, 1, 100, false, "Qs", "Qd")
	r.forfeited = []int{500}

	layers := r.potLayers()
	if len(layers) != 1 {
		t.Fatalf("expected 1 layer, got %d", len(layers))
	}
	if layers[0].Amount != 700 || !reflect.DeepEqual(layers[0].Eligible, []int{0, 1}) {
		t.Errorf("pot = %d %v, want 700 [0 1]", layers[0].Amount, layers[0].Eligible)
	}
}

func TestOddChipOrderIsPositionalFromSmallBlind(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 100, 100, 100, 100)
	r.SBSeat = 2
	got := r.oddChipOrder([]int{0, 1, 3})
	want := []int{3, 0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("odd chip order = %v, want %v", got, want)
	}
}

func TestPayoutRemainderGoesClockwiseFromSB(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 0, 0, 0)
	r.SBSeat = 1
	r.Pot = 101

	paid := r.payout(101, []int{0, 2})
	// Seat 2 is nearer clockwise from the SB than seat 0.
	if paid[2] != 51 || paid[0] != 50 {
		t.Errorf("paid = %v, want seat 2: 51, seat 0: 50", paid)
	}
	if r.Pot != 0 || r.Awarded != 101 {
		t.Errorf("pot/awarded = %d/%d, want 0/101", r.Pot, r.Awarded)
	}
}
