package game

import (
	"testing"

	"github.com/feltworks/holdemd/internal/deck"
)

func TestSetRiggedHandRequiresGodMode(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 1000, 1000)
	if err := r.SetRiggedHand(sid(0), "quads"); err == nil {
		t.Error("rigging without privileged mode must be rejected")
	}
	if err := r.EnableGod(sid(0)); err != nil {
		t.Fatal(err)
	}
	if err := r.SetRiggedHand(sid(0), "dead-mans-hand"); err == nil {
		t.Error("unknown hand type must be rejected")
	}
	if err := r.SetRiggedHand(sid(0), "quads"); err != nil {
		t.Fatal(err)
	}
	if err := r.DisableGod(sid(0)); err != nil {
		t.Fatal(err)
	}
	if r.God.Enabled || r.God.HandType != "" {
		t.Error("disabling privileged mode must drop the pending fixture")
	}
}

// The fixture lands on the first seat dealt (left of the dealer) and runs
// out to the requested category.
func TestRiggedHandDealsFixture(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 1000, 1000)
	setDealer(r, 0) // heads-up: seat 1 is dealt first
	if err := r.EnableGod(sid(0)); err != nil {
		t.Fatal(err)
	}
	if err := r.SetRiggedHand(sid(0), "royal-flush"); err != nil {
		t.Fatal(err)
	}
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	got := deck.Codes(r.Seats[1].HoleCards)
	if got[0] != "As" || got[1] != "Ks" {
		t.Fatalf("first dealt seat holds %v, want [As Ks]", got)
	}

	checkDown(t, r)
	if len(r.Board) != 5 {
		t.Fatalf("board = %v", r.Board)
	}
	res := r.Showdown.Results[1]
	if res == nil {
		t.Fatal("fixture seat missing from showdown")
	}
	if hand := res.Value.Describe(); hand != "Royal Flush" {
		t.Errorf("fixture seat made %q, want a royal flush", hand)
	}
}

// The fixture applies to a single hand; the next deal is shuffled again.
func TestRiggedHandIsOneShot(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 1000, 1000)
	setDealer(r, 0)
	if err := r.EnableGod(sid(0)); err != nil {
		t.Fatal(err)
	}
	if err := r.SetRiggedHand(sid(0), "royal-flush"); err != nil {
		t.Fatal(err)
	}
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}
	if r.God.HandType != "" {
		t.Error("fixture should be consumed by the deal")
	}
	mustAct(t, r, 0, Fold, 0)

	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}
	got := deck.Codes(r.Seats[0].HoleCards)
	if got[0] == "As" && got[1] == "Ks" {
		t.Error("second hand re-dealt the fixture")
	}
}

func TestRiggedHandTypesListed(t *testing.T) {
	t.Parallel()

	types := RiggedHandTypes()
	if len(types) != 10 {
		t.Fatalf("got %d hand types, want 10", len(types))
	}
	for i := 1; i < len(types); i++ {
		if types[i-1] >= types[i] {
			t.Fatalf("hand types not sorted: %v", types)
		}
	}
}
