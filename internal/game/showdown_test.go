package game

import (
	"testing"
)

// checkDown checks every live street through to showdown.
func checkDown(t *testing.T, r *Room) {
	t.Helper()
	for steps := 0; r.Phase.Betting() && !r.runout && steps < 50; steps++ {
		p := r.PlayerAtSeat(r.TurnSeat)
		if r.AmountToCall(p) > 0 {
			mustAct(t, r, p.Seat, Call, 0)
		} else {
			mustAct(t, r, p.Seat, Check, 0)
		}
	}
	for r.Phase != Showdown {
		r.AdvanceRunout()
	}
}

// Two seats with identical two pair chop the pot exactly.
func TestShowdownSplitPot(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 1000, 1000)
	setDealer(r, 0)
	r.SetNextDeck(deckFor(r, 0, map[int][]string{
		0: {"Kc", "Qd"},
		1: {"Ks", "Jd"},
	}, "As", "Ad", "5c", "5h", "9s"))
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}
	r.DrainEvents()

	checkDown(t, r)

	if r.Seats[0].Bankroll != 1000 || r.Seats[1].Bankroll != 1000 {
		t.Errorf("bankrolls = %d/%d, want an even chop back to 1000 each",
			r.Seats[0].Bankroll, r.Seats[1].Bankroll)
	}
	if r.Pot != 0 {
		t.Errorf("pot = %d after award, want 0", r.Pot)
	}

	sd := r.Showdown
	if sd == nil {
		t.Fatal("expected showdown snapshot")
	}
	if len(sd.Awards) != 2 {
		t.Fatalf("expected 2 awards, got %d", len(sd.Awards))
	}
	for _, a := range sd.Awards {
		if a.Amount != 20 {
			t.Errorf("award to seat %d = %d, want 20", a.Seat, a.Amount)
		}
		if a.Hand != "Two Pair, Aces and Fives" {
			t.Errorf("award hand = %q", a.Hand)
		}
	}
	for seat, res := range sd.Results {
		if !res.MustShow || !res.Shown {
			t.Errorf("seat %d won and must show", seat)
		}
	}
}

// A lone deep all-in gets its unmatched chips back as a single-seat pot
// layer, even when the shorter stack wins the main pot.
func TestUncalledAllInReturned(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 1000, 300)
	setDealer(r, 0)
	r.SetNextDeck(deckFor(r, 0, map[int][]string{
		0: {"7c", "2d"},
		1: {"Ah", "Ad"},
	}, "As", "Kd", "9c", "4h", "Js"))
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	mustAct(t, r, 0, AllIn, 0)
	mustAct(t, r, 1, Call, 0)

	if !r.RunItTwice.Offered {
		t.Fatal("expected run-it-twice offer with both all-in preflop")
	}
	if err := r.VoteRunItTwice(sid(1), false); err != nil {
		t.Fatal(err)
	}
	for r.Phase != Showdown {
		r.AdvanceRunout()
	}

	// Seat 1 wins the 600 main pot with the set of aces; seat 0's
	// unmatched 700 comes straight back.
	if got := r.Seats[1].Bankroll; got != 600 {
		t.Errorf("seat 1 bankroll = %d, want 600", got)
	}
	if got := r.Seats[0].Bankroll; got != 700 {
		t.Errorf("seat 0 bankroll = %d, want 700", got)
	}
	if r.Pot != 0 {
		t.Errorf("pot = %d, want 0", r.Pot)
	}
}

// The pot goes to the later-seated player when their hand is better,
// whatever the margin. Both hold a pair of aces here; only the kicker
// differs.
func TestShowdownBetterKickerWins(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 1000, 1000)
	setDealer(r, 0)
	r.SetNextDeck(deckFor(r, 0, map[int][]string{
		0: {"Ah", "Td"},
		1: {"Ac", "Kd"},
	}, "As", "8d", "9c", "4h", "2s"))
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}
	checkDown(t, r)

	sd := r.Showdown
	if sd == nil || len(sd.Awards) != 1 {
		t.Fatalf("expected a single award, got %+v", sd)
	}
	if a := sd.Awards[0]; a.Seat != 1 || a.Amount != 40 {
		t.Errorf("award = seat %d amount %d, want seat 1 amount 40", a.Seat, a.Amount)
	}
	if r.Seats[1].Bankroll != 1020 || r.Seats[0].Bankroll != 980 {
		t.Errorf("bankrolls = %d/%d, want 980/1020",
			r.Seats[0].Bankroll, r.Seats[1].Bankroll)
	}
}

// The last aggressor must show even when they lose.
func TestLosingAggressorMustShow(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 1000, 1000)
	setDealer(r, 0)
	r.SetNextDeck(deckFor(r, 0, map[int][]string{
		0: {"Ah", "Kd"}, // wins with a pair of aces
		1: {"Qc", "Jd"},
	}, "As", "8d", "9c", "4h", "2s"))
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	mustAct(t, r, 0, Call, 0)
	mustAct(t, r, 1, Check, 0)
	// Postflop: seat 1 bluffs the river and gets called.
	mustAct(t, r, 1, Check, 0)
	mustAct(t, r, 0, Check, 0)
	mustAct(t, r, 1, Check, 0)
	mustAct(t, r, 0, Check, 0)
	mustAct(t, r, 1, Bet, 100)
	mustAct(t, r, 0, Call, 0)

	sd := r.Showdown
	if sd == nil {
		t.Fatal("expected showdown")
	}
	if !sd.Results[1].MustShow {
		t.Error("losing aggressor must show")
	}
	if !sd.Results[0].MustShow {
		t.Error("winner must show")
	}
	if got := r.Seats[0].Bankroll; got != 1120 {
		t.Errorf("seat 0 bankroll = %d, want 1120", got)
	}
}

func TestMuckAndShowRules(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 1000, 1000, 1000)
	setDealer(r, 0) // SB=1, BB=2
	r.SetNextDeck(deckFor(r, 0, map[int][]string{
		0: {"Ah", "Kd"},
		1: {"Qc", "Jd"},
		2: {"9c", "8d"},
	}, "As", "7d", "4c", "3h", "2s"))
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}
	checkDown(t, r)

	sd := r.Showdown
	if sd == nil {
		t.Fatal("expected showdown")
	}
	if !sd.Results[0].MustShow {
		t.Fatal("winner must show")
	}
	if sd.Results[1].MustShow || sd.Results[2].MustShow {
		t.Fatal("checked-down losers may muck")
	}

	if err := r.MuckHand(sid(0)); err == nil {
		t.Error("winner muck must be rejected")
	}
	if err := r.MuckHand(sid(1)); err != nil {
		t.Errorf("loser muck failed: %v", err)
	}
	if err := r.ShowHand(sid(1)); err == nil {
		t.Error("show after muck must be rejected")
	}
	r.DrainEvents()
	if err := r.ShowHand(sid(2)); err != nil {
		t.Errorf("loser show failed: %v", err)
	}
	evs := r.DrainEvents()
	shown := eventsOfType(evs, EventTypeHandShown)
	if len(shown) != 1 {
		t.Fatalf("expected one hand-shown event, got %d", len(shown))
	}
	if hs := shown[0].(HandShownEvent); hs.Seat != 2 {
		t.Errorf("hand-shown seat = %d, want 2", hs.Seat)
	}

	if err := r.ShowHand(sid(0)); err == nil {
		t.Error("winner already shown, second show must be rejected")
	}
}

func TestShowOutsideShowdownRejected(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 1000, 1000)
	if err := r.ShowHand(sid(0)); err == nil {
		t.Error("expected 'not at showdown' error")
	}
}
