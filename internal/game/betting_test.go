package game

import (
	"math/rand/v2"
	"testing"
)

func TestActionValidation(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 1000, 1000, 1000)
	setDealer(r, 0) // SB=1, BB=2, first to act 0
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	if err := r.ApplyAction(sid(1), Call, 0); err == nil {
		t.Error("acting out of turn must be rejected")
	}
	if err := r.ApplyAction(sid(0), Check, 0); err == nil {
		t.Error("checking while facing a bet must be rejected")
	}
	if err := r.ApplyAction(sid(0), Raise, 10); err == nil {
		t.Error("raising below the min-raise must be rejected")
	}
	if err := r.ApplyAction(sid(0), Raise, -5); err == nil {
		t.Error("negative raise must be rejected")
	}
	if err := r.ApplyAction("nobody", Fold, 0); err == nil {
		t.Error("unknown session must be rejected")
	}

	mustAct(t, r, 0, Call, 0)
	if err := r.ApplyAction(sid(1), Check, 0); err == nil {
		t.Error("SB owes 10 and cannot check")
	}
	mustAct(t, r, 1, Call, 0)
	if err := r.ApplyAction(sid(2), Call, 0); err == nil {
		t.Error("BB has nothing to call")
	}
}

func TestFoldedPlayerCannotAct(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 1000, 1000, 1000)
	setDealer(r, 0)
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	mustAct(t, r, 0, Fold, 0)
	if err := r.ApplyAction(sid(0), Call, 0); err == nil {
		t.Error("folded player must be rejected")
	}
}

func TestPausedGameBlocksActions(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 1000, 1000)
	setDealer(r, 0)
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}
	if err := r.PauseGame(sid(0)); err != nil {
		t.Fatal(err)
	}
	if err := r.ApplyAction(sid(0), Call, 0); err == nil {
		t.Error("actions while paused must be rejected")
	}
	if err := r.ResumeGame(sid(0)); err != nil {
		t.Fatal(err)
	}
	mustAct(t, r, 0, Call, 0)
}

func TestCallForMoreThanStackIsAllIn(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 1000, 50, 1000)
	setDealer(r, 0) // SB=1, BB=2
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	mustAct(t, r, 0, Raise, 180) // to 200
	mustAct(t, r, 1, Call, 0)    // only 40 behind

	p := r.Seats[1]
	if !p.AllIn || p.Bankroll != 0 || p.HandBet != 50 {
		t.Errorf("short call should be all-in for the stack: all-in=%v bankroll=%d bet=%d",
			p.AllIn, p.Bankroll, p.HandBet)
	}
}

// Chips are conserved across randomized play: bankrolls plus pot always
// sum to the starting total, and the pot is empty after every award.
func TestChipConservationFuzz(t *testing.T) {
	t.Parallel()

	r := testRoom(t, 500, 700, 300, 900)
	rng := rand.New(rand.NewPCG(11, 17))

	start := totalChips(r)

	for hand := 0; hand < 30; hand++ {
		if err := r.StartHand(); err != nil {
			break // fewer than two stacks left
		}
		for steps := 0; steps < 200; steps++ {
			if !r.Phase.Betting() {
				break
			}
			if r.RunItTwice.Offered && !r.RunItTwice.Resolved {
				for _, seat := range r.RunItTwice.Eligible {
					if _, voted := r.RunItTwice.Votes[seat]; !voted {
						_ = r.VoteRunItTwice(r.Seats[seat].SessionID, rng.IntN(2) == 0)
						break
					}
				}
				continue
			}
			if r.runout {
				r.AdvanceRunout()
				continue
			}
			p := r.PlayerAtSeat(r.TurnSeat)
			actions := r.LegalActions(p)
			if len(actions) == 0 {
				t.Fatalf("no legal actions for turn seat %d", p.Seat)
			}
			a := actions[rng.IntN(len(actions))]
			amount := 0
			if a == Bet || a == Raise {
				amount = r.MinRaise + 20*rng.IntN(3)
				if r.AmountToCall(p)+amount > p.Bankroll {
					a, amount = AllIn, 0
				}
			}
			if err := r.ApplyAction(p.SessionID, a, amount); err != nil {
				t.Fatalf("hand %d: legal action %s %d rejected: %v", hand, a, amount, err)
			}
			if got := totalChips(r); got != start {
				t.Fatalf("hand %d: chips leaked mid-hand: %d, want %d", hand, got, start)
			}
		}
		for r.Phase != Showdown && (r.runout || r.RunItTwice.Offered) {
			if !r.RunItTwice.Resolved {
				r.ExpireRunItTwice()
			}
			r.AdvanceRunout()
		}
		if r.Phase != Showdown {
			t.Fatalf("hand %d did not finish (phase %s)", hand, r.Phase)
		}
		if r.Pot != 0 {
			t.Fatalf("hand %d: pot = %d after award", hand, r.Pot)
		}
		if got := totalChips(r); got != start {
			t.Fatalf("hand %d: chips leaked: %d, want %d", hand, got, start)
		}
	}
}
