package game

import (
	"time"

	"github.com/feltworks/holdemd/internal/deck"
)

// RunItTwiceState tracks the offer-and-vote lifecycle. The offer goes out
// when the runout begins with streets left to deal; dealing holds until
// every eligible seat accepts, any seat declines, or the deadline passes.
type RunItTwiceState struct {
	Offered  bool
	Resolved bool
	Active   bool
	Eligible []int
	Votes    map[int]bool
	Deadline time.Time
}

// Decided reports whether the runout may proceed: either no offer is
// outstanding or the vote has been resolved.
func (s *RunItTwiceState) Decided() bool {
	return !s.Offered || s.Resolved
}

func (r *Room) offerRunItTwice() {
	var eligible []int
	for seat, p := range r.Seats {
		if p != nil && p.InHand() {
			eligible = append(eligible, seat)
		}
	}
	r.RunItTwice = RunItTwiceState{
		Offered:  true,
		Eligible: eligible,
		Votes:    make(map[int]bool),
	}
	r.emit(RunItTwiceOfferedEvent{Eligible: eligible})
}

// VoteRunItTwice records one seat's vote. A single decline resolves the
// offer immediately; activation needs every eligible seat to accept.
func (r *Room) VoteRunItTwice(sessionID string, accept bool) error {
	p := r.Players[sessionID]
	if p == nil {
		return Errorf("not in a room")
	}
	if !r.RunItTwice.Offered || r.RunItTwice.Resolved {
		return Errorf("no run-it-twice vote in progress")
	}
	eligible := false
	for _, seat := range r.RunItTwice.Eligible {
		if p.Seated() && seat == p.Seat {
			eligible = true
			break
		}
	}
	if !eligible {
		return Errorf("you are not in this hand")
	}
	if _, voted := r.RunItTwice.Votes[p.Seat]; voted {
		return Errorf("already voted")
	}

	r.RunItTwice.Votes[p.Seat] = accept
	r.emit(RunItTwiceVoteEvent{Seat: p.Seat, Accept: accept})

	if !accept {
		r.resolveRunItTwice(false, false)
		return nil
	}
	if r.allAccepted() {
		r.resolveRunItTwice(true, false)
	}
	return nil
}

// ExpireRunItTwice resolves an outstanding offer as declined once the
// vote deadline passes. Fired as an actor timer command.
func (r *Room) ExpireRunItTwice() {
	if r.RunItTwice.Offered && !r.RunItTwice.Resolved {
		r.resolveRunItTwice(false, true)
	}
}

func (r *Room) allAccepted() bool {
	for _, seat := range r.RunItTwice.Eligible {
		if accept, voted := r.RunItTwice.Votes[seat]; !voted || !accept {
			return false
		}
	}
	return len(r.RunItTwice.Eligible) > 0
}

func (r *Room) resolveRunItTwice(active, timedOut bool) {
	r.RunItTwice.Resolved = true
	r.RunItTwice.Active = active
	if active {
		// The second board shares everything dealt so far; only the
		// remaining streets diverge.
		r.SecondBoard = append([]deck.Card(nil), r.Board...)
	}
	r.emit(RunItTwiceResultEvent{Active: active, TimedOut: timedOut})
}

// dropRITVoter removes a seat from an unresolved vote when its occupant
// leaves mid-offer, resolving the vote if theirs was the missing one.
func (r *Room) dropRITVoter(seat int) {
	s := &r.RunItTwice
	for i, es := range s.Eligible {
		if es == seat {
			s.Eligible = append(s.Eligible[:i], s.Eligible[i+1:]...)
			break
		}
	}
	delete(s.Votes, seat)
	if len(s.Eligible) == 0 {
		r.resolveRunItTwice(false, false)
		return
	}
	if r.allAccepted() {
		r.resolveRunItTwice(true, false)
	}
}
