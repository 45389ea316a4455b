package server

import (
	"sort"
	"time"

	"github.com/feltworks/holdemd/internal/deck"
	"github.com/feltworks/holdemd/internal/eval"
	"github.com/feltworks/holdemd/internal/game"
)

// SeatView is the public view of one occupied seat.
type SeatView struct {
	Seat     int    `json:"seat"`
	Name     string `json:"name"`
	Bankroll int    `json:"bankroll"`
	RoundBet int    `json:"roundBet"`
	InHand   bool   `json:"inHand"`
	Folded   bool   `json:"folded"`
	AllIn    bool   `json:"allIn"`
	Waiting  bool   `json:"waiting"`
}

// ShowdownSeatView reveals a seat's cards only once shown.
type ShowdownSeatView struct {
	Seat     int         `json:"seat"`
	Name     string      `json:"name"`
	MustShow bool        `json:"mustShow"`
	Shown    bool        `json:"shown"`
	Mucked   bool        `json:"mucked"`
	Cards    []deck.Card `json:"cards,omitempty"`
	Hand     string      `json:"hand,omitempty"`
}

// ShowdownView is the public showdown snapshot.
type ShowdownView struct {
	Results []ShowdownSeatView `json:"results"`
	Awards  []game.PotAward    `json:"awards"`
	Boards  int                `json:"boards"`
}

// RunItTwiceView is present while a vote is open or after activation.
type RunItTwiceView struct {
	Offered  bool      `json:"offered"`
	Resolved bool      `json:"resolved"`
	Active   bool      `json:"active"`
	Eligible []int     `json:"eligible"`
	Voted    []int     `json:"voted"`
	Deadline time.Time `json:"deadline,omitempty"`
}

// RoomStateView is the public room snapshot broadcast to every member.
type RoomStateView struct {
	RoomID      string             `json:"roomId"`
	Name        string             `json:"name"`
	MaxSeats    int                `json:"maxSeats"`
	SmallBlind  int                `json:"smallBlind"`
	BigBlind    int                `json:"bigBlind"`
	Phase       string             `json:"phase"`
	HandNum     int                `json:"handNum"`
	Running     bool               `json:"running"`
	Paused      bool               `json:"paused"`
	Pot         int                `json:"pot"`
	CurrentBet  int                `json:"currentBet"`
	MinRaise    int                `json:"minRaise"`
	DealerSeat  int                `json:"dealerSeat"`
	SBSeat      int                `json:"sbSeat"`
	BBSeat      int                `json:"bbSeat"`
	TurnSeat    int                `json:"turnSeat"`
	Board       []deck.Card        `json:"board"`
	SecondBoard []deck.Card        `json:"secondBoard,omitempty"`
	Seats       []*SeatView        `json:"seats"`
	HostName    string             `json:"hostName,omitempty"`
	Requests    []game.SeatRequest `json:"seatRequests"`
	Showdown    *ShowdownView      `json:"showdown,omitempty"`
	RunItTwice  *RunItTwiceView    `json:"runItTwice,omitempty"`
	Spectators  int                `json:"spectators"`
}

// ShowdownOptions tells a seat what it may still do with its cards.
type ShowdownOptions struct {
	CanShow bool `json:"canShow"`
	CanMuck bool `json:"canMuck"`
}

// PlayerStateView is the private per-session snapshot: the public state
// plus the sender's cards and choices.
type PlayerStateView struct {
	Room         RoomStateView     `json:"room"`
	Seat         int               `json:"seat"`
	IsHost       bool              `json:"isHost"`
	Bankroll     int               `json:"bankroll"`
	HoleCards    []deck.Card       `json:"holeCards,omitempty"`
	LegalActions []string          `json:"legalActions,omitempty"`
	AmountToCall int               `json:"amountToCall"`
	BestHand     string            `json:"bestHand,omitempty"`
	Request      *game.SeatRequest `json:"seatRequest,omitempty"`
	Showdown     *ShowdownOptions  `json:"showdownOptions,omitempty"`
}

// BuildRoomState snapshots the public view of a room.
func BuildRoomState(r *game.Room) RoomStateView {
	view := RoomStateView{
		RoomID:     r.ID,
		Name:       r.Name,
		MaxSeats:   r.Config.MaxSeats,
		SmallBlind: r.Config.SmallBlind,
		BigBlind:   r.Config.BigBlind,
		Phase:      r.Phase.String(),
		HandNum:    r.HandNum,
		Running:    r.Running,
		Paused:     r.Paused,
		Pot:        r.Pot,
		CurrentBet: r.CurrentBet,
		MinRaise:   r.MinRaise,
		DealerSeat: r.DealerSeat,
		SBSeat:     r.SBSeat,
		BBSeat:     r.BBSeat,
		TurnSeat:   r.TurnSeat,
		Board:      r.Board,
		Seats:      make([]*SeatView, r.Config.MaxSeats),
		Requests:   r.PendingRequests(),
	}
	if r.RunItTwice.Active {
		view.SecondBoard = r.SecondBoard
	}
	if host := r.Player(r.HostID); host != nil {
		view.HostName = host.Name
	}
	seated := 0
	for i, p := range r.Seats {
		if p == nil {
			continue
		}
		seated++
		view.Seats[i] = &SeatView{
			Seat:     i,
			Name:     p.Name,
			Bankroll: p.Bankroll,
			RoundBet: p.RoundBet,
			InHand:   p.InHand(),
			Folded:   p.Folded,
			AllIn:    p.AllIn,
			Waiting:  p.WaitingNextHand,
		}
	}
	view.Spectators = len(r.Players) - seated

	if sd := r.Showdown; sd != nil {
		sv := &ShowdownView{Awards: sd.Awards, Boards: sd.Boards}
		for _, seat := range sortedResultSeats(sd) {
			res := sd.Results[seat]
			rv := ShowdownSeatView{
				Seat:     res.Seat,
				Name:     res.Name,
				MustShow: res.MustShow,
				Shown:    res.Shown,
				Mucked:   res.Mucked,
			}
			if res.Shown {
				rv.Cards = res.Cards
				rv.Hand = res.Value.Describe()
			}
			sv.Results = append(sv.Results, rv)
		}
		view.Showdown = sv
	}

	if rit := r.RunItTwice; rit.Offered {
		rv := &RunItTwiceView{
			Offered:  true,
			Resolved: rit.Resolved,
			Active:   rit.Active,
			Eligible: rit.Eligible,
			Deadline: rit.Deadline,
		}
		for seat := range rit.Votes {
			rv.Voted = append(rv.Voted, seat)
		}
		sort.Ints(rv.Voted)
		view.RunItTwice = rv
	}
	return view
}

// BuildPlayerState snapshots the private view for one session.
func BuildPlayerState(r *game.Room, sessionID string) PlayerStateView {
	view := PlayerStateView{
		Room:   BuildRoomState(r),
		Seat:   game.NoSeat,
		IsHost: r.IsHost(sessionID),
	}
	p := r.Player(sessionID)
	if p == nil {
		return view
	}
	view.Seat = p.Seat
	view.Bankroll = p.Bankroll
	view.Request = r.RequestBySession(sessionID)

	if len(p.HoleCards) > 0 {
		view.HoleCards = p.HoleCards
		cards := append(append([]deck.Card(nil), p.HoleCards...), r.Board...)
		view.BestHand = eval.Evaluate(cards).Describe()
	}
	if r.Phase.Betting() {
		view.LegalActions = game.ActionNames(r.LegalActions(p))
		if p.CanAct() {
			view.AmountToCall = r.AmountToCall(p)
		}
	}
	if sd := r.Showdown; sd != nil && p.Seated() {
		if res := sd.Results[p.Seat]; res != nil {
			view.Showdown = &ShowdownOptions{
				CanShow: !res.Shown && !res.Mucked,
				CanMuck: !res.MustShow && !res.Shown && !res.Mucked,
			}
		}
	}
	return view
}

func sortedResultSeats(sd *game.ShowdownState) []int {
	seats := make([]int, 0, len(sd.Results))
	for seat := range sd.Results {
		seats = append(seats, seat)
	}
	sort.Ints(seats)
	return seats
}
