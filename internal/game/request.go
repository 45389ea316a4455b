package game

import "time"

// SeatRequest is a queued ask to take a seat with a proposed buy-in,
// awaiting host approval.
type SeatRequest struct {
	ID        string    `json:"id"`
	SessionID string    `json:"-"`
	Name      string    `json:"name"`
	Seat      int       `json:"seat"`
	BuyIn     int       `json:"buyIn"`
	CreatedAt time.Time `json:"createdAt"`
}
