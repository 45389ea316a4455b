package server

import (
	"encoding/json"
	"time"
)

// MessageType discriminates the WebSocket envelope.
type MessageType string

// Client → server commands.
const (
	MessageTypeJoinRoom          MessageType = "join-room"
	MessageTypeLeaveRoom         MessageType = "leave-room"
	MessageTypeRequestSeat       MessageType = "request-seat"
	MessageTypeApproveSeat       MessageType = "approve-seat"
	MessageTypeDenySeat          MessageType = "deny-seat"
	MessageTypeCancelSeatRequest MessageType = "cancel-seat-request"
	MessageTypeLeaveSeat         MessageType = "leave-seat"
	MessageTypeStartGame         MessageType = "start-game"
	MessageTypePauseGame         MessageType = "pause-game"
	MessageTypeResumeGame        MessageType = "resume-game"
	MessageTypeStopGame          MessageType = "stop-game"
	MessageTypePlayerAction      MessageType = "player-action"
	MessageTypeShowHand          MessageType = "show-hand"
	MessageTypeMuckHand          MessageType = "muck-hand"
	MessageTypeRunItTwiceVote    MessageType = "run-it-twice-vote"
	MessageTypeGodEnable         MessageType = "privileged-mode-enable"
	MessageTypeGodDisable        MessageType = "privileged-mode-disable"
	MessageTypeSetRiggedHand     MessageType = "set-rigged-hand"
)

// Server → client messages.
const (
	MessageTypeAck         MessageType = "ack"
	MessageTypeRoomState   MessageType = "room-state"
	MessageTypePlayerState MessageType = "player-state"
	MessageTypeGameEvent   MessageType = "game-event"
)

// Message is the WebSocket envelope. Every client command may carry a
// requestId, which the matching ack echoes back.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage builds an envelope with the given payload marshalled in.
func NewMessage(messageType MessageType, data any) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &Message{
		Type:      messageType,
		Data:      raw,
		Timestamp: time.Now(),
	}, nil
}

// Client → server payloads.

type JoinRoomData struct {
	RoomID    string `json:"roomId"`
	Username  string `json:"username"`
	SessionID string `json:"sessionId"`
}

type RequestSeatData struct {
	SeatIndex int `json:"seatIndex"`
	BuyIn     int `json:"buyIn"`
}

type SeatRequestRefData struct {
	RequestID string `json:"requestId"`
}

type PlayerActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

type RunItTwiceVoteData struct {
	Accept bool `json:"accept"`
}

type GodModeData struct {
	Secret   string `json:"secret"`
	HandType string `json:"handType,omitempty"`
}

// Server → client payloads.

// AckData is the reply to every client command. Extra per-command payload
// fields ride alongside via Payload.
type AckData struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// GameEventData wraps one engine event for broadcast.
type GameEventData struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}
