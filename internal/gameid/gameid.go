// Package gameid generates short shareable identifiers for rooms and seat
// requests. IDs use Crockford's base32 alphabet so they survive being read
// aloud or typed from a phone screen.
package gameid

import (
	"crypto/rand"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// RoomID returns a 6-character room code (~1 billion combinations).
func RoomID() string {
	return generate(6)
}

// RequestID returns a 10-character identifier for seat requests.
func RequestID() string {
	return generate(10)
}

func generate(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("gameid: random source unavailable: " + err.Error())
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}
