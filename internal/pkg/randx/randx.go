/*
Package randx generates the random identifiers used by the server:
Base62 room codes, UUID message identifiers and fallback nicknames.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars is the alphabet of room codes.
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// RoomCodeLength is the length of a room code.
	RoomCodeLength = 6

	// NicknamePrefix starts every generated nickname.
	NicknamePrefix = "Tarnished_"
)

// base62 returns n characters drawn uniformly from Base62Chars using crypto/rand.
func base62(n int) (string, error) {
	limit := big.NewInt(int64(len(Base62Chars)))
	out := make([]byte, n)

	for i := range out {
		num, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("randx: read random number: %w", err)
		}
		out[i] = Base62Chars[num.Int64()]
	}

	return string(out), nil
}

// RoomCode generates a new room code.
func RoomCode() (string, error) {
	return base62(RoomCodeLength)
}

// IsValidRoomCode reports whether code has the shape of a generated room code.
func IsValidRoomCode(code string) bool {
	if len(code) != RoomCodeLength {
		return false
	}

	for _, c := range code {
		if !strings.ContainsRune(Base62Chars, c) {
			return false
		}
	}
	return true
}

// MessageID generates the identifier of an outbound message.
func MessageID() string {
	return uuid.NewString()
}

// Nickname generates a nickname for participants who joined without one.
func Nickname() string {
	suffix, err := base62(4)
	if err != nil {
		suffix = "0000"
	}
	return NicknamePrefix + suffix
}
