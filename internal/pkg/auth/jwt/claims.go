package jwt

import "github.com/golang-jwt/jwt"

// Payload is the claim set of a room access token.
// It binds one participant identity to one room.
type Payload struct {
	// StandardClaims carries expiry, issue time and issuer.
	jwt.StandardClaims

	// UserID is the participant identifier generated at join time.
	UserID string `json:"uid"`

	// RoomCode is the room the token grants access to.
	RoomCode string `json:"room"`

	// Nickname is the display name chosen at join time.
	Nickname string `json:"nick"`

	// Team is the team chosen at join time; -1 for none.
	Team int `json:"team"`
}
