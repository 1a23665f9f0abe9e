/*
Package user defines the participant of a bingo room as seen by the transport layer.

It carries the identity generated for a connection plus the nickname and team the participant chose,
and satisfies bingo.Participant so rooms can track it directly.
*/
package user

import (
	"time"

	"github.com/google/uuid"

	"bingohub/internal/app/bingo"
)

// User is a participant connected to a bingo room.
// Fields use JSON tags for serialization in WebSocket messages.
type User struct {

	// ID is generated once per connection and stays stable while it lives.
	ID uuid.UUID `json:"id"`

	// Nickname is the display name of the user in the room.
	Nickname string `json:"nickname"`

	// Team is the team the user plays for, or bingo.NoTeam.
	Team int `json:"team"`

	// JoinedAt records when the user joined the room.
	JoinedAt time.Time `json:"joinedAt"`
}

// New creates a user with a fresh identifier.
func New(nickname string, team int) User {
	return User{
		ID:       uuid.New(),
		Nickname: nickname,
		Team:     team,
		JoinedAt: time.Now(),
	}
}

// UserID implements bingo.Participant.
func (u User) UserID() uuid.UUID { return u.ID }

// Nick implements bingo.Participant.
func (u User) Nick() string { return u.Nickname }

// TeamNumber implements bingo.Participant.
func (u User) TeamNumber() int { return u.Team }

// HasTeam reports whether the user plays for a team.
func (u User) HasTeam() bool { return u.Team != bingo.NoTeam }

// SystemUser is the sender of server-originated messages.
var SystemUser = User{
	ID:       uuid.Nil,
	Nickname: "System",
	Team:     bingo.NoTeam,
}
