/*
Package bingo contains the authoritative state of a bingo session: the participants of a room,
the board of the active match, and the per-team progress derived from it.

This file defines the minimal capability set a participant type must provide to be tracked by a Room.
*/
package bingo

import "github.com/google/uuid"

// NoTeam is the team number of a participant that has not joined any team.
const NoTeam = -1

// Participant is implemented by any user type a Room can hold.
// The transport layer supplies richer types; the room only relies on these three accessors.
type Participant interface {
	// UserID returns the identifier generated for the participant's connection.
	UserID() uuid.UUID

	// Nick returns the display name.
	Nick() string

	// TeamNumber returns the team the participant plays for, or NoTeam.
	TeamNumber() int
}
