package bingo

import "github.com/google/uuid"

type player struct {
	id   uuid.UUID
	nick string
	team int
}

func (p player) UserID() uuid.UUID { return p.id }
func (p player) Nick() string      { return p.nick }
func (p player) TeamNumber() int   { return p.team }

func newPlayer(nick string, team int) player {
	return player{id: uuid.New(), nick: nick, team: team}
}

// ownersWith builds a standard board where the given positions belong to team.
func ownersWith(team int, positions ...int) []TeamOwner {
	owners := make([]TeamOwner, SquareCount)
	for _, p := range positions {
		owners[p] = OwnedBy(team)
	}
	return owners
}
