package user

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"bingohub/internal/app/bingo"
)

func TestNewUserImplementsParticipant(t *testing.T) {
	u := New("Domo", 2)

	var p bingo.Participant = u
	assert.NotEqual(t, uuid.Nil, p.UserID())
	assert.Equal(t, "Domo", p.Nick())
	assert.Equal(t, 2, p.TeamNumber())
	assert.True(t, u.HasTeam())
	assert.False(t, u.JoinedAt.IsZero())
}

func TestNewUserUniqueIDs(t *testing.T) {
	assert.NotEqual(t, New("a", 0).ID, New("a", 0).ID)
}

func TestSpectatorHasNoTeam(t *testing.T) {
	assert.False(t, New("Watcher", bingo.NoTeam).HasTeam())
	assert.False(t, SystemUser.HasTeam())
}
