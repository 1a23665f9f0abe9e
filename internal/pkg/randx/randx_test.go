package randx

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomCode(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		code, err := RoomCode()
		require.NoError(t, err)
		assert.True(t, IsValidRoomCode(code), code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 90)
}

func TestIsValidRoomCode(t *testing.T) {
	assert.True(t, IsValidRoomCode("aZ09bY"))
	assert.False(t, IsValidRoomCode(""))
	assert.False(t, IsValidRoomCode("abc"))
	assert.False(t, IsValidRoomCode("abcdefg"))
	assert.False(t, IsValidRoomCode("abc-ef"))
}

func TestMessageID(t *testing.T) {
	_, err := uuid.Parse(MessageID())
	assert.NoError(t, err)
}

func TestNickname(t *testing.T) {
	n := Nickname()
	assert.True(t, strings.HasPrefix(n, NicknamePrefix))
	assert.Len(t, n, len(NicknamePrefix)+4)
}
