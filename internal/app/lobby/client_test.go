package lobby

import (
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bingohub/internal/app/bingo"
	"bingohub/internal/app/user"
	"bingohub/internal/pkg/auth/jwt"
	"bingohub/internal/pkg/errs"
)

func TestProcessInboundMessages(t *testing.T) {
	l := newTestLobby(t, Options{})

	alice := user.New("Alice", 1)
	c, _ := join(t, l, alice)

	c.processInboundMessage(inbound(t, TypeClaimSquare, SquarePayload{Position: 12}))
	update := payloadOf[BoardUpdatePayload](t, expect(t, c, TypeBoardUpdate))
	assert.Equal(t, 12, update.Position)

	c.processInboundMessage(inbound(t, TypeSetTeam, TeamPayload{Team: 3}))
	updated := payloadOf[UserEventPayload](t, expect(t, c, TypeUserUpdated))
	assert.Equal(t, 3, updated.User.Team)

	c.processInboundMessage(inbound(t, TypeSetNickname, NicknamePayload{Nickname: "Ranni"}))
	updated = payloadOf[UserEventPayload](t, expect(t, c, TypeUserUpdated))
	assert.Equal(t, "Ranni", updated.User.Nickname)

	// square 12 still belongs to team 1, so team 3 cannot release it
	c.processInboundMessage(inbound(t, TypeUnclaimSquare, SquarePayload{Position: 12}))
	p := payloadOf[ErrorPayload](t, expect(t, c, TypeError))
	assert.Equal(t, errs.ErrSquareNotOwned, p.Code)
}

func TestProcessInboundMessageErrors(t *testing.T) {
	l := newTestLobby(t, Options{})
	c, _ := join(t, l, user.New("Alice", 0))

	tests := []struct {
		name string
		data []byte
		code int
	}{
		{"invalid json", []byte("{"), errs.ErrInvalidJSONFormat},
		{"unknown type", []byte(`{"type":"DANCE","payload":{}}`), errs.ErrInvalidParams},
		{"missing payload", []byte(`{"type":"CLAIM_SQUARE"}`), errs.ErrInvalidParams},
		{"bad payload", []byte(`{"type":"CLAIM_SQUARE","payload":{"position":"x"}}`), errs.ErrInvalidJSONFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.processInboundMessage(tt.data)
			p := payloadOf[ErrorPayload](t, expect(t, c, TypeError))
			assert.Equal(t, tt.code, p.Code)
		})
	}
}

func TestCheckAndRefreshToken(t *testing.T) {
	l := newTestLobby(t, Options{})

	alice := user.New("Alice", 0)
	c, _ := join(t, l, alice)
	_, customErr := l.SetTeam(alice.ID, 2)
	require.Nil(t, customErr)

	now := time.Now()
	c.tokenExpiry = now.Add(TokenRefreshWindow + time.Minute)
	c.checkAndRefreshToken(now)
	assert.Equal(t, now.Add(TokenRefreshWindow+time.Minute), c.tokenExpiry, "too early to refresh")

	c.tokenExpiry = now.Add(time.Minute)
	c.checkAndRefreshToken(now)
	assert.Equal(t, now.Add(jwt.RoomAccessExpiration), c.tokenExpiry)

	update := payloadOf[TokenUpdatePayload](t, expect(t, c, TypeTokenUpdate))
	payload, err := jwt.ParseToken(update.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, alice.ID.String(), payload.UserID)
	assert.Equal(t, "AbC123", payload.RoomCode)
	assert.Equal(t, 2, payload.Team, "refreshed token carries the current team")
}

func TestWritePumpDrainsAndCloses(t *testing.T) {
	l := NewLobby("Pump01", Options{MaxUsers: 1, MaxTeams: 1}, make(chan CleanupMsg, 1))
	conn := newFakeConn()
	c := NewClient(l, conn, user.New("Alice", bingo.NoTeam), time.Now().Add(time.Hour))

	require.NoError(t, c.SendTokenUpdateMessage("tok"))
	c.closeSend()

	done := make(chan struct{})
	go func() {
		c.WritePump()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("WritePump did not return")
	}

	conn.mu.Lock()
	defer conn.mu.Unlock()
	require.Len(t, conn.written, 2, "queued message plus close frame")
	assert.Contains(t, string(conn.written[0]), string(TypeTokenUpdate))
	assert.True(t, conn.closed)
}

func TestReadPumpUnregistersOnClose(t *testing.T) {
	l := newTestLobby(t, Options{})

	alice := user.New("Alice", 0)
	conn := newFakeConn()
	c := NewClient(l, conn, alice, time.Now().Add(time.Hour))
	l.RegisterClient(c)
	expect(t, c, TypeInitData)

	conn.inbound <- inbound(t, TypeClaimSquare, SquarePayload{Position: 0})
	close(conn.inbound)
	c.ReadPump()

	expectClosed(t, c)
	assert.Empty(t, l.Users())
	assert.True(t, l.Match().Owners()[0].Valid, "claims outlive the claimer")
}

func TestEnqueueAfterClose(t *testing.T) {
	l := NewLobby("Closed", Options{MaxUsers: 1, MaxTeams: 1}, make(chan CleanupMsg, 1))
	c := NewClient(l, newFakeConn(), user.New("Alice", 0), time.Now())

	c.closeSend()
	c.closeSend()

	assert.ErrorIs(t, c.enqueue([]byte("x")), errSendClosed)
}

func TestKickSendsCloseFrame(t *testing.T) {
	l := NewLobby("Kick01", Options{MaxUsers: 1, MaxTeams: 1}, make(chan CleanupMsg, 1))
	conn := newFakeConn()
	c := NewClient(l, conn, user.New("Alice", 0), time.Now())

	c.Kick("bye")

	assert.Equal(t, []int{websocket.CloseMessage}, conn.controls)
	assert.True(t, c.closed)
}
