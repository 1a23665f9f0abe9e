package lobby

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bingohub/internal/app/user"
)

const waitTimeout = 2 * time.Second

// fakeConn records writes and serves reads from a channel.
type fakeConn struct {
	mu       sync.Mutex
	written  [][]byte
	controls []int
	closed   bool

	inbound chan []byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbound: make(chan []byte, 16)}
}

func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}
func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	data, ok := <-f.inbound
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return 1, data, nil
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, data)
	return nil
}

func (f *fakeConn) WriteControl(messageType int, _ []byte, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.controls = append(f.controls, messageType)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) controlCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.controls)
}

func newTestLobby(t *testing.T, opts Options) *Lobby {
	t.Helper()

	if opts.MaxUsers == 0 {
		opts.MaxUsers = 8
	}
	if opts.MaxTeams == 0 {
		opts.MaxTeams = 4
	}
	if opts.JWTSecret == "" {
		opts.JWTSecret = "test-secret"
	}

	l := NewLobby("AbC123", opts, make(chan CleanupMsg, 4))
	go l.Run()
	t.Cleanup(func() {
		l.Stop()
		<-l.Done()
	})
	return l
}

// join registers a client for u and waits for its INIT_DATA.
func join(t *testing.T, l *Lobby, u user.User) (*Client, InitDataPayload) {
	t.Helper()

	c := NewClient(l, newFakeConn(), u, time.Now().Add(time.Hour))
	l.RegisterClient(c)

	var init InitDataPayload
	msg := expect(t, c, TypeInitData)
	require.NoError(t, json.Unmarshal(msg.Payload, &init))
	return c, init
}

// expect reads messages queued for c until one of type t arrives.
func expect(t *testing.T, c *Client, want MessageType) Message {
	t.Helper()

	deadline := time.After(waitTimeout)
	for {
		select {
		case data, ok := <-c.send:
			require.True(t, ok, "send channel closed while waiting for %s", want)

			var msg Message
			require.NoError(t, json.Unmarshal(data, &msg))
			if msg.Type == want {
				return msg
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", want)
			return Message{}
		}
	}
}

// expectClosed waits until the send channel of c is closed.
func expectClosed(t *testing.T, c *Client) {
	t.Helper()

	deadline := time.After(waitTimeout)
	for {
		select {
		case _, ok := <-c.send:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for send channel to close")
		}
	}
}

func payloadOf[T any](t *testing.T, msg Message) T {
	t.Helper()

	var p T
	require.NoError(t, json.Unmarshal(msg.Payload, &p))
	return p
}

func inbound(t *testing.T, typ MessageType, payload any) []byte {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	data, err := json.Marshal(map[string]any{"type": typ, "payload": json.RawMessage(raw)})
	require.NoError(t, err)
	return data
}
