/*
Package lobby connects WebSocket clients to bingo rooms.

This file defines the Client struct, representing an active WebSocket connection. It manages the client's
lifecycle, the ReadPump and WritePump loops, and translates inbound messages into Lobby operations.
*/
package lobby

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"bingohub/internal/app/user"
	"bingohub/internal/pkg/auth/jwt"
	"bingohub/internal/pkg/errs"
	"bingohub/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 4096

	// sendBufferSize is the number of queued outbound messages per client.
	sendBufferSize = 256

	// WsCloseCodeSessionKicked is a custom WebSocket Close Code (4000-4999 range)
	// used to signal the client that the session was replaced by a new connection.
	WsCloseCodeSessionKicked = 4001

	// TokenRefreshWindow defines how much time before the token expires we should attempt to refresh it.
	TokenRefreshWindow = 2 * time.Minute
)

var errSendClosed = errors.New("client send queue closed")

// Conn is the part of *websocket.Conn a Client uses.
type Conn interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	ReadMessage() (messageType int, p []byte, err error)
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Client struct represents an active WebSocket connection and its associated user.
type Client struct {
	// the lobby the client belongs to.
	lobby *Lobby

	// underlying WebSocket connection object.
	conn Conn

	// the user as presented when connecting. Only ID is relied upon afterwards;
	// the lobby's room holds the current nickname and team.
	user user.User

	// tokenExpiry records the expiration time of the current room token.
	tokenMu     sync.Mutex
	tokenExpiry time.Time

	// a buffered channel used to queue messages waiting to be sent to the client.
	send chan []byte

	// sendMu guards send against writes after close.
	sendMu sync.Mutex
	closed bool

	// structured logger with client and room context.
	logger zerolog.Logger
}

// NewClient constructs and returns a new Client instance.
func NewClient(lobby *Lobby, conn Conn, u user.User, expiry time.Time) *Client {
	return &Client{
		lobby:       lobby,
		conn:        conn,
		user:        u,
		tokenExpiry: expiry,
		send:        make(chan []byte, sendBufferSize),
		logger: logx.Logger().With().
			Str("client_id", u.ID.String()).
			Str("room_code", lobby.Code).
			Logger(),
	}
}

// ReadPump reads messages from the WebSocket connection until it fails or closes,
// then unregisters the client.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInboundMessage(messageBytes)
	}
}

// cleanupOnDisconnect handles the necessary cleanup steps when the client's ReadPump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.lobby.UnregisterClient(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// processInboundMessage decodes a raw client message and dispatches it to the lobby.
func (c *Client) processInboundMessage(messageBytes []byte) {
	var inboundMsg struct {
		Type    MessageType     `json:"type"`
		Payload json.RawMessage `json:"payload,omitempty"`
	}

	if err := json.Unmarshal(messageBytes, &inboundMsg); err != nil {
		c.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		c.SendError(errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	var customErr *errs.CustomError

	switch inboundMsg.Type {
	case TypeClaimSquare:
		var p SquarePayload
		if customErr = decodePayload(inboundMsg.Payload, &p); customErr == nil {
			customErr = c.lobby.ClaimSquare(c.user.ID, p.Position)
		}

	case TypeUnclaimSquare:
		var p SquarePayload
		if customErr = decodePayload(inboundMsg.Payload, &p); customErr == nil {
			customErr = c.lobby.UnclaimSquare(c.user.ID, p.Position)
		}

	case TypeSetTeam:
		var p TeamPayload
		if customErr = decodePayload(inboundMsg.Payload, &p); customErr == nil {
			_, customErr = c.lobby.SetTeam(c.user.ID, p.Team)
		}

	case TypeSetNickname:
		var p NicknamePayload
		if customErr = decodePayload(inboundMsg.Payload, &p); customErr == nil {
			_, customErr = c.lobby.SetNickname(c.user.ID, p.Nickname)
		}

	default:
		c.logger.Warn().Str("msg_type", string(inboundMsg.Type)).Msg("Client sent unsupported message type")
		customErr = errs.NewError(errs.ErrInvalidParams)
	}

	if customErr != nil {
		c.SendError(customErr)
	}
}

func decodePayload(raw json.RawMessage, dst any) *errs.CustomError {
	if len(raw) == 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}
	return nil
}

// WritePump writes queued messages to the WebSocket connection and keeps it alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}

			c.checkAndRefreshToken(time.Now())
		}
	}
}

// writeQueuedMessage writes one message pulled from the send channel.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// checkAndRefreshToken issues a new room token once the current one is within TokenRefreshWindow of expiry.
func (c *Client) checkAndRefreshToken(now time.Time) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if now.Before(c.tokenExpiry.Add(-TokenRefreshWindow)) {
		return
	}

	c.logger.Info().
		Time("current_expiry", c.tokenExpiry).
		Dur("refresh_window", TokenRefreshWindow).
		Msg("Room token is nearing expiry, attempting refresh.")

	c.issueToken(now)
}

// refreshToken sends the client a new room token right away.
func (c *Client) refreshToken(now time.Time) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	c.issueToken(now)
}

// issueToken sends a TOKEN_UPDATE carrying the user's current nickname and team.
// tokenMu must be held.
func (c *Client) issueToken(now time.Time) {
	current, ok := c.lobby.User(c.user.ID)
	if !ok {
		return
	}

	payload := &jwt.Payload{
		UserID:   current.ID.String(),
		RoomCode: c.lobby.Code,
		Nickname: current.Nickname,
		Team:     current.Team,
	}

	tokenString, err := jwt.GenerateToken(payload, c.lobby.opts.JWTSecret, jwt.RoomAccessExpiration)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to generate new token. Aborting refresh.")
		return
	}

	if err := c.SendTokenUpdateMessage(tokenString); err != nil {
		return
	}

	c.tokenExpiry = now.Add(jwt.RoomAccessExpiration)
}

// SendTokenUpdateMessage queues a TOKEN_UPDATE message for the client.
func (c *Client) SendTokenUpdateMessage(newToken string) error {
	return c.sendTyped(TypeTokenUpdate, TokenUpdatePayload{Token: newToken})
}

// SendInitData queues the INIT_DATA message describing the lobby.
func (c *Client) SendInitData(payload InitDataPayload) error {
	return c.sendTyped(TypeInitData, payload)
}

// SendError queues an ERROR message. Errors other than *errs.CustomError are reported as ErrUnknown.
func (c *Client) SendError(err error) {
	customErr := errs.From(err)

	if sendErr := c.sendTyped(TypeError, ErrorPayload{Code: customErr.Code, Message: customErr.Message}); sendErr != nil {
		c.logger.Debug().Err(sendErr).Msg("Failed to queue error message")
	}
}

func (c *Client) sendTyped(t MessageType, payload any) error {
	msg, err := NewMessage(t, c.lobby.Code, user.SystemUser, payload)
	if err != nil {
		c.logger.Error().Err(err).Str("msg_type", string(t)).Msg("Failed to build message.")
		return err
	}

	data, err := marshalMessage(msg)
	if err != nil {
		return err
	}

	if err := c.enqueue(data); err != nil {
		c.logger.Warn().Err(err).Str("msg_type", string(t)).Msg("Failed to queue message.")
		return err
	}
	return nil
}

// enqueue queues data without blocking.
func (c *Client) enqueue(data []byte) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return errSendClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return fmt.Errorf("client send queue full (%d)", len(c.send))
	}
}

// closeSend closes the send channel once; WritePump then closes the socket.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Kick closes the connection with close code 4001, telling the client its session was replaced.
func (c *Client) Kick(reason string) {
	c.logger.Warn().
		Int("close_code", WsCloseCodeSessionKicked).
		Str("reason", reason).
		Msg("Sending WS Kick message and closing connection.")

	closeMessage := websocket.FormatCloseMessage(WsCloseCodeSessionKicked, reason)
	if err := c.conn.WriteControl(websocket.CloseMessage, closeMessage, time.Now().Add(writeWait)); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to send WS 4001 Close Message.")
	}

	c.closeSend()
}

func marshalMessage(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %s message: %w", msg.Type, err)
	}
	return data, nil
}
