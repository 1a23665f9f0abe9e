/*
Package lobby connects WebSocket clients to bingo rooms.

This file defines the message envelope exchanged over the socket and the payload of every message type.
*/
package lobby

import (
	"encoding/json"
	"fmt"
	"time"

	"bingohub/internal/app/bingo"
	"bingohub/internal/app/user"
	"bingohub/internal/pkg/randx"
)

// MessageType identifies the kind of a socket message.
type MessageType string

// Inbound message types, sent by clients.
const (
	TypeClaimSquare   MessageType = "CLAIM_SQUARE"
	TypeUnclaimSquare MessageType = "UNCLAIM_SQUARE"
	TypeSetTeam       MessageType = "SET_TEAM"
	TypeSetNickname   MessageType = "SET_NICKNAME"
)

// Outbound message types, sent by the server.
const (
	TypeInitData     MessageType = "INIT_DATA"
	TypeUserJoined   MessageType = "USER_JOINED"
	TypeUserLeft     MessageType = "USER_LEFT"
	TypeUserUpdated  MessageType = "USER_UPDATED"
	TypeBoardUpdate  MessageType = "BOARD_UPDATE"
	TypeMatchStarted MessageType = "MATCH_STARTED"
	TypeTokenUpdate  MessageType = "TOKEN_UPDATE"
	TypeError        MessageType = "ERROR"
)

// Message is the envelope of every socket message.
type Message struct {
	// ID uniquely identifies the message.
	ID string `json:"id"`

	// Type selects how Payload is interpreted.
	Type MessageType `json:"type"`

	// RoomCode is the room the message belongs to.
	RoomCode string `json:"roomCode"`

	// Sender is the user that caused the message, or user.SystemUser.
	Sender user.User `json:"sender"`

	// Timestamp is the creation time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`

	// Payload is the type-specific body.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage builds an envelope around payload.
func NewMessage(t MessageType, roomCode string, sender user.User, payload any) (Message, error) {
	msg := Message{
		ID:        randx.MessageID(),
		Type:      t,
		RoomCode:  roomCode,
		Sender:    sender,
		Timestamp: time.Now().UnixMilli(),
	}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Message{}, fmt.Errorf("marshal %s payload: %w", t, err)
		}
		msg.Payload = raw
	}

	return msg, nil
}

// MatchInfo describes the active match.
type MatchInfo struct {
	ID        string              `json:"id"`
	Settings  bingo.MatchSettings `json:"settings"`
	Classes   []string            `json:"classes"`
	StartedAt time.Time           `json:"startedAt"`
}

// NewMatchInfo summarises m.
func NewMatchInfo(m *bingo.Match) MatchInfo {
	classes := m.Classes
	if classes == nil {
		classes = []string{}
	}

	return MatchInfo{
		ID:        m.ID.String(),
		Settings:  m.Settings,
		Classes:   classes,
		StartedAt: m.StartedAt,
	}
}

// InitDataPayload is sent to a client right after it joins.
type InitDataPayload struct {
	CurrentUser user.User            `json:"currentUser"`
	Users       []user.User          `json:"users"`
	Teams       []bingo.TeamName     `json:"teams"`
	Match       MatchInfo            `json:"match"`
	Board       *bingo.Board         `json:"board"`
	Progress    []bingo.CheckPerTeam `json:"progress"`
	MaxUsers    int                  `json:"maxUsers"`
	MaxTeams    int                  `json:"maxTeams"`
}

// UserEventPayload announces a join, leave or profile change.
type UserEventPayload struct {
	User     user.User            `json:"user"`
	Teams    []bingo.TeamName     `json:"teams"`
	Progress []bingo.CheckPerTeam `json:"progress"`
}

// BoardUpdatePayload is broadcast after every claim or unclaim.
type BoardUpdatePayload struct {
	Board    *bingo.Board         `json:"board"`
	Progress []bingo.CheckPerTeam `json:"progress"`

	// Position is the square that changed.
	Position int `json:"position"`

	// Team is the team that claimed or released the square.
	Team int `json:"team"`

	// SquareClaimed is true for claims and false for unclaims.
	SquareClaimed bool `json:"squareClaimed"`

	// NewBingo is true when the claim completed at least one line.
	NewBingo bool `json:"newBingo"`
}

// MatchStartedPayload is broadcast when a new match replaces the active one.
type MatchStartedPayload struct {
	Match    MatchInfo            `json:"match"`
	Board    *bingo.Board         `json:"board"`
	Progress []bingo.CheckPerTeam `json:"progress"`
}

// TokenUpdatePayload carries a refreshed room token.
type TokenUpdatePayload struct {
	Token string `json:"token"`
}

// ErrorPayload reports a failed client action.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SquarePayload is the body of CLAIM_SQUARE and UNCLAIM_SQUARE.
type SquarePayload struct {
	Position int `json:"position"`
}

// TeamPayload is the body of SET_TEAM.
type TeamPayload struct {
	Team int `json:"team"`
}

// NicknamePayload is the body of SET_NICKNAME.
type NicknamePayload struct {
	Nickname string `json:"nickname"`
}
