/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

HandleWebSocket turns a verified room token into a user, upgrades the connection and starts the
client lifecycle.
*/
package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"bingohub/internal/app/lobby"
	"bingohub/internal/app/user"
	"bingohub/internal/pkg/auth/jwt"
	"bingohub/internal/pkg/errs"
	"bingohub/internal/pkg/logx"
	"bingohub/internal/pkg/resp"
)

// HandleWebSocket upgrades requests that passed RequireRoomToken and attaches them to their lobby.
func HandleWebSocket(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		userID, err := uuid.Parse(payload.UserID)
		if err != nil {
			logx.Warn("WebSocket request rejected: malformed user id in token", "room_code", payload.RoomCode)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		l := lobbyFromRequest(deps, w, r)
		if l == nil {
			logx.Info("WebSocket connection rejected: Room not found.", "room_code", payload.RoomCode)
			return
		}
		if l.IsFull(userID) {
			logx.Info("WebSocket connection rejected: Room is full.", "room_code", l.Code)
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomIsFull))
			return
		}

		currentUser := user.User{
			ID:       userID,
			Nickname: payload.Nickname,
			Team:     payload.Team,
			JoinedAt: time.Now(),
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := lobby.NewClient(l, conn, currentUser, time.Unix(payload.ExpiresAt, 0))

		go client.WritePump()

		logx.Info("WebSocket connection established", "client_id", userID.String(), "room_code", l.Code)

		l.RegisterClient(client)

		client.ReadPump()
	}
}
