/*
Package handler provides HTTP handler functions for creating and joining rooms, reading room state
and starting new matches.
*/
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bingohub/internal/app/bingo"
	"bingohub/internal/app/lobby"
	"bingohub/internal/pkg/auth/jwt"
	"bingohub/internal/pkg/errs"
	"bingohub/internal/pkg/logx"
	"bingohub/internal/pkg/randx"
	"bingohub/internal/pkg/req"
	"bingohub/internal/pkg/resp"
)

// HandleCreateRoom creates a lobby. When PoW is enabled the request must carry a proof token.
func HandleCreateRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.Pow.Consume(r) {
			resp.RespondError(w, r, errs.NewError(errs.ErrPowChallengeRequired))
			return
		}

		l, customErr := deps.Manager.CreateLobby()
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"roomCode": l.Code,
			"maxTeams": l.MaxTeams(),
		})
	}
}

// JoinRoomInput is the body of a join request. A missing nickname is generated; a missing team means none.
type JoinRoomInput struct {
	Code     string `json:"code"`
	Nickname string `json:"nickname,omitempty"`
	Team     *int   `json:"team,omitempty"`
}

// HandleJoinRoom validates a join request and answers with a room token for a fresh user identity.
func HandleJoinRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input JoinRoomInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !randx.IsValidRoomCode(input.Code) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		l := deps.Manager.GetLobby(input.Code)
		if l == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
			return
		}

		if input.Nickname == "" {
			input.Nickname = randx.Nickname()
		}
		nickname, customErr := lobby.ValidateNickname(input.Nickname)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		team := bingo.NoTeam
		if input.Team != nil {
			team = *input.Team
		}
		if customErr := lobby.ValidateTeam(team, l.MaxTeams()); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		userID := uuid.New()
		if l.IsFull(userID) {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomIsFull))
			return
		}

		payload := &jwt.Payload{
			UserID:   userID.String(),
			RoomCode: l.Code,
			Nickname: nickname,
			Team:     team,
		}

		tokenString, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.RoomAccessExpiration)
		if err != nil {
			logx.Error(err, "Failed to sign room token", "room_code", l.Code)
			resp.RespondError(w, r, errs.Wrap(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token":     tokenString,
			"userId":    userID,
			"nickname":  nickname,
			"team":      team,
			"expiresAt": time.Unix(payload.ExpiresAt, 0).UTC(),
		})
	}
}

// lobbyFromRequest resolves the {code} route parameter, answering ErrRoomNotFound itself.
func lobbyFromRequest(deps *AppDeps, w http.ResponseWriter, r *http.Request) *lobby.Lobby {
	l := deps.Manager.GetLobby(chi.URLParam(r, "code"))
	if l == nil {
		resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
	}
	return l
}

// HandleRoomUsers lists the connected users in display order.
func HandleRoomUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if l := lobbyFromRequest(deps, w, r); l != nil {
			resp.RespondSuccess(w, r, map[string]any{"users": l.Users()})
		}
	}
}

// HandleRoomTeams lists the teams in play with their display names.
func HandleRoomTeams(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if l := lobbyFromRequest(deps, w, r); l != nil {
			resp.RespondSuccess(w, r, map[string]any{"teams": l.Teams()})
		}
	}
}

// HandleRoomProgress reports squares and bingos per team.
func HandleRoomProgress(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if l := lobbyFromRequest(deps, w, r); l != nil {
			resp.RespondSuccess(w, r, map[string]any{"progress": l.Progress()})
		}
	}
}

// HandleRoomBoard returns the active match and its board.
func HandleRoomBoard(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if l := lobbyFromRequest(deps, w, r); l != nil {
			m := l.Match()
			resp.RespondSuccess(w, r, map[string]any{
				"match": lobby.NewMatchInfo(m),
				"board": m.Board(),
			})
		}
	}
}

// StartMatchInput optionally overrides the lobby's default settings and goals.
type StartMatchInput struct {
	Settings *bingo.MatchSettings `json:"settings,omitempty"`
	Goals    []string             `json:"goals,omitempty"`
}

// HandleStartMatch replaces the active match of the room the caller's token belongs to.
func HandleStartMatch(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := lobbyFromRequest(deps, w, r)
		if l == nil {
			return
		}

		var input StartMatchInput
		if customErr := req.BindOptionalJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		m, customErr := l.StartMatch(r.Context(), input.Settings, input.Goals)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		logx.Info("Match started", "room_code", l.Code, "match_id", m.ID.String(), "by", jwt.GetPayloadFromContext(r).UserID)

		resp.RespondSuccess(w, r, map[string]any{
			"match": lobby.NewMatchInfo(m),
			"board": m.Board(),
		})
	}
}
