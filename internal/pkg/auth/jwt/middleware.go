package jwt

import (
	"context"
	"net/http"
	"strings"

	"bingohub/internal/pkg/errs"
	"bingohub/internal/pkg/logx"
	"bingohub/internal/pkg/resp"
)

type contextKey string

// ContextRoomPayloadKey stores the verified *Payload in the request context.
const ContextRoomPayloadKey contextKey = "room_payload"

// TokenFromRequest returns the bearer token of r, falling back to the "token" query parameter
// since browsers cannot set headers on WebSocket upgrades.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if parts := strings.SplitN(h, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// RequireRoomToken rejects requests without a valid room token with ErrUnauthorized.
// roomCode extracts the room the route addresses; a token for another room is rejected too.
func RequireRoomToken(secretKey string, roomCode func(*http.Request) string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload, err := ParseToken(TokenFromRequest(r), secretKey)
			if err != nil {
				logx.Warn("Rejected request with invalid room token", "error", err.Error())
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			if code := roomCode(r); code != "" && code != payload.RoomCode {
				logx.Warn("Rejected room token used for another room", "token_room", payload.RoomCode, "route_room", code)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), ContextRoomPayloadKey, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPayloadFromContext returns the payload stored by RequireRoomToken, or nil.
func GetPayloadFromContext(r *http.Request) *Payload {
	payload, _ := r.Context().Value(ContextRoomPayloadKey).(*Payload)
	return payload
}
