/*
Package handler provides the HTTP handlers and routing setup for the bingo server.

This file defines the main Router, applying middleware like logging, CORS and IP-based rate limiting
before delegating requests to the API and WebSocket handlers.
*/
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"bingohub/internal/pkg/auth/jwt"
	"bingohub/internal/pkg/limiter"
	"bingohub/internal/pkg/logx"
	"bingohub/internal/pkg/resp"
)

const (
	CreateRate  = 0.05
	CreateBurst = 2
	JoinRate    = 0.2
	JoinBurst   = 5
	PowRate     = 0.5
	PowBurst    = 10
)

// Router sets up the main HTTP routing table. The rate limiters' sweepers stop with ctx.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	createLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(CreateRate), CreateBurst)
	joinLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(JoinRate), JoinBurst)
	powLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(PowRate), PowBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-PoW-Token"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"status":  "ok",
			"service": "Bingo Hub",
			"rooms":   deps.Manager.Len(),
		})
	})

	requireToken := jwt.RequireRoomToken(deps.Config.JWTSecret, func(r *http.Request) string {
		return chi.URLParam(r, "code")
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/pow", func(p chi.Router) {
			p.Use(powLimiter.Middleware)
			p.Get("/challenge", HandlePowChallenge(deps))
			p.Post("/verify", HandlePowVerify(deps))
		})

		api.Route("/rooms", func(rooms chi.Router) {
			rooms.With(createLimiter.Middleware).Post("/", HandleCreateRoom(deps))
			rooms.With(joinLimiter.Middleware).Post("/join", HandleJoinRoom(deps))

			rooms.Route("/{code}", func(room chi.Router) {
				room.Get("/users", HandleRoomUsers(deps))
				room.Get("/teams", HandleRoomTeams(deps))
				room.Get("/progress", HandleRoomProgress(deps))
				room.Get("/board", HandleRoomBoard(deps))
				room.With(requireToken).Post("/match", HandleStartMatch(deps))
			})
		})
	})

	r.With(joinLimiter.Middleware, requireToken).Get("/ws/{code}", HandleWebSocket(wsUpgrader, deps))

	return r
}
