/*
Package lobby connects WebSocket clients to bingo rooms.

This file defines the Manager, which creates, tracks, retrieves and cleans up every active Lobby.
*/
package lobby

import (
	"sync"

	"github.com/rs/zerolog"

	"bingohub/internal/app/archive"
	"bingohub/internal/configs"
	"bingohub/internal/pkg/errs"
	"bingohub/internal/pkg/logx"
	"bingohub/internal/pkg/randx"
)

// createAttempts is how many random room codes CreateLobby tries before giving up.
const createAttempts = 5

// Manager coordinates all active lobbies.
type Manager struct {
	// lobbies maps a room code to its Lobby.
	lobbies map[string]*Lobby

	// opts is handed to every new Lobby.
	opts Options

	// mu protects lobbies.
	mu sync.RWMutex

	// lobbies report here when their Run loop exits.
	cleanup chan CleanupMsg

	// closed by Shutdown to stop the cleanup loop.
	quit chan struct{}

	// wg waits for the cleanup loop during shutdown.
	wg sync.WaitGroup

	// newCode generates room codes.
	newCode func() (string, error)

	// structured logger with Manager context.
	logger zerolog.Logger
}

// NewManager builds a Manager from the application config. sink archives replaced matches.
func NewManager(cfg *configs.AppConfig, sink archive.Sink) *Manager {
	return newManager(Options{
		MaxUsers:  cfg.MaxRoomUsers,
		MaxTeams:  cfg.MaxTeams,
		JWTSecret: cfg.JWTSecret,
		Defaults:  cfg.MatchDefaults,
		Archive:   sink,
	})
}

func newManager(opts Options) *Manager {
	m := &Manager{
		lobbies: make(map[string]*Lobby),
		opts:    opts,
		cleanup: make(chan CleanupMsg, 64),
		quit:    make(chan struct{}),
		newCode: randx.RoomCode,
		logger:  logx.Component("Manager"),
	}

	m.wg.Add(1)
	go m.runCleanupLoop()

	return m
}

// runCleanupLoop removes lobbies whose Run loop has exited.
func (m *Manager) runCleanupLoop() {
	defer m.wg.Done()

	m.logger.Info().Msg("Cleanup loop started.")

	for {
		select {
		case msg := <-m.cleanup:
			m.deleteLobby(msg)
		case <-m.quit:
			m.logger.Info().Msg("Cleanup loop stopped.")
			return
		}
	}
}

// deleteLobby removes the lobby of msg unless the code has been reused since.
func (m *Manager) deleteLobby(msg CleanupMsg) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.lobbies[msg.Code]; ok && l == msg.Lobby {
		delete(m.lobbies, msg.Code)
		m.logger.Info().Str("room_code", msg.Code).Msg("Lobby successfully removed.")
	}
}

// CreateLobby creates a lobby under a fresh room code and starts its Run loop.
func (m *Manager) CreateLobby() (*Lobby, *errs.CustomError) {
	for range createAttempts {
		code, err := m.newCode()
		if err != nil {
			m.logger.Error().Err(err).Msg("Failed to generate room code.")
			return nil, errs.Wrap(errs.ErrUnknown, err)
		}

		l, customErr := m.createLobby(code)
		if customErr == nil {
			return l, nil
		}
		if customErr.Code != errs.ErrRoomCodeExists {
			return nil, customErr
		}
	}

	return nil, errs.NewError(errs.ErrRoomCodeExists)
}

func (m *Manager) createLobby(code string) (*Lobby, *errs.CustomError) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lobbies == nil {
		return nil, errs.NewError(errs.ErrUnknown)
	}
	if _, ok := m.lobbies[code]; ok {
		m.logger.Warn().Str("room_code", code).Msg("Attempted to create existing lobby.")
		return nil, errs.NewError(errs.ErrRoomCodeExists)
	}

	l := NewLobby(code, m.opts, m.cleanup)
	m.lobbies[code] = l

	go l.Run()

	m.logger.Info().Str("room_code", code).Int("max_users", m.opts.MaxUsers).Msg("New lobby created and started.")
	return l, nil
}

// GetLobby returns the lobby for code, or nil.
func (m *Manager) GetLobby(code string) *Lobby {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lobbies[code]
}

// Len returns the number of active lobbies.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.lobbies)
}

// Shutdown stops every lobby and the cleanup loop.
func (m *Manager) Shutdown() {
	m.logger.Info().Msg("Shutting down Manager...")

	m.mu.Lock()
	lobbies := m.lobbies
	m.lobbies = nil
	m.mu.Unlock()

	for _, l := range lobbies {
		l.Stop()
	}
	for _, l := range lobbies {
		<-l.Done()
	}

	close(m.quit)
	m.wg.Wait()

	m.logger.Info().Msg("Manager shutdown complete.")
}
