/*
Package lobby connects WebSocket clients to bingo rooms.

This file defines the Lobby, the live session around one bingo room. Its Run loop owns client
registration and message fan-out; board and team operations mutate the room directly and publish
the result to every connected client. An empty lobby shuts itself down after a period of inactivity.
*/
package lobby

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bingohub/internal/app/archive"
	"bingohub/internal/app/bingo"
	"bingohub/internal/app/user"
	"bingohub/internal/configs"
	"bingohub/internal/pkg/errs"
	"bingohub/internal/pkg/logx"
)

const broadcastChannelBuffer = 1024

const (
	// InactivityTimeout is how long an empty lobby stays alive.
	InactivityTimeout = 5 * time.Minute

	// MaxNicknameLength is the longest accepted nickname, in characters.
	MaxNicknameLength = 32

	// archiveTimeout bounds how long starting a match waits on the archive.
	archiveTimeout = 10 * time.Second
)

// Options configures every lobby created by a Manager.
type Options struct {
	// MaxUsers caps the number of distinct users per lobby.
	MaxUsers int

	// MaxTeams is the number of teams; valid team numbers are 0 to MaxTeams-1.
	MaxTeams int

	// JWTSecret signs refreshed room tokens.
	JWTSecret string

	// Defaults are used for the first match and for match requests without settings.
	Defaults configs.MatchDefaults

	// Archive receives the record of every replaced match.
	Archive archive.Sink

	// InactivityTimeout overrides the package default when positive.
	InactivityTimeout time.Duration
}

// CleanupMsg tells the Manager that a lobby has stopped.
type CleanupMsg struct {
	Code  string
	Lobby *Lobby
}

// Lobby is the live session of one bingo room.
type Lobby struct {
	// Code is the room code clients join with.
	Code string

	// opts holds limits, defaults and the archive sink.
	opts Options

	// room holds users and the active match.
	room *bingo.Room[user.User]

	// clients maps a user ID to its current connection. Written by Run only.
	clients map[uuid.UUID]*Client

	// mu protects clients for readers outside Run.
	mu sync.RWMutex

	// a buffered channel for messages to be sent to all clients.
	broadcast chan Message

	// a channel for clients requesting to join the lobby.
	register chan *Client

	// a channel for clients requesting to leave the lobby.
	unregister chan *Client

	// notifies the Manager when Run exits.
	cleanupChan chan<- CleanupMsg

	// closed to stop Run.
	stopChan chan struct{}
	stopOnce sync.Once

	// closed once Run has exited.
	done chan struct{}

	// fires when the lobby has been empty for too long.
	shutdownTimer *time.Timer

	// structured logger with room context.
	logger zerolog.Logger
}

// NewLobby creates a lobby whose first match uses the configured defaults.
func NewLobby(code string, opts Options, cleanupChan chan<- CleanupMsg) *Lobby {
	if opts.InactivityTimeout <= 0 {
		opts.InactivityTimeout = InactivityTimeout
	}
	if opts.Archive == nil {
		opts.Archive = archive.NopSink{}
	}

	room := bingo.NewRoom[user.User](code)
	room.NewMatch(opts.Defaults.Settings, opts.Defaults.Goals)

	return &Lobby{
		Code:          code,
		opts:          opts,
		room:          room,
		clients:       make(map[uuid.UUID]*Client),
		broadcast:     make(chan Message, broadcastChannelBuffer),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		cleanupChan:   cleanupChan,
		stopChan:      make(chan struct{}),
		done:          make(chan struct{}),
		shutdownTimer: time.NewTimer(opts.InactivityTimeout),
		logger:        logx.Logger().With().Str("room_code", code).Logger(),
	}
}

// Stop terminates the Run loop.
func (l *Lobby) Stop() {
	l.stopOnce.Do(func() {
		l.logger.Info().Msg("Received stop signal. Stopping lobby.")
		close(l.stopChan)
	})
}

// Done is closed once the lobby has stopped.
func (l *Lobby) Done() <-chan struct{} {
	return l.done
}

// Run is the lobby's event loop. It returns on Stop or after the inactivity timeout.
func (l *Lobby) Run() {
	defer l.finish()

	for {
		select {
		case client := <-l.register:
			l.handleRegister(client)

		case client := <-l.unregister:
			l.handleUnregister(client)

		case msg := <-l.broadcast:
			l.fanOut(msg)

		case <-l.shutdownTimer.C:
			l.logger.Info().Msgf("Lobby inactivity timeout (%s) reached.", l.opts.InactivityTimeout)
			return

		case <-l.stopChan:
			l.logger.Info().Msg("Lobby forced stop initiated.")
			return
		}
	}
}

func (l *Lobby) finish() {
	l.shutdownTimer.Stop()
	close(l.done)

	l.mu.Lock()
	for id, client := range l.clients {
		client.closeSend()
		delete(l.clients, id)
	}
	l.mu.Unlock()

	select {
	case l.cleanupChan <- CleanupMsg{Code: l.Code, Lobby: l}:
		l.logger.Info().Msg("Sent cleanup notification to Manager.")
	default:
		l.logger.Warn().Msg("Manager cleanup channel blocked/full. Skipping cleanup notification.")
	}
}

func (l *Lobby) stopTimer() {
	if !l.shutdownTimer.Stop() {
		select {
		case <-l.shutdownTimer.C:
		default:
		}
	}
}

func (l *Lobby) handleRegister(client *Client) {
	l.stopTimer()

	l.mu.Lock()
	existing, replacing := l.clients[client.user.ID]
	if !replacing && len(l.clients) >= l.opts.MaxUsers {
		n := len(l.clients)
		l.mu.Unlock()

		l.logger.Warn().
			Int("max_users", l.opts.MaxUsers).
			Str("client_id", client.user.ID.String()).
			Msg("Lobby is full. New unique client rejected.")

		client.SendError(errs.NewError(errs.ErrRoomIsFull))
		client.closeSend()
		if n == 0 {
			l.shutdownTimer.Reset(l.opts.InactivityTimeout)
		}
		return
	}
	if replacing {
		l.logger.Warn().
			Str("client_id", client.user.ID.String()).
			Msg("Client ID already connected. Closing old connection for replacement.")
		existing.Kick(errs.NewError(errs.ErrSessionKicked).Message)
	}
	l.clients[client.user.ID] = client
	total := len(l.clients)
	l.mu.Unlock()

	// A replacing connection may carry a token older than the user's latest edits.
	u := client.user
	if stored, ok := l.room.GetUser(u.ID); ok {
		u.Nickname = stored.Nickname
		u.Team = stored.Team
	}
	l.room.AddUser(u)

	l.logger.Info().
		Str("client_id", u.ID.String()).
		Int("total_users", total).
		Msg("Client joined lobby.")

	if err := client.SendInitData(l.initData(u)); err != nil {
		l.removeClient(client)
		return
	}

	l.emit(TypeUserJoined, user.SystemUser, l.userEvent(u))
}

func (l *Lobby) handleUnregister(client *Client) {
	l.mu.RLock()
	current, ok := l.clients[client.user.ID]
	l.mu.RUnlock()

	switch {
	case ok && current == client:
		l.removeClient(client)
	case ok:
		l.logger.Info().
			Str("stale_client_id", client.user.ID.String()).
			Msg("Ignoring unregister for STALE connection.")
	default:
		l.logger.Debug().
			Str("client_id", client.user.ID.String()).
			Msg("Unregister for unknown/already deleted client.")
	}
}

// removeClient drops client and its user. Must run on the Run goroutine.
func (l *Lobby) removeClient(client *Client) {
	l.mu.Lock()
	delete(l.clients, client.user.ID)
	remaining := len(l.clients)
	l.mu.Unlock()

	u, removed := l.room.RemoveUserByID(client.user.ID)
	client.closeSend()

	if removed {
		l.emit(TypeUserLeft, user.SystemUser, l.userEvent(u))
	}

	l.logger.Info().
		Str("client_id", client.user.ID.String()).
		Int("total_users", remaining).
		Msg("Client left lobby.")

	if remaining == 0 {
		l.logger.Info().Msg("Lobby is empty. Inactivity timer started.")
		l.stopTimer()
		l.shutdownTimer.Reset(l.opts.InactivityTimeout)
	}
}

func (l *Lobby) fanOut(msg Message) {
	data, err := marshalMessage(msg)
	if err != nil {
		l.logger.Error().Str("message_id", msg.ID).Err(err).Msg("Error marshaling message for broadcast.")
		return
	}

	l.mu.RLock()
	targets := make([]*Client, 0, len(l.clients))
	for _, client := range l.clients {
		targets = append(targets, client)
	}
	l.mu.RUnlock()

	for _, client := range targets {
		if err := client.enqueue(data); err != nil {
			l.logger.Warn().
				Str("client_id", client.user.ID.String()).
				Msg("Client send channel full or closed, unregistering.")
			l.removeClient(client)
		}
	}
}

// RegisterClient hands client to the Run loop.
func (l *Lobby) RegisterClient(client *Client) {
	select {
	case l.register <- client:
	case <-l.done:
		client.SendError(errs.NewError(errs.ErrRoomNotFound))
		client.closeSend()
	}
}

// UnregisterClient asks the Run loop to drop client.
func (l *Lobby) UnregisterClient(client *Client) {
	select {
	case l.unregister <- client:
	case <-l.done:
	}
}

// emit publishes a message to every client.
func (l *Lobby) emit(t MessageType, sender user.User, payload any) {
	msg, err := NewMessage(t, l.Code, sender, payload)
	if err != nil {
		l.logger.Error().Err(err).Str("msg_type", string(t)).Msg("Failed to build broadcast message.")
		return
	}

	select {
	case l.broadcast <- msg:
	case <-l.done:
	default:
		l.logger.Warn().Str("msg_type", string(t)).Msg("Broadcast channel full, message dropped.")
	}
}

func (l *Lobby) initData(current user.User) InitDataPayload {
	match := l.room.Match()

	return InitDataPayload{
		CurrentUser: current,
		Users:       l.room.ClientsSorted(),
		Teams:       l.room.PlayerTeams(),
		Match:       NewMatchInfo(match),
		Board:       match.Board(),
		Progress:    l.room.CheckedSquaresPerTeam(),
		MaxUsers:    l.opts.MaxUsers,
		MaxTeams:    l.opts.MaxTeams,
	}
}

func (l *Lobby) userEvent(u user.User) UserEventPayload {
	return UserEventPayload{
		User:     u,
		Teams:    l.room.PlayerTeams(),
		Progress: l.room.CheckedSquaresPerTeam(),
	}
}

// IsFull reports whether a user with id would be rejected for capacity.
// A user already in the lobby is never rejected.
func (l *Lobby) IsFull(id uuid.UUID) bool {
	if _, ok := l.room.GetUser(id); ok {
		return false
	}
	return l.room.NumUsers() >= l.opts.MaxUsers
}

// Users returns the connected users in display order.
func (l *Lobby) Users() []user.User { return l.room.ClientsSorted() }

// Teams returns the teams with at least one user and their display names.
func (l *Lobby) Teams() []bingo.TeamName { return l.room.PlayerTeams() }

// Progress returns squares and bingos per team for the active match.
func (l *Lobby) Progress() []bingo.CheckPerTeam { return l.room.CheckedSquaresPerTeam() }

// Match returns the active match.
func (l *Lobby) Match() *bingo.Match { return l.room.Match() }

// User returns the connected user with id.
func (l *Lobby) User(id uuid.UUID) (user.User, bool) { return l.room.GetUser(id) }

// MaxTeams is the number of teams a user can pick from.
func (l *Lobby) MaxTeams() int { return l.opts.MaxTeams }

// ClaimSquare claims the square at pos for the team of user id.
func (l *Lobby) ClaimSquare(id uuid.UUID, pos int) *errs.CustomError {
	u, team, customErr := l.playingUser(id)
	if customErr != nil {
		return customErr
	}

	match := l.room.Match()
	if customErr := checkPosition(match, pos); customErr != nil {
		return customErr
	}
	if !match.ClaimSquare(pos, team) {
		return errs.NewError(errs.ErrSquareTaken)
	}

	board := match.Board()
	owners := board.Owners()
	l.emit(TypeBoardUpdate, u, BoardUpdatePayload{
		Board:         board,
		Progress:      l.room.ProgressOn(owners),
		Position:      pos,
		Team:          team,
		SquareClaimed: true,
		NewBingo:      bingo.CompletedThrough(owners, pos) > 0,
	})
	return nil
}

// UnclaimSquare releases the square at pos if the team of user id owns it.
func (l *Lobby) UnclaimSquare(id uuid.UUID, pos int) *errs.CustomError {
	u, team, customErr := l.playingUser(id)
	if customErr != nil {
		return customErr
	}

	match := l.room.Match()
	if customErr := checkPosition(match, pos); customErr != nil {
		return customErr
	}
	if !match.UnclaimSquare(pos, team) {
		return errs.NewError(errs.ErrSquareNotOwned)
	}

	board := match.Board()
	l.emit(TypeBoardUpdate, u, BoardUpdatePayload{
		Board:    board,
		Progress: l.room.ProgressOn(board.Owners()),
		Position: pos,
		Team:     team,
	})
	return nil
}

func (l *Lobby) playingUser(id uuid.UUID) (user.User, int, *errs.CustomError) {
	u, ok := l.room.GetUser(id)
	if !ok {
		return user.User{}, bingo.NoTeam, errs.NewError(errs.ErrUnauthorized)
	}
	if !u.HasTeam() {
		return u, bingo.NoTeam, errs.NewError(errs.ErrNoTeam)
	}
	return u, u.Team, nil
}

func checkPosition(match *bingo.Match, pos int) *errs.CustomError {
	if pos < 0 || pos >= match.Board().Size() {
		return errs.NewError(errs.ErrSquareOutOfRange)
	}
	return nil
}

// SetTeam moves user id to team; bingo.NoTeam makes the user a spectator.
func (l *Lobby) SetTeam(id uuid.UUID, team int) (user.User, *errs.CustomError) {
	if customErr := ValidateTeam(team, l.opts.MaxTeams); customErr != nil {
		return user.User{}, customErr
	}
	return l.updateUser(id, func(u user.User) user.User {
		u.Team = team
		return u
	})
}

// SetNickname renames user id.
func (l *Lobby) SetNickname(id uuid.UUID, nickname string) (user.User, *errs.CustomError) {
	nickname, customErr := ValidateNickname(nickname)
	if customErr != nil {
		return user.User{}, customErr
	}
	return l.updateUser(id, func(u user.User) user.User {
		u.Nickname = nickname
		return u
	})
}

func (l *Lobby) updateUser(id uuid.UUID, fn func(user.User) user.User) (user.User, *errs.CustomError) {
	u, ok := l.room.UpdateUser(id, fn)
	if !ok {
		return user.User{}, errs.NewError(errs.ErrUnauthorized)
	}

	l.mu.RLock()
	client := l.clients[id]
	l.mu.RUnlock()
	if client != nil {
		client.refreshToken(time.Now())
	}

	l.emit(TypeUserUpdated, u, l.userEvent(u))
	return u, nil
}

// StartMatch replaces the active match. Nil settings or goals fall back to the lobby defaults.
// The replaced match is archived when any square was claimed; archive failures are logged only.
func (l *Lobby) StartMatch(ctx context.Context, settings *bingo.MatchSettings, goals []string) (*bingo.Match, *errs.CustomError) {
	if goals == nil {
		goals = l.opts.Defaults.Goals
	}
	if n := len(goals); n != 0 && n != bingo.SquareCount {
		return nil, errs.NewError(errs.ErrBoardInvalid, bingo.SquareCount)
	}
	s := l.opts.Defaults.Settings
	if settings != nil {
		s = *settings
	}

	previous, final, match := l.room.ReplaceMatch(s, goals)
	if hasClaims(final) {
		progress := l.room.ProgressOn(final.Owners())
		l.archiveMatch(ctx, archive.NewRecord(l.Code, previous, final, progress, match.StartedAt))
	}

	l.logger.Info().
		Str("match_id", match.ID.String()).
		Int64("seed", match.Settings.RandomSeed).
		Msg("New match started.")

	l.emit(TypeMatchStarted, user.SystemUser, MatchStartedPayload{
		Match:    NewMatchInfo(match),
		Board:    match.Board(),
		Progress: l.room.CheckedSquaresPerTeam(),
	})
	return match, nil
}

func (l *Lobby) archiveMatch(ctx context.Context, rec archive.Record) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	if err := l.opts.Archive.Save(ctx, rec); err != nil {
		l.logger.Error().
			Err(errs.Wrap(errs.ErrArchiveFailed, err)).
			Str("match_id", rec.MatchID.String()).
			Msg("Failed to archive finished match.")
	}
}

func hasClaims(b *bingo.Board) bool {
	for _, o := range b.Owners() {
		if o.Valid {
			return true
		}
	}
	return false
}

// ValidateTeam accepts bingo.NoTeam and teams 0 through maxTeams-1.
func ValidateTeam(team, maxTeams int) *errs.CustomError {
	if team == bingo.NoTeam || (team >= 0 && team < maxTeams) {
		return nil
	}
	return errs.NewError(errs.ErrTeamInvalid, maxTeams-1)
}

// ValidateNickname trims nickname and checks its length.
func ValidateNickname(nickname string) (string, *errs.CustomError) {
	nickname = strings.TrimSpace(nickname)
	if n := utf8.RuneCountInString(nickname); n == 0 || n > MaxNicknameLength {
		return "", errs.NewError(errs.ErrNicknameInvalid, MaxNicknameLength)
	}
	return nickname, nil
}
