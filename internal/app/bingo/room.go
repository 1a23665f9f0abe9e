package bingo

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Room groups the connected participants of a session with its active match.
// A Room always holds exactly one match.
type Room[T Participant] struct {
	// Name is the human-readable name of the room.
	Name string

	// users holds every connected participant.
	users *Registry[T]

	// matchMu guards the match pointer, not the match contents.
	matchMu sync.RWMutex
	match   *Match
}

// NewRoom creates a room with an empty standard match.
func NewRoom[T Participant](name string) *Room[T] {
	return &Room[T]{
		Name:  name,
		users: NewRegistry[T](),
		match: NewMatch(MatchSettings{}, nil),
	}
}

// Match returns the active match.
func (r *Room[T]) Match() *Match {
	r.matchMu.RLock()
	defer r.matchMu.RUnlock()

	return r.match
}

// NewMatch replaces the active match with a fresh one and returns it.
func (r *Room[T]) NewMatch(settings MatchSettings, goals []string) *Match {
	_, _, m := r.ReplaceMatch(settings, goals)
	return m
}

// ReplaceMatch swaps in a fresh match. It returns the replaced match, the final state of its board
// and the new match; the board is snapshotted under the same lock as the swap.
func (r *Room[T]) ReplaceMatch(settings MatchSettings, goals []string) (previous *Match, final *Board, next *Match) {
	next = NewMatch(settings, goals)

	r.matchMu.Lock()
	defer r.matchMu.Unlock()

	previous = r.match
	final = previous.Board()
	r.match = next
	return previous, final, next
}

// AddUser adds u, replacing any participant with the same identifier.
func (r *Room[T]) AddUser(u T) {
	r.users.Put(u)
}

// UpdateUser atomically rewrites the stored participant with identifier id.
func (r *Room[T]) UpdateUser(id uuid.UUID, fn func(T) T) (T, bool) {
	return r.users.Update(id, fn)
}

// RemoveUser removes u and reports whether it was present.
func (r *Room[T]) RemoveUser(u T) bool {
	_, ok := r.users.Delete(u.UserID())
	return ok
}

// RemoveUserByID removes the participant with identifier id and returns it.
func (r *Room[T]) RemoveUserByID(id uuid.UUID) (T, bool) {
	return r.users.Delete(id)
}

// GetUser returns the participant with identifier id.
func (r *Room[T]) GetUser(id uuid.UUID) (T, bool) {
	return r.users.Get(id)
}

// NumUsers returns the number of connected participants.
func (r *Room[T]) NumUsers() int {
	return r.users.Len()
}

// Users returns the connected participants in unspecified order.
func (r *Room[T]) Users() []T {
	return r.users.Values()
}

// ClientsSorted returns the connected participants in display order:
// by team (players without a team last), then nickname ignoring case, then nickname, then identifier.
func (r *Room[T]) ClientsSorted() []T {
	users := r.users.Values()
	slices.SortFunc(users, CompareParticipants[T])
	return users
}

// CompareParticipants is the total order used by ClientsSorted.
func CompareParticipants[T Participant](a, b T) int {
	ta, tb := a.TeamNumber(), b.TeamNumber()
	if (ta == NoTeam) != (tb == NoTeam) {
		if ta == NoTeam {
			return 1
		}
		return -1
	}

	return cmp.Or(
		cmp.Compare(ta, tb),
		cmp.Compare(strings.ToLower(a.Nick()), strings.ToLower(b.Nick())),
		cmp.Compare(a.Nick(), b.Nick()),
		cmp.Compare(a.UserID().String(), b.UserID().String()),
	)
}

// PlayerTeams returns the named teams of the connected participants.
func (r *Room[T]) PlayerTeams() []TeamName {
	return PlayerTeams(r.ClientsSorted())
}

// CheckedSquaresPerTeam returns the progress of every team on the active board.
func (r *Room[T]) CheckedSquaresPerTeam() []CheckPerTeam {
	return r.ProgressOn(r.Match().Owners())
}

// ProgressOn returns the progress of the connected teams on a board snapshot.
func (r *Room[T]) ProgressOn(owners []TeamOwner) []CheckPerTeam {
	return TeamProgress(r.PlayerTeams(), owners)
}
