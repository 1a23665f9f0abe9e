package bingo

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultClasses is the pool of starting classes drawn from when a match does not restrict it.
var DefaultClasses = []string{
	"Vagabond", "Warrior", "Hero", "Bandit", "Astrologer",
	"Prophet", "Samurai", "Prisoner", "Confessor", "Wretch",
}

// MatchSettings is the configuration a match is started with.
type MatchSettings struct {
	// RandomSeed drives every random draw of the match. Zero picks a fresh seed.
	RandomSeed int64 `json:"randomSeed" yaml:"random_seed"`

	// ValidClasses restricts the class pool; empty means DefaultClasses.
	ValidClasses []string `json:"validClasses,omitempty" yaml:"valid_classes"`

	// NumberOfClasses is how many classes are drawn for the match; nil draws none.
	NumberOfClasses *int `json:"numberOfClasses,omitempty" yaml:"number_of_classes"`

	// CategoryLimit caps how many squares of one category a generated board may hold.
	CategoryLimit *int `json:"categoryLimit,omitempty" yaml:"category_limit"`
}

// Match is one game of bingo: a board plus the settings it was started with.
// Claims are serialized by the match's own lock; readers work on snapshots.
type Match struct {
	ID        uuid.UUID
	Settings  MatchSettings
	Classes   []string
	StartedAt time.Time

	mu    sync.RWMutex
	board *Board
}

// NewMatch starts a match on a fresh board built from goals.
func NewMatch(settings MatchSettings, goals []string) *Match {
	if settings.RandomSeed == 0 {
		settings.RandomSeed = rand.Int64N(1<<62) + 1
	}

	return &Match{
		ID:        uuid.New(),
		Settings:  settings,
		Classes:   DrawClasses(settings),
		StartedAt: time.Now(),
		board:     NewBoard(goals),
	}
}

// DrawClasses picks the match classes deterministically from the settings seed.
func DrawClasses(settings MatchSettings) []string {
	if settings.NumberOfClasses == nil || *settings.NumberOfClasses <= 0 {
		return nil
	}

	pool := settings.ValidClasses
	if len(pool) == 0 {
		pool = DefaultClasses
	}

	n := min(*settings.NumberOfClasses, len(pool))
	rng := rand.New(rand.NewPCG(uint64(settings.RandomSeed), 0))

	classes := make([]string, 0, n)
	for _, i := range rng.Perm(len(pool))[:n] {
		classes = append(classes, pool[i])
	}
	return classes
}

// ClaimSquare gives the square at pos to team.
// It reports whether ownership changed; claiming a square owned by another team,
// an out-of-range position or NoTeam changes nothing.
func (m *Match) ClaimSquare(pos, team int) bool {
	if team == NoTeam {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if pos < 0 || pos >= m.board.Size() {
		return false
	}

	sq := &m.board.Squares[pos]
	if sq.Owner.Valid {
		return false
	}
	sq.Owner = OwnedBy(team)
	return true
}

// UnclaimSquare releases the square at pos if team owns it.
func (m *Match) UnclaimSquare(pos, team int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pos < 0 || pos >= m.board.Size() {
		return false
	}

	sq := &m.board.Squares[pos]
	if owner, ok := sq.Owner.Get(); !ok || owner != team {
		return false
	}
	sq.Owner = TeamOwner{}
	return true
}

// Board returns a copy of the current board.
func (m *Match) Board() *Board {
	if m == nil {
		return &Board{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.board.Clone()
}

// Owners returns a point-in-time snapshot of square ownership.
func (m *Match) Owners() []TeamOwner {
	if m == nil {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.board.Owners()
}
