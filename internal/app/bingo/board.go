package bingo

import (
	"encoding/json"
	"fmt"
)

const (
	// BoardSize is the width and height of a standard board.
	BoardSize = 5

	// SquareCount is the number of squares on a standard board.
	SquareCount = BoardSize * BoardSize
)

// TeamOwner is the optional owning team of a square.
// It serializes to the team number, or null when the square is unclaimed.
type TeamOwner struct {
	Team  int
	Valid bool
}

// OwnedBy returns a TeamOwner holding team.
func OwnedBy(team int) TeamOwner {
	return TeamOwner{Team: team, Valid: true}
}

// Get returns the owning team and whether there is one.
func (o TeamOwner) Get() (int, bool) {
	return o.Team, o.Valid
}

func (o TeamOwner) String() string {
	if !o.Valid {
		return "unclaimed"
	}
	return fmt.Sprintf("team %d", o.Team)
}

// MarshalJSON implements json.Marshaler.
func (o TeamOwner) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Team)
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *TeamOwner) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = TeamOwner{}
		return nil
	}

	var team int
	if err := json.Unmarshal(data, &team); err != nil {
		return fmt.Errorf("team owner: %w", err)
	}
	*o = OwnedBy(team)
	return nil
}

// Square is a single claimable cell of a board.
type Square struct {
	// Text is the goal shown on the square.
	Text string `json:"text"`

	// Owner is the team that claimed the square, if any.
	Owner TeamOwner `json:"team"`
}

// Board is the ordered, row-major list of squares of a match.
// Standard boards hold SquareCount squares; other sizes are kept as-is and yield no bingo lines.
type Board struct {
	Squares []Square `json:"squares"`
}

// NewBoard builds an unclaimed board with one square per goal.
// Without goals it returns a standard board of blank squares.
func NewBoard(goals []string) *Board {
	if len(goals) == 0 {
		return &Board{Squares: make([]Square, SquareCount)}
	}

	squares := make([]Square, len(goals))
	for i, g := range goals {
		squares[i].Text = g
	}
	return &Board{Squares: squares}
}

// Size returns the number of squares.
func (b *Board) Size() int {
	if b == nil {
		return 0
	}
	return len(b.Squares)
}

// Owners returns the ownership of every square, in board order.
func (b *Board) Owners() []TeamOwner {
	if b == nil {
		return nil
	}

	owners := make([]TeamOwner, len(b.Squares))
	for i, s := range b.Squares {
		owners[i] = s.Owner
	}
	return owners
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	if b == nil {
		return &Board{}
	}

	squares := make([]Square, len(b.Squares))
	copy(squares, b.Squares)
	return &Board{Squares: squares}
}
