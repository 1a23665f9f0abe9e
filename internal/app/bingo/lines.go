package bingo

import "slices"

// Line is one of the straight runs of BoardSize squares that score a bingo.
type Line struct {
	X, Y   int
	DX, DY int
}

// Lines lists the 12 bingo lines of a standard board: columns, rows, then both diagonals.
var Lines = func() []Line {
	lines := make([]Line, 0, 2*BoardSize+2)
	for x := range BoardSize {
		lines = append(lines, Line{X: x, Y: 0, DX: 0, DY: 1})
	}
	for y := range BoardSize {
		lines = append(lines, Line{X: 0, Y: y, DX: 1, DY: 0})
	}
	lines = append(lines,
		Line{X: 0, Y: 0, DX: 1, DY: 1},
		Line{X: 0, Y: BoardSize - 1, DX: 1, DY: -1},
	)
	return lines
}()

// Positions returns the board indices covered by the line, in walk order.
func (l Line) Positions() []int {
	positions := make([]int, BoardSize)
	x, y := l.X, l.Y
	for i := range BoardSize {
		positions[i] = x + y*BoardSize
		x += l.DX
		y += l.DY
	}
	return positions
}

// Owner returns the team owning every square of the line.
// The walk stops at the first unclaimed square or ownership mismatch.
func (l Line) Owner(owners []TeamOwner) (int, bool) {
	if len(owners) != SquareCount {
		return 0, false
	}

	var first TeamOwner
	for _, pos := range l.Positions() {
		team, ok := owners[pos].Get()
		if !ok {
			return 0, false
		}
		if first.Valid && first.Team != team {
			return 0, false
		}
		first = OwnedBy(team)
	}
	return first.Get()
}

// BingosPerTeam counts the completed lines of every team.
// A square may count towards several lines. Boards that are not SquareCount long have no lines.
func BingosPerTeam(owners []TeamOwner) map[int]int {
	bingos := make(map[int]int)
	if len(owners) != SquareCount {
		return bingos
	}

	for _, l := range Lines {
		if team, ok := l.Owner(owners); ok {
			bingos[team]++
		}
	}
	return bingos
}

// SquaresPerTeam counts the claimed squares of every team.
func SquaresPerTeam(owners []TeamOwner) map[int]int {
	squares := make(map[int]int)
	for _, o := range owners {
		if team, ok := o.Get(); ok {
			squares[team]++
		}
	}
	return squares
}

// CompletedThrough counts the lines through pos that are fully owned by the owner of pos.
func CompletedThrough(owners []TeamOwner, pos int) int {
	if len(owners) != SquareCount || pos < 0 || pos >= SquareCount {
		return 0
	}
	team, ok := owners[pos].Get()
	if !ok {
		return 0
	}

	completed := 0
	for _, l := range Lines {
		if !slices.Contains(l.Positions(), pos) {
			continue
		}
		if owner, ok := l.Owner(owners); ok && owner == team {
			completed++
		}
	}
	return completed
}
