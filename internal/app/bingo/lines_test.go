package bingo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinesLayout(t *testing.T) {
	assert.Len(t, Lines, 12)

	assert.Equal(t, []int{0, 5, 10, 15, 20}, Lines[0].Positions(), "first column")
	assert.Equal(t, []int{0, 1, 2, 3, 4}, Lines[5].Positions(), "first row")
	assert.Equal(t, []int{0, 6, 12, 18, 24}, Lines[10].Positions(), "main diagonal")
	assert.Equal(t, []int{20, 16, 12, 8, 4}, Lines[11].Positions(), "anti diagonal")
}

func TestBingosPerTeamSingleLine(t *testing.T) {
	for i, l := range Lines {
		owners := ownersWith(2, l.Positions()...)

		bingos := BingosPerTeam(owners)

		assert.Equal(t, map[int]int{2: 1}, bingos, "line %d", i)
	}
}

func TestBingosPerTeamFullBoard(t *testing.T) {
	all := make([]int, SquareCount)
	for i := range all {
		all[i] = i
	}

	bingos := BingosPerTeam(ownersWith(0, all...))

	assert.Equal(t, map[int]int{0: 12}, bingos)
}

func TestBingosPerTeamSharedSquare(t *testing.T) {
	// Row 0 and the main diagonal share square 0.
	owners := ownersWith(1, 0, 1, 2, 3, 4, 6, 12, 18, 24)

	assert.Equal(t, map[int]int{1: 2}, BingosPerTeam(owners))
}

func TestBingosPerTeamMixedLine(t *testing.T) {
	owners := ownersWith(1, 0, 1, 2, 3)
	owners[4] = OwnedBy(2)

	assert.Empty(t, BingosPerTeam(owners))
}

func TestBingosPerTeamIncompleteLine(t *testing.T) {
	owners := ownersWith(1, 0, 1, 2, 3)

	assert.Empty(t, BingosPerTeam(owners))
}

func TestBingosPerTeamSeveralTeams(t *testing.T) {
	owners := ownersWith(1, 0, 1, 2, 3, 4)
	for _, p := range []int{20, 21, 22, 23, 24} {
		owners[p] = OwnedBy(3)
	}

	assert.Equal(t, map[int]int{1: 1, 3: 1}, BingosPerTeam(owners))
}

func TestBingosPerTeamWrongSize(t *testing.T) {
	for _, size := range []int{0, 1, 24, 26, 49} {
		owners := make([]TeamOwner, size)
		for i := range owners {
			owners[i] = OwnedBy(0)
		}

		assert.Empty(t, BingosPerTeam(owners), "size %d", size)
	}
}

func TestSquaresPerTeam(t *testing.T) {
	owners := ownersWith(1, 0, 7, 13)
	owners[24] = OwnedBy(4)

	assert.Equal(t, map[int]int{1: 3, 4: 1}, SquaresPerTeam(owners))
	assert.Empty(t, SquaresPerTeam(nil))
}

func TestCompletedThrough(t *testing.T) {
	// row 0 plus the main diagonal, both through square 0
	owners := ownersWith(1, 0, 1, 2, 3, 4, 6, 12, 18, 24)

	assert.Equal(t, 2, CompletedThrough(owners, 0))
	assert.Equal(t, 1, CompletedThrough(owners, 2))
	assert.Equal(t, 1, CompletedThrough(owners, 12))
	assert.Equal(t, 0, CompletedThrough(owners, 5), "unclaimed square")
	assert.Equal(t, 0, CompletedThrough(owners, -1))
	assert.Equal(t, 0, CompletedThrough(owners[:24], 0), "odd board")
}

func TestCompletedThroughOtherTeam(t *testing.T) {
	owners := ownersWith(1, 0, 1, 2, 3)
	owners[4] = OwnedBy(2)

	assert.Equal(t, 0, CompletedThrough(owners, 4))
	assert.Equal(t, 0, CompletedThrough(owners, 0))
}
