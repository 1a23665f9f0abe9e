package bingo

import (
	"cmp"
	"slices"
)

// CheckPerTeam is the progress of one team on the current board.
type CheckPerTeam struct {
	Team    int    `json:"team"`
	Name    string `json:"name"`
	Squares int    `json:"squares"`
	Bingos  int    `json:"bingos"`
}

// TeamProgress merges board-derived counts onto the known teams.
// Every known team gets a row, zero-valued if it owns nothing. Squares owned by a team with no
// row in teams are not reported. Rows are ordered by team number.
func TeamProgress(teams []TeamName, owners []TeamOwner) []CheckPerTeam {
	squares := SquaresPerTeam(owners)
	bingos := BingosPerTeam(owners)

	rows := make([]CheckPerTeam, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, CheckPerTeam{
			Team:    t.Team,
			Name:    t.Name,
			Squares: squares[t.Team],
			Bingos:  bingos[t.Team],
		})
	}

	slices.SortFunc(rows, func(a, b CheckPerTeam) int { return cmp.Compare(a.Team, b.Team) })
	return rows
}
