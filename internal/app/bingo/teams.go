package bingo

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// TeamName pairs a team number with its display name.
type TeamName struct {
	Team int    `json:"team"`
	Name string `json:"name"`
}

// TeamLabel is the generic display name of a team.
func TeamLabel(team int) string {
	return fmt.Sprintf("Team %d", team)
}

// PlayerTeams groups players by team and names each team, ordered by team number.
// Players without a team are left out. Within a team, players keep the order they were given in,
// which decides ties between equally short nicknames.
func PlayerTeams[T Participant](players []T) []TeamName {
	groups := make(map[int][]T)
	for _, p := range players {
		team := p.TeamNumber()
		if team == NoTeam {
			continue
		}
		groups[team] = append(groups[team], p)
	}

	teams := make([]TeamName, 0, len(groups))
	for team, members := range groups {
		name := members[0].Nick()
		if len(members) > 1 {
			name = UnifiedTeamName(team, members)
		}
		teams = append(teams, TeamName{Team: team, Name: name})
	}

	slices.SortFunc(teams, func(a, b TeamName) int { return cmp.Compare(a.Team, b.Team) })
	return teams
}

// UnifiedTeamName names a team of several players.
// When every nickname starts with the shortest one (Domo, Domo2, Domo-Spec) the shortest nickname
// is used; otherwise the team gets its generic label.
func UnifiedTeamName[T Participant](team int, members []T) string {
	if len(members) == 0 {
		return TeamLabel(team)
	}

	shortest := members[0].Nick()
	for _, m := range members[1:] {
		if utf8.RuneCountInString(m.Nick()) < utf8.RuneCountInString(shortest) {
			shortest = m.Nick()
		}
	}

	for _, m := range members {
		if !strings.HasPrefix(m.Nick(), shortest) {
			return TeamLabel(team)
		}
	}
	return shortest
}
