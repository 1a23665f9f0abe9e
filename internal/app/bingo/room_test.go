package bingo

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomJoinGetLeave(t *testing.T) {
	r := NewRoom[player]("elden")
	p := newPlayer("Domo", 1)

	r.AddUser(p)
	got, ok := r.GetUser(p.id)
	require.True(t, ok)
	assert.Equal(t, p, got)

	removed, ok := r.RemoveUserByID(p.id)
	require.True(t, ok)
	assert.Equal(t, p, removed)

	_, ok = r.GetUser(p.id)
	assert.False(t, ok)

	_, ok = r.RemoveUserByID(p.id)
	assert.False(t, ok)
	assert.False(t, r.RemoveUser(p))
}

func TestRoomAddUserOverwrites(t *testing.T) {
	r := NewRoom[player]("elden")
	p := newPlayer("Domo", 1)
	r.AddUser(p)

	p.nick = "Domo2"
	r.AddUser(p)

	assert.Equal(t, 1, r.NumUsers())
	got, _ := r.GetUser(p.id)
	assert.Equal(t, "Domo2", got.nick)
}

func TestRoomAlwaysHasMatch(t *testing.T) {
	r := NewRoom[player]("elden")
	first := r.Match()
	require.NotNil(t, first)

	next := r.NewMatch(MatchSettings{RandomSeed: 5}, nil)
	assert.Same(t, next, r.Match())
	assert.NotEqual(t, first.ID, next.ID)
}

func TestRoomReplaceMatch(t *testing.T) {
	r := NewRoom[player]("elden")
	r.AddUser(newPlayer("Red", 0))
	old := r.Match()
	require.True(t, old.ClaimSquare(6, 0))

	previous, final, next := r.ReplaceMatch(MatchSettings{RandomSeed: 9}, nil)
	assert.Same(t, old, previous)
	assert.Same(t, next, r.Match())

	// Later writes to the replaced match do not reach the final board.
	require.True(t, previous.ClaimSquare(7, 0))
	assert.Equal(t, 1, r.ProgressOn(final.Owners())[0].Squares)
	assert.Equal(t, OwnedBy(0), final.Squares[6].Owner)
	assert.False(t, final.Squares[7].Owner.Valid)
}

func TestRoomClientsSorted(t *testing.T) {
	r := NewRoom[player]("elden")
	spectator := newPlayer("aaa", NoTeam)
	blueB := newPlayer("bob", 1)
	blueA := newPlayer("Alice", 1)
	red := newPlayer("Zed", 0)
	for _, p := range []player{spectator, blueB, blueA, red} {
		r.AddUser(p)
	}

	assert.Equal(t, []player{red, blueA, blueB, spectator}, r.ClientsSorted())
}

func TestRoomClientsSortedSameNickname(t *testing.T) {
	r := NewRoom[player]("elden")
	a := player{id: uuid.MustParse("00000000-0000-0000-0000-000000000001"), nick: "Domo", team: 1}
	b := player{id: uuid.MustParse("00000000-0000-0000-0000-000000000002"), nick: "Domo", team: 1}
	r.AddUser(b)
	r.AddUser(a)

	assert.Equal(t, []player{a, b}, r.ClientsSorted())
}

func TestRoomPlayerTeams(t *testing.T) {
	r := NewRoom[player]("elden")
	r.AddUser(newPlayer("Domo", 1))
	r.AddUser(newPlayer("Domo2", 1))
	r.AddUser(newPlayer("Solo", 3))
	r.AddUser(newPlayer("Watcher", NoTeam))

	assert.Equal(t, []TeamName{{Team: 1, Name: "Domo"}, {Team: 3, Name: "Solo"}}, r.PlayerTeams())
}

func TestRoomCheckedSquaresPerTeamEmptyBoard(t *testing.T) {
	r := NewRoom[player]("elden")
	r.AddUser(newPlayer("Ann", 2))
	r.AddUser(newPlayer("Solo", 3))

	assert.Equal(t, []CheckPerTeam{
		{Team: 2, Name: "Ann"},
		{Team: 3, Name: "Solo"},
	}, r.CheckedSquaresPerTeam())
}

func TestRoomCheckedSquaresPerTeam(t *testing.T) {
	r := NewRoom[player]("elden")
	r.AddUser(newPlayer("Red", 0))
	r.AddUser(newPlayer("Blue", 1))

	m := r.Match()
	for _, pos := range []int{0, 1, 2, 3, 4, 12} {
		require.True(t, m.ClaimSquare(pos, 0))
	}
	require.True(t, m.ClaimSquare(24, 1))
	// Team 5 has no connected player, so it gets no row.
	require.True(t, m.ClaimSquare(20, 5))

	assert.Equal(t, []CheckPerTeam{
		{Team: 0, Name: "Red", Squares: 6, Bingos: 1},
		{Team: 1, Name: "Blue", Squares: 1},
	}, r.CheckedSquaresPerTeam())
}

func TestRoomCheckedSquaresPerTeamOddBoard(t *testing.T) {
	r := NewRoom[player]("elden")
	r.AddUser(newPlayer("Red", 0))
	m := r.NewMatch(MatchSettings{}, []string{"a", "b", "c", "d", "e"})
	for pos := range 5 {
		require.True(t, m.ClaimSquare(pos, 0))
	}

	assert.Equal(t, []CheckPerTeam{{Team: 0, Name: "Red", Squares: 5}}, r.CheckedSquaresPerTeam())
}

func TestRoomCheckedSquaresPerTeamNoUsers(t *testing.T) {
	r := NewRoom[player]("elden")

	assert.Empty(t, r.CheckedSquaresPerTeam())
}

func TestRoomConcurrentJoinLeave(t *testing.T) {
	r := NewRoom[player]("elden")

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := newPlayer("p", i%4)
			r.AddUser(p)
			_ = r.CheckedSquaresPerTeam()
			if i%2 == 1 {
				r.RemoveUser(p)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 32, r.NumUsers())
}
