package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"moviequiz/internal/domain"
)

func roomWithScores(t *testing.T, scores ...int) (*Room, *fakeEmitter) {
	t.Helper()
	room := NewRoom("R1")
	emit := &fakeEmitter{}
	names := []string{"Черепашки", "Черепушки", "Черемушки"}
	for i, s := range scores {
		_, _, ok := room.BindPlayer(names[i], "", domain.ConnID(rosterConn(i)), emit)
		require.True(t, ok)
		room.AddPoints(names[i], s, "", emit)
	}
	return room, emit
}

func TestEndGame_TieNamesAllTopPlayers(t *testing.T) {
	req := require.New(t)
	room, emit := roomWithScores(t, 10, 10, 7)

	res, ended := room.EndGame(emit)
	req.True(ended)
	req.True(res.Tie)
	req.ElementsMatch([]string{"Черепашки", "Черепушки"}, res.Players)
	req.Equal(10, res.Score)
	req.Contains(emit.roomEvents(), "end_game_tie")
}

func TestEndGame_SingleWinnerDespiteLowerTie(t *testing.T) {
	req := require.New(t)
	room, emit := roomWithScores(t, 10, 7, 7)

	res, ended := room.EndGame(emit)
	req.True(ended)
	req.False(res.Tie)
	req.Equal([]string{"Черепашки"}, res.Players)
	req.Equal(10, res.Score)
	req.Contains(emit.roomEvents(), "end_game")
}

func TestEndGame_AllZeroIsThreeWayTie(t *testing.T) {
	req := require.New(t)
	room, emit := roomWithScores(t, 0, 0, 0)

	res, _ := room.EndGame(emit)
	req.True(res.Tie)
	req.Len(res.Players, 3)
	req.Zero(res.Score)
}

func TestAddPoints_UnknownNameIsNoop(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}

	room.AddPoints("Котики", 5, "", emit)
	req.Empty(emit.room)
	req.Empty(emit.conn)
}

func TestAddPoints_NegativeDeltaAllowed(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}
	_, _, ok := room.BindPlayer("Черепашки", "", "c1", emit)
	req.True(ok)

	room.AddPoints("Черепашки", 3, "", emit)
	room.AddPoints("Черепашки", -5, "", emit)

	score, ok := room.Score("Черепашки")
	req.True(ok)
	req.Equal(-2, score)
}

func TestAddPoints_EmitsRosterAndPlayerTotal(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}
	_, _, ok := room.BindPlayer("Черепашки", "", "c1", emit)
	req.True(ok)

	room.AddPoints("Черепашки", 5, "g1", emit)

	req.Contains(emit.roomEvents(), "all_points")

	var toTarget, toPlayer bool
	for _, e := range emit.conn {
		if e.Event == "all_points" && e.Conn == "g1" {
			toTarget = true
		}
		if e.Event == "your_points" && e.Conn == "c1" {
			toPlayer = true
			req.Equal(5, e.Payload)
		}
	}
	req.True(toTarget)
	req.True(toPlayer)
}

// Scenario from the original flow: join, earn points, reload with the same
// connection id.
func TestScenario_JoinPointsDuplicateJoin(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}

	id, _, ok := room.BindPlayer("Черепашки", "", "c1", emit)
	req.True(ok)

	room.AddPoints("Черепашки", 5, "g1", emit)
	score, _ := room.Score("Черепашки")
	req.Equal(5, score)

	yp, found := emit.connEvent("your_points")
	req.True(found)
	req.Equal(domain.ConnID("c1"), yp.Conn)
	req.Equal(5, yp.Payload)

	// Identical connection id again: no rebind, score untouched.
	_, _, ok = room.BindPlayer("Черепашки", id, "c1", emit)
	req.False(ok)
	score, _ = room.Score("Черепашки")
	req.Equal(5, score)
}
