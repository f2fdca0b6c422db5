package core

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"moviequiz/internal/domain"
)

type sentEvent struct {
	Room    domain.RoomCode
	Conn    domain.ConnID
	Except  domain.ConnID
	Event   string
	Payload any
}

// fakeEmitter records what the state machine broadcast, in emission order.
type fakeEmitter struct {
	joins []domain.ConnID
	room  []sentEvent
	conn  []sentEvent
}

func (f *fakeEmitter) Join(code domain.RoomCode, conn domain.ConnID) {
	f.joins = append(f.joins, conn)
}

func (f *fakeEmitter) ToRoom(code domain.RoomCode, except domain.ConnID, event string, payload any) {
	f.room = append(f.room, sentEvent{Room: code, Except: except, Event: event, Payload: payload})
}

func (f *fakeEmitter) ToConn(conn domain.ConnID, event string, payload any) {
	f.conn = append(f.conn, sentEvent{Conn: conn, Event: event, Payload: payload})
}

func (f *fakeEmitter) roomEvents() []string {
	out := make([]string, 0, len(f.room))
	for _, e := range f.room {
		out = append(out, e.Event)
	}
	return out
}

func (f *fakeEmitter) connEvent(name string) (sentEvent, bool) {
	for _, e := range f.conn {
		if e.Event == name {
			return e, true
		}
	}
	return sentEvent{}, false
}

// bindAll fills the whole roster: host, game display and the three players.
func bindAll(t *testing.T, room *Room, emit Emitter) {
	t.Helper()
	req := require.New(t)

	_, ok := room.BindHost("", "host-conn", emit)
	req.True(ok)
	_, ok = room.BindGame("", "game-conn", emit)
	req.True(ok)

	for i, name := range []string{"Черепашки", "Черепушки", "Черемушки"} {
		_, _, ok := room.BindPlayer(name, "", domain.ConnID(rosterConn(i)), emit)
		req.True(ok)
	}
}

func rosterConn(i int) string {
	return []string{"conn-a", "conn-b", "conn-c"}[i]
}

func testCatalog() domain.ThemeCatalog {
	return domain.ThemeCatalog{
		"Sci-Fi": {
			{Index: 0, Name: "Interstellar"},
			{Index: 1, Name: "Blade Runner 2049"},
		},
	}
}

func TestNewRoom_StartsInLobbyWithFixedRoster(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")

	req.Equal(StateLobby, room.State())
	roster := room.Roster()
	req.Len(roster, domain.PlayerSlots)
	req.Equal("Черепашки", roster[0].Name)
	req.Zero(roster[0].Score)
}

func TestRosterComplete_EntersThemeSelection(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}

	bindAll(t, room, emit)

	req.Equal(StateThemeSelection, room.State())
	req.Contains(emit.roomEvents(), "game_page")
}

func TestRosterIncomplete_StaysInLobby(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}

	_, ok := room.BindHost("", "host-conn", emit)
	req.True(ok)
	_, _, ok = room.BindPlayer("Черепашки", "", "conn-a", emit)
	req.True(ok)

	req.Equal(StateLobby, room.State())
	req.NotContains(emit.roomEvents(), "game_page")
}

func TestStartRound_RequiresSelectedMovie(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}
	bindAll(t, room, emit)

	room.StartRound("host-conn", emit)
	req.Equal(StateThemeSelection, room.State())
	req.False(room.RoundActive())

	room.SetThemes(testCatalog())
	room.SelectMovie("Sci-Fi", "Interstellar")
	room.StartRound("host-conn", emit)

	req.Equal(StateRoundActive, room.State())
	req.True(room.RoundActive())
	req.Contains(emit.roomEvents(), "start_round")
}

func TestPlayerAnswer_SingleFloor(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}
	bindAll(t, room, emit)
	room.SetThemes(testCatalog())
	room.SelectMovie("Sci-Fi", "Interstellar")
	room.StartRound("host-conn", emit)

	room.PlayerAnswer("Черепашки", "conn-a", emit)
	name, answering := room.Answering()
	req.True(answering)
	req.Equal("Черепашки", name)

	// Second claim while the floor is held is ignored.
	room.PlayerAnswer("Черепушки", "conn-b", emit)
	name, _ = room.Answering()
	req.Equal("Черепашки", name)
}

func TestPlayerAnswer_IgnoredOutsideRound(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}
	bindAll(t, room, emit)

	room.PlayerAnswer("Черепашки", "conn-a", emit)
	_, answering := room.Answering()
	req.False(answering)
}

func TestAnswerYes_RequiresAnsweringPlayer(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}
	bindAll(t, room, emit)
	room.SetThemes(testCatalog())
	room.SelectMovie("Sci-Fi", "Interstellar")
	room.StartRound("host-conn", emit)

	room.AnswerYes("host-conn", emit)
	req.NotContains(emit.roomEvents(), "answer_yes")
	req.True(room.RoundActive())
}

func TestAnswerYes_ResolvesRound(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}
	bindAll(t, room, emit)
	room.SetThemes(testCatalog())
	room.SelectMovie("Sci-Fi", "Interstellar")
	room.StartRound("host-conn", emit)
	room.PlayerAnswer("Черепашки", "conn-a", emit)

	room.AnswerYes("host-conn", emit)

	_, answering := room.Answering()
	req.False(answering)
	req.False(room.RoundActive())
	req.Equal(StateThemeSelection, room.State())

	score, ok := room.Score("Черепашки")
	req.True(ok)
	req.Equal(1, score)

	themes, _ := room.Themes()
	req.True(themes["Sci-Fi"][0].Guessed)
	req.Equal("🐢", themes["Sci-Fi"][0].GuessedBy)

	req.Contains(emit.roomEvents(), "answer_yes")
	req.Contains(emit.roomEvents(), "all_points")
	yp, found := emit.connEvent("your_points")
	req.True(found)
	req.Equal(domain.ConnID("conn-a"), yp.Conn)
	req.Equal(1, yp.Payload)
}

func TestAnswerNo_ClearsFloorAndKeepsRound(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}
	bindAll(t, room, emit)
	room.SetThemes(testCatalog())
	room.SelectMovie("Sci-Fi", "Interstellar")
	room.StartRound("host-conn", emit)
	room.PlayerAnswer("Черепашки", "conn-a", emit)

	room.AnswerNo("host-conn", emit)

	_, answering := room.Answering()
	req.False(answering)
	req.True(room.RoundActive())
	req.Equal(StateRoundActive, room.State())

	// The floor is free again for anyone, the same player included.
	room.PlayerAnswer("Черепашки", "conn-a", emit)
	name, _ := room.Answering()
	req.Equal("Черепашки", name)
}

func TestEndRound_ReturnsToThemeSelection(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}
	bindAll(t, room, emit)
	room.SetThemes(testCatalog())
	room.SelectMovie("Sci-Fi", "Interstellar")
	room.StartRound("host-conn", emit)
	room.PlayerAnswer("Черепашки", "conn-a", emit)

	room.EndRound("host-conn", emit)

	req.Equal(StateThemeSelection, room.State())
	req.False(room.RoundActive())
	_, answering := room.Answering()
	req.False(answering)
}

func TestThemes_SnapshotIndependentOfGuessMutation(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}
	bindAll(t, room, emit)
	room.SetThemes(testCatalog())

	// Marshalling a catalog snapshot must stay safe while answer_yes
	// mutates guess marks on the live catalog concurrently.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			themes, ok := room.Themes()
			require.True(t, ok)
			_, err := json.Marshal(themes)
			require.NoError(t, err)
		}
	}()

	for _, movie := range []string{"Interstellar", "Blade Runner 2049"} {
		room.SelectMovie("Sci-Fi", movie)
		room.StartRound("host-conn", emit)
		room.PlayerAnswer("Черепашки", "conn-a", emit)
		room.AnswerYes("host-conn", emit)
	}
	wg.Wait()

	// The snapshot is a copy: writing to it must not reach the room.
	themes, _ := room.Themes()
	req.True(themes["Sci-Fi"][0].Guessed)
	themes["Sci-Fi"][0].Guessed = false
	themes["Sci-Fi"][0].GuessedBy = ""

	again, _ := room.Themes()
	req.True(again["Sci-Fi"][0].Guessed)
	req.Equal("🐢", again["Sci-Fi"][0].GuessedBy)
}

func TestSelectMovie_IgnoredInLobby(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}
	room.SetThemes(testCatalog())

	// A frame request racing ahead of roster completion must not arm the
	// round.
	room.SelectMovie("Sci-Fi", "Interstellar")
	theme, movie := room.ActiveMovie()
	req.Empty(theme)
	req.Empty(movie)

	bindAll(t, room, emit)
	room.StartRound("host-conn", emit)
	req.Equal(StateThemeSelection, room.State())
	req.False(room.RoundActive())

	// Once the roster is complete the pick is accepted.
	room.SelectMovie("Sci-Fi", "Interstellar")
	room.StartRound("host-conn", emit)
	req.Equal(StateRoundActive, room.State())
}

func TestEndGame_TransitionsOnce(t *testing.T) {
	req := require.New(t)
	room := NewRoom("R1")
	emit := &fakeEmitter{}
	bindAll(t, room, emit)

	_, ended := room.EndGame(emit)
	req.True(ended)
	req.Equal(StateEnded, room.State())

	_, ended = room.EndGame(emit)
	req.False(ended)

	// Everything after Ended is ignored.
	room.StartRound("host-conn", emit)
	req.Equal(StateEnded, room.State())
}
