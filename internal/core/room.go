// Package core owns the live session state: the registry of rooms, the
// per-room game state machine, identity binding and the scoring ledger.
package core

import (
	"sync"

	"github.com/samber/lo"

	"moviequiz/internal/domain"
)

// State is the lifecycle phase of a room.
type State int

const (
	StateLobby State = iota
	StateThemeSelection
	StateRoundActive
	StateRoundResolved
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateLobby:
		return "lobby"
	case StateThemeSelection:
		return "theme_selection"
	case StateRoundActive:
		return "round_active"
	case StateRoundResolved:
		return "round_resolved"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

// Emitter is the broadcast router the state machine talks to. ToRoom fans an
// event out to every connection joined to the room's group, skipping except
// when non-empty. Join adds a connection to that group.
type Emitter interface {
	Join(code domain.RoomCode, conn domain.ConnID)
	ToRoom(code domain.RoomCode, except domain.ConnID, event string, payload any)
	ToConn(conn domain.ConnID, event string, payload any)
}

// Room is the aggregate for one session. All mutation goes through its
// methods, which emulate the event-loop model with a single mutex: one
// inbound event is handled to completion before the next one for the same
// room observes state.
type Room struct {
	Code domain.RoomCode

	mu          sync.Mutex
	state       State
	host        domain.Participant
	game        domain.Participant
	players     []*domain.PlayerSlot
	catalog     domain.ThemeCatalog // nil until the first successful fetch
	activeTheme string
	activeMovie string
	roundActive bool
	answering   string // slot name of the answering player, "" when nobody holds the floor
}

func NewRoom(code domain.RoomCode) *Room {
	return &Room{
		Code:    code,
		state:   StateLobby,
		players: domain.DefaultSlots(),
	}
}

func (r *Room) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Room) RoundActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roundActive
}

// Answering reports the slot name currently holding the answer floor.
func (r *Room) Answering() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.answering, r.answering != ""
}

func (r *Room) HostConn() (domain.ConnID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.host.Conn, r.host.Bound()
}

// Themes returns a snapshot of the cached catalog, if one was fetched
// already. Callers marshal the result outside the room lock, so it must not
// alias the live movie slices that answer_yes mutates.
func (r *Room) Themes() (domain.ThemeCatalog, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.catalog == nil {
		return nil, false
	}
	out := make(domain.ThemeCatalog, len(r.catalog))
	for theme, movies := range r.catalog {
		out[theme] = append([]domain.Movie(nil), movies...)
	}
	return out, true
}

// SetThemes installs the fetched catalog. First write wins, so a slow fetch
// racing a cache hit cannot clobber guess marks already recorded.
func (r *Room) SetThemes(tc domain.ThemeCatalog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.catalog == nil {
		r.catalog = tc
	}
}

// SelectMovie records the movie the host picked for the next round. Picks
// are only meaningful once the roster is complete, so anything outside
// ThemeSelection/RoundActive is ignored.
func (r *Room) SelectMovie(theme, movie string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateThemeSelection && r.state != StateRoundActive {
		return
	}
	r.activeTheme = theme
	r.activeMovie = movie
}

// ActiveMovie returns the current theme/movie selection.
func (r *Room) ActiveMovie() (theme, movie string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeTheme, r.activeMovie
}

// RosterEntry is the wire projection of a player slot, used by all_points
// and check_player payloads.
type RosterEntry struct {
	Name   string `json:"name"`
	Emblem string `json:"emblem"`
	Score  int    `json:"points"`
}

func (r *Room) rosterLocked() []RosterEntry {
	return lo.Map(r.players, func(s *domain.PlayerSlot, _ int) RosterEntry {
		return RosterEntry{Name: s.Name, Emblem: s.Emblem, Score: s.Score}
	})
}

// Roster returns the current player list projection.
func (r *Room) Roster() []RosterEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rosterLocked()
}

func (r *Room) slotByNameLocked(name string) *domain.PlayerSlot {
	slot, _ := lo.Find(r.players, func(s *domain.PlayerSlot) bool {
		return s.Name == name
	})
	return slot
}

func (r *Room) rosterCompleteLocked() bool {
	if !r.host.Bound() || !r.game.Bound() {
		return false
	}
	return lo.EveryBy(r.players, func(s *domain.PlayerSlot) bool {
		return s.Bound()
	})
}
