package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"moviequiz/internal/domain"
)

// Registry owns the set of live rooms. Single-process and in-memory: session
// state is ephemeral and lost on restart.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomCode]*Room
	grace time.Duration
}

// NewRegistry builds a registry whose rooms linger for grace after end_game,
// long enough for final-score broadcasts to land.
func NewRegistry(grace time.Duration) *Registry {
	return &Registry{
		rooms: make(map[domain.RoomCode]*Room),
		grace: grace,
	}
}

// Create allocates a room in Lobby with the fixed player roster. Creating a
// code that is already live is a logged no-op, not an error.
func (r *Registry) Create(code domain.RoomCode) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room, ok := r.rooms[code]; ok {
		log.Info().Str("module", "core.registry").Str("room", string(code)).Msg("session already exists")
		return room
	}

	room := NewRoom(code)
	r.rooms[code] = room
	log.Info().Str("module", "core.registry").Str("room", string(code)).Msg("session created")
	return room
}

// Get looks a room up. Events may race ahead of session creation across
// independent connections, so callers treat a miss as a silent no-op.
func (r *Registry) Get(code domain.RoomCode) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[code]
	return room, ok
}

// Destroy removes the room and its catalog cache immediately.
func (r *Registry) Destroy(code domain.RoomCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[code]; !ok {
		return
	}
	delete(r.rooms, code)
	log.Info().Str("module", "core.registry").Str("room", string(code)).Msg("session destroyed")
}

// DestroyAfterGrace schedules removal once the grace delay elapses.
func (r *Registry) DestroyAfterGrace(code domain.RoomCode) {
	time.AfterFunc(r.grace, func() {
		r.Destroy(code)
	})
}

// Len reports the number of live rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
