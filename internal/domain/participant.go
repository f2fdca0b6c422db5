// Package domain contains entities without transport logic, just game meta-data.
package domain

import (
	"github.com/google/uuid"
)

const (
	MaxRoomCodeLen = 36
	MaxNameLen     = 36

	// PlayerSlots is the fixed roster size of a room.
	PlayerSlots = 3
)

type (
	// RoomCode addresses one game session. Caller-chosen, unique while live.
	RoomCode string

	// LogicalID is the stable identity of a participant. It survives reconnects.
	LogicalID string

	// ConnID is the volatile transport address of a participant's current
	// connection. A new one is minted on every reconnect.
	ConnID string
)

// NewLogicalID mints a fresh stable participant id.
func NewLogicalID() LogicalID {
	return LogicalID(uuid.NewString())
}

// Participant is a bound host or game-display slot. The zero value is the
// unbound state.
type Participant struct {
	ID   LogicalID
	Conn ConnID
}

func (p Participant) Bound() bool {
	return p.ID != ""
}

// PlayerSlot is one of the three fixed player seats of a room. Slots exist
// from room creation; a join binds an identity to one of them.
type PlayerSlot struct {
	Name   string
	Emblem string
	ID     LogicalID
	Conn   ConnID
	Score  int
}

func (s *PlayerSlot) Bound() bool {
	return s.ID != ""
}

// DefaultSlots returns the fixed roster every room starts with. Players
// self-select one of these names on join rather than being assigned one.
func DefaultSlots() []*PlayerSlot {
	return []*PlayerSlot{
		{Name: "Черепашки", Emblem: "🐢"},
		{Name: "Черепушки", Emblem: "💀"},
		{Name: "Черемушки", Emblem: "🌸"},
	}
}
