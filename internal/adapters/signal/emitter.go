package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"moviequiz/internal/domain"
)

// Broadcast router. Within one room, events go out in the order the state
// machine emitted them; no ordering holds across rooms, and nothing is
// retried.

type outEnvelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Join adds a connection to a room's broadcast group. Called by the core on
// every successful bind.
func (ctl *Controller) Join(code domain.RoomCode, conn domain.ConnID) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	members, ok := ctl.groups[code]
	if !ok {
		members = make(map[domain.ConnID]struct{})
		ctl.groups[code] = members
	}
	members[conn] = struct{}{}
}

// ToRoom delivers an event to every connection in the room's group, skipping
// except when non-empty (sender-excluded broadcasts).
func (ctl *Controller) ToRoom(code domain.RoomCode, except domain.ConnID, event string, payload any) {
	data, ok := marshal(event, payload)
	if !ok {
		return
	}

	ctl.mu.RLock()
	targets := make([]*WsConn, 0, len(ctl.groups[code]))
	for id := range ctl.groups[code] {
		if id == except {
			continue
		}
		if conn, ok := ctl.conns[id]; ok {
			targets = append(targets, conn)
		}
	}
	ctl.mu.RUnlock()

	for _, conn := range targets {
		if err := conn.TrySend(data); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("conn", string(conn.id)).Str("event", event).Msg("room send dropped")
		}
	}
}

// ToConn delivers an event to one connection, used for your_points and
// host/game hand-offs.
func (ctl *Controller) ToConn(id domain.ConnID, event string, payload any) {
	data, ok := marshal(event, payload)
	if !ok {
		return
	}

	ctl.mu.RLock()
	conn, found := ctl.conns[id]
	ctl.mu.RUnlock()
	if !found {
		log.Debug().Str("module", "signal").Str("conn", string(id)).Str("event", event).Msg("target connection gone")
		return
	}

	if err := conn.TrySend(data); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Str("event", event).Msg("send dropped")
	}
}

func marshal(event string, payload any) ([]byte, bool) {
	data, err := json.Marshal(outEnvelope{Type: event, Data: payload})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("event", event).Msg("marshal")
		return nil, false
	}
	return data, true
}
