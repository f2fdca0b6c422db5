package core

import (
	"github.com/rs/zerolog/log"

	"moviequiz/internal/domain"
)

// Identity reconciliation. Binding never fails loudly: unresolved or
// ambiguous binds are logged and dropped, because a missing participant must
// not crash the room. A successful bind joins the connection to the room's
// broadcast group and, once the roster is complete, fires the
// Lobby→ThemeSelection transition.

// BindPlayer resolves a player slot by display name. A matching connection
// id is a duplicate join and is ignored; a new connection id rebinds the
// slot (reload/reconnect) and preserves its score. A non-empty logical id
// that does not match the slot's current one is a foreign id and is ignored.
func (r *Room) BindPlayer(name string, id domain.LogicalID, conn domain.ConnID, emit Emitter) (domain.LogicalID, int, bool) {
	r.mu.Lock()

	slot := r.slotByNameLocked(name)
	if slot == nil {
		r.mu.Unlock()
		log.Warn().Str("module", "core.identity").Str("room", string(r.Code)).Str("name", name).Msg("no such player slot")
		return "", 0, false
	}

	if slot.Conn == conn {
		r.mu.Unlock()
		log.Debug().Str("module", "core.identity").Str("room", string(r.Code)).Str("name", name).Msg("duplicate player join")
		return "", 0, false
	}

	if id != "" && slot.Bound() && slot.ID != id {
		r.mu.Unlock()
		log.Warn().Str("module", "core.identity").Str("room", string(r.Code)).Str("name", name).Msg("foreign logical id, keeping existing binding")
		return "", 0, false
	}

	if id == "" {
		if slot.Bound() {
			id = slot.ID
		} else {
			id = domain.NewLogicalID()
		}
	}

	slot.ID = id
	slot.Conn = conn
	score := slot.Score
	log.Info().Str("module", "core.identity").Str("room", string(r.Code)).Str("name", name).Str("conn", string(conn)).Msg("player bound")

	r.mu.Unlock()

	emit.Join(r.Code, conn)
	r.checkRosterComplete(emit)
	return id, score, true
}

// BindHost binds or rebinds the host slot by logical id. A second
// independent host page (unknown id against a bound slot) must not silently
// replace the bound one.
func (r *Room) BindHost(id domain.LogicalID, conn domain.ConnID, emit Emitter) (domain.LogicalID, bool) {
	return r.bindRole("host", &r.host, id, conn, emit)
}

// BindGame binds or rebinds the game-display slot, same rules as BindHost.
func (r *Room) BindGame(id domain.LogicalID, conn domain.ConnID, emit Emitter) (domain.LogicalID, bool) {
	return r.bindRole("game", &r.game, id, conn, emit)
}

func (r *Room) bindRole(role string, p *domain.Participant, id domain.LogicalID, conn domain.ConnID, emit Emitter) (domain.LogicalID, bool) {
	r.mu.Lock()

	switch {
	case !p.Bound():
		if id == "" {
			id = domain.NewLogicalID()
		}
		p.ID = id
		p.Conn = conn
		log.Info().Str("module", "core.identity").Str("room", string(r.Code)).Str("role", role).Str("conn", string(conn)).Msg("role bound")

	case p.ID == id && p.Conn != conn:
		p.Conn = conn
		log.Info().Str("module", "core.identity").Str("room", string(r.Code)).Str("role", role).Str("conn", string(conn)).Msg("role rebound after reconnect")

	case p.ID == id:
		r.mu.Unlock()
		log.Debug().Str("module", "core.identity").Str("room", string(r.Code)).Str("role", role).Msg("duplicate role join")
		return "", false

	default:
		r.mu.Unlock()
		log.Warn().Str("module", "core.identity").Str("room", string(r.Code)).Str("role", role).Msg("role already bound to another id")
		return "", false
	}

	r.mu.Unlock()

	emit.Join(r.Code, conn)
	r.checkRosterComplete(emit)
	return id, true
}

// checkRosterComplete fires Lobby→ThemeSelection on whichever bind completes
// the roster and tells every page to move to the game screen.
func (r *Room) checkRosterComplete(emit Emitter) {
	r.mu.Lock()
	if r.state != StateLobby || !r.rosterCompleteLocked() {
		r.mu.Unlock()
		return
	}
	r.state = StateThemeSelection
	r.mu.Unlock()

	log.Info().Str("module", "core.room").Str("room", string(r.Code)).Msg("roster complete, entering theme selection")
	emit.ToRoom(r.Code, "", "game_page", string(r.Code))
}
