package signal

import (
	"github.com/rs/zerolog/log"

	"moviequiz/internal/core"
	"moviequiz/internal/domain"
)

func (ctl *Controller) handleCreateSession(c *WsConn, data []byte) {
	var p roomPayload
	if !decode(data, &p) {
		return
	}
	ctl.registry.Create(domain.RoomCode(p.Room))
}

func (ctl *Controller) handlePlayerJoin(c *WsConn, data []byte) {
	var p playerJoinPayload
	if !decode(data, &p) {
		return
	}
	room, ok := ctl.room(p.Room)
	if !ok {
		return
	}

	id, score, ok := room.BindPlayer(p.Name, domain.LogicalID(p.PlayerID), c.id, ctl)
	if !ok {
		return
	}

	ctl.ToConn(c.id, "player_joined", string(id))
	ctl.ToRoom(room.Code, "", "check_player", room.Roster())
	ctl.ToConn(c.id, "your_points", score)
}

func (ctl *Controller) handleHostJoin(c *WsConn, data []byte) {
	var p roleJoinPayload
	if !decode(data, &p) {
		return
	}
	room, ok := ctl.room(p.Room)
	if !ok {
		return
	}

	id, ok := room.BindHost(domain.LogicalID(p.ID), c.id, ctl)
	if !ok {
		return
	}

	ctl.ToConn(c.id, "host_joined", string(id))
	ctl.sendRoomState(c.id, room)
}

func (ctl *Controller) handleGameJoin(c *WsConn, data []byte) {
	var p roleJoinPayload
	if !decode(data, &p) {
		return
	}
	room, ok := ctl.room(p.Room)
	if !ok {
		return
	}

	id, ok := room.BindGame(domain.LogicalID(p.ID), c.id, ctl)
	if !ok {
		return
	}

	ctl.ToConn(c.id, "game_joined", string(id))
	ctl.sendRoomState(c.id, room)

	// The host drives the game display, so it needs the display's id.
	if hostConn, bound := room.HostConn(); bound {
		ctl.ToConn(hostConn, "send_game_page_id", string(id))
	} else {
		log.Debug().Str("module", "signal").Str("room", p.Room).Msg("game display joined before host")
	}
}

// sendRoomState brings a freshly bound host/game connection up to date with
// the roster and, once fetched, the theme catalog.
func (ctl *Controller) sendRoomState(conn domain.ConnID, room *core.Room) {
	ctl.ToConn(conn, "check_player", room.Roster())
	if themes, cached := room.Themes(); cached {
		ctl.ToConn(conn, "all_themes", themes)
	}
}
