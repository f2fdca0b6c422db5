// Package signal is the realtime boundary: it upgrades websocket
// connections, decodes the type-tagged event envelope, validates payloads
// and routes legal events into the core state machine. It also implements
// the broadcast router the core emits through.
package signal

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"moviequiz/internal/catalog"
	"moviequiz/internal/config"
	"moviequiz/internal/core"
	"moviequiz/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Controller struct {
	cfg      *config.Config
	registry *core.Registry
	lister   catalog.Lister

	mu     sync.RWMutex
	conns  map[domain.ConnID]*WsConn
	groups map[domain.RoomCode]map[domain.ConnID]struct{}
}

func NewController(cfg *config.Config, registry *core.Registry, lister catalog.Lister) *Controller {
	return &Controller{
		cfg:      cfg,
		registry: registry,
		lister:   lister,
		conns:    make(map[domain.ConnID]*WsConn),
		groups:   make(map[domain.RoomCode]map[domain.ConnID]struct{}),
	}
}

// HandleSignal upgrades the request and runs the connection's pumps. Each
// connection gets a fresh id; logical identity arrives later in the join
// payloads.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	token := c.GetString("client_token")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.cfg.ReadLimit)
	}

	connID := domain.ConnID(uuid.NewString())
	conn := newWsConn(connID, ws)

	ctl.mu.Lock()
	ctl.conns[connID] = conn
	ctl.mu.Unlock()

	log.Info().Str("module", "signal").Str("conn", string(connID)).Str("ct", token).Msg("new WS connection")

	ctl.ToConn(connID, "home_page", string(connID))

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		ctl.writePump(ctx, conn)
	}()
	go ctl.readPump(ctx, conn)
}

// dropConn forgets a closed connection and removes it from every broadcast
// group. Room state is untouched: the participant may reconnect with the
// same logical id.
func (ctl *Controller) dropConn(id domain.ConnID) {
	ctl.mu.Lock()
	delete(ctl.conns, id)
	for code, members := range ctl.groups {
		delete(members, id)
		if len(members) == 0 {
			delete(ctl.groups, code)
		}
	}
	ctl.mu.Unlock()
	log.Info().Str("module", "signal").Str("conn", string(id)).Msg("connection dropped")
}

// room resolves a room code, logging and dropping events that reference an
// unknown or already-destroyed room.
func (ctl *Controller) room(code string) (*core.Room, bool) {
	room, ok := ctl.registry.Get(domain.RoomCode(code))
	if !ok {
		log.Warn().Str("module", "signal").Str("room", code).Msg("unknown room, event dropped")
	}
	return room, ok
}
