package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) writePump(ctx context.Context, c *WsConn) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, c *WsConn) {
	defer func() {
		ctl.dropConn(c.id)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("readPump closing")
				return
			}
			ctl.handleEvent(ctx, c, data)
		}
	}
}

// handleEvent dispatches on the envelope's type tag. One malformed event
// must not take down the shared process, so anything undecodable is logged
// and dropped.
func (ctl *Controller) handleEvent(ctx context.Context, c *WsConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case "create_session":
		ctl.handleCreateSession(c, data)
	case "player_join_room":
		ctl.handlePlayerJoin(c, data)
	case "host_join_room":
		ctl.handleHostJoin(c, data)
	case "game_join_room":
		ctl.handleGameJoin(c, data)
	case "start_game":
		ctl.handleStartGame(c, data)
	case "start_round":
		ctl.handleStartRound(c, data)
	case "round_end":
		ctl.handleRoundEnd(c, data)
	case "player_answer":
		ctl.handlePlayerAnswer(c, data)
	case "answer_yes":
		ctl.handleAnswerYes(c, data)
	case "answer_no":
		ctl.handleAnswerNo(c, data)
	case "send_points", "player_points", "get_points":
		ctl.handleSendPoints(c, data)
	case "get_themes":
		ctl.handleGetThemes(ctx, c, data)
	case "get_frames":
		ctl.handleGetFrames(ctx, c, data)
	case "change_frame":
		ctl.handleChangeFrame(c, data)
	case "end_game":
		ctl.handleEndGame(c, data)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}
