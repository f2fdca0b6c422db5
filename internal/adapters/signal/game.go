package signal

import (
	"moviequiz/internal/domain"
)

func (ctl *Controller) handleStartGame(c *WsConn, data []byte) {
	var p roomPayload
	if !decode(data, &p) {
		return
	}
	if room, ok := ctl.room(p.Room); ok {
		room.StartGame(c.id, ctl)
	}
}

func (ctl *Controller) handleStartRound(c *WsConn, data []byte) {
	var p roomPayload
	if !decode(data, &p) {
		return
	}
	if room, ok := ctl.room(p.Room); ok {
		room.StartRound(c.id, ctl)
	}
}

func (ctl *Controller) handleRoundEnd(c *WsConn, data []byte) {
	var p roomPayload
	if !decode(data, &p) {
		return
	}
	if room, ok := ctl.room(p.Room); ok {
		room.EndRound(c.id, ctl)
	}
}

func (ctl *Controller) handlePlayerAnswer(c *WsConn, data []byte) {
	var p answerPayload
	if !decode(data, &p) {
		return
	}
	if room, ok := ctl.room(p.Room); ok {
		room.PlayerAnswer(p.Name, c.id, ctl)
	}
}

func (ctl *Controller) handleAnswerYes(c *WsConn, data []byte) {
	var p roomPayload
	if !decode(data, &p) {
		return
	}
	if room, ok := ctl.room(p.Room); ok {
		room.AnswerYes(c.id, ctl)
	}
}

func (ctl *Controller) handleAnswerNo(c *WsConn, data []byte) {
	var p roomPayload
	if !decode(data, &p) {
		return
	}
	if room, ok := ctl.room(p.Room); ok {
		room.AnswerNo(c.id, ctl)
	}
}

func (ctl *Controller) handleSendPoints(c *WsConn, data []byte) {
	var p pointsPayload
	if !decode(data, &p) {
		return
	}
	if room, ok := ctl.room(p.Room); ok {
		room.AddPoints(p.Name, p.Points, domain.ConnID(p.Target), ctl)
	}
}

func (ctl *Controller) handleEndGame(c *WsConn, data []byte) {
	var p roomPayload
	if !decode(data, &p) {
		return
	}
	room, ok := ctl.room(p.Room)
	if !ok {
		return
	}
	if _, ended := room.EndGame(ctl); ended {
		ctl.registry.DestroyAfterGrace(room.Code)
	}
}
