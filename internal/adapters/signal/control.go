package signal

func (ctl *Controller) handlePing(c *WsConn) {
	ctl.ToConn(c.id, "pong", nil)
}
