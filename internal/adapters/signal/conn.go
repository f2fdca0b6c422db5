package signal

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"moviequiz/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// WsConn wraps one websocket connection. Its id is the volatile transport
// address: a page reload produces a new WsConn with a new id, while the
// participant's logical id stays the same.
type WsConn struct {
	id   domain.ConnID
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func newWsConn(id domain.ConnID, ws *websocket.Conn) *WsConn {
	return &WsConn{
		id:   id,
		conn: ws,
		send: make(chan []byte, 32),
	}
}

func (c *WsConn) ID() domain.ConnID {
	return c.id
}

// TrySend enqueues a frame without blocking. A full buffer means the client
// is not draining; the frame is dropped rather than stalling the room.
func (c *WsConn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}
