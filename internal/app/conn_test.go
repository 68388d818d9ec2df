package app

import (
	"encoding/json"
	"sync"

	"github.com/soliskit/pinto/internal/core"
	"github.com/soliskit/pinto/internal/domain"
)

// recConn records every frame it is sent.
type recConn struct {
	id domain.PeerID

	mu     sync.Mutex
	frames []core.Frame
	closed bool
}

func newRecConn(id domain.PeerID) *recConn { return &recConn{id: id} }

func (c *recConn) ID() domain.PeerID { return c.id }

func (c *recConn) Send(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnClosed
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *recConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *recConn) Envelopes() []core.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Envelope, 0, len(c.frames))
	for _, f := range c.frames {
		var env core.Envelope
		_ = json.Unmarshal(f, &env)
		out = append(out, env)
	}
	return out
}

func (c *recConn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
