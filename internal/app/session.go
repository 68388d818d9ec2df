package app

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soliskit/pinto/internal/core"
	"github.com/soliskit/pinto/internal/domain"
)

// Session is the live half of a peer: its transport handle and lifecycle state.
// The handle is non-nil only while the state is open.
type Session struct {
	peer        *domain.Peer
	connectedAt time.Time

	mu     sync.RWMutex
	state  core.ConnectionState
	conn   core.PeerConn
	reason domain.DisconnectReason

	lastHeartbeat atomic.Int64 // unix nanos
}

func NewSession(peer *domain.Peer) *Session {
	return &Session{peer: peer, state: core.StateConnecting}
}

func (s *Session) ID() domain.PeerID      { return s.peer.ID }
func (s *Session) Token() domain.Token    { return s.peer.Token }
func (s *Session) Peer() domain.Peer      { return *s.peer }
func (s *Session) ConnectedAt() time.Time { return s.connectedAt }

func (s *Session) State() core.ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Reason() domain.DisconnectReason {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reason
}

// Open moves connecting -> open and attaches the transport handle.
func (s *Session) Open(conn core.PeerConn, now time.Time) error {
	if conn == nil {
		return fmt.Errorf("open %s: nil connection", s.peer.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != core.StateConnecting {
		return fmt.Errorf("open %s: invalid transition from %s", s.peer.ID, s.state)
	}
	s.state = core.StateOpen
	s.conn = conn
	s.connectedAt = now
	s.lastHeartbeat.Store(now.UnixNano())
	return nil
}

// BeginClose moves open -> disconnecting, records the reason and detaches the
// handle so the caller can close it. Only the first caller gets ok == true.
func (s *Session) BeginClose(reason domain.DisconnectReason) (core.PeerConn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != core.StateOpen {
		return nil, false
	}
	if reason == "" {
		reason = domain.ReasonUnknown
	}
	conn := s.conn
	s.state = core.StateDisconnecting
	s.conn = nil
	s.reason = reason
	return conn, true
}

// Finish moves disconnecting -> closed.
func (s *Session) Finish() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != core.StateDisconnecting {
		return false
	}
	s.state = core.StateClosed
	return true
}

// Send writes a frame to the transport if the session is open.
func (s *Session) Send(f core.Frame) error {
	s.mu.RLock()
	conn, state := s.conn, s.state
	s.mu.RUnlock()
	if state != core.StateOpen || conn == nil {
		return core.ErrConnClosed
	}
	return conn.Send(f)
}

func (s *Session) Touch(now time.Time) {
	s.lastHeartbeat.Store(now.UnixNano())
}

func (s *Session) LastHeartbeat() time.Time {
	return time.Unix(0, s.lastHeartbeat.Load())
}

// Stale reports whether no heartbeat arrived within timeout before now.
func (s *Session) Stale(now time.Time, timeout time.Duration) bool {
	if timeout <= 0 {
		return false
	}
	return now.Sub(s.LastHeartbeat()) > timeout
}
