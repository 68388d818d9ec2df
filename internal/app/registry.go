package app

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/soliskit/pinto/internal/core"
	"github.com/soliskit/pinto/internal/domain"
)

// Registry tracks every live session keyed by peer id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.PeerID]*Session
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.PeerID]*Session),
		now:      time.Now,
	}
}

// Register opens a session for id bound to conn. An entry that is still open
// under the same id is a duplicate; one that is already tearing down is replaced.
func (r *Registry) Register(id domain.PeerID, token domain.Token, conn core.PeerConn) (*Session, error) {
	if id.Blank() {
		return nil, domain.ErrMissingPeerID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.sessions[id]; ok && old.State() == core.StateOpen {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateID, id)
	}
	sess := NewSession(domain.NewPeer(id, token))
	if err := sess.Open(conn, r.now()); err != nil {
		return nil, err
	}
	r.sessions[id] = sess
	log.Info().Str("module", "app.registry").Str("peer", string(id)).Msg("registered peer")
	return sess, nil
}

func (r *Registry) Lookup(id domain.PeerID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Contains(id domain.PeerID) bool {
	_, ok := r.Lookup(id)
	return ok
}

// Remove deletes id and returns what was stored, or nil. Removing an absent id is a no-op.
func (r *Registry) Remove(id domain.PeerID) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil
	}
	delete(r.sessions, id)
	log.Info().Str("module", "app.registry").Str("peer", string(id)).Msg("removed peer")
	return s
}

// RemoveSession deletes the entry only if it still points at sess, so a
// late teardown cannot evict a newer session registered under the same id.
func (r *Registry) RemoveSession(sess *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sessions[sess.ID()]; !ok || cur != sess {
		return false
	}
	delete(r.sessions, sess.ID())
	log.Info().Str("module", "app.registry").Str("peer", string(sess.ID())).Msg("removed peer")
	return true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Enumerate returns the registered ids at call time, sorted.
func (r *Registry) Enumerate() []domain.PeerID {
	r.mu.RLock()
	ids := lo.Keys(r.sessions)
	r.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Sessions returns a snapshot of the registered sessions.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.sessions)
}
