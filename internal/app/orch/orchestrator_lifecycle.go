package orch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/soliskit/pinto/internal/app"
	"github.com/soliskit/pinto/internal/core"
	"github.com/soliskit/pinto/internal/domain"
)

// Hello is what a transport knows about a peer when its connection opens.
type Hello struct {
	ID    domain.PeerID
	Token domain.Token
}

// Binder builds the transport handle for an accepted id. It must not start
// any I/O: the handle is discarded if registration fails.
type Binder func(id domain.PeerID) core.PeerConn

// Connect takes a peer from connecting to open. A client-supplied id is
// validated and must be free; otherwise an id is issued, and a registration
// race on it is resolved by issuing another.
func (o *Orchestrator) Connect(h Hello, bind Binder) (*app.Session, error) {
	if h.ID != "" {
		if err := domain.ValidatePeerID(h.ID); err != nil {
			return nil, err
		}
		return o.Registry.Register(h.ID, h.Token, bind(h.ID))
	}

	for attempt := 0; attempt < o.Issuer.MaxAttempts(); attempt++ {
		id, err := o.Issuer.Issue()
		if err != nil {
			return nil, err
		}
		sess, err := o.Registry.Register(id, h.Token, bind(id))
		if errors.Is(err, domain.ErrDuplicateID) {
			log.Debug().Str("module", "orch").Str("peer", string(id)).Msg("issued id taken before register, reissuing")
			continue
		}
		return sess, err
	}
	return nil, fmt.Errorf("%w: registration kept colliding", domain.ErrIdentityExhausted)
}

// Disconnect tears a peer down: open -> disconnecting -> closed.
// Calling it again for the same peer is a no-op.
func (o *Orchestrator) Disconnect(id domain.PeerID, reason domain.DisconnectReason) bool {
	sess, ok := o.Registry.Lookup(id)
	if !ok {
		return false
	}
	return o.teardown(sess, reason)
}

// DisconnectSession tears down sess only. A newer session registered under
// the same id is left alone.
func (o *Orchestrator) DisconnectSession(sess *app.Session, reason domain.DisconnectReason) bool {
	return o.teardown(sess, reason)
}

func (o *Orchestrator) teardown(sess *app.Session, reason domain.DisconnectReason) bool {
	conn, ok := sess.BeginClose(reason)
	if !ok {
		return false
	}
	id := sess.ID()

	o.membership.Lock()
	vacated := o.Rooms.LeaveAll(id)
	o.membership.Unlock()

	for _, v := range vacated {
		o.applyPolicy(o.Relay.Announce(v.Room, domain.PeerLeft, id, v.Remaining))
	}

	o.membership.Lock()
	o.Registry.RemoveSession(sess)
	o.membership.Unlock()
	sess.Finish()

	if conn != nil {
		conn.Close()
	}
	log.Info().Str("module", "orch").Str("peer", string(id)).Str("reason", string(sess.Reason())).
		Int("rooms_vacated", len(vacated)).Dur("connected_for", o.now().Sub(sess.ConnectedAt())).Msg("peer disconnected")
	return true
}

// Touch records a heartbeat from id.
func (o *Orchestrator) Touch(id domain.PeerID) {
	if sess, ok := o.Registry.Lookup(id); ok {
		sess.Touch(o.now())
	}
}

// ReapStale disconnects every open peer silent for longer than HeartbeatTimeout.
func (o *Orchestrator) ReapStale() []domain.PeerID {
	if o.HeartbeatTimeout <= 0 {
		return nil
	}
	now := o.now()
	var reaped []domain.PeerID
	for _, sess := range o.Registry.Sessions() {
		if sess.State() != core.StateOpen || !sess.Stale(now, o.HeartbeatTimeout) {
			continue
		}
		if o.teardown(sess, domain.ReasonTimeout) {
			reaped = append(reaped, sess.ID())
		}
	}
	return reaped
}

// RunReaper calls ReapStale every interval until ctx is done.
func (o *Orchestrator) RunReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || o.HeartbeatTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "orch").Msg("reaper stopped")
			return
		case <-ticker.C:
			if reaped := o.ReapStale(); len(reaped) > 0 {
				log.Info().Str("module", "orch").Int("count", len(reaped)).Msg("reaped stale peers")
			}
		}
	}
}

// Shutdown disconnects every peer as server-initiated.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	ids := o.Registry.Enumerate()
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		o.Disconnect(id, domain.ReasonServerInitiated)
	}
	log.Info().Str("module", "orch").Int("peers", len(ids)).Msg("all peers disconnected")
	return nil
}
