package orch

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/soliskit/pinto/internal/app"
	"github.com/soliskit/pinto/internal/core"
	"github.com/soliskit/pinto/internal/domain"
)

// Join adds peer to room on behalf of sender and tells the members already
// there. A peer may only join as itself.
func (o *Orchestrator) Join(sender domain.PeerID, room domain.RoomID, peer domain.PeerID) (app.RoomSnapshot, error) {
	if err := app.ValidateMembership(room, peer); err != nil {
		return app.RoomSnapshot{}, err
	}
	if peer != sender {
		return app.RoomSnapshot{}, fmt.Errorf("%w: %s cannot join as %s", domain.ErrInvalidMessage, sender, peer)
	}

	o.membership.Lock()
	sess, ok := o.Registry.Lookup(peer)
	if !ok || sess.State() != core.StateOpen {
		o.membership.Unlock()
		return app.RoomSnapshot{}, fmt.Errorf("%w: %s is not connected", domain.ErrInvalidMessage, peer)
	}
	snap, err := o.Rooms.Join(room, peer)
	o.membership.Unlock()
	if err != nil {
		return app.RoomSnapshot{}, err
	}

	if !snap.AlreadyMember {
		o.applyPolicy(o.Relay.Announce(room, domain.PeerJoined, peer, snap.Members))
	}
	log.Info().Str("module", "orch").Str("peer", string(peer)).Str("room", string(room)).Int("existing", len(snap.Members)).Msg("join")
	return snap, nil
}

// Leave removes peer from a single room without closing its connection.
func (o *Orchestrator) Leave(peer domain.PeerID, room domain.RoomID) error {
	if err := app.ValidateMembership(room, peer); err != nil {
		return err
	}
	o.membership.Lock()
	remaining, ok := o.Rooms.Leave(room, peer)
	o.membership.Unlock()
	if !ok {
		return nil
	}
	o.applyPolicy(o.Relay.Announce(room, domain.PeerLeft, peer, remaining))
	log.Info().Str("module", "orch").Str("peer", string(peer)).Str("room", string(room)).Msg("leave room")
	return nil
}
