package app

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/soliskit/pinto/internal/core"
	"github.com/soliskit/pinto/internal/domain"
)

// PublishResult reports a fan-out pass. Dropped lists recipients whose
// queue was full; Skipped lists recipients that were gone.
type PublishResult struct {
	SentTo  int
	Skipped []domain.PeerID
	Dropped []domain.PeerID
}

// Relay forwards signaling and presence frames to live sessions.
// It never interprets payloads.
type Relay struct {
	registry *Registry
	rooms    *RoomDirectory
}

func NewRelay(registry *Registry, rooms *RoomDirectory) *Relay {
	return &Relay{registry: registry, rooms: rooms}
}

// Deliver routes msg to its target peer, or to every member of its room
// except the sender. Only direct delivery can fail.
func (r *Relay) Deliver(msg domain.Message) (PublishResult, error) {
	if err := msg.Validate(); err != nil {
		return PublishResult{}, err
	}
	frame, err := core.EncodeMessage(msg)
	if err != nil {
		return PublishResult{}, fmt.Errorf("%w: %w", domain.ErrInvalidMessage, err)
	}
	if msg.Direct() {
		return r.deliverDirect(msg, frame)
	}
	recipients := r.rooms.Members(msg.Room)
	res := r.fanout(recipients, msg.Sender, frame)
	log.Debug().Str("module", "app.relay").Str("kind", string(msg.Kind)).Str("from", string(msg.Sender)).Str("room", string(msg.Room)).
		Int("sent_to", res.SentTo).Int("skipped", len(res.Skipped)).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res, nil
}

func (r *Relay) deliverDirect(msg domain.Message, frame core.Frame) (PublishResult, error) {
	var res PublishResult
	sess, ok := r.registry.Lookup(msg.Target)
	if !ok || sess.State() != core.StateOpen {
		res.Skipped = append(res.Skipped, msg.Target)
		log.Debug().Str("module", "app.relay").Str("from", string(msg.Sender)).Str("to", string(msg.Target)).Msg("target not connected")
		return res, fmt.Errorf("%w: %s", domain.ErrTargetUnreachable, msg.Target)
	}
	if err := sess.Send(frame); err != nil {
		if errors.Is(err, core.ErrBackpressure) {
			res.Dropped = append(res.Dropped, msg.Target)
		} else {
			res.Skipped = append(res.Skipped, msg.Target)
		}
		log.Warn().Err(err).Str("module", "app.relay").Str("from", string(msg.Sender)).Str("to", string(msg.Target)).Msg("direct send failed")
		return res, fmt.Errorf("%w: %s: %w", domain.ErrTargetUnreachable, msg.Target, err)
	}
	res.SentTo = 1
	return res, nil
}

// Announce sends a presence event about peer to the given recipients.
func (r *Relay) Announce(room domain.RoomID, kind domain.PresenceKind, peer domain.PeerID, recipients []domain.PeerID) PublishResult {
	frame, err := core.EncodePresence(room, kind, peer)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("encode presence")
		return PublishResult{}
	}
	res := r.fanout(recipients, peer, frame)
	log.Debug().Str("module", "app.relay").Str("event", string(kind)).Str("room", string(room)).Str("peer", string(peer)).
		Int("sent_to", res.SentTo).Msg("presence")
	return res
}

func (r *Relay) fanout(recipients []domain.PeerID, exclude domain.PeerID, frame core.Frame) PublishResult {
	var res PublishResult
	for _, id := range recipients {
		if id == exclude {
			continue
		}
		sess, ok := r.registry.Lookup(id)
		if !ok {
			res.Skipped = append(res.Skipped, id)
			continue
		}
		switch err := sess.Send(frame); {
		case err == nil:
			res.SentTo++
		case errors.Is(err, core.ErrBackpressure):
			res.Dropped = append(res.Dropped, id)
		default:
			res.Skipped = append(res.Skipped, id)
		}
	}
	return res
}
