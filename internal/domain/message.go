package domain

import (
	"encoding/json"
	"fmt"
)

type MessageKind string

const (
	KindOffer     MessageKind = "offer"
	KindAnswer    MessageKind = "answer"
	KindCandidate MessageKind = "candidate"
	KindLeave     MessageKind = "leave"
	KindCustom    MessageKind = "custom"
)

func (k MessageKind) Valid() bool {
	switch k {
	case KindOffer, KindAnswer, KindCandidate, KindLeave, KindCustom:
		return true
	}
	return false
}

type PresenceKind string

const (
	PeerJoined PresenceKind = "peer-joined"
	PeerLeft   PresenceKind = "peer-left"
)

// Message is a signaling message in flight. Exactly one of Target and Room is set.
// Payload is never inspected.
type Message struct {
	Kind    MessageKind
	Sender  PeerID
	Target  PeerID
	Room    RoomID
	Payload json.RawMessage
}

func (m Message) Direct() bool { return m.Target != "" }

func (m Message) Validate() error {
	if !m.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidMessage, m.Kind)
	}
	if m.Sender.Blank() {
		return fmt.Errorf("%w: no sender", ErrInvalidMessage)
	}
	hasPeer, hasRoom := !m.Target.Blank(), !m.Room.Blank()
	if hasPeer == hasRoom {
		return fmt.Errorf("%w: exactly one of dst and room is required", ErrInvalidMessage)
	}
	return nil
}
