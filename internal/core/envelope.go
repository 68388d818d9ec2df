package core

import (
	"encoding/json"
	"fmt"

	"github.com/soliskit/pinto/internal/domain"
)

// Envelope is the JSON shape of every signaling and presence frame.
type Envelope struct {
	Type    string          `json:"type"`
	Src     domain.PeerID   `json:"src,omitempty"`
	Dst     domain.PeerID   `json:"dst,omitempty"`
	Room    domain.RoomID   `json:"room,omitempty"`
	Peer    domain.PeerID   `json:"peer,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message converts an inbound envelope from sender into a domain message.
func (e Envelope) Message(sender domain.PeerID) domain.Message {
	return domain.Message{
		Kind:    domain.MessageKind(e.Type),
		Sender:  sender,
		Target:  e.Dst,
		Room:    e.Room,
		Payload: e.Payload,
	}
}

func EncodeMessage(m domain.Message) (Frame, error) {
	return Encode(Envelope{
		Type:    string(m.Kind),
		Src:     m.Sender,
		Dst:     m.Target,
		Room:    m.Room,
		Payload: m.Payload,
	})
}

func EncodePresence(room domain.RoomID, kind domain.PresenceKind, peer domain.PeerID) (Frame, error) {
	return Encode(Envelope{Type: string(kind), Room: room, Peer: peer})
}

func Encode(v any) (Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return b, nil
}

func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", domain.ErrInvalidMessage, err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("%w: missing type", domain.ErrInvalidMessage)
	}
	return env, nil
}
