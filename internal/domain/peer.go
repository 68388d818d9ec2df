// Package domain contains entity without logic, just meta-data
package domain

import (
	"strings"
	"unicode"
)

const MaxPeerIDLen = 64

type (
	PeerID string
	Token  string
)

// Peer is the identity half of a connected client.
// The token is fixed at creation.
type Peer struct {
	ID    PeerID `json:"id"`
	Token Token  `json:"-"`
}

func NewPeer(id PeerID, token Token) *Peer {
	return &Peer{ID: id, Token: token}
}

// ValidatePeerID checks a client-supplied id before it is trusted.
func ValidatePeerID(id PeerID) error {
	s := string(id)
	if strings.TrimSpace(s) == "" {
		return ErrMissingPeerID
	}
	if len(s) > MaxPeerIDLen {
		return ErrPeerIDTooLong
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return ErrPeerIDInvalid
		}
	}
	return nil
}

func (id PeerID) Blank() bool { return strings.TrimSpace(string(id)) == "" }
