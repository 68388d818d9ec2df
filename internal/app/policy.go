package app

import (
	"fmt"

	"github.com/soliskit/pinto/internal/domain"
)

type BackpressureAction int

const (
	DropMessage BackpressureAction = iota
	KickPeer
)

// Policy decides what happens to a recipient whose send queue is full.
type Policy interface {
	OnBackPressure(peer domain.PeerID) BackpressureAction
}

type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(domain.PeerID) BackpressureAction {
	return p.Action
}

// PolicyFromString parses the slow_peer_policy setting.
func PolicyFromString(s string) (Policy, error) {
	switch s {
	case "", "drop":
		return SimplePolicy{Action: DropMessage}, nil
	case "kick":
		return SimplePolicy{Action: KickPeer}, nil
	default:
		return nil, fmt.Errorf("unknown slow peer policy %q", s)
	}
}
