package core

import "fmt"

type ConnectionState int32

const (
	StateConnecting ConnectionState = iota
	StateOpen
	StateDisconnecting
	StateClosed
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateDisconnecting:
		return "disconnecting"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Next is the only state s may move to.
func (s ConnectionState) Next() (ConnectionState, bool) {
	if s >= StateClosed || s < StateConnecting {
		return s, false
	}
	return s + 1, true
}
