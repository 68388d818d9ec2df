package core

import (
	"errors"

	"github.com/soliskit/pinto/internal/domain"
)

//go:generate mockgen -destination=mocks/mock_conn.go -package=mocks github.com/soliskit/pinto/internal/core PeerConn

// Frame is an encoded outbound message.
type Frame []byte

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// PeerConn abstracts a peer's messaging transport.
// Owned by the adapter; Send must not block on the network.
type PeerConn interface {
	ID() domain.PeerID
	Send(Frame) error
	Close()
}
