package domain

import "errors"

var (
	ErrDuplicateID       = errors.New("duplicate peer id")
	ErrIdentityExhausted = errors.New("identity space exhausted")
	ErrMissingRoomID     = errors.New("missing room id")
	ErrMissingPeerID     = errors.New("missing peer id")
	ErrTargetUnreachable = errors.New("target unreachable")
	ErrInvalidMessage    = errors.New("invalid message")

	ErrPeerIDTooLong = errors.New("peer id too long")
	ErrPeerIDInvalid = errors.New("peer id contains whitespace or control characters")
)

// Code maps a domain error to the short code sent to clients.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateID):
		return "id-taken"
	case errors.Is(err, ErrIdentityExhausted):
		return "identity-exhausted"
	case errors.Is(err, ErrMissingRoomID):
		return "missing-room-id"
	case errors.Is(err, ErrMissingPeerID):
		return "missing-peer-id"
	case errors.Is(err, ErrTargetUnreachable):
		return "target-unreachable"
	case errors.Is(err, ErrInvalidMessage), errors.Is(err, ErrPeerIDTooLong), errors.Is(err, ErrPeerIDInvalid):
		return "invalid-message"
	default:
		return "internal"
	}
}
