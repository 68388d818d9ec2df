package domain

// DisconnectReason classifies why a connection left the open state.
// It is recorded for logs only.
type DisconnectReason string

const (
	ReasonClientInitiated DisconnectReason = "client-initiated"
	ReasonServerInitiated DisconnectReason = "server-initiated"
	ReasonTimeout         DisconnectReason = "timeout"
	ReasonTransportError  DisconnectReason = "transport-error"
	ReasonUnknown         DisconnectReason = "unknown"
)
