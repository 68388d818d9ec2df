package signal

import (
	"errors"

	"github.com/soliskit/pinto/internal/core"
	"github.com/soliskit/pinto/internal/domain"
)

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.Orch.Touch(conn.id)
	ctl.sendJSON(conn, core.Envelope{Type: "pong"})
}

// handleRelay forwards offer, answer, candidate and custom frames. The sender
// is never told that a direct target was unreachable.
func (ctl *SignalWSController) handleRelay(conn *WsSignalConn, env core.Envelope) {
	_, err := ctl.Orch.Signal(env.Message(conn.id))
	if err != nil && !errors.Is(err, domain.ErrTargetUnreachable) {
		ctl.sendError(conn, err)
	}
}
