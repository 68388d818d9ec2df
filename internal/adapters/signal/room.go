package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/soliskit/pinto/internal/core"
)

func (ctl *SignalWSController) handleJoin(conn *WsSignalConn, env core.Envelope) {
	snap, err := ctl.Orch.Join(conn.id, env.Room, env.Peer)
	if err != nil {
		log.Info().Err(err).Str("module", "signal").Str("peer", string(conn.id)).Str("room", string(env.Room)).Msg("join refused")
		ctl.sendError(conn, err)
		return
	}
	ctl.sendJSON(conn, joinedFrame{Type: "joined", Room: snap.Room, Members: orEmpty(snap.Members)})
}

// handleLeaveRoom leaves a single room; the connection stays open.
func (ctl *SignalWSController) handleLeaveRoom(conn *WsSignalConn, env core.Envelope) {
	if err := ctl.Orch.Leave(conn.id, env.Room); err != nil {
		ctl.sendError(conn, err)
		return
	}
	ctl.sendJSON(conn, leftFrame{Type: "left", Room: env.Room})
}
