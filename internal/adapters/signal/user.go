package signal

func (ctl *SignalWSController) handleWhoAmI(conn *WsSignalConn) {
	ctl.sendJSON(conn, whoamiFrame{
		Type:  "whoami",
		ID:    conn.id,
		Rooms: orEmpty(ctl.Orch.Rooms.RoomsOf(conn.id)),
	})
}
