package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/soliskit/pinto/internal/core"
	"github.com/soliskit/pinto/internal/domain"
)

type openFrame struct {
	Type  string        `json:"type"`
	ID    domain.PeerID `json:"id"`
	Token domain.Token  `json:"token,omitempty"`
}

type errorFrame struct {
	Type   string `json:"type"`
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type joinedFrame struct {
	Type    string          `json:"type"`
	Room    domain.RoomID   `json:"room"`
	Members []domain.PeerID `json:"members"`
}

type leftFrame struct {
	Type string        `json:"type"`
	Room domain.RoomID `json:"room"`
}

type whoamiFrame struct {
	Type  string          `json:"type"`
	ID    domain.PeerID   `json:"id"`
	Rooms []domain.RoomID `json:"rooms"`
}

func mustEncode(v any) core.Frame {
	f, err := core.Encode(v)
	if err != nil {
		panic(err)
	}
	return f
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	f, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	if err := c.Send(f); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("peer", string(c.id)).Msg("reply dropped")
	}
}

func (ctl *SignalWSController) sendError(c *WsSignalConn, err error) {
	ctl.sendJSON(c, errorFrame{Type: "error", Error: domain.Code(err), Detail: err.Error()})
}

// orEmpty keeps JSON arrays from encoding as null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
