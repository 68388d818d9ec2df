package signal

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"

	"github.com/soliskit/pinto/internal/app"
	"github.com/soliskit/pinto/internal/core"
	"github.com/soliskit/pinto/internal/domain"
)

const writeWait = 5 * time.Second

func (ctl *SignalWSController) writePump(c *WsSignalConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("peer", string(c.id)).Msg("writePump set deadline")
				return
			}
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("peer", string(c.id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("peer", string(c.id)).Msg("writePump ping error")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(sess *app.Session, c *WsSignalConn) {
	reason := domain.ReasonUnknown
	defer func() {
		ctl.limiter.Forget(c.id)
		ctl.Orch.DisconnectSession(sess, reason)
	}()

	c.ws.SetReadLimit(ctl.cfg.ReadLimit)
	ctl.extendDeadline(c)
	c.ws.SetPongHandler(func(string) error {
		ctl.Orch.Touch(c.id)
		ctl.extendDeadline(c)
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			reason = exitReason(err)
			log.Debug().Err(err).Str("module", "signal").Str("peer", string(c.id)).Str("reason", string(reason)).Msg("readPump closing")
			return
		}
		ctl.extendDeadline(c)

		if !ctl.limiter.Allow(c.id) {
			ctl.sendJSON(c, errorFrame{Type: "error", Error: "rate-limited"})
			continue
		}

		var leave bool
		var pc panics.Catcher
		pc.Try(func() { leave = ctl.handleSignal(c, data) })
		if r := pc.Recovered(); r != nil {
			log.Error().Str("module", "signal").Str("peer", string(c.id)).Str("panic", r.String()).Msg("message handler panicked")
			ctl.sendError(c, domain.ErrInvalidMessage)
			continue
		}
		if leave {
			reason = domain.ReasonClientInitiated
			return
		}
	}
}

func (ctl *SignalWSController) extendDeadline(c *WsSignalConn) {
	if ctl.cfg.HeartbeatTimeout <= 0 {
		return
	}
	_ = c.ws.SetReadDeadline(time.Now().Add(ctl.cfg.HeartbeatTimeout))
}

func exitReason(err error) domain.DisconnectReason {
	var ne net.Error
	switch {
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		return domain.ReasonClientInitiated
	case errors.As(err, &ne) && ne.Timeout():
		return domain.ReasonTimeout
	default:
		return domain.ReasonTransportError
	}
}

// handleSignal dispatches one inbound frame. It reports whether the peer
// asked to leave.
func (ctl *SignalWSController) handleSignal(c *WsSignalConn, data []byte) bool {
	env, err := core.Decode(data)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("peer", string(c.id)).Msg("bad json")
		ctl.sendError(c, err)
		return false
	}

	switch env.Type {
	case "join-room":
		ctl.handleJoin(c, env)
	case "leave-room":
		ctl.handleLeaveRoom(c, env)
	case "leave":
		// addressed leave is relayed like any signal; a bare one ends the connection
		if env.Dst == "" && env.Room == "" {
			return true
		}
		ctl.handleRelay(c, env)
	case "heartbeat":
		ctl.Orch.Touch(c.id)
	case "ping":
		ctl.handlePing(c)
	case "whoami":
		ctl.handleWhoAmI(c)
	default:
		if !domain.MessageKind(env.Type).Valid() {
			log.Debug().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
			ctl.sendError(c, fmt.Errorf("%w: unknown type %q", domain.ErrInvalidMessage, env.Type))
			return false
		}
		ctl.handleRelay(c, env)
	}
	return false
}
