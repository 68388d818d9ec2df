package signal

import (
	"net/http"
	"slices"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/soliskit/pinto/internal/app/orch"
	"github.com/soliskit/pinto/internal/config"
	"github.com/soliskit/pinto/internal/core"
	"github.com/soliskit/pinto/internal/domain"
)

// ClientTokenKey is the gin context key under which the router stores the
// token it resolved from the session cookie.
const ClientTokenKey = "client_token"

type SignalWSController struct {
	Orch *orch.Orchestrator

	cfg      *config.Config
	limiter  *PeerRateLimiter
	upgrader websocket.Upgrader
	pumps    conc.WaitGroup
}

func NewSignalWSController(o *orch.Orchestrator, cfg *config.Config) *SignalWSController {
	return &SignalWSController{
		Orch:    o,
		cfg:     cfg,
		limiter: NewPeerRateLimiter(cfg.RateLimit, cfg.RateBurst),
		upgrader: websocket.Upgrader{
			CheckOrigin: OriginChecker(cfg.AllowedOrigins),
		},
	}
}

// OriginChecker allows requests without an Origin header and, when origins is
// non-empty, only the listed ones.
func OriginChecker(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || len(origins) == 0 || slices.Contains(origins, origin)
	}
}

// WsSignalConn is the websocket side of a peer. Frames queue in send and are
// written by a single write pump, so each recipient sees them in order.
type WsSignalConn struct {
	id   domain.PeerID
	ws   *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(id domain.PeerID, ws *websocket.Conn, buffer int) *WsSignalConn {
	return &WsSignalConn{id: id, ws: ws, send: make(chan core.Frame, buffer)}
}

func (c *WsSignalConn) ID() domain.PeerID { return c.id }

// Send never blocks: a full queue is ErrBackpressure.
func (c *WsSignalConn) Send(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
		return nil
	default:
		return core.ErrBackpressure
	}
}

// Close stops accepting frames. The write pump flushes what is queued, sends
// a close frame and closes the socket.
func (c *WsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// HandleSignal upgrades GET /{key}/ws?id=&token= and runs the peer until
// its connection ends.
func (ctl *SignalWSController) HandleSignal(c *gin.Context) {
	hello := orch.Hello{
		ID:    domain.PeerID(c.Query("id")),
		Token: domain.Token(c.Query("token")),
	}
	if hello.Token == "" {
		hello.Token = domain.Token(c.GetString(ClientTokenKey))
	}

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	var bound *WsSignalConn
	sess, err := ctl.Orch.Connect(hello, func(id domain.PeerID) core.PeerConn {
		bound = newWsSignalConn(id, ws, ctl.cfg.SendBuffer)
		// queued ahead of anything another peer can send once registered
		_ = bound.Send(mustEncode(openFrame{Type: "open", ID: id, Token: hello.Token}))
		return bound
	})
	if err != nil {
		log.Info().Err(err).Str("module", "signal").Str("peer", string(hello.ID)).Msg("connect refused")
		_ = ws.WriteJSON(errorFrame{Type: "error", Error: domain.Code(err), Detail: err.Error()})
		_ = ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, domain.Code(err)))
		_ = ws.Close()
		return
	}

	log.Info().Str("module", "signal").Str("peer", string(sess.ID())).Str("remote", c.ClientIP()).Msg("peer connected")
	ctl.pumps.Go(func() { ctl.writePump(bound) })
	ctl.pumps.Go(func() { ctl.readPump(sess, bound) })
}

// Wait blocks until every pump started by HandleSignal has returned.
func (ctl *SignalWSController) Wait() {
	ctl.pumps.Wait()
}
