package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soliskit/pinto/internal/core"
	"github.com/soliskit/pinto/internal/domain"
)

func TestSession_Lifecycle(t *testing.T) {
	req := require.New(t)
	sess := NewSession(domain.NewPeer("p1", "tok"))
	conn := newRecConn("p1")

	// Given a fresh session
	req.Equal(core.StateConnecting, sess.State())
	req.ErrorIs(sess.Send(core.Frame("x")), core.ErrConnClosed)

	// Closing is not allowed before the session is open
	_, ok := sess.BeginClose(domain.ReasonClientInitiated)
	req.False(ok)
	req.False(sess.Finish())

	// When it opens
	req.NoError(sess.Open(conn, time.Now()))
	req.Equal(core.StateOpen, sess.State())
	req.NoError(sess.Send(core.Frame(`{"type":"x"}`)))
	req.Error(sess.Open(conn, time.Now()))

	// And begins to close
	got, ok := sess.BeginClose(domain.ReasonTimeout)
	req.True(ok)
	req.Same(conn, got)
	req.Equal(core.StateDisconnecting, sess.State())
	req.Equal(domain.ReasonTimeout, sess.Reason())
	req.ErrorIs(sess.Send(core.Frame("x")), core.ErrConnClosed)

	// Then a second close is a no-op
	_, ok = sess.BeginClose(domain.ReasonServerInitiated)
	req.False(ok)
	req.Equal(domain.ReasonTimeout, sess.Reason())

	req.True(sess.Finish())
	req.Equal(core.StateClosed, sess.State())
	req.False(sess.Finish())
}

func TestSession_Heartbeat(t *testing.T) {
	req := require.New(t)
	start := time.Unix(1_700_000_000, 0)
	sess := NewSession(domain.NewPeer("p1", ""))
	req.NoError(sess.Open(newRecConn("p1"), start))

	req.False(sess.Stale(start.Add(5*time.Second), 10*time.Second))
	req.True(sess.Stale(start.Add(11*time.Second), 10*time.Second))

	sess.Touch(start.Add(9 * time.Second))
	req.False(sess.Stale(start.Add(11*time.Second), 10*time.Second))
	req.False(sess.Stale(start.Add(time.Hour), 0))
}

func TestSession_BeginCloseDefaultsReason(t *testing.T) {
	req := require.New(t)
	sess := NewSession(domain.NewPeer("p1", ""))
	req.NoError(sess.Open(newRecConn("p1"), time.Now()))

	_, ok := sess.BeginClose("")
	req.True(ok)
	req.Equal(domain.ReasonUnknown, sess.Reason())
}
