package app

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/soliskit/pinto/internal/core"
	"github.com/soliskit/pinto/internal/core/mocks"
	"github.com/soliskit/pinto/internal/domain"
)

type relayFixture struct {
	registry *Registry
	rooms    *RoomDirectory
	relay    *Relay
	conns    map[domain.PeerID]*recConn
}

func newRelayFixture(t *testing.T, ids ...domain.PeerID) *relayFixture {
	t.Helper()
	f := &relayFixture{
		registry: NewRegistry(),
		rooms:    NewRoomDirectory(),
		conns:    make(map[domain.PeerID]*recConn),
	}
	f.relay = NewRelay(f.registry, f.rooms)
	for _, id := range ids {
		c := newRecConn(id)
		_, err := f.registry.Register(id, "", c)
		require.NoError(t, err)
		f.conns[id] = c
	}
	return f
}

func TestRelay_Deliver_RoomExcludesSender(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t, "p1", "p2", "p3")
	for _, id := range []domain.PeerID{"p1", "p2", "p3"} {
		_, err := f.rooms.Join("r1", id)
		req.NoError(err)
	}
	payload := json.RawMessage(`{"candidate":"candidate:1 1 UDP 2122252543 10.0.0.1 5000 typ host"}`)

	// When p2 broadcasts to the room
	res, err := f.relay.Deliver(domain.Message{Kind: domain.KindCandidate, Sender: "p2", Room: "r1", Payload: payload})

	// Then p1 and p3 get it, p2 does not
	req.NoError(err)
	req.Equal(2, res.SentTo)
	req.Empty(f.conns["p2"].Envelopes())
	for _, id := range []domain.PeerID{"p1", "p3"} {
		envs := f.conns[id].Envelopes()
		req.Len(envs, 1)
		req.Equal("candidate", envs[0].Type)
		req.Equal(domain.PeerID("p2"), envs[0].Src)
		req.Equal(domain.RoomID("r1"), envs[0].Room)
		req.JSONEq(string(payload), string(envs[0].Payload))
	}
}

func TestRelay_Deliver_RoomSkipsGoneMembers(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t, "p1", "p2", "p3")
	for _, id := range []domain.PeerID{"p1", "p2", "p3"} {
		_, _ = f.rooms.Join("r1", id)
	}
	// p3 vanished from the registry without a room cleanup yet
	f.registry.Remove("p3")
	f.conns["p1"].Close()

	res, err := f.relay.Deliver(domain.Message{Kind: domain.KindCustom, Sender: "p2", Room: "r1", Payload: json.RawMessage(`1`)})

	req.NoError(err)
	req.Zero(res.SentTo)
	req.ElementsMatch([]domain.PeerID{"p1", "p3"}, res.Skipped)
}

func TestRelay_Deliver_Direct(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t, "p1", "p2")
	offer := json.RawMessage(`{"type":"offer","sdp":"v=0\r\n"}`)

	res, err := f.relay.Deliver(domain.Message{Kind: domain.KindOffer, Sender: "p1", Target: "p2", Payload: offer})
	req.NoError(err)
	req.Equal(1, res.SentTo)

	envs := f.conns["p2"].Envelopes()
	req.Len(envs, 1)
	req.Equal(domain.PeerID("p1"), envs[0].Src)
	req.Equal(domain.PeerID("p2"), envs[0].Dst)
	req.JSONEq(string(offer), string(envs[0].Payload))
	req.Empty(f.conns["p1"].Envelopes())
}

func TestRelay_Deliver_DirectUnreachable(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t, "p1", "p2")

	_, err := f.relay.Deliver(domain.Message{Kind: domain.KindAnswer, Sender: "p1", Target: "ghost"})
	req.ErrorIs(err, domain.ErrTargetUnreachable)

	// A peer that is tearing down is unreachable as well
	sess, _ := f.registry.Lookup("p2")
	_, ok := sess.BeginClose(domain.ReasonClientInitiated)
	req.True(ok)
	_, err = f.relay.Deliver(domain.Message{Kind: domain.KindAnswer, Sender: "p1", Target: "p2"})
	req.ErrorIs(err, domain.ErrTargetUnreachable)
}

func TestRelay_Deliver_Invalid(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t, "p1")

	_, err := f.relay.Deliver(domain.Message{Kind: "bogus", Sender: "p1", Target: "p1"})
	req.ErrorIs(err, domain.ErrInvalidMessage)

	_, err = f.relay.Deliver(domain.Message{Kind: domain.KindOffer, Sender: "p1", Target: "p1", Payload: json.RawMessage(`{not json`)})
	req.ErrorIs(err, domain.ErrInvalidMessage)
}

func TestRelay_Deliver_Backpressure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	f := newRelayFixture(t, "p1")

	slow := mocks.NewMockPeerConn(ctrl)
	slow.EXPECT().Send(gomock.Any()).Return(core.ErrBackpressure).Times(2)
	_, err := f.registry.Register("slow", "", slow)
	req.NoError(err)
	_, _ = f.rooms.Join("r1", "p1")
	_, _ = f.rooms.Join("r1", "slow")

	res, err := f.relay.Deliver(domain.Message{Kind: domain.KindOffer, Sender: "p1", Target: "slow"})
	req.ErrorIs(err, domain.ErrTargetUnreachable)
	req.ErrorIs(err, core.ErrBackpressure)
	req.Equal([]domain.PeerID{"slow"}, res.Dropped)

	res, err = f.relay.Deliver(domain.Message{Kind: domain.KindOffer, Sender: "p1", Room: "r1"})
	req.NoError(err)
	req.Equal([]domain.PeerID{"slow"}, res.Dropped)
}

func TestRelay_Announce(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t, "p1", "p2")

	res := f.relay.Announce("r1", domain.PeerJoined, "p2", []domain.PeerID{"p1", "p2"})

	req.Equal(1, res.SentTo)
	req.Empty(f.conns["p2"].Envelopes())
	envs := f.conns["p1"].Envelopes()
	req.Len(envs, 1)
	req.Equal(core.Envelope{Type: "peer-joined", Room: "r1", Peer: "p2"}, envs[0])
}

// Each sender's messages arrive at a recipient in send order,
// while several senders interleave.
func TestRelay_Deliver_FIFOPerSender(t *testing.T) {
	const (
		runs    = 1000
		senders = 4
		perRun  = 2
	)
	senderIDs := make([]domain.PeerID, senders)
	for i := range senderIDs {
		senderIDs[i] = domain.PeerID(fmt.Sprintf("s%d", i))
	}
	f := newRelayFixture(t, append([]domain.PeerID{"dst"}, senderIDs...)...)

	var wg sync.WaitGroup
	for _, sender := range senderIDs {
		wg.Add(1)
		go func(sender domain.PeerID) {
			defer wg.Done()
			for run := 0; run < runs; run++ {
				for seq := 0; seq < perRun; seq++ {
					payload := json.RawMessage(fmt.Sprintf(`%d`, run*perRun+seq))
					_, err := f.relay.Deliver(domain.Message{Kind: domain.KindCustom, Sender: sender, Target: "dst", Payload: payload})
					if err != nil {
						t.Error(err)
						return
					}
				}
			}
		}(sender)
	}
	wg.Wait()

	last := make(map[domain.PeerID]int)
	for _, id := range senderIDs {
		last[id] = -1
	}
	envs := f.conns["dst"].Envelopes()
	require.Len(t, envs, runs*senders*perRun)
	for _, env := range envs {
		var n int
		require.NoError(t, json.Unmarshal(env.Payload, &n))
		require.Greater(t, n, last[env.Src], "out of order from %s", env.Src)
		last[env.Src] = n
	}
}
