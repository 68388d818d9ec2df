package orch

import (
	"sync"
	"time"

	"github.com/soliskit/pinto/internal/app"
	"github.com/soliskit/pinto/internal/domain"
)

// Orchestrator owns the process-wide relay state. It is created at startup
// and torn down with Shutdown; every compound mutation goes through it.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    *app.RoomDirectory
	Relay    *app.Relay
	Issuer   *app.IdentityIssuer
	Policy   app.Policy

	// HeartbeatTimeout bounds the silence allowed before a peer is reaped.
	HeartbeatTimeout time.Duration

	// membership serialises mutations that span Registry and Rooms.
	membership sync.Mutex
	now        func() time.Time
}

type Options struct {
	MaxIDAttempts    int
	HeartbeatTimeout time.Duration
	Policy           app.Policy
	IDGenerator      func() domain.PeerID
}

func New(opts Options) *Orchestrator {
	reg := app.NewRegistry()
	rooms := app.NewRoomDirectory()
	issuerOpts := []app.IssuerOption{app.WithMaxAttempts(opts.MaxIDAttempts)}
	if opts.IDGenerator != nil {
		issuerOpts = append(issuerOpts, app.WithGenerator(opts.IDGenerator))
	}
	policy := opts.Policy
	if policy == nil {
		policy = app.SimplePolicy{Action: app.DropMessage}
	}
	return &Orchestrator{
		Registry:         reg,
		Rooms:            rooms,
		Relay:            app.NewRelay(reg, rooms),
		Issuer:           app.NewIdentityIssuer(reg, issuerOpts...),
		Policy:           policy,
		HeartbeatTimeout: opts.HeartbeatTimeout,
		now:              time.Now,
	}
}

// applyPolicy handles recipients whose queues were full during a fan-out.
func (o *Orchestrator) applyPolicy(res app.PublishResult) {
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(slow) {
		case app.KickPeer:
			o.Disconnect(slow, domain.ReasonServerInitiated)
		case app.DropMessage:
		}
	}
}
