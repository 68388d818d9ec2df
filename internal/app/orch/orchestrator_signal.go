package orch

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/soliskit/pinto/internal/app"
	"github.com/soliskit/pinto/internal/domain"
)

// Signal relays msg. An unreachable target is logged here and returned, but
// the sender is never told about it by the relay itself.
func (o *Orchestrator) Signal(msg domain.Message) (app.PublishResult, error) {
	res, err := o.Relay.Deliver(msg)
	o.applyPolicy(res)
	if errors.Is(err, domain.ErrTargetUnreachable) {
		log.Info().Str("module", "orch").Str("from", string(msg.Sender)).Str("to", string(msg.Target)).Str("kind", string(msg.Kind)).Msg("signal target unreachable")
	}
	return res, err
}
