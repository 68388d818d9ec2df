package app

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/soliskit/pinto/internal/domain"
)

const DefaultMaxIDAttempts = 8

type idLookup interface {
	Contains(id domain.PeerID) bool
}

type IssuerOption func(*IdentityIssuer)

// WithGenerator replaces the uuid generator, mostly for tests.
func WithGenerator(gen func() domain.PeerID) IssuerOption {
	return func(i *IdentityIssuer) { i.generate = gen }
}

func WithMaxAttempts(n int) IssuerOption {
	return func(i *IdentityIssuer) {
		if n > 0 {
			i.maxAttempts = n
		}
	}
}

// IdentityIssuer hands out peer ids not currently registered.
// Nothing is reserved: the caller must register the id promptly.
type IdentityIssuer struct {
	taken       idLookup
	generate    func() domain.PeerID
	maxAttempts int
}

func NewIdentityIssuer(taken idLookup, opts ...IssuerOption) *IdentityIssuer {
	i := &IdentityIssuer{
		taken:       taken,
		generate:    func() domain.PeerID { return domain.PeerID(uuid.NewString()) },
		maxAttempts: DefaultMaxIDAttempts,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *IdentityIssuer) MaxAttempts() int { return i.maxAttempts }

func (i *IdentityIssuer) Issue() (domain.PeerID, error) {
	for attempt := 1; attempt <= i.maxAttempts; attempt++ {
		id := i.generate()
		if id.Blank() || i.taken.Contains(id) {
			log.Debug().Str("module", "app.identity").Str("candidate", string(id)).Int("attempt", attempt).Msg("id collision, regenerating")
			continue
		}
		return id, nil
	}
	return "", fmt.Errorf("%w: %d attempts", domain.ErrIdentityExhausted, i.maxAttempts)
}
