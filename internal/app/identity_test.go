package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soliskit/pinto/internal/domain"
)

func TestIdentityIssuer_IssuesUnregisteredIDs(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	issuer := NewIdentityIssuer(registry)

	seen := make(map[domain.PeerID]struct{})
	for i := 0; i < 100; i++ {
		id, err := issuer.Issue()
		req.NoError(err)
		_, dup := seen[id]
		req.False(dup)
		seen[id] = struct{}{}
		_, err = registry.Register(id, "", newRecConn(id))
		req.NoError(err)
	}
	req.Equal(100, registry.Count())
}

func TestIdentityIssuer_RetriesOnCollision(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	_, err := registry.Register("0", "", newRecConn("0"))
	req.NoError(err)

	n := 0
	issuer := NewIdentityIssuer(registry, WithGenerator(func() domain.PeerID {
		id := domain.PeerID(fmt.Sprint(n))
		n++
		return id
	}))

	id, err := issuer.Issue()
	req.NoError(err)
	req.Equal(domain.PeerID("1"), id)
}

func TestIdentityIssuer_ExhaustedTinySpace(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// Given every id of a two-id space is registered
	space := []domain.PeerID{"a", "b"}
	for _, id := range space {
		_, err := registry.Register(id, "", newRecConn(id))
		req.NoError(err)
	}
	calls := 0
	issuer := NewIdentityIssuer(registry,
		WithMaxAttempts(5),
		WithGenerator(func() domain.PeerID {
			calls++
			return space[calls%len(space)]
		}))

	// When an id is requested
	_, err := issuer.Issue()

	// Then issuance stops at the bound
	req.ErrorIs(err, domain.ErrIdentityExhausted)
	req.Equal(5, calls)
}
