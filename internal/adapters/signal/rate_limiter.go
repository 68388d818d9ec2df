package signal

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/soliskit/pinto/internal/domain"
)

// PeerRateLimiter holds one token bucket per connected peer.
// A zero limit disables limiting.
type PeerRateLimiter struct {
	mu       sync.Mutex
	limiters map[domain.PeerID]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewPeerRateLimiter(perSecond float64, burst int) *PeerRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &PeerRateLimiter{
		limiters: make(map[domain.PeerID]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (rl *PeerRateLimiter) Allow(id domain.PeerID) bool {
	if rl.limit <= 0 {
		return true
	}
	rl.mu.Lock()
	lim, ok := rl.limiters[id]
	if !ok {
		lim = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[id] = lim
	}
	rl.mu.Unlock()
	return lim.Allow()
}

func (rl *PeerRateLimiter) Forget(id domain.PeerID) {
	rl.mu.Lock()
	delete(rl.limiters, id)
	rl.mu.Unlock()
}
