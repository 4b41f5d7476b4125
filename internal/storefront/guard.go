package storefront

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// InFlightGuard rejects a mutating action while the same one is still running.
type InFlightGuard struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewInFlightGuard() *InFlightGuard {
	return &InFlightGuard{pending: make(map[string]struct{})}
}

// Acquire claims (session, action, target). ok is false when it is already held;
// otherwise release must be called once the action completes.
func (g *InFlightGuard) Acquire(sessionToken, action, target string) (release func(), ok bool) {
	key := guardKey(sessionToken, action, target)

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.pending[key]; busy {
		return nil, false
	}
	g.pending[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.pending, key)
			g.mu.Unlock()
		})
	}, true
}

// guardKey never keeps the raw token in memory.
func guardKey(sessionToken, action, target string) string {
	sum := sha256.Sum256([]byte(sessionToken))
	return hex.EncodeToString(sum[:8]) + "|" + action + "|" + target
}
