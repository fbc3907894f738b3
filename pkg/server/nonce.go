package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-optionspage/pkg/host"
)

// DefaultNonceTTL applies when NewNonces is given a non-positive ttl.
const DefaultNonceTTL = 12 * time.Hour

type nonceEntry struct {
	action  string
	expires time.Time
}

// Nonces issues random tokens bound to an action. A token verifies for its
// action until it expires and may be reused within that window.
type Nonces struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	tokens map[string]nonceEntry
}

var _ host.NonceIssuer = (*Nonces)(nil)

// NewNonces returns an in-memory nonce issuer.
func NewNonces(ttl time.Duration) *Nonces {
	if ttl <= 0 {
		ttl = DefaultNonceTTL
	}
	return &Nonces{ttl: ttl, now: time.Now, tokens: make(map[string]nonceEntry)}
}

func (n *Nonces) Issue(action string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	n.prune(now)

	token := uuid.NewString()
	n.tokens[token] = nonceEntry{action: action, expires: now.Add(n.ttl)}
	return token
}

func (n *Nonces) Verify(action, token string) bool {
	if token == "" {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	entry, ok := n.tokens[token]
	if !ok {
		return false
	}
	if !n.now().Before(entry.expires) {
		delete(n.tokens, token)
		return false
	}
	return entry.action == action
}

// Len reports how many unexpired tokens are held.
func (n *Nonces) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.prune(n.now())
	return len(n.tokens)
}

func (n *Nonces) prune(now time.Time) {
	for token, entry := range n.tokens {
		if !now.Before(entry.expires) {
			delete(n.tokens, token)
		}
	}
}
