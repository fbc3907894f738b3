package validation

import (
	"context"
	"sync"
)

// Hooks is a registry of filters scoped by page id, mirroring a host filter
// hook named after the page. Filters added for a page run in registration
// order; pages without filters pass values through.
type Hooks struct {
	mu      sync.RWMutex
	filters map[string][]Filter
}

// NewHooks returns an empty registry.
func NewHooks() *Hooks {
	return &Hooks{filters: make(map[string][]Filter)}
}

// Add appends f to the chain for pageID.
func (h *Hooks) Add(pageID string, f Filter) {
	if h == nil || f == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.filters[pageID] = append(h.filters[pageID], f)
}

// Len reports how many filters are registered for pageID.
func (h *Hooks) Len(pageID string) int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.filters[pageID])
}

// Filter returns a Filter that applies the chain registered for the page id
// it is invoked with. Filters added later are picked up on the next call.
func (h *Hooks) Filter() Filter {
	return func(ctx context.Context, pageID, key, value string) (string, error) {
		if h == nil {
			return value, nil
		}
		h.mu.RLock()
		chain := append([]Filter(nil), h.filters[pageID]...)
		h.mu.RUnlock()
		return Chain(chain...)(ctx, pageID, key, value)
	}
}
