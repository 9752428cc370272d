// Package bus carries the in-process catalog broadcast: every commit (or
// remote change event) publishes the full snapshot and every open view
// re-projects from it. Delivery is synchronous and in subscription
// order, so a publisher returns only after all views have seen the new
// state.
package bus

import (
	"sync"

	"github.com/Mohamedtamer-1/Icaro/internal/domain"
)

type Bus struct {
	mu   sync.RWMutex
	subs []func(domain.Snapshot)
}

func New() *Bus { return &Bus{} }

func (b *Bus) Subscribe(fn func(domain.Snapshot)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

func (b *Bus) Publish(s domain.Snapshot) {
	b.mu.RLock()
	subs := make([]func(domain.Snapshot), len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(s)
	}
}
