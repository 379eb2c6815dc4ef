package server

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/abhisek/quizwise/internal/chat"
	"github.com/abhisek/quizwise/internal/session"
)

// browserState is the quiz and chat of one browser session.
type browserState struct {
	mu       sync.Mutex
	quiz     *session.State
	cancel   context.CancelFunc // non-nil while a generation runs
	chat     *chat.Session

	noticeMu sync.Mutex
	notice   string
}

func (b *browserState) setNotice(msg string) {
	b.noticeMu.Lock()
	defer b.noticeMu.Unlock()
	b.notice = msg
}

// takeNotice returns the pending notice and clears it.
func (b *browserState) takeNotice() string {
	b.noticeMu.Lock()
	defer b.noticeMu.Unlock()
	n := b.notice
	b.notice = ""
	return n
}

// registry holds browser states in memory. Every lookup extends an entry's
// lifetime; idle entries are swept when new ones are created and any
// generation they still own is cancelled.
type registry struct {
	cache *ttlcache.Cache[string, *browserState]
}

func newRegistry(idle time.Duration) *registry {
	cache := ttlcache.New(ttlcache.WithTTL[string, *browserState](idle))
	cache.OnEviction(func(_ context.Context, _ ttlcache.EvictionReason, item *ttlcache.Item[string, *browserState]) {
		b := item.Value()
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.cancel != nil {
			b.cancel()
			b.cancel = nil
		}
	})
	return &registry{cache: cache}
}

func (r *registry) get(id string) *browserState {
	if item := r.cache.Get(id); item != nil {
		return item.Value()
	}
	r.cache.DeleteExpired()
	item, _ := r.cache.GetOrSet(id, &browserState{quiz: session.New()})
	return item.Value()
}

func (r *registry) len() int {
	return r.cache.Len()
}
