package lift

import (
	"sync"

	"github.com/funvibe/ornlift/internal/term"
)

// GlobalKey identifies a cached lifting across independent calls: the same
// term lifted under a different direction or type pair is a different entry.
type GlobalKey struct {
	Dir    Direction
	Source string
	Target string
	Term   string
}

// GlobalCache is the session-wide store of lifted terms. It is append-only:
// entries are added, never overwritten or invalidated. The lock serializes
// writers from independent lifting calls sharing one session.
type GlobalCache struct {
	mu      sync.RWMutex
	entries map[GlobalKey]term.Term
}

func NewGlobalCache() *GlobalCache {
	return &GlobalCache{entries: make(map[GlobalKey]term.Term)}
}

func (c *GlobalCache) Get(key GlobalKey) (term.Term, bool) {
	c.mu.RLock()
	t, ok := c.entries[key]
	c.mu.RUnlock()
	return t, ok
}

// Put records an entry. An existing entry wins: the first lifted form of a
// term is the one every later call sees.
func (c *GlobalCache) Put(key GlobalKey, lifted term.Term) {
	c.mu.Lock()
	if _, ok := c.entries[key]; !ok {
		c.entries[key] = lifted
	}
	c.mu.Unlock()
}

func (c *GlobalCache) Len() int {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return n
}

// Range visits every entry; stop by returning false.
func (c *GlobalCache) Range(visit func(GlobalKey, term.Term) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, v := range c.entries {
		if !visit(k, v) {
			return
		}
	}
}

// LocalCache memoizes lifted terms within one top-level lifting call. It is
// keyed by term alone: the configuration is fixed for the call's lifetime,
// and the cache is discarded when the call completes.
type LocalCache struct {
	entries map[string]term.Term
}

func NewLocalCache() *LocalCache {
	return &LocalCache{entries: make(map[string]term.Term)}
}

func (c *LocalCache) Get(t term.Term) (term.Term, bool) {
	lifted, ok := c.entries[t.Key()]
	return lifted, ok
}

func (c *LocalCache) Put(t, lifted term.Term) {
	c.entries[t.Key()] = lifted
}

func (c *LocalCache) Len() int { return len(c.entries) }
