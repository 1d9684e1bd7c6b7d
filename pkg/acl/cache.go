package acl

import (
	"sync"

	"github.com/perimetra/tmacl/pkg/acl/store"
)

// Cache is a caching layer for grant lookups, keyed by object identity.
// Mutating service operations evict the identity they touch; RefreshAcls
// clears everything.
type Cache interface {
	// Get retrieves the cached grants for an identity.
	Get(oi ObjectIdentity) ([]store.Grant, bool)

	// Put caches the grants for an identity.
	Put(oi ObjectIdentity, grants []store.Grant)

	// Evict removes an identity from the cache.
	Evict(oi ObjectIdentity)

	// Clear empties the cache.
	Clear()
}

type defaultCache struct {
	sync.RWMutex
	grants map[ObjectIdentity][]store.Grant
}

// NewCache creates the default in-memory cache.
func NewCache() Cache {
	return &defaultCache{grants: make(map[ObjectIdentity][]store.Grant)}
}

func (c *defaultCache) Get(oi ObjectIdentity) ([]store.Grant, bool) {
	c.RLock()
	grants, ok := c.grants[oi]
	c.RUnlock()
	return grants, ok
}

func (c *defaultCache) Put(oi ObjectIdentity, grants []store.Grant) {
	c.Lock()
	c.grants[oi] = grants
	c.Unlock()
}

func (c *defaultCache) Evict(oi ObjectIdentity) {
	c.Lock()
	delete(c.grants, oi)
	c.Unlock()
}

func (c *defaultCache) Clear() {
	c.Lock()
	c.grants = make(map[ObjectIdentity][]store.Grant)
	c.Unlock()
}
