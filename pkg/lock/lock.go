// Package lock provides in-process mutual exclusion keyed by entity.
//
// Grant mutations are serialized per affected entity: two goroutines
// operating on the same (entity type, id) pair execute their critical
// sections strictly one after the other, while unrelated entities proceed
// concurrently. Locks are keyed as fine as possible, never coarser.
//
// The lock table lives in process memory. It does not survive restarts and
// does not coordinate across instances; a horizontally scaled deployment
// needs a database advisory lock or an external coordination service
// instead.
package lock

import (
	"sort"
	"sync"
)

// Key identifies the entity a lock protects. Callers pass explicit, typed
// keys; there is no runtime discovery of id arguments.
type Key struct {
	EntityType string
	ID         int64
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// Manager hands out per-key mutexes, creating them on demand and dropping
// them when the last holder releases.
type Manager struct {
	mu      sync.Mutex
	entries map[Key]*entry
}

// NewManager creates an empty lock manager.
func NewManager() *Manager {
	return &Manager{entries: make(map[Key]*entry)}
}

// Lock blocks until the key's lock is held, and returns the release
// function. Callers are expected to release in a defer so an error path
// cannot leak a held lock.
func (m *Manager) Lock(key Key) func() {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		m.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(m.entries, key)
		}
		m.mu.Unlock()
	}
}

// LockAll acquires every key's lock and returns one release function for
// all of them. Keys are de-duplicated so the same effective entity is never
// locked twice in one call, and sorted so two batches over overlapping key
// sets cannot deadlock against each other.
func (m *Manager) LockAll(keys []Key) func() {
	keys = dedupe(keys)

	releases := make([]func(), 0, len(keys))
	for _, key := range keys {
		releases = append(releases, m.Lock(key))
	}

	return func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
}

// Coercer translates a batch of raw ids into the lock keys that actually
// guard them, e.g. iteration ids into the keys of their owning campaigns.
type Coercer func(ids []int64) ([]Key, error)

// LockCoerced coerces the ids and acquires the resulting key set.
func (m *Manager) LockCoerced(ids []int64, coerce Coercer) (func(), error) {
	keys, err := coerce(ids)
	if err != nil {
		return nil, err
	}
	return m.LockAll(keys), nil
}

func dedupe(keys []Key) []Key {
	seen := make(map[Key]struct{}, len(keys))
	out := make([]Key, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntityType != out[j].EntityType {
			return out[i].EntityType < out[j].EntityType
		}
		return out[i].ID < out[j].ID
	})
	return out
}
