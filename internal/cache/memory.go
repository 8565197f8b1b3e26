// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryCache holds entries in process memory. It is the backend used when
// Redis is not configured, so each server process keeps its own list copy.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	closed  bool
	done    chan struct{}

	ttl time.Duration
	now func() time.Time
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

func (e memoryEntry) expiredAt(t time.Time) bool {
	return t.After(e.expires)
}

// NewMemoryCache returns a MemoryCache whose entries live for ttl unless Set
// says otherwise. With sweepEvery > 0 a goroutine drops expired entries on
// that interval until Close.
func NewMemoryCache(ttl, sweepEvery time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
		ttl:     ttl,
		now:     time.Now,
	}
	if sweepEvery > 0 {
		go c.sweepLoop(sweepEvery)
	}
	return c
}

// Get returns a copy of the stored bytes.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	closed := c.closed
	c.mu.RUnlock()

	switch {
	case closed:
		return nil, ErrCacheClosed
	case !ok, e.expiredAt(c.now()):
		return nil, ErrCacheMiss
	}
	return slices.Clone(e.data), nil
}

// Set stores a copy of value.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}
	e := memoryEntry{
		data:    append([]byte(nil), value...),
		expires: c.now().Add(ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}
	c.entries[key] = e
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}
	delete(c.entries, key)
	return nil
}

// Close stops the sweeper and drops all entries. It is safe to call twice.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.entries = nil
		close(c.done)
	}
	return nil
}

// Len reports how many entries are held, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryCache) sweep() {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if e.expiredAt(now) {
			delete(c.entries, k)
		}
	}
}

func (c *MemoryCache) sweepLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-t.C:
			c.sweep()
		}
	}
}

var _ Cache = (*MemoryCache)(nil)
