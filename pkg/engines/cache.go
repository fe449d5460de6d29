// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engines

import "sync"

// DefaultCacheSize is the default capacity of the embedding cache.
const DefaultCacheSize = 1024

// embeddingCache is a bounded FIFO cache mapping exact text to its embedding.
//
// Eviction follows insertion order: when the cache is full, the oldest entry
// is removed before a new one is inserted. A single mutex protects both the
// map and the insertion-order queue so concurrent writers cannot corrupt the
// ordering or duplicate/lose entries.
type embeddingCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string][]float32
	order    []string
}

func newEmbeddingCache(capacity int) *embeddingCache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &embeddingCache{
		capacity: capacity,
		entries:  make(map[string][]float32, capacity),
		order:    make([]string, 0, capacity),
	}
}

// get returns the cached embedding for text, if present.
func (c *embeddingCache) get(text string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	vec, ok := c.entries[text]
	return vec, ok
}

// put inserts an embedding, evicting the oldest entry when full.
// Re-inserting an existing key updates the value without growing the queue.
func (c *embeddingCache) put(text string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[text]; exists {
		c.entries[text] = vec
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[text] = vec
	c.order = append(c.order, text)
}

// len returns the number of cached entries.
func (c *embeddingCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
