// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engines

import (
	"fmt"
	"sync"
	"testing"
)

func TestEmbeddingCacheFIFOEviction(t *testing.T) {
	c := newEmbeddingCache(3)

	c.put("a", []float32{1})
	c.put("b", []float32{2})
	c.put("c", []float32{3})

	if c.len() != 3 {
		t.Fatalf("expected 3 entries, got %d", c.len())
	}

	// Fourth insert evicts the oldest ("a").
	c.put("d", []float32{4})

	if _, ok := c.get("a"); ok {
		t.Error("expected oldest entry 'a' to be evicted")
	}
	for _, key := range []string{"b", "c", "d"} {
		if _, ok := c.get(key); !ok {
			t.Errorf("expected %q to remain cached", key)
		}
	}
}

func TestEmbeddingCacheUpdateDoesNotGrowQueue(t *testing.T) {
	c := newEmbeddingCache(2)

	c.put("a", []float32{1})
	c.put("a", []float32{9})
	c.put("b", []float32{2})

	if c.len() != 2 {
		t.Fatalf("expected 2 entries after re-insert, got %d", c.len())
	}

	vec, ok := c.get("a")
	if !ok || vec[0] != 9 {
		t.Errorf("expected updated value for 'a', got %v (ok=%v)", vec, ok)
	}

	// "a" keeps its original queue slot, so it is evicted before "b".
	c.put("c", []float32{3})
	if _, ok := c.get("a"); ok {
		t.Error("expected 'a' to be evicted first")
	}
}

func TestEmbeddingCacheConcurrentWriters(t *testing.T) {
	c := newEmbeddingCache(64)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("g%d-k%d", g, i%16)
				c.put(key, []float32{float32(i)})
				c.get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.len() > 64 {
		t.Errorf("cache exceeded capacity under concurrent writes: %d", c.len())
	}
}

func TestEmbeddingCacheDefaultCapacity(t *testing.T) {
	c := newEmbeddingCache(0)
	if c.capacity != DefaultCacheSize {
		t.Errorf("expected default capacity %d, got %d", DefaultCacheSize, c.capacity)
	}
}
