// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engines

import (
	"context"
	"fmt"
)

// EmbeddingSimilarity scores text similarity over an injected Embedder.
//
// # Description
//
// EmbeddingSimilarity implements SimilarityEngine by embedding both texts
// and taking the cosine of the vectors. Embeddings are cached by exact text
// in a bounded FIFO cache owned by this handle, so repeated measurements of
// the same context avoid re-embedding it.
//
// # Thread Safety
//
// Safe for concurrent use. The cache is protected by a single mutex; the
// underlying Embedder must itself support concurrent calls.
type EmbeddingSimilarity struct {
	embedder Embedder
	cache    *embeddingCache
}

// NewEmbeddingSimilarity creates a similarity engine over the embedder.
//
// # Inputs
//
//   - embedder: The embedding backend. Must not be nil.
//   - cacheSize: Capacity of the FIFO embedding cache. Values <= 0 use
//     DefaultCacheSize.
func NewEmbeddingSimilarity(embedder Embedder, cacheSize int) (*EmbeddingSimilarity, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is nil", ErrInvalidInput)
	}
	return &EmbeddingSimilarity{
		embedder: embedder,
		cache:    newEmbeddingCache(cacheSize),
	}, nil
}

// Similarity implements SimilarityEngine.
//
// # Description
//
// Returns the cosine similarity in [-1,1] between the embeddings of a and b.
// Cache hits are keyed by exact string match; a miss embeds the text and
// stores the vector. Engine failures propagate to the caller unmodified.
func (s *EmbeddingSimilarity) Similarity(ctx context.Context, a, b string) (float64, error) {
	if ctx == nil {
		return 0, ErrInvalidInput
	}
	if a == "" || b == "" {
		return 0, fmt.Errorf("%w: texts must be non-empty", ErrInvalidInput)
	}

	vecA, err := s.embedding(ctx, a)
	if err != nil {
		return 0, err
	}
	vecB, err := s.embedding(ctx, b)
	if err != nil {
		return 0, err
	}

	return CosineSimilarity(vecA, vecB), nil
}

// embedding returns the cached vector for text, embedding on a miss.
func (s *EmbeddingSimilarity) embedding(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := s.cache.get(text); ok {
		return vec, nil
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	s.cache.put(text, vec)
	return vec, nil
}

// CacheLen returns the number of cached embeddings. Intended for tests
// and operational introspection.
func (s *EmbeddingSimilarity) CacheLen() int {
	return s.cache.len()
}
