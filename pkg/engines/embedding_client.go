// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engines

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultEmbeddingTimeout is the default timeout for embedding requests.
const DefaultEmbeddingTimeout = 30 * time.Second

// HTTPEmbedder wraps calls to an embeddings sidecar service.
//
// # Description
//
// HTTPEmbedder provides a Go interface to an embeddings service that runs
// transformer models (BGE, Qwen, sentence-transformers) to generate vector
// embeddings for text. It performs no retries and no caching of its own;
// wrap it in EmbeddingSimilarity for cached similarity scoring.
//
// # Thread Safety
//
// HTTPEmbedder is safe for concurrent use.
type HTTPEmbedder struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewHTTPEmbedder creates a client for the embeddings service at baseURL.
//
// # Example
//
//	embedder := engines.NewHTTPEmbedder("http://localhost:8000")
//	vec, err := embedder.Embed(ctx, "Revenue was $10M in Q3.")
func NewHTTPEmbedder(baseURL string) *HTTPEmbedder {
	return &HTTPEmbedder{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultEmbeddingTimeout,
		},
		timeout: DefaultEmbeddingTimeout,
	}
}

// WithTimeout sets a custom timeout for embedding requests.
func (c *HTTPEmbedder) WithTimeout(timeout time.Duration) *HTTPEmbedder {
	c.timeout = timeout
	c.httpClient.Timeout = timeout
	return c
}

// embeddingRequest is the request body for the /batch_embed endpoint.
type embeddingRequest struct {
	Texts []string `json:"texts"`
}

// embeddingResponse is the response from the /batch_embed endpoint.
type embeddingResponse struct {
	Model   string      `json:"model"`
	Vectors [][]float32 `json:"vectors"`
	Dim     int         `json:"dim"`
}

// healthResponse is the response from the /health endpoint.
type healthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// Embed computes a vector embedding for the given text.
//
// # Inputs
//
//   - ctx: Context for cancellation and timeout.
//   - text: The text to embed. Must be non-empty.
//
// # Outputs
//
//   - []float32: The embedding vector.
//   - error: Non-nil if embedding fails. The caller decides retry policy.
func (c *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}
	if text == "" {
		return nil, fmt.Errorf("%w: text is empty", ErrInvalidInput)
	}

	vectors, err := c.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no vectors for text", ErrEmptyResponse)
	}

	return vectors[0], nil
}

// BatchEmbed computes embeddings for multiple texts in a single request.
//
// # Performance
//
// Batching is more efficient than individual Embed calls when embedding
// multiple trial responses, e.g. for the consistency calculator.
func (c *HTTPEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts is empty", ErrInvalidInput)
	}

	bodyBytes, err := json.Marshal(embeddingRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/batch_embed"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(embResp.Vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrEmptyResponse, len(embResp.Vectors), len(texts))
	}

	return embResp.Vectors, nil
}

// Health checks if the embeddings service is available and its model loaded.
func (c *HTTPEmbedder) Health(ctx context.Context) error {
	if ctx == nil {
		return ErrInvalidInput
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("embeddings service unhealthy: status %d: %s", resp.StatusCode, string(body))
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("embeddings service not ready: %s", health.Status)
	}

	return nil
}

// BaseURL returns the configured base URL.
func (c *HTTPEmbedder) BaseURL() string {
	return c.baseURL
}
