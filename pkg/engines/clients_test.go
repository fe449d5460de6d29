// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engines

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newFakeEmbeddingServer serves deterministic embeddings keyed by text length.
func newFakeEmbeddingServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			json.NewEncoder(w).Encode(healthResponse{Status: "ok", Model: "test-model"})

		case "/batch_embed":
			var req embeddingRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			vectors := make([][]float32, len(req.Texts))
			for i, text := range req.Texts {
				vectors[i] = []float32{float32(len(text)%10) / 10.0, 0.5, 0.3}
			}
			json.NewEncoder(w).Encode(embeddingResponse{
				Model:   "test-model",
				Vectors: vectors,
				Dim:     3,
			})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestHTTPEmbedderBatchEmbed(t *testing.T) {
	server := newFakeEmbeddingServer(t)
	defer server.Close()

	embedder := NewHTTPEmbedder(server.URL)
	ctx := context.Background()

	if err := embedder.Health(ctx); err != nil {
		t.Fatalf("Health: %v", err)
	}

	vectors, err := embedder.BatchEmbed(ctx, []string{"one", "twenty two"})
	if err != nil {
		t.Fatalf("BatchEmbed: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if len(vectors[0]) != 3 {
		t.Errorf("expected 3-dim vectors, got %d", len(vectors[0]))
	}
}

func TestHTTPEmbedderValidation(t *testing.T) {
	embedder := NewHTTPEmbedder("http://localhost:1")

	if _, err := embedder.Embed(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty text, got %v", err)
	}
	if _, err := embedder.BatchEmbed(context.Background(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty batch, got %v", err)
	}
}

func TestHTTPEmbedderUnavailable(t *testing.T) {
	// Nothing listens here; the dial fails fast.
	embedder := NewHTTPEmbedder("http://127.0.0.1:1")

	_, err := embedder.BatchEmbed(context.Background(), []string{"text"})
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("expected ErrEngineUnavailable, got %v", err)
	}
}

func TestHTTPEntailerEntail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/entail" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req entailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		resp := entailResponse{Label: "entailment", Score: 0.92}
		if req.Premise != req.Hypothesis {
			resp = entailResponse{Label: "contradiction", Score: 0.04}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	entailer := NewHTTPEntailer(server.URL)
	ctx := context.Background()

	got, err := entailer.Entail(ctx, "Revenue was $10M", "Revenue was $10M")
	if err != nil {
		t.Fatalf("Entail: %v", err)
	}
	if got.Label != LabelEntailment || got.Score != 0.92 {
		t.Errorf("unexpected result: %+v", got)
	}

	got, err = entailer.Entail(ctx, "Revenue was $10M", "Revenue was $15M")
	if err != nil {
		t.Fatalf("Entail: %v", err)
	}
	if got.Label != LabelContradiction {
		t.Errorf("expected contradiction, got %+v", got)
	}
}

func TestHTTPEntailerRejectsUnknownLabel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(entailResponse{Label: "maybe", Score: 0.5})
	}))
	defer server.Close()

	_, err := NewHTTPEntailer(server.URL).Entail(context.Background(), "a", "b")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse for unknown label, got %v", err)
	}
}
