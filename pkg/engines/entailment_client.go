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

// DefaultEntailmentTimeout is the default timeout for NLI requests.
const DefaultEntailmentTimeout = 30 * time.Second

// HTTPEntailer wraps calls to a natural-language-inference sidecar service.
//
// # Description
//
// HTTPEntailer provides a Go interface to an NLI service (typically a
// DeBERTa/RoBERTa MNLI model behind HTTP) that classifies a (premise,
// hypothesis) pair as entailment, neutral, or contradiction with a scalar
// entailment score.
//
// # Thread Safety
//
// HTTPEntailer is safe for concurrent use.
type HTTPEntailer struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPEntailer creates a client for the NLI service at baseURL.
func NewHTTPEntailer(baseURL string) *HTTPEntailer {
	return &HTTPEntailer{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultEntailmentTimeout,
		},
	}
}

// WithTimeout sets a custom timeout for NLI requests.
func (c *HTTPEntailer) WithTimeout(timeout time.Duration) *HTTPEntailer {
	c.httpClient.Timeout = timeout
	return c
}

// entailRequest is the request body for the /entail endpoint.
type entailRequest struct {
	Premise    string `json:"premise"`
	Hypothesis string `json:"hypothesis"`
}

// entailResponse is the response from the /entail endpoint.
type entailResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Entail classifies the NLI relation between premise and hypothesis.
//
// # Inputs
//
//   - ctx: Context for cancellation and timeout.
//   - premise: The grounding context.
//   - hypothesis: The answer under evaluation.
//
// # Outputs
//
//   - Entailment: Label plus score in [0,1].
//   - error: Non-nil on transport failure or an unrecognized label.
//     No retries are performed; the caller owns retry policy.
func (c *HTTPEntailer) Entail(ctx context.Context, premise, hypothesis string) (Entailment, error) {
	if ctx == nil {
		return Entailment{}, ErrInvalidInput
	}
	if premise == "" || hypothesis == "" {
		return Entailment{}, fmt.Errorf("%w: premise and hypothesis must be non-empty", ErrInvalidInput)
	}

	bodyBytes, err := json.Marshal(entailRequest{Premise: premise, Hypothesis: hypothesis})
	if err != nil {
		return Entailment{}, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/entail"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return Entailment{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Entailment{}, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Entailment{}, fmt.Errorf("entailment service returned status %d: %s", resp.StatusCode, string(body))
	}

	var entResp entailResponse
	if err := json.NewDecoder(resp.Body).Decode(&entResp); err != nil {
		return Entailment{}, fmt.Errorf("decode response: %w", err)
	}

	result := Entailment{Label: EntailmentLabel(entResp.Label), Score: entResp.Score}
	if !result.Label.Valid() {
		return Entailment{}, fmt.Errorf("%w: unknown entailment label %q", ErrEmptyResponse, entResp.Label)
	}

	return result, nil
}

// Health checks if the NLI service is available.
func (c *HTTPEntailer) Health(ctx context.Context) error {
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
		return fmt.Errorf("entailment service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
