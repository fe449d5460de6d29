// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engines

import "errors"

// Sentinel errors for the engines package.
var (
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEngineUnavailable indicates the backing inference service is down.
	ErrEngineUnavailable = errors.New("engine unavailable")

	// ErrEmptyResponse indicates the engine returned no usable result.
	ErrEmptyResponse = errors.New("engine returned empty response")
)
