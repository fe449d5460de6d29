// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package accuracy

import "errors"

// Sentinel errors for the accuracy package.
var (
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSimilarityEngine wraps failures of the similarity capability.
	ErrSimilarityEngine = errors.New("similarity engine failed")

	// ErrEntailmentEngine wraps failures of the entailment capability.
	ErrEntailmentEngine = errors.New("entailment engine failed")
)
