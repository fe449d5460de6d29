// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package calcs

import "errors"

// Sentinel errors for the calcs package. Validation errors are caller bugs:
// they are always surfaced, never silently defaulted.
var (
	// ErrInsufficientTrials indicates too few valid trials for the
	// requested statistic.
	ErrInsufficientTrials = errors.New("insufficient trial data")

	// ErrInvalidInput indicates malformed calculator input.
	ErrInvalidInput = errors.New("invalid input")
)
