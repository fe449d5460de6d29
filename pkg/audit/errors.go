// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package audit

import "errors"

var (
	// ErrInvalidEntry indicates an entry that cannot be constructed or
	// persisted.
	ErrInvalidEntry = errors.New("invalid audit entry")

	// ErrWriterClosed indicates a write after Close.
	ErrWriterClosed = errors.New("audit writer closed")
)
