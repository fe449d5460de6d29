// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Writer appends audit entries to a JSONL file.
//
// # Description
//
// Each entry serializes to one JSON line and reaches the file in a single
// Write call on an O_APPEND descriptor, so concurrent writers (including
// other processes holding the same file) never interleave partial lines.
//
// # Thread Safety
//
// Safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	file   *os.File
	path   string
	closed bool
}

// NewWriter opens (creating if needed) the JSONL file at path for append.
// Parent directories are created.
func NewWriter(path string) (*Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty audit log path", ErrInvalidEntry)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create audit log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	return &Writer{file: f, path: path}, nil
}

// Path returns the log file path.
func (w *Writer) Path() string {
	return w.path
}

// Write appends one entry as a single JSON line.
func (w *Writer) Write(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: nil entry", ErrInvalidEntry)
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrInvalidEntry, err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWriterClosed
	}

	if _, err := w.file.Write(line); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// Close syncs and closes the log file. Further writes fail with
// ErrWriterClosed. Close is idempotent.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.file.Sync(); err != nil {
		w.file.Close()
		return fmt.Errorf("sync audit log: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close audit log: %w", err)
	}
	return nil
}
