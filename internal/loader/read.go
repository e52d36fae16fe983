// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// ErrNotList is returned when a dataset file does not hold a JSON array.
var ErrNotList = errors.New("data must be a list of objects")

// readArray reads path and splits its top-level JSON array into raw
// elements.
func readArray(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return splitArray(data, path)
}

func splitArray(data []byte, name string) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%s: %w", name, ErrNotList)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return items, nil
}

// WriteJSON writes v as indented JSON, creating or truncating path.
func WriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // result files are meant to be shared
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
