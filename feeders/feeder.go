// Package feeders provides configuration sources for modhook.LoadConfig.
// File feeders overwrite only the keys present in the file, so they can be
// layered over defaults and each other; the environment feeder runs last.
package feeders

import (
	"errors"
	"fmt"
	"os"
)

// Static error definitions for feeders
var (
	ErrFileNotFound    = errors.New("config file not found")
	ErrInvalidTarget   = errors.New("feeder target must be a non-nil pointer")
	ErrEmptyPath       = errors.New("config file path is empty")
	ErrEnvParseFailure = errors.New("failed to parse environment")
)

// Feeder interface for common operations
type Feeder interface {
	Feed(target any) error
}

// readFile loads the file behind a file feeder.
func readFile(path, fileType string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPath, fileType)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s file %s: %w", fileType, path, err)
	}
	return data, nil
}

// feedKey is a common helper for extracting one top-level key from a
// config file into target.
func feedKey(
	feeder Feeder,
	key string,
	target any,
	marshalFunc func(any) ([]byte, error),
	unmarshalFunc func([]byte, any) error,
	fileType string,
) error {
	var allData map[string]any
	if err := feeder.Feed(&allData); err != nil {
		return fmt.Errorf("failed to read %s: %w", fileType, err)
	}

	value, exists := allData[key]
	if !exists {
		return nil
	}

	// Remarshal and unmarshal to handle type conversions
	valueBytes, err := marshalFunc(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s data: %w", fileType, err)
	}
	if err = unmarshalFunc(valueBytes, target); err != nil {
		return fmt.Errorf("failed to unmarshal %s data: %w", fileType, err)
	}
	return nil
}
