// Package args decodes raw JSON tool arguments into typed handler inputs.
//
// Decoding is strict: the input must be well-formed JSON of the expected
// shape, and it is size-limited so a hostile client cannot feed an
// arbitrarily large argument object to a handler. Malformed protocol payloads
// never reach this package; the dispatcher rejects those with a parse error
// before a tool is resolved.
package args

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultMaxInputSize is the maximum accepted size for an argument payload (10MB).
const DefaultMaxInputSize = 10 * 1024 * 1024

// ErrInputTooLarge is returned when an argument payload exceeds the size limit.
var ErrInputTooLarge = errors.New("argument payload exceeds maximum input size")

// ErrEmptyInput is returned when the argument payload is empty or whitespace.
var ErrEmptyInput = errors.New("argument payload is empty")

// To decodes a JSON byte slice into a value of type T using the default size
// limit.
//
// Usage:
//
//	type WeatherParams struct {
//	    Location string `json:"location"`
//	}
//	params, err := args.To[WeatherParams](raw)
func To[T any](raw []byte) (T, error) {
	return ToWithLimit[T](raw, DefaultMaxInputSize)
}

// ToWithLimit decodes a JSON byte slice into a value of type T, rejecting
// payloads larger than maxSize bytes. A maxSize of 0 disables the limit.
func ToWithLimit[T any](raw []byte, maxSize int) (T, error) {
	var result T

	if maxSize > 0 && len(raw) > maxSize {
		return result, fmt.Errorf("%w: %d bytes (limit %d)", ErrInputTooLarge, len(raw), maxSize)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return result, ErrEmptyInput
	}

	if err := json.Unmarshal(trimmed, &result); err != nil {
		return result, fmt.Errorf("decoding arguments: %w", err)
	}

	return result, nil
}

// ToMap decodes a JSON byte slice into a generic map. Empty input yields an
// empty map rather than an error, matching the protocol convention that an
// absent arguments object means "no arguments".
func ToMap(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	m, err := To[map[string]any](raw)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}
