// Package jsonutil provides shared helpers for decoding backend JSON payloads
// with contextual error messages.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxBodyBytes caps how much of a response body ReadLimited will read.
const MaxBodyBytes = 1 << 20

// ErrBodyTooLarge is returned by ReadLimited when the body exceeds MaxBodyBytes.
var ErrBodyTooLarge = errors.New("body exceeds size limit")

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v any, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// UnmarshalArrayAllowEmpty unmarshals a JSON array into a slice. A missing
// or null payload yields an empty, non-nil slice.
func UnmarshalArrayAllowEmpty[T any](data []byte, context string) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	var entries []T
	if err := UnmarshalWithContext(trimmed, &entries, context); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []T{}
	}
	return entries, nil
}

// ReadLimited reads all of r. A body longer than MaxBodyBytes is an
// ErrBodyTooLarge rather than a silently truncated payload.
func ReadLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxBodyBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, MaxBodyBytes)
	}
	return data, nil
}

// LooksLikeJSON reports whether data starts like a JSON object or array.
func LooksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}
