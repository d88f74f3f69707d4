package bencode

import (
	"errors"
	"fmt"
)

// Error kinds reported by the decoder. Use errors.Is to classify a failure.
var (
	ErrMalformedInput = errors.New("malformed input")
	ErrTruncated      = errors.New("truncated input")
	ErrTrailingData   = errors.New("trailing data")
	ErrInputTooDeep   = errors.New("input too deep")
)

// ErrUnencodable is returned by Encode for nil or INVALID values.
var ErrUnencodable = errors.New("bencode: value cannot be encoded")

// DecodeError describes where and why decoding stopped.
type DecodeError struct {
	Kind   error
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bencode: %s at offset %d: %s", e.Kind, e.Offset, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

// Is reports truncated and too-deep input as malformed as well.
func (e *DecodeError) Is(target error) bool {
	if target != ErrMalformedInput {
		return false
	}
	return e.Kind == ErrTruncated || e.Kind == ErrInputTooDeep
}

func malformed(offset int, format string, args ...any) error {
	return &DecodeError{Kind: ErrMalformedInput, Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

func truncated(offset int, format string, args ...any) error {
	return &DecodeError{Kind: ErrTruncated, Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
