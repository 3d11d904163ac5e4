package extract

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedOutput  = errors.New("malformed generation output")
	ErrEmptyOutput      = errors.New("empty generation output")
	ErrTransportFailure = errors.New("generation transport failure")
)

// Kind tags the outcome of an extraction.
type Kind int

const (
	KindOK Kind = iota
	KindMalformed
	KindEmpty
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindMalformed:
		return "malformed_output"
	case KindEmpty:
		return "empty_output"
	case KindTransport:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Result is either a fully shaped value (KindOK) or an explicit failure tag.
// Value is only meaningful for KindOK, Raw and Reason only for KindMalformed and
// Cause only for KindTransport.
type Result[T any] struct {
	Kind   Kind
	Value  T
	Raw    string
	Reason string
	Cause  error
}

func OK[T any](v T) Result[T] {
	return Result[T]{Kind: KindOK, Value: v}
}

func Malformed[T any](raw string) Result[T] {
	return Result[T]{Kind: KindMalformed, Raw: raw}
}

func malformedBecause[T any](raw, reason string) Result[T] {
	return Result[T]{Kind: KindMalformed, Raw: raw, Reason: reason}
}

func Empty[T any]() Result[T] {
	return Result[T]{Kind: KindEmpty}
}

func Transport[T any](cause error) Result[T] {
	return Result[T]{Kind: KindTransport, Cause: cause}
}

// IsOK reports whether the result carries a value.
func (r Result[T]) IsOK() bool {
	return r.Kind == KindOK
}

// Err returns nil for KindOK and a sentinel-wrapped error otherwise.
func (r Result[T]) Err() error {
	switch r.Kind {
	case KindOK:
		return nil
	case KindMalformed:
		return ErrMalformedOutput
	case KindEmpty:
		return ErrEmptyOutput
	case KindTransport:
		if r.Cause == nil {
			return ErrTransportFailure
		}
		return fmt.Errorf("%w: %w", ErrTransportFailure, r.Cause)
	default:
		return fmt.Errorf("unknown extraction kind %d", r.Kind)
	}
}
