// internal/geo/geo.go
// Geolocation collaborator. The platform's callback API is wrapped as a
// context-aware Source so callers can join acquisition with other work.

package geo

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Position struct {
	Lat float64
	Lon float64
}

// Options mirror the platform geolocation knobs.
type Options struct {
	HighAccuracy bool
	MaximumAge   time.Duration
	Timeout      time.Duration
}

// Code classifies acquisition failures the way the platform does.
type Code int

const (
	CodeUnknown Code = iota
	CodePermissionDenied
	CodeUnavailable
	CodeTimeout
)

func (c Code) String() string {
	switch c {
	case CodePermissionDenied:
		return "permission_denied"
	case CodeUnavailable:
		return "unavailable"
	case CodeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case CodePermissionDenied:
		return "geolocation: permission denied"
	case CodeUnavailable:
		return "geolocation: position unavailable"
	case CodeTimeout:
		return "geolocation: timeout"
	}
	if e.Err != nil {
		return fmt.Sprintf("geolocation: %v", e.Err)
	}
	return "geolocation: unknown error"
}

func (e *Error) Unwrap() error { return e.Err }

// Classify extracts the failure code from any error chain.
func Classify(err error) Code {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}
	return CodeUnknown
}

// Source provides the current position. Implementations must respect ctx.
type Source interface {
	Current(ctx context.Context, opts Options) (Position, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, opts Options) (Position, error)

func (f SourceFunc) Current(ctx context.Context, opts Options) (Position, error) {
	return f(ctx, opts)
}

// Static always reports a fixed position. Used when no live source exists.
type Static struct {
	Pos Position
}

func (s Static) Current(ctx context.Context, opts Options) (Position, error) {
	return s.Pos, nil
}

// Acquire runs src under opts.Timeout and normalizes deadline errors.
func Acquire(ctx context.Context, src Source, opts Options) (Position, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	pos, err := src.Current(ctx, opts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Position{}, &Error{Code: CodeTimeout, Err: err}
		}
		var ge *Error
		if errors.As(err, &ge) {
			return Position{}, err
		}
		return Position{}, &Error{Code: CodeUnavailable, Err: err}
	}
	return pos, nil
}
