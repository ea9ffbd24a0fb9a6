package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a provider failure.
type ErrorKind int

const (
	// KindTimeout means the request exceeded its deadline.
	KindTimeout ErrorKind = iota
	// KindBadResponse means the provider answered with a non-2xx status
	// or a payload we could not decode.
	KindBadResponse
	// KindUnreachable means the request never got a response.
	KindUnreachable
)

// String returns a short label for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindBadResponse:
		return "bad response"
	case KindUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// ProviderError is the typed error returned by every client call.
type ProviderError struct {
	Kind ErrorKind
	Op   string // e.g. "timings", "gToH", "qibla"
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// classify wraps a transport or decode error into a ProviderError.
func classify(op string, err error) *ProviderError {
	kind := KindUnreachable

	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		kind = KindTimeout
	}

	return &ProviderError{Kind: kind, Op: op, Err: err}
}

// badResponse builds a ProviderError for decode failures and API-level errors.
func badResponse(op string, err error) *ProviderError {
	return &ProviderError{Kind: KindBadResponse, Op: op, Err: err}
}
