package source

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorKind classifies portal failures. The orchestrator never special-cases
// a portal by name, only by its spec flags and the observed kind.
type ErrorKind string

const (
	KindRateLimited  ErrorKind = "rate_limited"
	KindBlocked      ErrorKind = "blocked"
	KindTimeout      ErrorKind = "timeout"
	KindParseFailure ErrorKind = "parse_failure"
	KindNetwork      ErrorKind = "network_error"
)

// Transient reports whether the kind is worth retrying within a run. Blocked
// and ParseFailure are sticky: once a portal is blocked or its page structure
// changed, retrying inside the same run cannot help.
func (k ErrorKind) Transient() bool {
	switch k {
	case KindRateLimited, KindTimeout, KindNetwork:
		return true
	}
	return false
}

// Error is a classified portal failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a kind.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Errorf builds a classified error from a format string.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the error kind from err, classifying plain errors by their
// shape: deadline/timeout errors map to KindTimeout, everything else that
// smells like the network maps to KindNetwork.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline") {
		return KindTimeout
	}

	return KindNetwork
}
