// Package model defines the boundary to the external language model
// collaborator: the Client interface the engine suspends on, per-call
// options, and the tagged error taxonomy surfaced by client
// implementations.
package model

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Options tune a single generation call. Zero values mean "use the client's
// configured defaults".
type Options struct {
	Temperature   float64
	MaxTokens     int
	ContextWindow int

	// DeepReasoning requests a richer reasoning pass and extends the call
	// timeout from DefaultTimeout to DeepReasoningTimeout.
	DeepReasoning bool
}

// Call timeouts. Deep reasoning passes are given substantially longer.
const (
	DefaultTimeout       = 120 * time.Second
	DeepReasoningTimeout = 300 * time.Second
)

// Timeout returns the call timeout implied by the options.
func Timeout(opts Options) time.Duration {
	if opts.DeepReasoning {
		return DeepReasoningTimeout
	}
	return DefaultTimeout
}

// Client is the model collaborator. All three calls are terminal on error
// for the current query: clients never retry internally.
type Client interface {
	// Ping reports whether the backend is reachable and ready.
	Ping(ctx context.Context) error

	// Generate runs a single blocking completion and returns the full text.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)

	// GenerateStream streams the completion, forwarding each chunk to
	// onChunk (which may be nil) as it arrives, and returns the accumulated
	// text. The accumulation and the callback see the same chunks in the
	// same order and stop at the same point on error; on a mid-stream
	// failure the partial text accumulated so far is returned alongside the
	// error, and already-delivered chunks are not retracted.
	GenerateStream(ctx context.Context, prompt string, opts Options, onChunk func(string)) (string, error)
}

// ErrorKind classifies collaborator failures.
type ErrorKind int

const (
	// KindConnection means the collaborator could not be reached at all.
	KindConnection ErrorKind = iota
	// KindBackend means the collaborator was reachable but answered with a
	// failure status.
	KindBackend
	// KindStream means the stream broke after partial output was delivered.
	KindStream
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnection:
		return "connection failure"
	case KindBackend:
		return "backend error"
	case KindStream:
		return "stream failure"
	default:
		return "unknown failure"
	}
}

// Error is the tagged failure surfaced by collaborator clients.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a tagged collaborator error.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain; ok is false when the error
// did not originate at the collaborator boundary.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
