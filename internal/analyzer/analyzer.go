// Package analyzer wraps the external SMART-scoring service.
package analyzer

import (
	"context"
	"errors"
)

var (
	// ErrTimeout means the analyzer did not answer within the deadline.
	// Callers take the fail-open degraded-save path, never surface this
	// to the user as a failure.
	ErrTimeout = errors.New("analyzer timeout")
	// ErrAnalysis means the analyzer answered with an error or returned a
	// malformed result. Same fail-open policy as ErrTimeout.
	ErrAnalysis = errors.New("analysis failed")
	// ErrUnavailable means no analyzer is wired at all.
	ErrUnavailable = errors.New("analyzer unavailable")
)

// Result is the fixed-shape outcome of one analysis. Malformed service
// responses are rejected here so missing fields never propagate silently.
type Result struct {
	// Score is the SMART score in [0, 10].
	Score float64
	// Suggestion is a rewritten version of the commitment.
	Suggestion string
	// Feedback explains which SMART criteria are missing.
	Feedback string
}

// Scorer scores free-text commitments. Implemented by the gRPC client and
// by the fail-open Unavailable stand-in.
type Scorer interface {
	// Analyze scores text for the given user. Errors are ErrTimeout,
	// ErrAnalysis, or ErrUnavailable (possibly wrapped).
	Analyze(ctx context.Context, userID, text string) (Result, error)

	// Healthy reports whether the scoring backend is reachable.
	Healthy(ctx context.Context) bool

	// Close releases resources.
	Close()
}

// Unavailable is a Scorer used when no analyzer endpoint is configured or
// the connection failed at startup. Every call reports ErrUnavailable,
// which the orchestrator converts into a degraded save, so users can keep
// recording commitments with the analyzer down.
type Unavailable struct{}

// Analyze always fails with ErrUnavailable.
func (Unavailable) Analyze(context.Context, string, string) (Result, error) {
	return Result{}, ErrUnavailable
}

// Healthy always reports false.
func (Unavailable) Healthy(context.Context) bool { return false }

// Close is a no-op.
func (Unavailable) Close() {}

var _ Scorer = Unavailable{}
