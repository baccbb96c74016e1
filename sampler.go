package main

import (
	"context"
	"errors"
)

// Sampler produces batches of stacks from a live target. One Sample call is
// one sampling cycle; the coordinator never overlaps calls.
type Sampler interface {
	Sample(ctx context.Context) ([]Stack, error)
	Close() error
}

// Terminal sampler conditions. Anything else coming out of Sample is treated
// as transient and retried a bounded number of times.
var (
	ErrProcessNotFound    = errors.New("process not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrSamplerUnavailable = errors.New("sampler unavailable")
)

// isTerminalSampleError separates conditions that end live sampling from
// momentary failures worth retrying.
func isTerminalSampleError(err error) bool {
	return errors.Is(err, ErrProcessNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrSamplerUnavailable)
}
