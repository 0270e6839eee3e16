package dsp

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the transform primitives. Validation
// failures are programmer errors; callers should not retry them.
var (
	// ErrNotPowerOfTwo is returned when an FFT or spectrogram size is not
	// an exact power of two. Sizes are never rounded or truncated.
	ErrNotPowerOfTwo = errors.New("fft size must be a power of two")

	// ErrWindowTooShort is returned for window sizes below 2, where the
	// coefficient formulas divide by (N-1).
	ErrWindowTooShort = errors.New("window requires at least 2 samples")

	// ErrLengthMismatch is returned when the I and Q buffers are shorter
	// than the declared sample count for an in-place operation.
	ErrLengthMismatch = errors.New("i/q buffers shorter than declared size")

	// ErrShortOutput is returned when a caller-provided output buffer
	// cannot hold the full result.
	ErrShortOutput = errors.New("output buffer too small")

	// ErrNilState is returned when an IIR call is issued without a
	// caller-owned blocker state.
	ErrNilState = errors.New("dc blocker state is required")
)

// ProcessError wraps a sentinel error with the pipeline stage it
// occurred in, so callers can log which transform rejected the call.
type ProcessError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *ProcessError) Error() string {
	if e.Cause != nil {
		return e.Stage + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Stage + ": " + e.Message
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// newProcessError creates a stage-tagged error wrapping a sentinel cause.
func newProcessError(stage string, cause error, format string, args ...any) *ProcessError {
	return &ProcessError{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}
