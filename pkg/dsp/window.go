package dsp

import (
	"fmt"
	"math"
	"strings"
)

// Window identifies a window function applied to IQ buffers before
// spectral analysis.
type Window int

const (
	// WindowHann is the raised-cosine Hann window.
	WindowHann Window = iota
	// WindowHamming is the Hamming window.
	WindowHamming
	// WindowBlackman is the three-term Blackman window.
	WindowBlackman
)

// String returns the lowercase name of the window function.
func (w Window) String() string {
	switch w {
	case WindowHann:
		return "hann"
	case WindowHamming:
		return "hamming"
	case WindowBlackman:
		return "blackman"
	default:
		return fmt.Sprintf("window(%d)", int(w))
	}
}

// ParseWindow maps a configuration string to a Window kind.
func ParseWindow(name string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hann", "hanning":
		return WindowHann, nil
	case "hamming":
		return WindowHamming, nil
	case "blackman":
		return WindowBlackman, nil
	default:
		return WindowHann, fmt.Errorf("unknown window function: %q", name)
	}
}

// windowCoefficient computes w(n) for an N-point window in double
// precision. Callers must guarantee size >= 2; the formulas divide by
// (N-1).
func windowCoefficient(kind Window, n, size int) float64 {
	x := float64(n) / float64(size-1)
	switch kind {
	case WindowHamming:
		return 0.54 - 0.46*math.Cos(2*math.Pi*x)
	case WindowBlackman:
		return 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	default: // Hann
		return 0.5 * (1 - math.Cos(2*math.Pi*x))
	}
}

// WindowCoefficients returns the full coefficient table for an N-point
// window. The vector backend precomputes this table once per call and
// applies it in 4-lane chunks; it is also exported for callers that
// want to inspect or reuse the coefficients.
func WindowCoefficients(kind Window, size int) ([]float32, error) {
	if size < 2 {
		return nil, newProcessError("window", ErrWindowTooShort, "size %d", size)
	}
	coeffs := make([]float32, size)
	for n := range coeffs {
		coeffs[n] = float32(windowCoefficient(kind, n, size))
	}
	return coeffs, nil
}

// ApplyWindow multiplies the first size samples of i and q in place by
// the chosen window function, using the active backend. The buffers
// must hold at least size samples and size must be at least 2.
func ApplyWindow(kind Window, i, q []float32, size int) error {
	return Active().ApplyWindow(kind, i, q, size)
}

// checkWindowArgs validates the shared preconditions of both window
// backends.
func checkWindowArgs(i, q []float32, size int) error {
	if size < 2 {
		return newProcessError("window", ErrWindowTooShort, "size %d", size)
	}
	if len(i) < size || len(q) < size {
		return newProcessError("window", ErrLengthMismatch, "size %d, i %d, q %d", size, len(i), len(q))
	}
	return nil
}
