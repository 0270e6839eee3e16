package dsp

import (
	"os"
	"runtime"
	"sync"
)

// Backend is the execution strategy for the hot-loop primitives. Two
// implementations exist: the scalar reference and a 4-lane unrolled
// vector path. Both must produce results equal within float32 rounding
// tolerance for all valid inputs; the shared property-test suite
// enforces this over randomized data.
type Backend interface {
	// Name identifies the backend in logs and selftest output.
	Name() string

	// ApplyWindow multiplies the first size samples of i and q in place
	// by the window coefficients.
	ApplyWindow(kind Window, i, q []float32, size int) error

	// DCRemoveStatic subtracts the per-channel mean in place.
	DCRemoveStatic(i, q []float32, size int) error

	// DCRemoveIIR runs the one-pole DC blocker in place, threading the
	// caller-owned state.
	DCRemoveIIR(i, q []float32, size int, alpha float32, state *BlockerState) error

	// Waveform writes per-sample amplitude and phase into amp and phase.
	Waveform(i, q []float32, count int, amp, phase []float32) error
}

// ForceScalarEnv disables the vector path when set in the environment,
// independent of configuration. This is the "acceleration off" toggle.
const ForceScalarEnv = "RADIO_DSP_FORCE_SCALAR"

var (
	backendMu sync.RWMutex
	active    Backend = DetectBackend()
)

// Scalar returns the reference implementation.
func Scalar() Backend {
	return scalarBackend{}
}

// Vector returns the 4-lane unrolled implementation.
func Vector() Backend {
	return vectorBackend{}
}

// DetectBackend picks the execution path at startup. 64-bit targets get
// the 4-lane path; everything else, and any process with the
// force-scalar toggle set, runs the scalar reference.
func DetectBackend() Backend {
	if os.Getenv(ForceScalarEnv) != "" {
		return Scalar()
	}
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return Vector()
	default:
		return Scalar()
	}
}

// Active returns the currently selected backend.
func Active() Backend {
	backendMu.RLock()
	defer backendMu.RUnlock()
	return active
}

// SetActive overrides the backend selection. Intended for startup
// configuration and the selftest command, not for per-call switching.
func SetActive(b Backend) {
	if b == nil {
		return
	}
	backendMu.Lock()
	active = b
	backendMu.Unlock()
}
