package dsp

// BlockerState carries the one-pole DC blocker filter memory across
// buffer boundaries. The caller creates a zero-valued state per logical
// sample stream and passes the same state to every DCRemoveIIR call
// over that stream, in order. Sharing one state between unrelated
// streams, or issuing concurrent calls against it, corrupts the filter.
type BlockerState struct {
	PrevInputI  float64
	PrevInputQ  float64
	PrevOutputI float64
	PrevOutputQ float64
}

// Reset clears the filter memory for a new stream.
func (s *BlockerState) Reset() {
	*s = BlockerState{}
}

// DCRemoveStatic subtracts the arithmetic mean of the first size
// samples of i and q from every sample, in place. The mean is
// accumulated in double precision to avoid cancellation over large
// buffers. Stateless and deterministic; applying it a second time is a
// no-op up to floating point noise.
func DCRemoveStatic(i, q []float32, size int) error {
	return Active().DCRemoveStatic(i, q, size)
}

// DCRemoveIIR runs the one-pole DC blocker
//
//	y[n] = x[n] - x[n-1] + alpha*y[n-1]
//
// independently over the I and Q channels, in place, threading state
// between calls so that streaming callers can chain buffers seamlessly.
// Typical alpha is 0.99; values closer to 1 track DC more slowly but
// preserve more low-frequency content. A zero-size call returns with
// the state untouched.
func DCRemoveIIR(i, q []float32, size int, alpha float32, state *BlockerState) error {
	return Active().DCRemoveIIR(i, q, size, alpha, state)
}

// checkDCArgs validates the shared preconditions of the DC correction
// backends. Zero size is legal for the IIR path and checked by the
// caller.
func checkDCArgs(i, q []float32, size int) error {
	if len(i) < size || len(q) < size {
		return newProcessError("dc", ErrLengthMismatch, "size %d, i %d, q %d", size, len(i), len(q))
	}
	return nil
}
