package dsp

// Waveform computes per-sample amplitude and phase from IQ pairs:
// amp[n] = sqrt(I[n]^2 + Q[n]^2), phase[n] = atan2(Q[n], I[n]).
// Outputs are written into caller-provided buffers of at least count
// samples. A zero sample yields amplitude 0 and phase 0 (the atan2
// convention). Pure, stateless, and order-independent across calls.
//
// The amplitude path vectorizes cleanly across 4 lanes; the arctangent
// has no efficient vector form, so phase stays scalar even on the
// vector backend. The asymmetry is intentional.
func Waveform(i, q []float32, count int, amp, phase []float32) error {
	return Active().Waveform(i, q, count, amp, phase)
}

// WaveformOut is the allocating convenience variant of Waveform.
func WaveformOut(i, q []float32, count int) (amp, phase []float32, err error) {
	amp = AllocateBuffer(count)
	phase = AllocateBuffer(count)
	if err := Waveform(i, q, count, amp, phase); err != nil {
		return nil, nil, err
	}
	return amp, phase, nil
}

// checkWaveformArgs validates the shared preconditions of both
// waveform backends.
func checkWaveformArgs(i, q []float32, count int, amp, phase []float32) error {
	if len(i) < count || len(q) < count {
		return newProcessError("waveform", ErrLengthMismatch, "count %d, i %d, q %d", count, len(i), len(q))
	}
	if len(amp) < count || len(phase) < count {
		return newProcessError("waveform", ErrShortOutput, "count %d, amp %d, phase %d", count, len(amp), len(phase))
	}
	return nil
}
