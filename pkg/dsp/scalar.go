package dsp

import "math"

// scalarBackend is the reference implementation: one sample per loop
// iteration, double-precision intermediates where accumulation error
// matters.
type scalarBackend struct{}

func (scalarBackend) Name() string {
	return "scalar"
}

func (scalarBackend) ApplyWindow(kind Window, i, q []float32, size int) error {
	if err := checkWindowArgs(i, q, size); err != nil {
		return err
	}
	for n := 0; n < size; n++ {
		w := float32(windowCoefficient(kind, n, size))
		i[n] *= w
		q[n] *= w
	}
	return nil
}

func (scalarBackend) DCRemoveStatic(i, q []float32, size int) error {
	if err := checkDCArgs(i, q, size); err != nil {
		return err
	}
	if size == 0 {
		return nil
	}
	var sumI, sumQ float64
	for n := 0; n < size; n++ {
		sumI += float64(i[n])
		sumQ += float64(q[n])
	}
	meanI := float32(sumI / float64(size))
	meanQ := float32(sumQ / float64(size))
	for n := 0; n < size; n++ {
		i[n] -= meanI
		q[n] -= meanQ
	}
	return nil
}

func (scalarBackend) DCRemoveIIR(i, q []float32, size int, alpha float32, state *BlockerState) error {
	return dcRemoveIIRSerial(i, q, size, alpha, state)
}

// dcRemoveIIRSerial is shared by both backends: the one-pole recurrence
// depends on y[n-1], so it cannot be split across lanes.
func dcRemoveIIRSerial(i, q []float32, size int, alpha float32, state *BlockerState) error {
	if state == nil {
		return newProcessError("dc", ErrNilState, "iir call without state")
	}
	if err := checkDCArgs(i, q, size); err != nil {
		return err
	}
	if size == 0 {
		return nil
	}
	a := float64(alpha)
	prevInI, prevInQ := state.PrevInputI, state.PrevInputQ
	prevOutI, prevOutQ := state.PrevOutputI, state.PrevOutputQ
	for n := 0; n < size; n++ {
		xI := float64(i[n])
		xQ := float64(q[n])
		yI := xI - prevInI + a*prevOutI
		yQ := xQ - prevInQ + a*prevOutQ
		i[n] = float32(yI)
		q[n] = float32(yQ)
		prevInI, prevInQ = xI, xQ
		prevOutI, prevOutQ = yI, yQ
	}
	state.PrevInputI, state.PrevInputQ = prevInI, prevInQ
	state.PrevOutputI, state.PrevOutputQ = prevOutI, prevOutQ
	return nil
}

func (scalarBackend) Waveform(i, q []float32, count int, amp, phase []float32) error {
	if err := checkWaveformArgs(i, q, count, amp, phase); err != nil {
		return err
	}
	for n := 0; n < count; n++ {
		amp[n] = sampleAmplitude(i[n], q[n])
		phase[n] = samplePhase(i[n], q[n])
	}
	return nil
}

// sampleAmplitude is the single-sample magnitude shared by the scalar
// loop and the vector tail.
func sampleAmplitude(i, q float32) float32 {
	return float32(math.Sqrt(float64(i)*float64(i) + float64(q)*float64(q)))
}

// samplePhase is atan2(Q, I); atan2(0, 0) is 0 by convention.
func samplePhase(i, q float32) float32 {
	return float32(math.Atan2(float64(q), float64(i)))
}
