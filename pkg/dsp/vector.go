package dsp

// vectorBackend is the 4-lane execution path: loops are unrolled over
// aligned 4-element chunks with a scalar tail for the 0-3 leftover
// samples. Coefficient tables are precomputed once per call instead of
// re-evaluating trigonometric functions per sample.
type vectorBackend struct{}

func (vectorBackend) Name() string {
	return "vector4"
}

func (vectorBackend) ApplyWindow(kind Window, i, q []float32, size int) error {
	if err := checkWindowArgs(i, q, size); err != nil {
		return err
	}
	coeffs, err := WindowCoefficients(kind, size)
	if err != nil {
		return err
	}
	n4 := size &^ 3
	for n := 0; n < n4; n += 4 {
		c0, c1, c2, c3 := coeffs[n], coeffs[n+1], coeffs[n+2], coeffs[n+3]
		i[n] *= c0
		i[n+1] *= c1
		i[n+2] *= c2
		i[n+3] *= c3
		q[n] *= c0
		q[n+1] *= c1
		q[n+2] *= c2
		q[n+3] *= c3
	}
	for n := n4; n < size; n++ {
		w := float32(windowCoefficient(kind, n, size))
		i[n] *= w
		q[n] *= w
	}
	return nil
}

func (vectorBackend) DCRemoveStatic(i, q []float32, size int) error {
	if err := checkDCArgs(i, q, size); err != nil {
		return err
	}
	if size == 0 {
		return nil
	}
	var sI0, sI1, sI2, sI3 float64
	var sQ0, sQ1, sQ2, sQ3 float64
	n4 := size &^ 3
	for n := 0; n < n4; n += 4 {
		sI0 += float64(i[n])
		sI1 += float64(i[n+1])
		sI2 += float64(i[n+2])
		sI3 += float64(i[n+3])
		sQ0 += float64(q[n])
		sQ1 += float64(q[n+1])
		sQ2 += float64(q[n+2])
		sQ3 += float64(q[n+3])
	}
	sumI := sI0 + sI1 + sI2 + sI3
	sumQ := sQ0 + sQ1 + sQ2 + sQ3
	for n := n4; n < size; n++ {
		sumI += float64(i[n])
		sumQ += float64(q[n])
	}
	meanI := float32(sumI / float64(size))
	meanQ := float32(sumQ / float64(size))
	for n := 0; n < n4; n += 4 {
		i[n] -= meanI
		i[n+1] -= meanI
		i[n+2] -= meanI
		i[n+3] -= meanI
		q[n] -= meanQ
		q[n+1] -= meanQ
		q[n+2] -= meanQ
		q[n+3] -= meanQ
	}
	for n := n4; n < size; n++ {
		i[n] -= meanI
		q[n] -= meanQ
	}
	return nil
}

// DCRemoveIIR shares the serial loop with the scalar backend: the
// recurrence consumes y[n-1], so there is nothing to spread across
// lanes.
func (vectorBackend) DCRemoveIIR(i, q []float32, size int, alpha float32, state *BlockerState) error {
	return dcRemoveIIRSerial(i, q, size, alpha, state)
}

func (vectorBackend) Waveform(i, q []float32, count int, amp, phase []float32) error {
	if err := checkWaveformArgs(i, q, count, amp, phase); err != nil {
		return err
	}
	n4 := count &^ 3
	for n := 0; n < n4; n += 4 {
		amp[n] = sampleAmplitude(i[n], q[n])
		amp[n+1] = sampleAmplitude(i[n+1], q[n+1])
		amp[n+2] = sampleAmplitude(i[n+2], q[n+2])
		amp[n+3] = sampleAmplitude(i[n+3], q[n+3])
	}
	for n := n4; n < count; n++ {
		amp[n] = sampleAmplitude(i[n], q[n])
	}
	// Phase stays scalar on both paths; atan2 has no 4-lane form.
	for n := 0; n < count; n++ {
		phase[n] = samplePhase(i[n], q[n])
	}
	return nil
}
