package dsp

// Spectrogram computes rowCount independent FFT rows over successive
// fftSize-sample slices of i and q, writing row r into
// out[r*fftSize:(r+1)*fftSize]. Rows share no state: there is no
// window overlap and no carried filter memory. Slices that run past
// the end of the input are zero-padded, so a short stream produces
// floor-valued trailing rows rather than an error.
func Spectrogram(i, q []float32, fftSize int, out []float32, rowCount int) error {
	plan, err := NewPlan(fftSize)
	if err != nil {
		return err
	}
	if len(out) < rowCount*fftSize {
		return newProcessError("spectrogram", ErrShortOutput, "need %d, have %d", rowCount*fftSize, len(out))
	}
	for r := 0; r < rowCount; r++ {
		start := r * fftSize
		rowI := tailSlice(i, start)
		rowQ := tailSlice(q, start)
		if err := plan.Transform(rowI, rowQ, out[start:start+fftSize]); err != nil {
			return err
		}
	}
	return nil
}

// SpectrogramOut is the allocating convenience variant of Spectrogram.
func SpectrogramOut(i, q []float32, fftSize, rowCount int) ([]float32, error) {
	if !IsPowerOfTwo(fftSize) {
		return nil, newProcessError("spectrogram", ErrNotPowerOfTwo, "size %d", fftSize)
	}
	out := AllocateBuffer(fftSize * rowCount)
	if err := Spectrogram(i, q, fftSize, out, rowCount); err != nil {
		return nil, err
	}
	return out, nil
}

// tailSlice returns buf[start:], or an empty slice when start is past
// the end of buf. Plan.Transform zero-pads whatever is missing.
func tailSlice(buf []float32, start int) []float32 {
	if start >= len(buf) {
		return nil
	}
	return buf[start:]
}
