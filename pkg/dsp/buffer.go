package dsp

// AllocateBuffer returns a fresh zero-filled float32 buffer. All
// transform outputs and IQ staging buffers in this package are plain
// float32 slices; this helper exists so call sites that cross the
// pipeline boundary allocate them the same way.
func AllocateBuffer(size int) []float32 {
	if size <= 0 {
		return nil
	}
	return make([]float32, size)
}

// AllocateIQ returns a matched pair of sample buffers for one block of
// complex baseband samples.
func AllocateIQ(size int) (i, q []float32) {
	return AllocateBuffer(size), AllocateBuffer(size)
}
