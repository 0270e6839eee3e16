package pipeline

import (
	"sort"

	"github.com/alexthemitchell/rad.io/pkg/dsp"
)

// annotateFrameStats derives peak and noise-floor statistics from a
// centered dB spectrum. The noise floor is the median bin level, which
// is robust against narrowband carriers; SNR is peak minus floor.
func annotateFrameStats(frame *FrameResult, sampleRate int) {
	spectrum := frame.Spectrum
	if len(spectrum) == 0 {
		return
	}

	peak := 0
	for k, v := range spectrum {
		if v > spectrum[peak] {
			peak = k
		}
	}
	frame.PeakBin = peak
	frame.PeakDB = spectrum[peak]
	frame.NoiseFloorDB = medianLevel(spectrum)
	frame.SNRDB = frame.PeakDB - frame.NoiseFloorDB
	frame.PeakFrequency = binFrequency(peak, len(spectrum), sampleRate)
}

// medianLevel returns the median dB level of the spectrum.
func medianLevel(spectrum []float32) float32 {
	sorted := make([]float64, len(spectrum))
	for k, v := range spectrum {
		sorted[k] = float64(v)
	}
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return float32((sorted[mid-1] + sorted[mid]) / 2)
	}
	return float32(sorted[mid])
}

// binFrequency converts a centered spectrum index to a baseband offset
// in Hz. Index fftSize/2 is zero frequency; lower indexes are negative
// offsets. Returns 0 when the sample rate is unknown.
func binFrequency(bin, fftSize, sampleRate int) float64 {
	if sampleRate <= 0 || fftSize == 0 {
		return 0
	}
	return float64(bin-fftSize/2) * float64(sampleRate) / float64(fftSize)
}

// OccupiedBins counts bins that rise a threshold above the floor,
// a rough occupancy measure used in run summaries.
func OccupiedBins(spectrum []float32, thresholdDB float32) int {
	if len(spectrum) == 0 {
		return 0
	}
	floor := medianLevel(spectrum)
	count := 0
	for _, v := range spectrum {
		if v > floor+thresholdDB && v > dsp.DBFloor {
			count++
		}
	}
	return count
}
