package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
)

// DurationStats represents statistical measures of per-frame processing
// time, in microseconds.
type DurationStats struct {
	Mean   float64 `json:"mean_us"`
	Median float64 `json:"median_us"`
	P95    float64 `json:"p95_us"`
	Min    float64 `json:"min_us"`
	Max    float64 `json:"max_us"`
	StdDev float64 `json:"std_dev_us"`
	Count  int     `json:"count"`
}

// RunMetrics summarizes one processing run.
type RunMetrics struct {
	Frames             int            `json:"frames"`
	SamplesProcessed   int64          `json:"samples_processed"`
	TotalTime          time.Duration  `json:"total_time"`
	SamplesPerSecond   float64        `json:"samples_per_second"`
	FramesPerSecond    float64        `json:"frames_per_second"`
	FrameTime          *DurationStats `json:"frame_time"`
}

// MetricsCalculator derives throughput statistics from raw frame
// timings.
type MetricsCalculator struct {
	logger logging.Logger
}

// NewMetricsCalculator creates a new metrics calculator.
func NewMetricsCalculator(logger logging.Logger) *MetricsCalculator {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &MetricsCalculator{logger: logger}
}

// Calculate summarizes a run of frames, each covering samplesPerFrame
// IQ samples, measured over total wall time.
func (mc *MetricsCalculator) Calculate(frameTimes []time.Duration, samplesPerFrame int, total time.Duration) *RunMetrics {
	metrics := &RunMetrics{
		Frames:           len(frameTimes),
		SamplesProcessed: int64(len(frameTimes)) * int64(samplesPerFrame),
		TotalTime:        total,
	}
	if total > 0 {
		metrics.SamplesPerSecond = float64(metrics.SamplesProcessed) / total.Seconds()
		metrics.FramesPerSecond = float64(metrics.Frames) / total.Seconds()
	}
	metrics.FrameTime = mc.calculateStats(frameTimes)

	mc.logger.Debug("Run metrics calculated", logging.Fields{
		"frames":             metrics.Frames,
		"samples_per_second": metrics.SamplesPerSecond,
		"total_ms":           total.Milliseconds(),
	})
	return metrics
}

// calculateStats computes basic statistics over frame timings.
func (mc *MetricsCalculator) calculateStats(frameTimes []time.Duration) *DurationStats {
	if len(frameTimes) == 0 {
		return &DurationStats{}
	}

	data := make([]float64, len(frameTimes))
	for k, d := range frameTimes {
		data[k] = float64(d.Nanoseconds()) / 1e3
	}
	sort.Float64s(data)

	sum := 0.0
	for _, v := range data {
		sum += v
	}
	mean := sum / float64(len(data))

	variance := 0.0
	for _, v := range data {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(data))

	return &DurationStats{
		Mean:   mean,
		Median: percentile(data, 50),
		P95:    percentile(data, 95),
		Min:    data[0],
		Max:    data[len(data)-1],
		StdDev: math.Sqrt(variance),
		Count:  len(data),
	}
}

// percentile computes the p-th percentile of sorted data by linear
// interpolation.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
