package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexthemitchell/rad.io/pkg/dsp"
)

func makeTone(size int, cycles float64, amplitude float64) (i, q []float32) {
	i = make([]float32, size)
	q = make([]float32, size)
	for n := 0; n < size; n++ {
		angle := 2 * math.Pi * cycles * float64(n) / float64(size)
		i[n] = float32(amplitude * math.Cos(angle))
		q[n] = float32(amplitude * math.Sin(angle))
	}
	return i, q
}

func TestNewEngineValidation(t *testing.T) {
	_, err := NewEngine(EngineConfig{FFTSize: 100}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, dsp.ErrNotPowerOfTwo)

	_, err = NewEngine(EngineConfig{FFTSize: 256, DCMode: DCModeIIR, DCAlpha: 1.5}, nil)
	require.Error(t, err)

	engine, err := NewEngine(EngineConfig{FFTSize: 256, Window: dsp.WindowHann}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, engine.Backend())
}

func TestProcessFramePeakDetection(t *testing.T) {
	const size = 1024
	engine, err := NewEngine(EngineConfig{
		FFTSize:    size,
		Window:     dsp.WindowHann,
		SampleRate: 2048000,
	}, nil)
	require.NoError(t, err)

	i, q := makeTone(size, size/4, 1.0)
	frame, err := engine.ProcessFrame(i, q)
	require.NoError(t, err)

	assert.Len(t, frame.Spectrum, size)
	assert.Equal(t, 768, frame.PeakBin)
	assert.Greater(t, frame.SNRDB, float32(40))
	// Quarter of the sample rate.
	assert.InDelta(t, 512000, frame.PeakFrequency, 1)
	assert.EqualValues(t, 1, engine.FramesProcessed())
}

func TestProcessFrameDoesNotMutateInput(t *testing.T) {
	const size = 256
	engine, err := NewEngine(EngineConfig{
		FFTSize: size,
		Window:  dsp.WindowBlackman,
		DCMode:  DCModeStatic,
	}, nil)
	require.NoError(t, err)

	i, q := makeTone(size, 16, 1.0)
	origI := make([]float32, size)
	origQ := make([]float32, size)
	copy(origI, i)
	copy(origQ, q)

	_, err = engine.ProcessFrame(i, q)
	require.NoError(t, err)
	assert.Equal(t, origI, i)
	assert.Equal(t, origQ, q)
}

func TestProcessFrameCrossValidate(t *testing.T) {
	engine, err := NewEngine(EngineConfig{
		FFTSize:       512,
		Window:        dsp.WindowHamming,
		DCMode:        DCModeStatic,
		CrossValidate: true,
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, engine.Backend(), "+validate")

	i, q := makeTone(512, 50, 0.5)
	_, err = engine.ProcessFrame(i, q)
	require.NoError(t, err)
}

func TestProcessSpectrogramRowLayout(t *testing.T) {
	const size = 128
	const rows = 4
	engine, err := NewEngine(EngineConfig{FFTSize: size, Window: dsp.WindowHann}, nil)
	require.NoError(t, err)

	i, q := makeTone(size*rows, float64(size*rows)/8, 1.0)
	result, err := engine.ProcessSpectrogram(i, q, rows)
	require.NoError(t, err)

	assert.Len(t, result.Data, size*rows)
	assert.Equal(t, rows, result.Rows)
	assert.Equal(t, size*rows, result.SamplesUsed)
	assert.EqualValues(t, rows, engine.FramesProcessed())

	// The same tone occupies every row, so each row peaks at the same
	// centered bin.
	first := result.Data[:size]
	peak := 0
	for k, v := range first {
		if v > first[peak] {
			peak = k
		}
	}
	for r := 1; r < rows; r++ {
		row := result.Data[r*size : (r+1)*size]
		rowPeak := 0
		for k, v := range row {
			if v > row[rowPeak] {
				rowPeak = k
			}
		}
		assert.Equal(t, peak, rowPeak, "row %d", r)
	}
}

func TestProcessSpectrogramShortInput(t *testing.T) {
	const size = 64
	engine, err := NewEngine(EngineConfig{FFTSize: size, Window: dsp.WindowHann}, nil)
	require.NoError(t, err)

	i, q := makeTone(size/2, 4, 1.0)
	result, err := engine.ProcessSpectrogram(i, q, 3)
	require.NoError(t, err)
	assert.Equal(t, size/2, result.SamplesUsed)

	// Fully padded rows carry no signal: every bin at the dB floor
	// after windowing zeros.
	for k := size; k < 3*size; k++ {
		assert.Equal(t, float32(dsp.DBFloor), result.Data[k], "bin %d", k)
	}
}

func TestProcessWaveform(t *testing.T) {
	const count = 300
	engine, err := NewEngine(EngineConfig{FFTSize: 512, Window: dsp.WindowHann}, nil)
	require.NoError(t, err)

	i, q := makeTone(count, 30, 0.6)
	result, err := engine.ProcessWaveform(i, q, count)
	require.NoError(t, err)

	require.Len(t, result.Amplitude, count)
	require.Len(t, result.Phase, count)
	for n := 0; n < count; n++ {
		assert.InDelta(t, 0.6, float64(result.Amplitude[n]), 1e-5, "amp[%d]", n)
	}

	_, err = engine.ProcessWaveform(i, q, count+1)
	assert.Error(t, err)
}

func TestEngineIIRStateContinuity(t *testing.T) {
	// Two consecutive waveform calls over halves of an offset stream
	// must match one call over the whole stream, because the engine
	// carries the blocker state.
	const count = 1024
	cfg := EngineConfig{FFTSize: 256, Window: dsp.WindowHann, DCMode: DCModeIIR, DCAlpha: 0.99}

	i := make([]float32, count)
	q := make([]float32, count)
	for n := range i {
		i[n] = 0.5
		q[n] = 0.25
	}

	whole, err := NewEngine(cfg, nil)
	require.NoError(t, err)
	full, err := whole.ProcessWaveform(i, q, count)
	require.NoError(t, err)

	split, err := NewEngine(cfg, nil)
	require.NoError(t, err)
	first, err := split.ProcessWaveform(i[:count/2], q[:count/2], count/2)
	require.NoError(t, err)
	second, err := split.ProcessWaveform(i[count/2:], q[count/2:], count/2)
	require.NoError(t, err)

	for n := 0; n < count/2; n++ {
		assert.InDelta(t, float64(full.Amplitude[n]), float64(first.Amplitude[n]), 1e-6)
		assert.InDelta(t, float64(full.Amplitude[count/2+n]), float64(second.Amplitude[n]), 1e-6)
	}

	split.ResetStream()
	restart, err := split.ProcessWaveform(i[:count/2], q[:count/2], count/2)
	require.NoError(t, err)
	assert.InDelta(t, float64(first.Amplitude[0]), float64(restart.Amplitude[0]), 1e-6)
}

func TestMetricsCalculator(t *testing.T) {
	mc := NewMetricsCalculator(nil)
	times := []time.Duration{
		100 * time.Microsecond,
		200 * time.Microsecond,
		300 * time.Microsecond,
		400 * time.Microsecond,
	}
	metrics := mc.Calculate(times, 1024, time.Millisecond)

	assert.Equal(t, 4, metrics.Frames)
	assert.EqualValues(t, 4096, metrics.SamplesProcessed)
	assert.InDelta(t, 4096000, metrics.SamplesPerSecond, 1)
	require.NotNil(t, metrics.FrameTime)
	assert.InDelta(t, 250, metrics.FrameTime.Mean, 1e-9)
	assert.InDelta(t, 250, metrics.FrameTime.Median, 1e-9)
	assert.InDelta(t, 100, metrics.FrameTime.Min, 1e-9)
	assert.InDelta(t, 400, metrics.FrameTime.Max, 1e-9)

	empty := mc.Calculate(nil, 1024, 0)
	assert.Zero(t, empty.Frames)
	assert.Zero(t, empty.SamplesPerSecond)
}

func TestOccupiedBins(t *testing.T) {
	spectrum := make([]float32, 64)
	for k := range spectrum {
		spectrum[k] = -90
	}
	spectrum[10] = -20
	spectrum[11] = -25

	assert.Equal(t, 2, OccupiedBins(spectrum, 10))
	assert.Zero(t, OccupiedBins(nil, 10))
}

func TestParseDCMode(t *testing.T) {
	tests := []struct {
		in      string
		want    DCMode
		wantErr bool
	}{
		{"none", DCModeNone, false},
		{"", DCModeNone, false},
		{"Static", DCModeStatic, false},
		{" IIR ", DCModeIIR, false},
		{"highpass", DCModeNone, true},
	}
	for _, tt := range tests {
		got, err := ParseDCMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
