package pipeline

import (
	"fmt"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/alexthemitchell/rad.io/pkg/dsp"
)

// Engine runs the per-frame transform pipeline: DC correction →
// windowing → FFT → centered dB spectrum. It owns its staging buffers
// and FFT plan, so caller buffers are never mutated, and it carries the
// DC-blocker state for IIR mode across frames of one logical stream.
// An Engine is bound to one stream and is not safe for concurrent use.
type Engine struct {
	logger  logging.Logger
	cfg     EngineConfig
	backend dsp.Backend
	plan    *dsp.Plan
	stageI  []float32
	stageQ  []float32
	blocker dsp.BlockerState
	frames  int64
}

// NewEngine validates the configuration and builds the engine. The FFT
// size must be a power of two; cross-validation wraps the active
// backend with the scalar reference when enabled.
func NewEngine(cfg EngineConfig, logger logging.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	plan, err := dsp.NewPlan(cfg.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	if cfg.DCMode == "" {
		cfg.DCMode = DCModeNone
	}
	if cfg.DCMode == DCModeIIR && (cfg.DCAlpha <= 0 || cfg.DCAlpha >= 1) {
		return nil, fmt.Errorf("dc blocker alpha must be in (0, 1), got %g", cfg.DCAlpha)
	}

	backend := dsp.Active()
	if cfg.CrossValidate {
		backend = dsp.NewValidatingBackend(backend, dsp.Scalar(), logger)
	}

	engineLogger := logger.WithFields(logging.Fields{
		"component": "pipeline_engine",
		"fft_size":  cfg.FFTSize,
		"window":    cfg.Window.String(),
		"dc_mode":   string(cfg.DCMode),
		"backend":   backend.Name(),
	})
	engineLogger.Debug("Pipeline engine initialized")

	stageI, stageQ := dsp.AllocateIQ(cfg.FFTSize)
	return &Engine{
		logger:  engineLogger,
		cfg:     cfg,
		backend: backend,
		plan:    plan,
		stageI:  stageI,
		stageQ:  stageQ,
	}, nil
}

// Backend reports the execution path the engine runs on.
func (e *Engine) Backend() string {
	return e.backend.Name()
}

// FramesProcessed returns the number of spectrum frames computed.
func (e *Engine) FramesProcessed() int64 {
	return e.frames
}

// ResetStream clears the carried DC-blocker state for a new logical
// sample stream.
func (e *Engine) ResetStream() {
	e.blocker.Reset()
}

// ProcessFrame computes one centered dB spectrum frame from the first
// FFTSize samples of i and q (zero-padding shorter input). The caller's
// buffers are copied into the engine's staging area before the in-place
// conditioning stages run.
func (e *Engine) ProcessFrame(i, q []float32) (*FrameResult, error) {
	start := time.Now()

	e.stage(i, q)
	if err := e.condition(len(i)); err != nil {
		return nil, err
	}
	if err := e.backend.ApplyWindow(e.cfg.Window, e.stageI, e.stageQ, e.cfg.FFTSize); err != nil {
		return nil, err
	}

	spectrum := dsp.AllocateBuffer(e.cfg.FFTSize)
	if err := e.plan.Transform(e.stageI, e.stageQ, spectrum); err != nil {
		return nil, err
	}
	e.frames++

	result := &FrameResult{
		Spectrum:       spectrum,
		FFTSize:        e.cfg.FFTSize,
		ProcessingTime: time.Since(start),
		Timestamp:      start,
	}
	annotateFrameStats(result, e.cfg.SampleRate)

	e.logger.Debug("Frame processed", logging.Fields{
		"frame":       e.frames,
		"peak_bin":    result.PeakBin,
		"peak_db":     result.PeakDB,
		"snr_db":      result.SNRDB,
		"duration_us": result.ProcessingTime.Microseconds(),
	})
	return result, nil
}

// ProcessSpectrogram computes rowCount independent frames over
// successive FFTSize-sample slices of i and q. Rows past the end of the
// input are zero-padded. DC conditioning and windowing run per row, so
// the rows stay independent except for IIR blocker state, which follows
// the sample stream in row order.
func (e *Engine) ProcessSpectrogram(i, q []float32, rowCount int) (*SpectrogramResult, error) {
	if rowCount <= 0 {
		return nil, fmt.Errorf("row count must be positive, got %d", rowCount)
	}
	start := time.Now()
	out := dsp.AllocateBuffer(rowCount * e.cfg.FFTSize)

	for r := 0; r < rowCount; r++ {
		rowStart := r * e.cfg.FFTSize
		rowI, rowQ := sliceRow(i, rowStart, e.cfg.FFTSize), sliceRow(q, rowStart, e.cfg.FFTSize)

		e.stage(rowI, rowQ)
		if err := e.condition(len(rowI)); err != nil {
			return nil, err
		}
		if err := e.backend.ApplyWindow(e.cfg.Window, e.stageI, e.stageQ, e.cfg.FFTSize); err != nil {
			return nil, err
		}
		if err := e.plan.Transform(e.stageI, e.stageQ, out[rowStart:rowStart+e.cfg.FFTSize]); err != nil {
			return nil, err
		}
		e.frames++
	}

	used := rowCount * e.cfg.FFTSize
	if len(i) < used {
		used = len(i)
	}
	result := &SpectrogramResult{
		Data:           out,
		FFTSize:        e.cfg.FFTSize,
		Rows:           rowCount,
		SamplesUsed:    used,
		ProcessingTime: time.Since(start),
	}
	e.logger.Debug("Spectrogram processed", logging.Fields{
		"rows":        rowCount,
		"duration_ms": result.ProcessingTime.Milliseconds(),
	})
	return result, nil
}

// ProcessWaveform extracts per-sample amplitude and phase. DC
// conditioning applies when configured; windowing does not, since the
// waveform view wants the raw envelope.
func (e *Engine) ProcessWaveform(i, q []float32, count int) (*WaveformResult, error) {
	if count > len(i) || count > len(q) {
		return nil, fmt.Errorf("waveform count %d exceeds input length %d", count, min(len(i), len(q)))
	}
	start := time.Now()

	workI := make([]float32, count)
	workQ := make([]float32, count)
	copy(workI, i[:count])
	copy(workQ, q[:count])

	switch e.cfg.DCMode {
	case DCModeStatic:
		if err := e.backend.DCRemoveStatic(workI, workQ, count); err != nil {
			return nil, err
		}
	case DCModeIIR:
		if err := e.backend.DCRemoveIIR(workI, workQ, count, e.cfg.DCAlpha, &e.blocker); err != nil {
			return nil, err
		}
	}

	amp := dsp.AllocateBuffer(count)
	phase := dsp.AllocateBuffer(count)
	if err := e.backend.Waveform(workI, workQ, count, amp, phase); err != nil {
		return nil, err
	}

	return &WaveformResult{
		Amplitude:      amp,
		Phase:          phase,
		Count:          count,
		ProcessingTime: time.Since(start),
	}, nil
}

// stage copies the next frame of caller samples into the engine's
// staging buffers, zero-padding to the transform size.
func (e *Engine) stage(i, q []float32) {
	n := copy(e.stageI, i)
	for ; n < len(e.stageI); n++ {
		e.stageI[n] = 0
	}
	n = copy(e.stageQ, q)
	for ; n < len(e.stageQ); n++ {
		e.stageQ[n] = 0
	}
}

// condition runs the configured DC correction over the valid prefix of
// the staging buffers.
func (e *Engine) condition(valid int) error {
	if valid > e.cfg.FFTSize {
		valid = e.cfg.FFTSize
	}
	switch e.cfg.DCMode {
	case DCModeStatic:
		return e.backend.DCRemoveStatic(e.stageI, e.stageQ, valid)
	case DCModeIIR:
		return e.backend.DCRemoveIIR(e.stageI, e.stageQ, valid, e.cfg.DCAlpha, &e.blocker)
	default:
		return nil
	}
}

// sliceRow returns the row-sized slice of buf starting at offset,
// clipped to the end of buf.
func sliceRow(buf []float32, offset, size int) []float32 {
	if offset >= len(buf) {
		return nil
	}
	end := offset + size
	if end > len(buf) {
		end = len(buf)
	}
	return buf[offset:end]
}
