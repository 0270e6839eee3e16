package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/RyanBlaney/latency-benchmark-common/output"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/alexthemitchell/rad.io/configs"
	"github.com/alexthemitchell/rad.io/internal/pipeline"
	"github.com/alexthemitchell/rad.io/pkg/dsp"
	"github.com/alexthemitchell/rad.io/pkg/iq"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	ConfigFile   string
	ProfileFile  string
	OutputFile   string
	OutputFormat string
	Frames       int
	Rows         int
	Count        int
	Duration     time.Duration
	Verbose      bool
	Quiet        bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
}

// App wires the sample source and the transform pipeline together for
// one CLI invocation.
type App struct {
	ctx    *Context
	config *configs.Config
	logger logging.Logger
	engine *pipeline.Engine
	source iq.SampleSource
}

// NewApp loads and validates configuration, selects the execution
// backend, and builds the pipeline engine and sample source.
func NewApp(ctx *Context) (*App, error) {
	logger := setupLogging(ctx)
	ctx.Logger = logger

	config, err := loadAndMergeConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx.Config = config

	applyBackendSelection(config.DSP)

	window, err := dsp.ParseWindow(config.DSP.WindowFunction)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	dcMode, err := pipeline.ParseDCMode(config.DSP.DCMode)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	engine, err := pipeline.NewEngine(pipeline.EngineConfig{
		FFTSize:       config.DSP.FFTSize,
		Window:        window,
		DCMode:        dcMode,
		DCAlpha:       float32(config.DSP.DCAlpha),
		CrossValidate: config.DSP.CrossValidate,
		SampleRate:    config.IQ.SampleRate,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline engine: %w", err)
	}

	source, err := newSource(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sample source: %w", err)
	}

	logger.Debug("Application initialized", logging.Fields{
		"config_file":  ctx.ConfigFile,
		"profile_file": ctx.ProfileFile,
		"fft_size":     config.DSP.FFTSize,
		"window":       config.DSP.WindowFunction,
		"backend":      engine.Backend(),
		"source":       config.IQ.Source,
	})

	return &App{
		ctx:    ctx,
		config: config,
		logger: logger,
		engine: engine,
		source: source,
	}, nil
}

// Close releases the sample source.
func (app *App) Close() error {
	return app.source.Close()
}

// setupLogging configures logging based on context
func setupLogging(ctx *Context) logging.Logger {
	return logging.NewDefaultLogger()
}

// loadAndMergeConfig loads the base configuration and overlays an
// optional processing profile.
func loadAndMergeConfig(ctx *Context) (*configs.Config, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load base configuration: %w", err)
	}

	if ctx.ProfileFile != "" {
		profile, err := LoadScanProfile(ctx.ProfileFile)
		if err != nil {
			return nil, err
		}
		profile.Apply(config)
	}

	if ctx.Rows > 0 {
		config.DSP.Rows = ctx.Rows
	}

	if err := configs.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// applyBackendSelection maps the configured backend name onto the
// process-wide execution path. "auto" re-runs capability detection.
func applyBackendSelection(cfg configs.DSPConfig) {
	switch cfg.Backend {
	case "scalar":
		dsp.SetActive(dsp.Scalar())
	case "vector":
		dsp.SetActive(dsp.Vector())
	default:
		dsp.SetActive(dsp.DetectBackend())
	}
}

// newSource builds the configured sample source.
func newSource(config *configs.Config) (iq.SampleSource, error) {
	switch config.IQ.Source {
	case "synthetic":
		return iq.NewSynthetic(iq.SyntheticConfig{
			SampleRate:          config.IQ.SampleRate,
			NormalizedFrequency: config.IQ.Frequency,
			Amplitude:           config.IQ.Amplitude,
			DCOffset:            config.IQ.DCOffset,
			NoiseAmplitude:      config.IQ.NoiseAmplitude,
		}), nil
	case "file":
		return iq.OpenFile(config.IQ.CapturePath, config.IQ.SampleRate)
	default:
		return nil, fmt.Errorf("unsupported sample source: %q", config.IQ.Source)
	}
}

// readBlock fills i and q from the source, tolerating partial reads;
// it returns the number of samples read and io.EOF only when nothing
// was read at all.
func (app *App) readBlock(ctx context.Context, i, q []float32) (int, error) {
	total := 0
	for total < len(i) {
		n, err := app.source.ReadIQ(ctx, i[total:], q[total:])
		total += n
		if err == io.EOF {
			if total > 0 {
				return total, nil
			}
			return 0, io.EOF
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// RunSpectrum processes one spectrum frame and writes it out.
func (app *App) RunSpectrum(ctx context.Context) error {
	size := app.config.DSP.FFTSize
	i, q := dsp.AllocateIQ(size)
	n, err := app.readBlock(ctx, i, q)
	if err != nil {
		return fmt.Errorf("failed to read samples: %w", err)
	}

	frame, err := app.engine.ProcessFrame(i[:n], q[:n])
	if err != nil {
		return fmt.Errorf("failed to process frame: %w", err)
	}
	if !app.config.Output.IncludeRawData {
		frame.Spectrum = nil
	}

	return app.outputResults(map[string]any{
		"spectrum": frame,
	})
}

// RunSpectrogram processes a multi-row spectrogram and writes it out.
func (app *App) RunSpectrogram(ctx context.Context) error {
	size := app.config.DSP.FFTSize
	rows := app.config.DSP.Rows
	i, q := dsp.AllocateIQ(size * rows)
	if _, err := app.readBlock(ctx, i, q); err != nil {
		return fmt.Errorf("failed to read samples: %w", err)
	}

	result, err := app.engine.ProcessSpectrogram(i, q, rows)
	if err != nil {
		return fmt.Errorf("failed to process spectrogram: %w", err)
	}
	if !app.config.Output.IncludeRawData {
		result.Data = nil
	}

	return app.outputResults(map[string]any{
		"spectrogram": result,
	})
}

// RunWaveform extracts amplitude and phase for one buffer of samples.
func (app *App) RunWaveform(ctx context.Context) error {
	count := app.ctx.Count
	if count <= 0 {
		count = app.config.IQ.BufferSize
	}
	i, q := dsp.AllocateIQ(count)
	n, err := app.readBlock(ctx, i, q)
	if err != nil {
		return fmt.Errorf("failed to read samples: %w", err)
	}

	result, err := app.engine.ProcessWaveform(i[:n], q[:n], n)
	if err != nil {
		return fmt.Errorf("failed to process waveform: %w", err)
	}

	data := map[string]any{
		"waveform": result,
	}
	if !app.config.Output.IncludeRawData {
		data["waveform"] = map[string]any{
			"count":           result.Count,
			"processing_time": result.ProcessingTime,
			"peak_amplitude":  peakAmplitude(result.Amplitude),
		}
	}
	return app.outputResults(data)
}

// SelftestCheck is the outcome of one conformance check.
type SelftestCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Error  string `json:"error,omitempty"`
}

// RunSelftest runs the execution-model conformance checks: the in-repo
// FFT against the external reference transform, scalar/vector backend
// equivalence at awkward lengths, and the degenerate-input floors.
func (app *App) RunSelftest(ctx context.Context) error {
	checks := []struct {
		name string
		run  func() error
	}{
		{"fft_reference_256", func() error { return app.validateFFTAt(ctx, 256) }},
		{"fft_reference_configured", func() error { return app.validateFFTAt(ctx, app.config.DSP.FFTSize) }},
		{"backend_equivalence_64", func() error { return dsp.VerifyBackends(64, 1) }},
		{"backend_equivalence_255", func() error { return dsp.VerifyBackends(255, 2) }},
		{"backend_equivalence_1027", func() error { return dsp.VerifyBackends(1027, 3) }},
		{"zero_input_floor", checkZeroInputFloor},
		{"iir_streaming_equivalence", checkIIRStreaming},
	}

	results := make([]SelftestCheck, 0, len(checks))
	failed := 0
	for _, check := range checks {
		result := SelftestCheck{Name: check.name, Passed: true}
		if err := check.run(); err != nil {
			result.Passed = false
			result.Error = err.Error()
			failed++
			app.logger.Error(err, "Selftest check failed", logging.Fields{
				"check": check.name,
			})
		}
		results = append(results, result)
	}

	if err := app.outputResults(map[string]any{
		"backend": app.engine.Backend(),
		"checks":  results,
		"passed":  len(checks) - failed,
		"failed":  failed,
	}); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d selftest checks failed", failed, len(checks))
	}
	return nil
}

// validateFFTAt reads one block from the source and cross-checks the
// transform at the given size against the reference implementation.
func (app *App) validateFFTAt(ctx context.Context, size int) error {
	i, q := dsp.AllocateIQ(size)
	if _, err := app.readBlock(ctx, i, q); err != nil {
		return err
	}
	return dsp.ValidateFFT(i, q, size)
}

func checkZeroInputFloor() error {
	const size = 512
	i, q := dsp.AllocateIQ(size)
	out, err := dsp.FFTOut(i, q, size)
	if err != nil {
		return err
	}
	for k, v := range out {
		if v != dsp.DBFloor {
			return fmt.Errorf("zero input bin %d is %g, want %g", k, v, float32(dsp.DBFloor))
		}
	}
	return nil
}

func checkIIRStreaming() error {
	const size = 1024
	const alpha = 0.99
	full := make([]float32, size)
	for n := range full {
		full[n] = 0.5
	}
	fullQ := make([]float32, size)
	var fullState dsp.BlockerState
	if err := dsp.DCRemoveIIR(full, fullQ, size, alpha, &fullState); err != nil {
		return err
	}

	split := make([]float32, size)
	for n := range split {
		split[n] = 0.5
	}
	splitQ := make([]float32, size)
	var splitState dsp.BlockerState
	if err := dsp.DCRemoveIIR(split[:size/2], splitQ[:size/2], size/2, alpha, &splitState); err != nil {
		return err
	}
	if err := dsp.DCRemoveIIR(split[size/2:], splitQ[size/2:], size/2, alpha, &splitState); err != nil {
		return err
	}

	for n := 0; n < size; n++ {
		if full[n] != split[n] {
			return fmt.Errorf("iir streaming mismatch at %d: %g vs %g", n, full[n], split[n])
		}
	}
	return nil
}

// RunBenchmark measures hot-path throughput over the configured frame
// count or duration, reports statistics, and forwards collector
// metrics.
func (app *App) RunBenchmark(ctx context.Context) error {
	size := app.config.DSP.FFTSize
	frames := app.ctx.Frames
	duration := app.ctx.Duration
	if frames <= 0 && duration <= 0 {
		frames = 1000
	}

	i, q := dsp.AllocateIQ(size)
	var frameTimes []time.Duration
	start := time.Now()
	for {
		if frames > 0 && len(frameTimes) >= frames {
			break
		}
		if duration > 0 && time.Since(start) >= duration {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := app.readBlock(ctx, i, q)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read samples: %w", err)
		}
		frame, err := app.engine.ProcessFrame(i[:n], q[:n])
		if err != nil {
			return fmt.Errorf("failed to process frame: %w", err)
		}
		frameTimes = append(frameTimes, frame.ProcessingTime)
	}
	elapsed := time.Since(start)

	metrics := pipeline.NewMetricsCalculator(app.logger).Calculate(frameTimes, size, elapsed)
	app.collectBenchmarkMetrics(metrics)
	app.printBenchmarkSummary(metrics)

	return app.outputResults(map[string]any{
		"backend":   app.engine.Backend(),
		"fft_size":  size,
		"benchmark": metrics,
	})
}

// printBenchmarkSummary writes a human-readable one-liner to stderr
// unless quiet mode is on.
func (app *App) printBenchmarkSummary(metrics *pipeline.RunMetrics) {
	if app.ctx.Quiet {
		return
	}
	p := message.NewPrinter(language.English)
	fmt.Fprintln(os.Stderr, p.Sprintf("processed %d samples in %d frames over %v (%.0f samples/sec)",
		metrics.SamplesProcessed, metrics.Frames, metrics.TotalTime.Round(time.Millisecond),
		metrics.SamplesPerSecond))
}

// outputResults handles all result output
func (app *App) outputResults(data map[string]any) error {
	if app.config.Output.IncludeMetadata {
		data["configuration"] = map[string]any{
			"fft_size":    app.config.DSP.FFTSize,
			"window":      app.config.DSP.WindowFunction,
			"dc_mode":     app.config.DSP.DCMode,
			"backend":     app.engine.Backend(),
			"sample_rate": app.config.IQ.SampleRate,
			"source":      app.config.IQ.Source,
		}
	}
	if app.config.Output.Timestamps {
		data["timestamp"] = time.Now()
	}

	var formatter output.Formatter
	switch app.ctx.OutputFormat {
	case "yaml":
		formatter = &output.YAMLFormatter{}
	case "csv":
		formatter = &output.CSVFormatter{}
	case "table":
		formatter = &output.TableFormatter{}
	default:
		formatter = &output.JSONFormatter{}
	}

	formattedData, err := formatter.Format(data, true)
	if err != nil {
		return fmt.Errorf("failed to format output data: %w", err)
	}

	if app.ctx.OutputFile != "" {
		return app.writeToFile(formattedData)
	}
	_, err = os.Stdout.Write(formattedData)
	return err
}

// writeToFile writes formatted output to the configured file.
func (app *App) writeToFile(data []byte) error {
	if err := os.WriteFile(app.ctx.OutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	app.logger.Debug("Results written", logging.Fields{
		"file":  app.ctx.OutputFile,
		"bytes": strconv.Itoa(len(data)),
	})
	return nil
}

// peakAmplitude returns the largest amplitude in the buffer.
func peakAmplitude(amp []float32) float32 {
	peak := float32(0)
	for _, v := range amp {
		if v > peak {
			peak = v
		}
	}
	return peak
}
