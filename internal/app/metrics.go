package app

import (
	"fmt"
	"syscall"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/tunein/go-logging/v7/pkg/logger"
	"github.com/tunein/go-logging/v7/pkg/logger/logtypes"
	"github.com/tunein/go-logging/v7/pkg/rootcollector"
	"github.com/tunein/go-logging/v7/pkg/rootlogger"

	"github.com/alexthemitchell/rad.io/internal/pipeline"
)

// collectBenchmarkMetrics sends throughput metrics to rootcollector
func (app *App) collectBenchmarkMetrics(metrics *pipeline.RunMetrics) {
	if metrics == nil || metrics.Frames == 0 {
		return
	}

	err := rootlogger.Configure(logger.LogOptions{
		Out:          "/tmp/radio-dsp-metrics.log",
		ReopenSignal: syscall.SIGHUP,
		Level:        logtypes.InfoLevel,
	})
	if err != nil {
		logging.Error(err, "Failed configuring log writer")
	}

	tags := []string{
		"backend:" + app.engine.Backend(),
		fmt.Sprintf("fft_size:%d", app.config.DSP.FFTSize),
		"window:" + app.config.DSP.WindowFunction,
		"dc_mode:" + app.config.DSP.DCMode,
	}

	rootcollector.Metric("dsp.benchmark.frames", int64(metrics.Frames), tags)
	rootcollector.Metric("dsp.benchmark.samples.processed", metrics.SamplesProcessed, tags)
	rootcollector.Metric("dsp.benchmark.samples.per.second", int64(metrics.SamplesPerSecond), tags)
	rootcollector.Metric("dsp.benchmark.duration.milliseconds", metrics.TotalTime.Milliseconds(), tags)

	if metrics.FrameTime != nil {
		rootcollector.Metric("dsp.benchmark.frame.mean.microseconds", int64(metrics.FrameTime.Mean), tags)
		rootcollector.Metric("dsp.benchmark.frame.p95.microseconds", int64(metrics.FrameTime.P95), tags)
	}
}
