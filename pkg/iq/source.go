// Package iq defines the device boundary of the DSP pipeline: sources
// that deliver raw IQ sample buffers at a configured sample rate. The
// hardware abstraction itself (USB transport, gain and frequency
// control) lives outside this repository; the pipeline only consumes
// this interface. Two simple sources ship here for the CLI and tests:
// a synthetic signal generator and a raw capture file reader.
package iq

import (
	"context"
	"errors"
)

// SourceType identifies a sample source implementation.
type SourceType string

const (
	SourceTypeSynthetic SourceType = "synthetic"
	SourceTypeFile      SourceType = "file"
)

// SourceMetadata describes a sample source.
type SourceMetadata struct {
	Name       string     `json:"name"`
	Type       SourceType `json:"type"`
	SampleRate int        `json:"sample_rate"`
}

// SampleSource supplies raw IQ sample buffers. ReadIQ fills the
// caller-provided I and Q buffers index-aligned and returns the number
// of complete samples written; it returns io.EOF once the stream is
// exhausted. Back-pressure and rate matching are the caller's concern:
// a source never queues internally.
type SampleSource interface {
	// Metadata describes the source.
	Metadata() *SourceMetadata

	// ReadIQ reads up to min(len(i), len(q)) samples into i and q.
	ReadIQ(ctx context.Context, i, q []float32) (int, error)

	// Close releases the source.
	Close() error
}

// ErrMismatchedBuffers is returned when ReadIQ is called with I and Q
// buffers of different lengths.
var ErrMismatchedBuffers = errors.New("i and q buffers must be the same length")
