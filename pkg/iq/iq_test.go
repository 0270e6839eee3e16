package iq

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticConstantEnvelope(t *testing.T) {
	src := NewSynthetic(SyntheticConfig{
		SampleRate:          48000,
		NormalizedFrequency: 0.25,
		Amplitude:           0.8,
	})
	defer src.Close()

	i := make([]float32, 512)
	q := make([]float32, 512)
	n, err := src.ReadIQ(context.Background(), i, q)
	require.NoError(t, err)
	require.Equal(t, 512, n)

	for k := 0; k < n; k++ {
		mag := math.Sqrt(float64(i[k])*float64(i[k]) + float64(q[k])*float64(q[k]))
		assert.InDelta(t, 0.8, mag, 1e-5, "sample %d", k)
	}
}

func TestSyntheticPhaseContinuity(t *testing.T) {
	cfg := SyntheticConfig{SampleRate: 48000, NormalizedFrequency: 0.1}

	whole := NewSynthetic(cfg)
	wi := make([]float32, 256)
	wq := make([]float32, 256)
	_, err := whole.ReadIQ(context.Background(), wi, wq)
	require.NoError(t, err)

	split := NewSynthetic(cfg)
	si := make([]float32, 256)
	sq := make([]float32, 256)
	_, err = split.ReadIQ(context.Background(), si[:128], sq[:128])
	require.NoError(t, err)
	_, err = split.ReadIQ(context.Background(), si[128:], sq[128:])
	require.NoError(t, err)

	for k := range wi {
		assert.InDelta(t, float64(wi[k]), float64(si[k]), 1e-6, "i[%d]", k)
		assert.InDelta(t, float64(wq[k]), float64(sq[k]), 1e-6, "q[%d]", k)
	}
}

func TestSyntheticMismatchedBuffers(t *testing.T) {
	src := NewSynthetic(SyntheticConfig{SampleRate: 48000})
	_, err := src.ReadIQ(context.Background(), make([]float32, 4), make([]float32, 8))
	assert.ErrorIs(t, err, ErrMismatchedBuffers)
}

func writeCapture(t *testing.T, samples [][2]float32) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.iq")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	var buf [8]byte
	for _, s := range samples {
		binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(s[0]))
		binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(s[1]))
		_, err := f.Write(buf[:])
		require.NoError(t, err)
	}
	return path
}

func TestFileSourceRoundTrip(t *testing.T) {
	samples := [][2]float32{{1, -1}, {0.5, 0.25}, {-0.125, 2}}
	path := writeCapture(t, samples)

	src, err := OpenFile(path, 2048000)
	require.NoError(t, err)
	defer src.Close()

	meta := src.Metadata()
	assert.Equal(t, SourceTypeFile, meta.Type)
	assert.Equal(t, 2048000, meta.SampleRate)
	assert.Equal(t, "capture.iq", meta.Name)

	i := make([]float32, 8)
	q := make([]float32, 8)
	n, err := src.ReadIQ(context.Background(), i, q)
	require.NoError(t, err)
	require.Equal(t, len(samples), n)
	for k, s := range samples {
		assert.Equal(t, s[0], i[k])
		assert.Equal(t, s[1], q[k])
	}
	assert.EqualValues(t, len(samples), src.SamplesRead())

	_, err = src.ReadIQ(context.Background(), i, q)
	assert.ErrorIs(t, err, io.EOF)
}

func TestFileSourceExactBuffer(t *testing.T) {
	samples := [][2]float32{{1, 2}, {3, 4}}
	path := writeCapture(t, samples)

	src, err := OpenFile(path, 1024000)
	require.NoError(t, err)
	defer src.Close()

	i := make([]float32, 2)
	q := make([]float32, 2)
	n, err := src.ReadIQ(context.Background(), i, q)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = src.ReadIQ(context.Background(), i, q)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpenFileValidation(t *testing.T) {
	_, err := OpenFile("missing.iq", 0)
	assert.Error(t, err)

	_, err = OpenFile(filepath.Join(t.TempDir(), "nope.iq"), 48000)
	assert.Error(t, err)
}
